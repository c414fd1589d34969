package application

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"emporium/internal/commerce/infrastructure"
	"emporium/internal/pkg/config"
)

// bareDB opens a store without migrating, for tests that exercise schema
// creation itself.
func bareDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", t.Name())
	db, err := infrastructure.Open(config.Database{Engine: "sqlite", SQLiteDSN: dsn})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func TestEnsureCreatedReportsCreation(t *testing.T) {
	mgr := NewLifecycleManager(bareDB(t), NewFakeDataSource(21))
	ctx := context.Background()

	created, err := mgr.EnsureCreated(ctx)
	require.NoError(t, err)
	assert.True(t, created, "first call builds the schema")
	assert.Equal(t, StateProvisioned, mgr.State())

	created, err = mgr.EnsureCreated(ctx)
	require.NoError(t, err)
	assert.False(t, created, "second call finds it in place")
}

func TestIsAccessible(t *testing.T) {
	db := bareDB(t)
	mgr := NewLifecycleManager(db, NewFakeDataSource(22))
	ctx := context.Background()

	assert.True(t, mgr.IsAccessible(ctx))
	assert.Equal(t, StateAccessible, mgr.State())

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	assert.False(t, mgr.IsAccessible(ctx))
	assert.Equal(t, StateInaccessible, mgr.State())
}

func TestSeedIfNeededSkipsPopulatedStore(t *testing.T) {
	db := testDB(t)
	mgr := NewLifecycleManager(db, NewFakeDataSource(23))
	ctx := context.Background()

	res, err := mgr.SeedIfNeeded(ctx, false, 4)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, StateSeeded, mgr.State())

	res, err = mgr.SeedIfNeeded(ctx, false, 4)
	require.NoError(t, err)
	assert.Nil(t, res, "populated store is not reseeded")
	assert.Equal(t, StateSkippedSeeding, mgr.State())

	stats := mgr.Statistics(ctx)
	assert.EqualValues(t, 4, stats.Users)
}

func TestForceSeedRunsAgain(t *testing.T) {
	db := testDB(t)
	mgr := NewLifecycleManager(db, NewFakeDataSource(24))
	ctx := context.Background()

	first, err := mgr.SeedIfNeeded(ctx, false, 3)
	require.NoError(t, err)
	require.NotNil(t, first)

	second, err := mgr.SeedIfNeeded(ctx, true, 3)
	require.NoError(t, err)
	require.NotNil(t, second, "force bypasses the existing-data gate")

	stats := mgr.Statistics(ctx)
	assert.EqualValues(t, 6, stats.Users)
	assert.EqualValues(t, 6, stats.Products)
	assert.EqualValues(t, 6, stats.Orders)
}

func TestHasExistingData(t *testing.T) {
	db := testDB(t)
	mgr := NewLifecycleManager(db, NewFakeDataSource(25))
	ctx := context.Background()

	has, err := mgr.HasExistingData(ctx)
	require.NoError(t, err)
	assert.False(t, has)

	_, err = mgr.SeedIfNeeded(ctx, false, 2)
	require.NoError(t, err)

	has, err = mgr.HasExistingData(ctx)
	require.NoError(t, err)
	assert.True(t, has)
}

func TestStatisticsSnapshot(t *testing.T) {
	db := testDB(t)
	mgr := NewLifecycleManager(db, NewFakeDataSource(26))
	ctx := context.Background()

	stats := mgr.Statistics(ctx)
	assert.True(t, stats.Accessible)
	assert.False(t, stats.HasData)
	assert.Zero(t, stats.Total)

	res, err := mgr.SeedIfNeeded(ctx, false, 3)
	require.NoError(t, err)
	require.NotNil(t, res)

	stats = mgr.Statistics(ctx)
	assert.True(t, stats.HasData)
	assert.EqualValues(t, res.Total(), stats.Total)
}

func TestStatisticsInaccessibleStore(t *testing.T) {
	db := bareDB(t)
	mgr := NewLifecycleManager(db, NewFakeDataSource(27))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	stats := mgr.Statistics(context.Background())
	assert.False(t, stats.Accessible)
	assert.Zero(t, stats.Total)
	assert.False(t, stats.HasData)
}
