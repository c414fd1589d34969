package infrastructure

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"emporium/internal/commerce/domain"
	"emporium/internal/pkg/config"
)

// testDB opens a per-test in-memory sqlite store with foreign keys enforced
// and the full schema migrated. The database name is derived from the test
// name so parallel tests never share state.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on&_busy_timeout=10000", name)
	db, err := Open(config.Database{Engine: "sqlite", SQLiteDSN: dsn})
	require.NoError(t, err)

	// sqlite allows a single writer; serializing the pool keeps concurrent
	// test workloads deterministic
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&domain.User{},
		&domain.UserProfile{},
		&domain.UserSession{},
		&domain.Product{},
		&domain.ProductReview{},
		&domain.ProductInventory{},
		&domain.Order{},
		&domain.OrderItem{},
		&domain.OrderStatusHistory{},
	))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func testUser(suffix string) *domain.User {
	return &domain.User{
		Username: "user." + suffix,
		Email:    suffix + "@example.com",
		Status:   domain.UserStatusActive,
		Role:     domain.UserRoleUser,
	}
}

func testProduct(suffix string) *domain.Product {
	return &domain.Product{
		Name:   "Product " + suffix,
		SKU:    "SKU-" + suffix,
		Price:  49.90,
		Status: domain.ProductStatusActive,
		Type:   domain.ProductTypePhysical,
	}
}
