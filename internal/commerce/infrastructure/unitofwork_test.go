package infrastructure

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"emporium/internal/commerce/domain"
)

func TestRepositoriesAreMemoized(t *testing.T) {
	uow := NewUnitOfWork(testDB(t))

	assert.Same(t, uow.Users(), uow.Users())
	assert.Same(t, uow.Orders(), uow.Orders())
	assert.Same(t, uow.ProductInventories(), uow.ProductInventories())
}

func TestDuplicateKeyRollsBackWholeBatch(t *testing.T) {
	uow := NewUnitOfWork(testDB(t))
	ctx := context.Background()

	first := testUser("dup")
	second := testUser("other")
	second.Username = first.Username // violates the unique index
	require.NoError(t, uow.Users().AddRange([]*domain.User{first, second}))

	_, err := uow.SaveChanges(ctx)
	require.Error(t, err)

	var perr *domain.PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, domain.ConstraintDuplicateKey, perr.Kind)

	n, err := uow.Users().Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n, "a failed save applies nothing")
}

func TestFailedSaveKeepsStagedChanges(t *testing.T) {
	uow := NewUnitOfWork(testDB(t))
	ctx := context.Background()

	u := testUser("retry")
	clash := testUser("clash")
	clash.Username = u.Username
	require.NoError(t, uow.Users().AddRange([]*domain.User{u, clash}))
	_, err := uow.SaveChanges(ctx)
	require.Error(t, err)
	assert.Equal(t, 2, uow.Users().pendingCount(), "staging survives a failed save for inspection")
}

func TestExplicitTransactionCommit(t *testing.T) {
	db := testDB(t)
	uow := NewUnitOfWork(db)
	ctx := context.Background()

	require.NoError(t, uow.BeginTransaction())
	require.NoError(t, uow.Users().Add(testUser("committed")))
	require.NoError(t, uow.CommitTransaction(ctx))

	other := NewUnitOfWork(db)
	n, err := other.Users().Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestRollbackDiscardsSavedChanges(t *testing.T) {
	uow := NewUnitOfWork(testDB(t))
	ctx := context.Background()

	require.NoError(t, uow.BeginTransaction())
	u := testUser("doomed")
	require.NoError(t, uow.Users().Add(u))
	_, err := uow.SaveChanges(ctx)
	require.NoError(t, err)

	// visible inside the transaction
	got, err := uow.Users().GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, got)

	require.NoError(t, uow.RollbackTransaction())

	got, err = uow.Users().GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRollbackWithoutTransactionIsNoop(t *testing.T) {
	uow := NewUnitOfWork(testDB(t))
	require.NoError(t, uow.RollbackTransaction())
	require.NoError(t, uow.RollbackTransaction())
}

func TestBeginTwiceFails(t *testing.T) {
	uow := NewUnitOfWork(testDB(t))
	require.NoError(t, uow.BeginTransaction())
	assert.ErrorIs(t, uow.BeginTransaction(), ErrTransactionOpen)
	require.NoError(t, uow.RollbackTransaction())
}

func TestCloseRollsBackOpenTransaction(t *testing.T) {
	db := testDB(t)
	uow := NewUnitOfWork(db)
	ctx := context.Background()

	require.NoError(t, uow.BeginTransaction())
	require.NoError(t, uow.Users().Add(testUser("closed")))
	_, err := uow.SaveChanges(ctx)
	require.NoError(t, err)
	require.NoError(t, uow.Close())

	n, err := NewUnitOfWork(db).Users().Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCommitWithoutTransactionSavesDirectly(t *testing.T) {
	uow := NewUnitOfWork(testDB(t))
	ctx := context.Background()

	require.NoError(t, uow.Users().Add(testUser("direct")))
	require.NoError(t, uow.CommitTransaction(ctx))

	n, err := uow.Users().Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestCommitFailureRollsBackAndClosesTransaction(t *testing.T) {
	db := testDB(t)
	uow := NewUnitOfWork(db)
	ctx := context.Background()

	require.NoError(t, uow.BeginTransaction())
	first := testUser("atomic")
	clash := testUser("other")
	clash.Username = first.Username
	require.NoError(t, uow.Users().AddRange([]*domain.User{first, clash}))

	err := uow.CommitTransaction(ctx)
	require.Error(t, err)

	var perr *domain.PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, domain.ConstraintDuplicateKey, perr.Kind)

	// no transaction left open; a fresh explicit transaction starts cleanly
	require.NoError(t, uow.BeginTransaction())
	require.NoError(t, uow.RollbackTransaction())

	n, err := NewUnitOfWork(db).Users().Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n, "nothing from the failed batch is visible")
}

func TestFailedSaveInsideTransactionAppliesNothing(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	setup := NewUnitOfWork(db)
	taken := testProduct("taken")
	require.NoError(t, setup.Products().Add(taken))
	_, err := setup.SaveChanges(ctx)
	require.NoError(t, err)

	uow := NewUnitOfWork(db)
	require.NoError(t, uow.BeginTransaction())
	require.NoError(t, uow.Users().Add(testUser("bystander")))
	dup := testProduct("later")
	dup.SKU = taken.SKU // fails after the user repository already flushed
	require.NoError(t, uow.Products().Add(dup))

	_, err = uow.SaveChanges(ctx)
	require.Error(t, err)

	var perr *domain.PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, domain.ConstraintDuplicateKey, perr.Kind)

	// nothing of the failed call is visible inside the still-open transaction
	n, err := uow.Users().Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	// committing retries the retained staging, fails again and rolls back
	require.Error(t, uow.CommitTransaction(ctx))

	after := NewUnitOfWork(db)
	users, err := after.Users().Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, users)
	products, err := after.Products().Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, products)
}

func TestAuditTimestampsMaintained(t *testing.T) {
	uow := NewUnitOfWork(testDB(t))
	ctx := context.Background()

	u := testUser("audited")
	require.NoError(t, uow.Users().Add(u))
	_, err := uow.SaveChanges(ctx)
	require.NoError(t, err)

	created, err := uow.Users().GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.False(t, created.CreatedAt.IsZero())
	assert.GreaterOrEqual(t, created.UpdatedAt.UnixNano(), created.CreatedAt.UnixNano())

	created.Balance = 99
	require.NoError(t, uow.Users().Update(created))
	_, err = uow.SaveChanges(ctx)
	require.NoError(t, err)

	updated, err := uow.Users().GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.GreaterOrEqual(t, updated.UpdatedAt.UnixNano(), updated.CreatedAt.UnixNano())
}

func TestConcurrentUnitsOfWork(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	var g errgroup.Group
	for i := 0; i < 8; i++ {
		i := i
		g.Go(func() error {
			uow := NewUnitOfWork(db)
			defer uow.Close()
			if err := uow.Users().Add(testUser(fmt.Sprintf("concurrent%d", i))); err != nil {
				return err
			}
			_, err := uow.SaveChanges(ctx)
			return err
		})
	}
	require.NoError(t, g.Wait())

	n, err := NewUnitOfWork(db).Users().Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 8, n)
}
