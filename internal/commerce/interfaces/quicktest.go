package interfaces

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	zlog "github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"emporium/internal/commerce/application"
	"emporium/internal/commerce/domain"
	"emporium/internal/commerce/infrastructure"
)

// QuickTest drives one automated pass through the whole stack: schema
// provisioning, a small seed, repository reads, a staged write, an explicit
// transaction with rollback, and a statistics read. It stops at the first
// failure.
func QuickTest(ctx context.Context, db *gorm.DB, manager *application.LifecycleManager) error {
	logger := zlog.With().Str("mode", "quicktest").Logger()

	if !manager.IsAccessible(ctx) {
		return errors.New("database is not accessible")
	}
	ok.Println("[1/6] connectivity")

	if _, err := manager.EnsureCreated(ctx); err != nil {
		return errors.Wrap(err, "ensure created")
	}
	ok.Println("[2/6] schema")

	res, err := manager.SeedIfNeeded(ctx, false, 10)
	if err != nil {
		return errors.Wrap(err, "seed")
	}
	if res != nil {
		logger.Info().Int("records", res.Total()).Msg("seeded sample data")
	}
	ok.Println("[3/6] seed")

	uow := infrastructure.NewUnitOfWork(db)
	defer uow.Close()

	users, err := uow.Users().GetAll(ctx)
	if err != nil {
		return errors.Wrap(err, "read users")
	}
	if len(users) == 0 {
		return errors.New("no users after seeding")
	}
	ok.Printf("[4/6] reads (%d users)\n", len(users))

	probe := &domain.User{
		Username: "quicktest." + uuid.NewString()[:8],
		Email:    uuid.NewString()[:8] + "@quicktest.local",
		Status:   domain.UserStatusActive,
		Role:     domain.UserRoleUser,
	}
	if err := uow.Users().Add(probe); err != nil {
		return err
	}
	if _, err := uow.SaveChanges(ctx); err != nil {
		return errors.Wrap(err, "staged insert")
	}
	saved, err := uow.Users().GetByID(ctx, probe.ID)
	if err != nil || saved == nil {
		return errors.New("inserted user not readable back")
	}
	ok.Println("[5/6] staged insert")

	if err := uow.BeginTransaction(); err != nil {
		return errors.Wrap(err, "begin")
	}
	doomed := &domain.User{
		Username: "quicktest.rollback." + uuid.NewString()[:8],
		Email:    uuid.NewString()[:8] + "@rollback.local",
		Status:   domain.UserStatusActive,
		Role:     domain.UserRoleUser,
	}
	if err := uow.Users().Add(doomed); err != nil {
		return err
	}
	if _, err := uow.SaveChanges(ctx); err != nil {
		return errors.Wrap(err, "save inside transaction")
	}
	if err := uow.RollbackTransaction(); err != nil {
		return errors.Wrap(err, "rollback")
	}
	gone, err := uow.Users().GetByID(ctx, doomed.ID)
	if err != nil {
		return err
	}
	if gone != nil {
		return errors.New("rolled back user still visible")
	}
	ok.Println("[6/6] transaction rollback")

	stats := manager.Statistics(ctx)
	fmt.Printf("store holds %d records across %d users, %d products, %d orders\n",
		stats.Total, stats.Users, stats.Products, stats.Orders)
	heading.Println("quicktest passed")
	return nil
}
