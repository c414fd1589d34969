package application

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"gorm.io/gorm"

	"emporium/internal/commerce/domain"
	"emporium/internal/commerce/infrastructure"
)

// State tracks how far the lifecycle manager has taken the store.
type State string

const (
	StateUnknown        State = "unknown"
	StateAccessible     State = "checked_accessible"
	StateInaccessible   State = "checked_inaccessible"
	StateProvisioned    State = "provisioned"
	StateSeeded         State = "seeded"
	StateSkippedSeeding State = "skipped_seeding"
)

// allModels lists every entity in dependency order; parents first so foreign
// keys can be created as the schema builds up.
var allModels = []interface{}{
	&domain.User{},
	&domain.Product{},
	&domain.UserProfile{},
	&domain.UserSession{},
	&domain.ProductInventory{},
	&domain.ProductReview{},
	&domain.Order{},
	&domain.OrderItem{},
	&domain.OrderStatusHistory{},
}

// Statistics is an advisory snapshot. On query failure fields stay at their
// zero values rather than the whole call failing; nothing load-bearing reads
// these numbers.
type Statistics struct {
	Accessible     bool
	Users          int64
	Profiles       int64
	Sessions       int64
	Products       int64
	Reviews        int64
	Inventories    int64
	Orders         int64
	OrderItems     int64
	HistoryEntries int64
	Total          int64
	HasData        bool
}

// LifecycleManager runs the pre-flight checks that gate seeding and scripts:
// connectivity, schema existence, existing data.
type LifecycleManager struct {
	db     *gorm.DB
	source DataSource
	logger zerolog.Logger
	state  State
}

func NewLifecycleManager(db *gorm.DB, source DataSource) *LifecycleManager {
	return &LifecycleManager{
		db:     db,
		source: source,
		logger: zlog.With().Str("component", "lifecycle").Logger(),
		state:  StateUnknown,
	}
}

func (m *LifecycleManager) State() State { return m.state }

// IsAccessible probes connectivity. It never returns an error; failures are
// logged and reported as false.
func (m *LifecycleManager) IsAccessible(ctx context.Context) bool {
	sqlDB, err := m.db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		m.logger.Error().Err(err).Msg("database is not accessible")
		m.state = StateInaccessible
		return false
	}
	m.logger.Info().Msg("database is accessible")
	m.state = StateAccessible
	return true
}

// HasExistingData reports whether any of the primary tables hold rows. Child
// tables are ignored deliberately: they can only be non-empty when a primary
// table is.
func (m *LifecycleManager) HasExistingData(ctx context.Context) (bool, error) {
	counts := make([]int64, 3)
	for i, model := range []interface{}{&domain.User{}, &domain.Product{}, &domain.Order{}} {
		if err := m.db.WithContext(ctx).Model(model).Count(&counts[i]).Error; err != nil {
			return false, errors.Wrap(err, "count existing data")
		}
	}
	has := lo.Sum(counts) > 0
	m.logger.Info().
		Int64("users", counts[0]).Int64("products", counts[1]).Int64("orders", counts[2]).
		Bool("has_data", has).Msg("checked for existing data")
	return has, nil
}

// EnsureCreated builds the schema when it is absent and reports whether
// creation occurred. Safe to call repeatedly.
func (m *LifecycleManager) EnsureCreated(ctx context.Context) (bool, error) {
	created := !m.db.WithContext(ctx).Migrator().HasTable(&domain.User{})
	if err := m.db.WithContext(ctx).AutoMigrate(allModels...); err != nil {
		return false, errors.Wrap(err, "create schema")
	}
	m.state = StateProvisioned
	if created {
		m.logger.Info().Msg("schema created")
	} else {
		m.logger.Info().Msg("schema already exists")
	}
	return created, nil
}

// ApplyPendingChanges reconciles the live schema with the model; a no-op when
// nothing is outstanding.
func (m *LifecycleManager) ApplyPendingChanges(ctx context.Context) error {
	if err := m.db.WithContext(ctx).AutoMigrate(allModels...); err != nil {
		return errors.Wrap(err, "apply migrations")
	}
	m.state = StateProvisioned
	m.logger.Info().Msg("schema is up to date")
	return nil
}

// SeedIfNeeded seeds count records per primary entity. With force it always
// runs, accepting that this duplicates data on a populated store; without
// force it runs only when the store is confirmed empty, so repeated calls
// cannot grow the store unboundedly.
func (m *LifecycleManager) SeedIfNeeded(ctx context.Context, force bool, count int) (*SeedResult, error) {
	if !force {
		has, err := m.HasExistingData(ctx)
		if err != nil {
			return nil, err
		}
		if has {
			m.state = StateSkippedSeeding
			m.logger.Info().Msg("store already has data, skipping seeding")
			return nil, nil
		}
	}

	seeder := NewSeeder(infrastructure.NewUnitOfWork(m.db), m.source)
	res, err := seeder.Seed(ctx, count)
	if err != nil {
		return res, err
	}
	m.state = StateSeeded
	return res, nil
}

// Statistics gathers per-entity counts. Best effort: a failing count leaves
// its field at zero and the rest of the snapshot still comes back.
func (m *LifecycleManager) Statistics(ctx context.Context) Statistics {
	stats := Statistics{Accessible: m.IsAccessible(ctx)}
	if !stats.Accessible {
		return stats
	}

	count := func(model interface{}, dst *int64) {
		if err := m.db.WithContext(ctx).Model(model).Count(dst).Error; err != nil {
			m.logger.Warn().Err(err).Msgf("count failed for %T", model)
			*dst = 0
		}
	}
	count(&domain.User{}, &stats.Users)
	count(&domain.UserProfile{}, &stats.Profiles)
	count(&domain.UserSession{}, &stats.Sessions)
	count(&domain.Product{}, &stats.Products)
	count(&domain.ProductReview{}, &stats.Reviews)
	count(&domain.ProductInventory{}, &stats.Inventories)
	count(&domain.Order{}, &stats.Orders)
	count(&domain.OrderItem{}, &stats.OrderItems)
	count(&domain.OrderStatusHistory{}, &stats.HistoryEntries)

	stats.Total = lo.Sum([]int64{
		stats.Users, stats.Profiles, stats.Sessions, stats.Products, stats.Reviews,
		stats.Inventories, stats.Orders, stats.OrderItems, stats.HistoryEntries,
	})
	stats.HasData = stats.Users+stats.Products+stats.Orders > 0
	return stats
}
