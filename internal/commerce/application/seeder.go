package application

import (
	"context"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"emporium/internal/commerce/infrastructure"
	"emporium/internal/pkg/metrics"
)

var tracer = otel.Tracer("emporium/application")

// SeedResult reports how many records each stage inserted.
type SeedResult struct {
	Users          int
	Products       int
	Profiles       int
	Sessions       int
	Inventories    int
	Reviews        int
	Orders         int
	OrderItems     int
	HistoryEntries int
}

func (r SeedResult) Total() int {
	return r.Users + r.Products + r.Profiles + r.Sessions + r.Inventories +
		r.Reviews + r.Orders + r.OrderItems + r.HistoryEntries
}

// Seeder bulk-inserts a coherent synthetic dataset in strict dependency
// order: parents are persisted before the children that reference their
// identifiers. Each stage is its own SaveChanges call, so progress is
// observable and a failure at stage k leaves stages 1..k-1 durably committed.
// A caller that wants all-or-nothing instead wraps Seed in an explicit
// transaction on the same unit of work.
type Seeder struct {
	uow    *infrastructure.UnitOfWork
	source DataSource
	logger zerolog.Logger
}

func NewSeeder(uow *infrastructure.UnitOfWork, source DataSource) *Seeder {
	return &Seeder{
		uow:    uow,
		source: source,
		logger: zlog.With().Str("component", "seeder").Logger(),
	}
}

// Seed runs the nine stages with n users, n products and n orders.
func (s *Seeder) Seed(ctx context.Context, n int) (*SeedResult, error) {
	ctx, span := tracer.Start(ctx, "Seeder.Seed")
	defer span.End()
	span.SetAttributes(attribute.Int("seed.count", n))

	s.logger.Info().Int("count", n).Msg("starting data seeding")
	res := &SeedResult{}

	users := s.source.Users(n)
	if err := stage(ctx, s, "users", &res.Users, users, s.uow.Users().AddRange); err != nil {
		return res, err
	}

	products := s.source.Products(n)
	if err := stage(ctx, s, "products", &res.Products, products, s.uow.Products().AddRange); err != nil {
		return res, err
	}

	if err := stage(ctx, s, "user_profiles", &res.Profiles, s.source.Profiles(users), s.uow.UserProfiles().AddRange); err != nil {
		return res, err
	}

	if err := stage(ctx, s, "user_sessions", &res.Sessions, s.source.Sessions(users), s.uow.UserSessions().AddRange); err != nil {
		return res, err
	}

	if err := stage(ctx, s, "product_inventory", &res.Inventories, s.source.Inventories(products), s.uow.ProductInventories().AddRange); err != nil {
		return res, err
	}

	if err := stage(ctx, s, "product_reviews", &res.Reviews, s.source.Reviews(products, users), s.uow.ProductReviews().AddRange); err != nil {
		return res, err
	}

	orders := s.source.Orders(users, n)
	if err := stage(ctx, s, "orders", &res.Orders, orders, s.uow.Orders().AddRange); err != nil {
		return res, err
	}

	if err := stage(ctx, s, "order_items", &res.OrderItems, s.source.OrderItems(orders, products), s.uow.OrderItems().AddRange); err != nil {
		return res, err
	}

	if err := stage(ctx, s, "order_status_history", &res.HistoryEntries, s.source.StatusHistories(orders, users), s.uow.OrderStatusHistories().AddRange); err != nil {
		return res, err
	}

	s.logger.Info().Int("total", res.Total()).Msg("data seeding completed")
	return res, nil
}

// stage persists one batch and saves it as its own unit.
func stage[T any](ctx context.Context, s *Seeder, name string, counter *int, rows []*T, add func([]*T) error) error {
	ctx, span := tracer.Start(ctx, "Seeder.stage."+name)
	defer span.End()

	if err := add(rows); err != nil {
		span.RecordError(err)
		return err
	}
	if _, err := s.uow.SaveChanges(ctx); err != nil {
		span.RecordError(err)
		s.logger.Error().Err(err).Str("stage", name).Msg("seed stage failed")
		return err
	}
	*counter = len(rows)
	metrics.RecordsSeeded.WithLabelValues(name).Add(float64(len(rows)))
	s.logger.Info().Str("stage", name).Int("records", len(rows)).Msg("seed stage committed")
	return nil
}
