package infrastructure

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"gorm.io/gorm"

	"emporium/internal/commerce/domain"
	"emporium/internal/pkg/metrics"
	"emporium/internal/pkg/tracing"
)

var tracer = otel.Tracer("emporium/persistence")

var ErrTransactionOpen = errors.New("transaction already open")

// flusher is the type-erased view of a staged repository.
type flusher interface {
	pendingCount() int
	flush(ctx context.Context, tx *gorm.DB) (int64, error)
	clear()
}

// UnitOfWork is the single transaction boundary spanning all repositories it
// hands out. Each entity type gets exactly one repository instance per unit,
// built on first access, so staged changes never diverge across duplicate
// staging areas. A unit of work is not safe for concurrent use; run one per
// goroutine against the shared handle instead.
type UnitOfWork struct {
	db     *gorm.DB
	tx     *gorm.DB
	logger zerolog.Logger

	// repos lists staged repositories in first-access order, which is the
	// order they flush in.
	repos []flusher

	users       *Repository[domain.User]
	profiles    *Repository[domain.UserProfile]
	sessions    *Repository[domain.UserSession]
	products    *Repository[domain.Product]
	reviews     *Repository[domain.ProductReview]
	inventories *Repository[domain.ProductInventory]
	orders      *Repository[domain.Order]
	orderItems  *Repository[domain.OrderItem]
	history     *Repository[domain.OrderStatusHistory]
}

func NewUnitOfWork(db *gorm.DB) *UnitOfWork {
	return &UnitOfWork{
		db:     db,
		logger: zlog.With().Str("component", "unit_of_work").Logger(),
	}
}

func repoOf[T any](u *UnitOfWork, slot **Repository[T]) *Repository[T] {
	if *slot == nil {
		*slot = newRepository[T](u)
		u.repos = append(u.repos, *slot)
	}
	return *slot
}

func (u *UnitOfWork) Users() *Repository[domain.User]           { return repoOf(u, &u.users) }
func (u *UnitOfWork) UserProfiles() *Repository[domain.UserProfile] {
	return repoOf(u, &u.profiles)
}
func (u *UnitOfWork) UserSessions() *Repository[domain.UserSession] {
	return repoOf(u, &u.sessions)
}
func (u *UnitOfWork) Products() *Repository[domain.Product] { return repoOf(u, &u.products) }
func (u *UnitOfWork) ProductReviews() *Repository[domain.ProductReview] {
	return repoOf(u, &u.reviews)
}
func (u *UnitOfWork) ProductInventories() *Repository[domain.ProductInventory] {
	return repoOf(u, &u.inventories)
}
func (u *UnitOfWork) Orders() *Repository[domain.Order]         { return repoOf(u, &u.orders) }
func (u *UnitOfWork) OrderItems() *Repository[domain.OrderItem] { return repoOf(u, &u.orderItems) }
func (u *UnitOfWork) OrderStatusHistories() *Repository[domain.OrderStatusHistory] {
	return repoOf(u, &u.history)
}

// session is the handle reads and flushes go through: the explicit transaction
// when one is open, the shared handle otherwise.
func (u *UnitOfWork) session() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

// BeginTransaction opens an explicit transaction. It is optional; without one,
// every SaveChanges call is its own atomic unit.
func (u *UnitOfWork) BeginTransaction() error {
	if u.tx != nil {
		return ErrTransactionOpen
	}
	tx := u.db.Begin()
	if tx.Error != nil {
		return errors.Wrap(tx.Error, "begin transaction")
	}
	u.tx = tx
	u.logger.Debug().Msg("transaction started")
	return nil
}

// SaveChanges flushes every staged change across all repositories of this
// unit. Without an explicit transaction the flush is wrapped in one; with an
// explicit transaction it runs under a savepoint that is rolled back on
// failure. Either way a constraint violation mid-batch applies nothing, and
// inside an explicit transaction a failed call leaves earlier work of that
// transaction intact. The staging areas are cleared only after every
// repository flushed.
func (u *UnitOfWork) SaveChanges(ctx context.Context) (int64, error) {
	ctx, span := tracer.Start(ctx, "UnitOfWork.SaveChanges")
	defer span.End()

	logger := u.logger
	if tid := tracing.TraceID(span.SpanContext()); tid != "" {
		logger = logger.With().Str("trace_id", tid).Logger()
	}

	start := time.Now()
	var total int64
	flushAll := func(tx *gorm.DB) error {
		for _, r := range u.repos {
			n, err := r.flush(ctx, tx)
			total += n
			if err != nil {
				return err
			}
		}
		return nil
	}

	var err error
	if u.tx != nil {
		const mark = "save_changes"
		if err = u.tx.SavePoint(mark).Error; err == nil {
			if err = flushAll(u.tx); err != nil {
				if rbErr := u.tx.RollbackTo(mark).Error; rbErr != nil {
					logger.Error().Err(rbErr).Msg("rollback to savepoint")
				}
			}
		}
	} else {
		err = u.db.WithContext(ctx).Transaction(flushAll)
	}
	if err != nil {
		perr := domain.ClassifyPersistenceError("SaveChanges", err)
		span.RecordError(perr)
		metrics.ConstraintViolations.WithLabelValues(string(perr.Kind)).Inc()
		logger.Error().Err(perr).Str("kind", string(perr.Kind)).Msg("save failed")
		return 0, perr
	}

	for _, r := range u.repos {
		r.clear()
	}
	metrics.SavesTotal.Inc()
	metrics.SaveDuration.Observe(time.Since(start).Seconds())
	logger.Debug().Int64("affected", total).Msg("changes saved")
	return total, nil
}

// CommitTransaction saves the staged changes and commits the explicit
// transaction. On any failure it rolls back before propagating, so an open
// transaction is never left behind.
func (u *UnitOfWork) CommitTransaction(ctx context.Context) error {
	if _, err := u.SaveChanges(ctx); err != nil {
		if rbErr := u.RollbackTransaction(); rbErr != nil {
			u.logger.Error().Err(rbErr).Msg("rollback after failed save")
		}
		return err
	}
	if u.tx == nil {
		return nil
	}
	if err := u.tx.Commit().Error; err != nil {
		if rbErr := u.RollbackTransaction(); rbErr != nil {
			u.logger.Error().Err(rbErr).Msg("rollback after failed commit")
		}
		return errors.Wrap(err, "commit transaction")
	}
	u.tx = nil
	u.logger.Debug().Msg("transaction committed")
	return nil
}

// RollbackTransaction discards everything since BeginTransaction, including
// any changes staged but not yet saved. Calling it with no open transaction is
// a no-op.
func (u *UnitOfWork) RollbackTransaction() error {
	if u.tx == nil {
		return nil
	}
	err := u.tx.Rollback().Error
	u.tx = nil
	for _, r := range u.repos {
		r.clear()
	}
	if err != nil {
		return errors.Wrap(err, "rollback transaction")
	}
	u.logger.Debug().Msg("transaction rolled back")
	return nil
}

// Close releases the unit of work. An open transaction is rolled back, which
// returns its dedicated connection to the shared pool.
func (u *UnitOfWork) Close() error {
	return u.RollbackTransaction()
}
