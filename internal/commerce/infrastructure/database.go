package infrastructure

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"emporium/internal/pkg/config"
)

// Open connects to the engine selected in the configuration. Constraint errors
// are translated so the unit of work can classify them uniformly across
// engines.
func Open(cfg config.Database) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Engine {
	case "mysql":
		dialector = mysql.Open(cfg.MySQLDSN)
	case "postgres":
		dialector = postgres.Open(cfg.PostgresDSN)
	case "sqlite":
		dialector = sqlite.Open(cfg.SQLiteDSN)
	default:
		return nil, errors.Errorf("unsupported database engine %q", cfg.Engine)
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         newGormLogger(zlog.Logger),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", cfg.Engine)
	}
	return db, nil
}

// gormZerolog routes the ORM's internal logging through zerolog.
type gormZerolog struct {
	logger        zerolog.Logger
	slowThreshold time.Duration
}

func newGormLogger(logger zerolog.Logger) gormlogger.Interface {
	return &gormZerolog{logger: logger.With().Str("component", "gorm").Logger(), slowThreshold: 200 * time.Millisecond}
}

func (l *gormZerolog) LogMode(gormlogger.LogLevel) gormlogger.Interface { return l }

func (l *gormZerolog) Info(_ context.Context, msg string, args ...interface{}) {
	l.logger.Info().Msg(fmt.Sprintf(msg, args...))
}

func (l *gormZerolog) Warn(_ context.Context, msg string, args ...interface{}) {
	l.logger.Warn().Msg(fmt.Sprintf(msg, args...))
}

func (l *gormZerolog) Error(_ context.Context, msg string, args ...interface{}) {
	l.logger.Error().Msg(fmt.Sprintf(msg, args...))
}

func (l *gormZerolog) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	elapsed := time.Since(begin)
	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		sql, rows := fc()
		l.logger.Debug().Err(err).Dur("elapsed", elapsed).Int64("rows", rows).Str("sql", sql).Msg("query failed")
	case elapsed > l.slowThreshold:
		sql, rows := fc()
		l.logger.Warn().Dur("elapsed", elapsed).Int64("rows", rows).Str("sql", sql).Msg("slow query")
	}
}
