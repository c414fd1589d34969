package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	zlog "github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"emporium/internal/commerce/application"
	"emporium/internal/commerce/infrastructure"
	"emporium/internal/commerce/interfaces"
	"emporium/internal/pkg/config"
	"emporium/internal/pkg/logging"
	"emporium/internal/pkg/metrics"
	"emporium/internal/pkg/tracing"
)

var (
	configPath  string
	metricsAddr string
	forceSeed   bool
)

func main() {
	root := &cobra.Command{
		Use:           "emporium",
		Short:         "Transactional commerce store with seeding and lifecycle tooling",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "path to the yaml configuration")
	root.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address while running")

	setup := &cobra.Command{
		Use:   "setup",
		Short: "Provision the schema, run object scripts and seed per configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStore(cmd.Context(), func(ctx context.Context, cfg *config.Config, db *gorm.DB, mgr *application.LifecycleManager) error {
				return runSetup(ctx, cfg, db, mgr)
			})
		},
	}
	setup.Flags().BoolVar(&forceSeed, "force", false, "reseed even when the store already holds data")

	interactive := &cobra.Command{
		Use:   "interactive",
		Short: "Run the interactive console",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStore(cmd.Context(), func(ctx context.Context, cfg *config.Config, db *gorm.DB, mgr *application.LifecycleManager) error {
				return interfaces.NewConsole(cfg, db, mgr).Run(ctx)
			})
		},
	}

	quicktest := &cobra.Command{
		Use:   "quicktest",
		Short: "Run an automated end to end pass and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStore(cmd.Context(), func(ctx context.Context, _ *config.Config, db *gorm.DB, mgr *application.LifecycleManager) error {
				return interfaces.QuickTest(ctx, db, mgr)
			})
		},
	}

	root.AddCommand(setup, interactive, quicktest)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// withStore loads configuration, wires logging, tracing and the database, and
// tears everything down after fn returns.
func withStore(ctx context.Context, fn func(context.Context, *config.Config, *gorm.DB, *application.LifecycleManager) error) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logging.Setup("emporium", cfg.Log.Level)

	tp, err := tracing.InitTracerProvider("emporium", cfg.Jaeger.Endpoint)
	if err != nil {
		zlog.Warn().Err(err).Msg("tracing disabled")
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()
			_ = tp.Shutdown(shutdownCtx)
		}()
	}

	if metricsAddr != "" {
		go serveMetrics(metricsAddr)
	}

	db, err := infrastructure.Open(cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}()

	mgr := application.NewLifecycleManager(db, application.NewFakeDataSource(uint64(time.Now().UnixNano())))
	return fn(ctx, cfg, db, mgr)
}

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	zlog.Info().Str("addr", addr).Msg("serving metrics")
	if err := http.ListenAndServe(addr, mux); err != nil {
		zlog.Error().Err(err).Msg("metrics server stopped")
	}
}

// runSetup walks the provisioning pipeline honoring the configuration toggles.
func runSetup(ctx context.Context, cfg *config.Config, db *gorm.DB, mgr *application.LifecycleManager) error {
	if !mgr.IsAccessible(ctx) {
		return fmt.Errorf("database (%s) is not accessible", cfg.Database.Engine)
	}

	if cfg.Database.AutoCreate {
		created, err := mgr.EnsureCreated(ctx)
		if err != nil {
			return err
		}
		zlog.Info().Bool("created", created).Msg("schema ensured")
	}

	if cfg.Database.AutoMigrate {
		if err := mgr.ApplyPendingChanges(ctx); err != nil {
			return err
		}
	}

	if cfg.Database.AutoExecuteScripts {
		runner := infrastructure.NewScriptRunner(db)
		needed, err := runner.ShouldExecuteScripts(ctx)
		if err != nil {
			return err
		}
		if needed {
			dir := cfg.Database.ScriptsDir + "/" + cfg.Database.Engine
			if err := runner.ExecuteScripts(ctx, dir); err != nil {
				return err
			}
		} else {
			zlog.Info().Msg("database objects already present, skipping scripts")
		}
	}

	if cfg.Database.AutoSeed || forceSeed {
		res, err := mgr.SeedIfNeeded(ctx, forceSeed, cfg.Database.SeedCount)
		if err != nil {
			return err
		}
		if res == nil {
			zlog.Info().Msg("store already has data, seeding skipped")
		} else {
			zlog.Info().Int("records", res.Total()).Msg("seeding finished")
		}
	}

	stats := mgr.Statistics(ctx)
	zlog.Info().
		Int64("users", stats.Users).
		Int64("products", stats.Products).
		Int64("orders", stats.Orders).
		Int64("total", stats.Total).
		Msg("setup complete")
	return nil
}
