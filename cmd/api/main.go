package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"leadscore_backend/internal/artifacts"
	apphttp "leadscore_backend/internal/http"
	"leadscore_backend/internal/http/router"
	"leadscore_backend/internal/leads"
	"leadscore_backend/internal/leads/cache"
	"leadscore_backend/internal/leads/repository"
	"leadscore_backend/platform/config"
	"leadscore_backend/platform/db"
	"leadscore_backend/platform/logger"
	"leadscore_backend/platform/metrics"
	"leadscore_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr, "databaseDriver", cfg.DatabaseDriver)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	store, health, closeStore := openStore(ctx, cfg, log)
	defer closeStore()

	var fetcher artifacts.ObjectFetcher
	if cfg.IsMinIOEnabled() {
		minioFetcher, err := artifacts.NewMinIOFetcher(cfg)
		if err != nil {
			log.Error("failed to initialize object storage", "error", err)
			panic("failed to initialize object storage: " + err.Error())
		}
		fetcher = minioFetcher
	}

	var loaded *artifacts.Artifacts
	if err := withRetry(ctx, log, "load artifacts", 3, 2*time.Second, func() error {
		a, err := artifacts.NewLoader(fetcher, log).Load(ctx, cfg)
		if err != nil {
			return err
		}
		loaded = a
		return nil
	}); err != nil {
		log.Error("failed to load model artifacts", "error", err)
		panic("failed to load model artifacts: " + err.Error())
	}

	// Shared validator instance for dependency injection
	val := validator.New()
	metricsManager := metrics.NewManager()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	leadsModule := leads.NewModule(store, loaded.Encoder, loaded.Engine, val, log)
	leadsModule.Service().SetMetrics(metricsManager)

	if knownLeads, closeCache := initKnownLeadCache(ctx, cfg, log); knownLeads != nil {
		defer closeCache()
		leadsModule.Service().SetCache(knownLeads)
	}

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:  cfg,
		Logger:  log,
		Health:  health,
		Metrics: metricsManager,
		Modules: []apphttp.Module{
			leadsModule,
		},
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.New(app),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("graceful shutdown failed", "error", err)
		}
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

// openStore connects to the configured database, applies migrations and
// returns the lead store with its health checker.
func openStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (repository.LeadStore, apphttp.HealthChecker, func()) {
	if cfg.DatabaseDriver == config.DriverSQLite {
		sqlDB, err := db.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			log.Error("failed to open sqlite database", "error", err, "path", cfg.SQLitePath)
			panic("failed to open sqlite database: " + err.Error())
		}
		if cfg.MigrationsEnabled {
			applied, err := db.Migrate(ctx, sqlDB, config.DriverSQLite)
			if err != nil {
				log.Error("failed to run database migrations", "error", err)
				panic("failed to run database migrations: " + err.Error())
			}
			log.Info("database migrations complete", "applied", applied)
		}
		log.Info("sqlite database opened", "path", cfg.SQLitePath)
		return repository.NewSQLite(sqlDB), db.NewSQLAdapter(sqlDB), func() { _ = sqlDB.Close() }
	}

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		applied, err := db.RunMigrations(ctx, cfg)
		if err != nil {
			return err
		}
		log.Info("database migrations complete", "applied", applied)
		return nil
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	log.Info("database connection established")

	return repository.New(pool), db.NewPoolAdapter(pool), pool.Close
}

func initKnownLeadCache(ctx context.Context, cfg config.CacheConfig, log *logger.Logger) (*cache.KnownLeads, func()) {
	if !cfg.IsCacheEnabled() {
		log.Warn("REDIS_URL not configured; known-lead cache disabled")
		return nil, nil
	}

	client, err := cache.NewClient(cfg.GetRedisURL())
	if err != nil {
		log.Error("failed to initialize known-lead cache", "error", err)
		return nil, nil
	}

	knownLeads := cache.New(client, cfg.GetKnownLeadCacheTTL())
	if err := knownLeads.Ping(ctx); err != nil {
		log.Warn("known-lead cache unreachable; lookups will fall back to the database", "error", err)
	}

	return knownLeads, func() {
		_ = knownLeads.Close()
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
