// Package db provides database connection infrastructure.
// This is part of the platform layer and contains no business logic.
package db

import (
	"context"
	"database/sql"
	"fmt"

	"leadscore_backend/migrations"
	"leadscore_backend/platform/config"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// Migrate applies all pending embedded migrations for driver to sqlDB and
// returns how many were applied.
func Migrate(ctx context.Context, sqlDB *sql.DB, driver string) (int, error) {
	var dialect goose.Dialect
	switch driver {
	case config.DriverPostgres:
		dialect = goose.DialectPostgres
	case config.DriverSQLite:
		dialect = goose.DialectSQLite3
	default:
		return 0, fmt.Errorf("no migrations for driver %q", driver)
	}

	fsys, err := migrations.For(driver)
	if err != nil {
		return 0, err
	}

	provider, err := goose.NewProvider(dialect, sqlDB, fsys)
	if err != nil {
		return 0, fmt.Errorf("create migration provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return 0, fmt.Errorf("apply migrations: %w", err)
	}
	return len(results), nil
}

// RunMigrations opens a short-lived database/sql handle on the Postgres URL
// (goose needs database/sql, the pool is pgx-native) and applies pending migrations.
func RunMigrations(ctx context.Context, cfg config.DatabaseConfig) (int, error) {
	if !cfg.GetMigrationsEnabled() {
		return 0, nil
	}

	sqlDB, err := sql.Open("pgx", cfg.GetDatabaseURL())
	if err != nil {
		return 0, err
	}
	defer sqlDB.Close()

	return Migrate(ctx, sqlDB, config.DriverPostgres)
}
