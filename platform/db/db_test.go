package db

import (
	"context"
	"path/filepath"
	"testing"

	"leadscore_backend/platform/config"
)

func TestMigrateSQLiteCreatesLeadRecords(t *testing.T) {
	ctx := context.Background()
	sqlDB, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "leads.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer sqlDB.Close()

	applied, err := Migrate(ctx, sqlDB, config.DriverSQLite)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if applied != 1 {
		t.Fatalf("expected 1 migration applied, got %d", applied)
	}

	var count int
	if err := sqlDB.QueryRowContext(ctx, `SELECT COUNT(*) FROM lead_records`).Scan(&count); err != nil {
		t.Fatalf("lead_records should exist: %v", err)
	}

	again, err := Migrate(ctx, sqlDB, config.DriverSQLite)
	if err != nil {
		t.Fatalf("second migrate: %v", err)
	}
	if again != 0 {
		t.Fatalf("expected migrations to be idempotent, applied %d", again)
	}

	if err := NewSQLAdapter(sqlDB).Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}
}

func TestMigrateRejectsUnknownDriver(t *testing.T) {
	if _, err := Migrate(context.Background(), nil, "mysql"); err == nil {
		t.Fatal("expected an error for an unknown driver")
	}
}
