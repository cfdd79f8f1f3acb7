package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"leadscore_backend/internal/leads/domain"

	"github.com/mattn/go-sqlite3"
)

var (
	sqliteInsertSQL = insertQuery(question, "created_at")
	sqliteSelectSQL = selectQuery(question)
	sqliteExistsSQL = existsQuery(question)
)

// SQLite is the embedded lead store used for local runs and tests.
type SQLite struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLite(db *sql.DB) *SQLite {
	return &SQLite{db: db, now: time.Now}
}

func (r *SQLite) Exists(ctx context.Context, leadNumber int64) (bool, error) {
	var exists bool
	if err := r.db.QueryRowContext(ctx, sqliteExistsSQL, leadNumber).Scan(&exists); err != nil {
		return false, fmt.Errorf("check lead %d: %w", leadNumber, err)
	}
	return exists, nil
}

func (r *SQLite) FindByLeadNumber(ctx context.Context, leadNumber int64) (domain.LeadRecord, error) {
	var rec domain.LeadRecord
	err := r.db.QueryRowContext(ctx, sqliteSelectSQL, leadNumber).Scan(scanTargets(&rec)...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.LeadRecord{}, ErrNotFound
		}
		return domain.LeadRecord{}, fmt.Errorf("find lead %d: %w", leadNumber, err)
	}
	return rec, nil
}

// Insert sets created_at itself; the column default has second precision.
func (r *SQLite) Insert(ctx context.Context, rec domain.LeadRecord) (domain.LeadRecord, error) {
	rec.CreatedAt = r.now().UTC()

	res, err := r.db.ExecContext(ctx, sqliteInsertSQL, insertArgs(&rec, rec.CreatedAt)...)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return domain.LeadRecord{}, ErrDuplicate
		}
		return domain.LeadRecord{}, fmt.Errorf("insert lead %d: %w", rec.Lead.LeadNumber, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return domain.LeadRecord{}, fmt.Errorf("insert lead %d: %w", rec.Lead.LeadNumber, err)
	}
	rec.ID = id
	return rec, nil
}
