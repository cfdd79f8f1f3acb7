// Package repository stores scored leads in PostgreSQL or SQLite.
package repository

import (
	"context"
	"errors"
	"fmt"

	"leadscore_backend/internal/leads/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// uniqueViolation is the PostgreSQL SQLSTATE for a unique constraint failure.
const uniqueViolation = "23505"

var (
	pgInsertSQL = insertQuery(dollar) + " RETURNING id, created_at"
	pgSelectSQL = selectQuery(dollar)
	pgExistsSQL = existsQuery(dollar)
)

// Repository is the PostgreSQL lead store.
type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) Exists(ctx context.Context, leadNumber int64) (bool, error) {
	var exists bool
	if err := r.pool.QueryRow(ctx, pgExistsSQL, leadNumber).Scan(&exists); err != nil {
		return false, fmt.Errorf("check lead %d: %w", leadNumber, err)
	}
	return exists, nil
}

func (r *Repository) FindByLeadNumber(ctx context.Context, leadNumber int64) (domain.LeadRecord, error) {
	var rec domain.LeadRecord
	err := r.pool.QueryRow(ctx, pgSelectSQL, leadNumber).Scan(scanTargets(&rec)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.LeadRecord{}, ErrNotFound
		}
		return domain.LeadRecord{}, fmt.Errorf("find lead %d: %w", leadNumber, err)
	}
	return rec, nil
}

func (r *Repository) Insert(ctx context.Context, rec domain.LeadRecord) (domain.LeadRecord, error) {
	err := r.pool.QueryRow(ctx, pgInsertSQL, insertArgs(&rec)...).Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.LeadRecord{}, ErrDuplicate
		}
		return domain.LeadRecord{}, fmt.Errorf("insert lead %d: %w", rec.Lead.LeadNumber, err)
	}
	return rec, nil
}
