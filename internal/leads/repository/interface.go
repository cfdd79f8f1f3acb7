package repository

import (
	"context"
	"errors"

	"leadscore_backend/internal/leads/domain"
)

var (
	// ErrNotFound is returned when no record has the requested lead number.
	ErrNotFound = errors.New("lead not found")
	// ErrDuplicate is returned when a record with the same lead number
	// already exists. It is how concurrent first-time submissions resolve.
	ErrDuplicate = errors.New("lead already exists")
)

// LeadReader provides read-only access to scored leads.
type LeadReader interface {
	Exists(ctx context.Context, leadNumber int64) (bool, error)
	FindByLeadNumber(ctx context.Context, leadNumber int64) (domain.LeadRecord, error)
}

// LeadWriter persists scored leads. Records are never updated.
type LeadWriter interface {
	// Insert stores rec and returns it with ID and CreatedAt set.
	// A lead number that is already stored yields ErrDuplicate.
	Insert(ctx context.Context, rec domain.LeadRecord) (domain.LeadRecord, error)
}

// LeadStore is the full repository used by the scoring service.
type LeadStore interface {
	LeadReader
	LeadWriter
}
