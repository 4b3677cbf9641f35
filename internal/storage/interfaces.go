package storage

import (
	"context"
	"time"

	"tokenomics-lab/internal/domain"
)

// RunStore provides access to run_records storage.
type RunStore interface {
	// Insert adds a new run record. Returns ErrDuplicateKey if run_id exists.
	Insert(ctx context.Context, r *domain.RunRecord) error

	// GetByID retrieves a run by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, runID string) (*domain.RunRecord, error)

	// List retrieves the most recent runs, newest first. An empty kind
	// matches every run kind; limit <= 0 applies DefaultListLimit.
	List(ctx context.Context, kind string, limit int) ([]*domain.RunRecord, error)

	// MarkCompleted records a successful finish with headline figures.
	// Returns ErrNotFound if run_id does not exist.
	MarkCompleted(ctx context.Context, runID string, completedAt time.Time, summary domain.RunSummary) error

	// MarkFailed records a failed or cancelled finish. Returns ErrNotFound
	// if run_id does not exist.
	MarkFailed(ctx context.Context, runID, status, errMsg string, completedAt time.Time) error
}

// DefaultListLimit bounds List results when the caller passes limit <= 0.
const DefaultListLimit = 50

// MonthlyStateStore provides access to monthly_states storage, the
// per-run projection time series.
type MonthlyStateStore interface {
	// InsertBulk adds a run's monthly sequence. Fails the entire batch on
	// duplicate (run_id, month).
	InsertBulk(ctx context.Context, runID string, months []domain.MonthlyState) error

	// GetByRunID retrieves a run's months ordered by month ASC.
	GetByRunID(ctx context.Context, runID string) ([]domain.MonthlyState, error)

	// GetByMonthRange retrieves months for a run within [from, to]
	// (inclusive), ordered by month ASC.
	GetByMonthRange(ctx context.Context, runID string, from, to int) ([]domain.MonthlyState, error)
}
