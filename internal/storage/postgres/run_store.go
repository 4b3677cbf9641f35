package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"tokenomics-lab/internal/domain"
	"tokenomics-lab/internal/storage"
)

// RunStore implements storage.RunStore using PostgreSQL.
type RunStore struct {
	pool *Pool
}

// NewRunStore creates a new RunStore.
func NewRunStore(pool *Pool) *RunStore {
	return &RunStore{pool: pool}
}

// Compile-time interface check.
var _ storage.RunStore = (*RunStore)(nil)

// Insert adds a new run record. Returns ErrDuplicateKey if run_id exists.
func (s *RunStore) Insert(ctx context.Context, r *domain.RunRecord) error {
	if r == nil || r.RunID == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO run_records (
			run_id, kind, status, scenario_id, cycle_id, horizon_months,
			iterations, seed, params_json, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	start := time.Now()
	_, err := s.pool.Exec(ctx, query,
		r.RunID,
		r.Kind,
		r.Status,
		r.ScenarioID,
		r.CycleID,
		r.HorizonMonths,
		r.Iterations,
		r.Seed,
		r.ParamsJSON,
		r.CreatedAt,
	)
	observe("insert_run", start, err)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

const runColumns = `
	run_id, kind, status, scenario_id, cycle_id, horizon_months,
	iterations, seed, params_json, created_at, completed_at, error,
	final_users, final_token_price, total_revenue, total_profit, avg_recapture_rate
`

// GetByID retrieves a run by its ID. Returns ErrNotFound if not exists.
func (s *RunStore) GetByID(ctx context.Context, runID string) (*domain.RunRecord, error) {
	query := `SELECT ` + runColumns + ` FROM run_records WHERE run_id = $1`

	start := time.Now()
	row := s.pool.QueryRow(ctx, query, runID)
	r, err := scanRun(row)
	observe("get_run", start, err)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get run by id: %w", err)
	}
	return r, nil
}

// List retrieves the most recent runs, newest first.
func (s *RunStore) List(ctx context.Context, kind string, limit int) ([]*domain.RunRecord, error) {
	if limit <= 0 {
		limit = storage.DefaultListLimit
	}

	query := `SELECT ` + runColumns + ` FROM run_records`
	args := []interface{}{}
	if kind != "" {
		query += ` WHERE kind = $1`
		args = append(args, kind)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC, run_id ASC LIMIT %d`, limit)

	start := time.Now()
	rows, err := s.pool.Query(ctx, query, args...)
	observe("list_runs", start, err)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	return scanRuns(rows)
}

// MarkCompleted records a successful finish with headline figures.
func (s *RunStore) MarkCompleted(ctx context.Context, runID string, completedAt time.Time, summary domain.RunSummary) error {
	query := `
		UPDATE run_records
		SET status = $2,
		    completed_at = $3,
		    error = '',
		    final_users = $4,
		    final_token_price = $5,
		    total_revenue = $6,
		    total_profit = $7,
		    avg_recapture_rate = $8
		WHERE run_id = $1
	`

	start := time.Now()
	tag, err := s.pool.Exec(ctx, query,
		runID,
		domain.RunStatusCompleted,
		completedAt,
		summary.FinalUsers,
		summary.FinalTokenPrice,
		summary.TotalRevenue,
		summary.TotalProfit,
		summary.AvgRecaptureRate,
	)
	observe("mark_completed", start, err)
	if err != nil {
		return fmt.Errorf("mark run completed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// MarkFailed records a failed or cancelled finish.
func (s *RunStore) MarkFailed(ctx context.Context, runID, status, errMsg string, completedAt time.Time) error {
	query := `
		UPDATE run_records
		SET status = $2, error = $3, completed_at = $4
		WHERE run_id = $1
	`

	start := time.Now()
	tag, err := s.pool.Exec(ctx, query, runID, status, errMsg, completedAt)
	observe("mark_failed", start, err)
	if err != nil {
		return fmt.Errorf("mark run failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// scanRun scans a single row into a RunRecord.
func scanRun(row pgx.Row) (*domain.RunRecord, error) {
	var r domain.RunRecord
	var completedAt *time.Time

	err := row.Scan(
		&r.RunID,
		&r.Kind,
		&r.Status,
		&r.ScenarioID,
		&r.CycleID,
		&r.HorizonMonths,
		&r.Iterations,
		&r.Seed,
		&r.ParamsJSON,
		&r.CreatedAt,
		&completedAt,
		&r.Error,
		&r.FinalUsers,
		&r.FinalTokenPrice,
		&r.TotalRevenue,
		&r.TotalProfit,
		&r.AvgRecaptureRate,
	)
	if err != nil {
		return nil, err
	}

	r.CompletedAt = completedAt
	return &r, nil
}

// scanRuns scans multiple rows into a slice of RunRecord.
func scanRuns(rows pgx.Rows) ([]*domain.RunRecord, error) {
	var records []*domain.RunRecord

	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run row: %w", err)
		}
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run rows: %w", err)
	}

	return records, nil
}
