package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"tokenomics-lab/internal/domain"
	"tokenomics-lab/internal/storage"
)

// RunStore is an in-memory implementation of storage.RunStore.
type RunStore struct {
	mu   sync.RWMutex
	data map[string]*domain.RunRecord // keyed by run_id
}

// NewRunStore creates a new in-memory run store.
func NewRunStore() *RunStore {
	return &RunStore{
		data: make(map[string]*domain.RunRecord),
	}
}

// Insert adds a new run record. Returns ErrDuplicateKey if run_id exists.
func (s *RunStore) Insert(_ context.Context, r *domain.RunRecord) error {
	if r == nil || r.RunID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[r.RunID]; exists {
		return storage.ErrDuplicateKey
	}

	// Store a copy to prevent external mutation
	recordCopy := *r
	s.data[r.RunID] = &recordCopy
	return nil
}

// GetByID retrieves a run by its ID. Returns ErrNotFound if not exists.
func (s *RunStore) GetByID(_ context.Context, runID string) (*domain.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, exists := s.data[runID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	recordCopy := *r
	return &recordCopy, nil
}

// List retrieves the most recent runs, newest first.
func (s *RunStore) List(_ context.Context, kind string, limit int) ([]*domain.RunRecord, error) {
	if limit <= 0 {
		limit = storage.DefaultListLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.RunRecord
	for _, r := range s.data {
		if kind != "" && r.Kind != kind {
			continue
		}
		recordCopy := *r
		result = append(result, &recordCopy)
	}

	// Sort by created_at DESC, run_id as tie-break for stable listings
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].RunID < result[j].RunID
	})

	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// MarkCompleted records a successful finish with headline figures.
func (s *RunStore) MarkCompleted(_ context.Context, runID string, completedAt time.Time, summary domain.RunSummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, exists := s.data[runID]
	if !exists {
		return storage.ErrNotFound
	}

	r.Status = domain.RunStatusCompleted
	r.CompletedAt = &completedAt
	r.Error = ""
	r.FinalUsers = summary.FinalUsers
	r.FinalTokenPrice = summary.FinalTokenPrice
	r.TotalRevenue = summary.TotalRevenue
	r.TotalProfit = summary.TotalProfit
	r.AvgRecaptureRate = summary.AvgRecaptureRate
	return nil
}

// MarkFailed records a failed or cancelled finish.
func (s *RunStore) MarkFailed(_ context.Context, runID, status, errMsg string, completedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, exists := s.data[runID]
	if !exists {
		return storage.ErrNotFound
	}

	r.Status = status
	r.Error = errMsg
	r.CompletedAt = &completedAt
	return nil
}

// Verify interface compliance at compile time.
var _ storage.RunStore = (*RunStore)(nil)
