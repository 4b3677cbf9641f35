package memory

import (
	"context"
	"sort"
	"sync"

	"tokenomics-lab/internal/domain"
	"tokenomics-lab/internal/storage"
)

// MonthlyStateStore is an in-memory implementation of storage.MonthlyStateStore.
type MonthlyStateStore struct {
	mu   sync.RWMutex
	data map[string][]domain.MonthlyState // keyed by run_id, sorted by month
}

// NewMonthlyStateStore creates a new in-memory monthly state store.
func NewMonthlyStateStore() *MonthlyStateStore {
	return &MonthlyStateStore{
		data: make(map[string][]domain.MonthlyState),
	}
}

// InsertBulk adds a run's monthly sequence. Fails the entire batch on
// duplicate (run_id, month).
func (s *MonthlyStateStore) InsertBulk(_ context.Context, runID string, months []domain.MonthlyState) error {
	if runID == "" {
		return storage.ErrInvalidInput
	}
	if len(months) == 0 {
		return nil
	}

	// Check for intra-batch duplicates
	seen := make(map[int]struct{}, len(months))
	for _, m := range months {
		if _, exists := seen[m.Month]; exists {
			return storage.ErrDuplicateKey
		}
		seen[m.Month] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing := s.data[runID]
	for _, m := range existing {
		if _, clash := seen[m.Month]; clash {
			return storage.ErrDuplicateKey
		}
	}

	merged := make([]domain.MonthlyState, 0, len(existing)+len(months))
	merged = append(merged, existing...)
	merged = append(merged, months...)
	sort.Slice(merged, func(i, j int) bool {
		return merged[i].Month < merged[j].Month
	})
	s.data[runID] = merged
	return nil
}

// GetByRunID retrieves a run's months ordered by month ASC.
func (s *MonthlyStateStore) GetByRunID(_ context.Context, runID string) ([]domain.MonthlyState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	months := s.data[runID]
	result := make([]domain.MonthlyState, len(months))
	copy(result, months)
	return result, nil
}

// GetByMonthRange retrieves months for a run within [from, to] (inclusive).
func (s *MonthlyStateStore) GetByMonthRange(_ context.Context, runID string, from, to int) ([]domain.MonthlyState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []domain.MonthlyState
	for _, m := range s.data[runID] {
		if m.Month >= from && m.Month <= to {
			result = append(result, m)
		}
	}
	return result, nil
}

// Verify interface compliance at compile time.
var _ storage.MonthlyStateStore = (*MonthlyStateStore)(nil)
