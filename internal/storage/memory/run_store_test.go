package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"tokenomics-lab/internal/domain"
	"tokenomics-lab/internal/storage"
)

func testRecord(id string, kind string, createdAt time.Time) *domain.RunRecord {
	return &domain.RunRecord{
		RunID:         id,
		Kind:          kind,
		Status:        domain.RunStatusRunning,
		ScenarioID:    "base",
		CycleID:       "neutral",
		HorizonMonths: 60,
		Seed:          1,
		CreatedAt:     createdAt,
	}
}

func TestRunStore_InsertAndGet(t *testing.T) {
	store := NewRunStore()
	ctx := context.Background()

	r := testRecord("run-001", domain.RunKindDeterministic, time.Now().UTC())

	if err := store.Insert(ctx, r); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, err := store.GetByID(ctx, "run-001")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.RunID != r.RunID {
		t.Errorf("RunID mismatch: got %s, want %s", got.RunID, r.RunID)
	}
	if got.Kind != r.Kind {
		t.Errorf("Kind mismatch: got %s, want %s", got.Kind, r.Kind)
	}
	if got.Status != domain.RunStatusRunning {
		t.Errorf("Status = %s, want %s", got.Status, domain.RunStatusRunning)
	}
}

func TestRunStore_DuplicateKey(t *testing.T) {
	store := NewRunStore()
	ctx := context.Background()

	r := testRecord("run-001", domain.RunKindDeterministic, time.Now().UTC())

	if err := store.Insert(ctx, r); err != nil {
		t.Fatalf("First insert failed: %v", err)
	}
	if err := store.Insert(ctx, r); !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}
}

func TestRunStore_NotFound(t *testing.T) {
	store := NewRunStore()
	ctx := context.Background()

	if _, err := store.GetByID(ctx, "nonexistent"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
	if err := store.MarkFailed(ctx, "nonexistent", domain.RunStatusFailed, "x", time.Now()); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("MarkFailed: expected ErrNotFound, got %v", err)
	}
}

func TestRunStore_MarkCompleted(t *testing.T) {
	store := NewRunStore()
	ctx := context.Background()

	r := testRecord("run-001", domain.RunKindMonteCarlo, time.Now().UTC())
	if err := store.Insert(ctx, r); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	completedAt := time.Now().UTC()
	summary := domain.RunSummary{
		FinalUsers:       120000,
		FinalTokenPrice:  0.085,
		TotalRevenue:     4_200_000,
		TotalProfit:      1_100_000,
		AvgRecaptureRate: 0.31,
	}
	if err := store.MarkCompleted(ctx, "run-001", completedAt, summary); err != nil {
		t.Fatalf("MarkCompleted failed: %v", err)
	}

	got, err := store.GetByID(ctx, "run-001")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Status != domain.RunStatusCompleted {
		t.Errorf("Status = %s, want %s", got.Status, domain.RunStatusCompleted)
	}
	if got.CompletedAt == nil || !got.CompletedAt.Equal(completedAt) {
		t.Errorf("CompletedAt = %v, want %v", got.CompletedAt, completedAt)
	}
	if got.FinalUsers != summary.FinalUsers {
		t.Errorf("FinalUsers = %d, want %d", got.FinalUsers, summary.FinalUsers)
	}
	if got.TotalRevenue != summary.TotalRevenue {
		t.Errorf("TotalRevenue = %v, want %v", got.TotalRevenue, summary.TotalRevenue)
	}
}

func TestRunStore_MarkFailed(t *testing.T) {
	store := NewRunStore()
	ctx := context.Background()

	r := testRecord("run-001", domain.RunKindAgentBased, time.Now().UTC())
	if err := store.Insert(ctx, r); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	if err := store.MarkFailed(ctx, "run-001", domain.RunStatusCancelled, "run cancelled", time.Now().UTC()); err != nil {
		t.Fatalf("MarkFailed failed: %v", err)
	}

	got, err := store.GetByID(ctx, "run-001")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Status != domain.RunStatusCancelled {
		t.Errorf("Status = %s, want %s", got.Status, domain.RunStatusCancelled)
	}
	if got.Error != "run cancelled" {
		t.Errorf("Error = %q, want %q", got.Error, "run cancelled")
	}
}

func TestRunStore_List(t *testing.T) {
	store := NewRunStore()
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	records := []*domain.RunRecord{
		testRecord("run-a", domain.RunKindDeterministic, base),
		testRecord("run-b", domain.RunKindMonteCarlo, base.Add(time.Hour)),
		testRecord("run-c", domain.RunKindMonteCarlo, base.Add(2*time.Hour)),
	}
	for _, r := range records {
		if err := store.Insert(ctx, r); err != nil {
			t.Fatalf("Insert(%s) failed: %v", r.RunID, err)
		}
	}

	// All kinds, newest first
	all, err := store.List(ctx, "", 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("List returned %d records, want 3", len(all))
	}
	if all[0].RunID != "run-c" || all[2].RunID != "run-a" {
		t.Errorf("List order = [%s %s %s], want newest first", all[0].RunID, all[1].RunID, all[2].RunID)
	}

	// Filtered by kind
	mc, err := store.List(ctx, domain.RunKindMonteCarlo, 0)
	if err != nil {
		t.Fatalf("List(kind) failed: %v", err)
	}
	if len(mc) != 2 {
		t.Fatalf("List(kind) returned %d records, want 2", len(mc))
	}

	// Limit applies after ordering
	limited, err := store.List(ctx, "", 1)
	if err != nil {
		t.Fatalf("List(limit) failed: %v", err)
	}
	if len(limited) != 1 || limited[0].RunID != "run-c" {
		t.Errorf("List(limit=1) = %v, want [run-c]", limited)
	}
}

func TestRunStore_CopySemantics(t *testing.T) {
	store := NewRunStore()
	ctx := context.Background()

	r := testRecord("run-001", domain.RunKindDeterministic, time.Now().UTC())
	if err := store.Insert(ctx, r); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	// Mutating the caller's record must not affect the stored copy.
	r.Status = "mangled"

	got, err := store.GetByID(ctx, "run-001")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Status != domain.RunStatusRunning {
		t.Errorf("stored record mutated externally: status = %s", got.Status)
	}
}
