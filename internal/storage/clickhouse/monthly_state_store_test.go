package clickhouse

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tokenomics-lab/internal/domain"
	"tokenomics-lab/internal/storage"
)

func testMonthlyStates(n int) []domain.MonthlyState {
	states := make([]domain.MonthlyState, 0, n)
	for m := 1; m <= n; m++ {
		states = append(states, domain.MonthlyState{
			Month:               m,
			Year:                (m-1)/12 + 1,
			ActiveUsers:         10000 * m,
			UsersAcquired:       1200 * m,
			UsersChurned:        200 * m,
			MarketingAcquired:   800 * m,
			EffectiveGrowthRate: 0.10,
			TokenPrice:          0.05 + 0.001*float64(m),
			Modules: []domain.ModuleResult{
				{
					Kind:    domain.ModuleIdentity,
					Revenue: 1000 * float64(m),
					Costs:   400 * float64(m),
					Profit:  600 * float64(m),
					Breakdown: map[string]float64{
						"paying_users": 50 * float64(m),
					},
				},
			},
			TotalRevenue:        1000 * float64(m),
			TotalCosts:          400 * float64(m),
			TotalProfit:         600 * float64(m),
			GrossEmission:       500000,
			RewardsPoolEmission: 300000,
			NetEmission:         420000,
			CirculatingSupply:   1e8 + 420000*float64(m),
			CirculatingDelta:    420000,
			VestingUnlocks: map[string]float64{
				"team":         100000,
				"rewards_pool": 300000,
			},
			Recapture: domain.RecaptureFlows{
				BurnedTokens:        30000,
				BuybackTokens:       20000,
				BuybackCostUsd:      1000,
				StakingLockedTokens: 20000,
				TreasuryTokens:      10000,
				RecapturedTokens:    80000,
				RecaptureRate:       0.16,
			},
		})
	}
	return states
}

func TestMonthlyStateStore_InsertBulkAndGetByRunID(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewMonthlyStateStore(conn)
	ctx := context.Background()

	states := testMonthlyStates(24)
	require.NoError(t, store.InsertBulk(ctx, "run-ch-001", states))

	retrieved, err := store.GetByRunID(ctx, "run-ch-001")
	require.NoError(t, err)
	require.Len(t, retrieved, 24)

	for i, got := range retrieved {
		want := states[i]
		assert.Equal(t, want.Month, got.Month)
		assert.Equal(t, want.Year, got.Year)
		assert.Equal(t, want.ActiveUsers, got.ActiveUsers)
		assert.Equal(t, want.UsersAcquired, got.UsersAcquired)
		assert.Equal(t, want.UsersChurned, got.UsersChurned)
		assert.Equal(t, want.MarketingAcquired, got.MarketingAcquired)
		assert.InDelta(t, want.TokenPrice, got.TokenPrice, 1e-12)
		assert.InDelta(t, want.TotalRevenue, got.TotalRevenue, 1e-6)
		assert.InDelta(t, want.CirculatingSupply, got.CirculatingSupply, 1e-3)
		assert.InDelta(t, want.Recapture.RecaptureRate, got.Recapture.RecaptureRate, 1e-12)
	}

	// JSON columns round-trip.
	first := retrieved[0]
	require.Len(t, first.Modules, 1)
	assert.Equal(t, domain.ModuleIdentity, first.Modules[0].Kind)
	assert.InDelta(t, 1000.0, first.Modules[0].Revenue, 1e-6)
	assert.InDelta(t, 50.0, first.Modules[0].Breakdown["paying_users"], 1e-6)
	assert.InDelta(t, 100000.0, first.VestingUnlocks["team"], 1e-6)
	assert.InDelta(t, 300000.0, first.VestingUnlocks["rewards_pool"], 1e-6)
}

func TestMonthlyStateStore_InsertBulk_EmptyBatch(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewMonthlyStateStore(conn)
	ctx := context.Background()

	// An empty batch is a no-op, not an error.
	require.NoError(t, store.InsertBulk(ctx, "run-ch-empty", nil))

	retrieved, err := store.GetByRunID(ctx, "run-ch-empty")
	require.NoError(t, err)
	assert.Empty(t, retrieved)

	// A missing run ID is invalid regardless of batch size.
	err = store.InsertBulk(ctx, "", testMonthlyStates(1))
	assert.ErrorIs(t, err, storage.ErrInvalidInput)
}

func TestMonthlyStateStore_InsertBulk_DuplicateRun(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewMonthlyStateStore(conn)
	ctx := context.Background()

	states := testMonthlyStates(6)
	require.NoError(t, store.InsertBulk(ctx, "run-ch-dup", states))

	err := store.InsertBulk(ctx, "run-ch-dup", states)
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)

	// The original rows are untouched.
	retrieved, err := store.GetByRunID(ctx, "run-ch-dup")
	require.NoError(t, err)
	assert.Len(t, retrieved, 6)
}

func TestMonthlyStateStore_InsertBulk_DuplicateMonthInBatch(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewMonthlyStateStore(conn)
	ctx := context.Background()

	states := testMonthlyStates(3)
	states[2].Month = 2

	err := store.InsertBulk(ctx, "run-ch-batch-dup", states)
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestMonthlyStateStore_GetByMonthRange(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewMonthlyStateStore(conn)
	ctx := context.Background()

	require.NoError(t, store.InsertBulk(ctx, "run-ch-range", testMonthlyStates(36)))

	year2, err := store.GetByMonthRange(ctx, "run-ch-range", 13, 24)
	require.NoError(t, err)
	require.Len(t, year2, 12)
	assert.Equal(t, 13, year2[0].Month)
	assert.Equal(t, 24, year2[len(year2)-1].Month)

	for i := 1; i < len(year2); i++ {
		assert.Greater(t, year2[i].Month, year2[i-1].Month, "months ordered ascending")
	}
}

func TestMonthlyStateStore_RunIsolation(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewMonthlyStateStore(conn)
	ctx := context.Background()

	require.NoError(t, store.InsertBulk(ctx, "run-ch-a", testMonthlyStates(12)))
	require.NoError(t, store.InsertBulk(ctx, "run-ch-b", testMonthlyStates(6)))

	a, err := store.GetByRunID(ctx, "run-ch-a")
	require.NoError(t, err)
	assert.Len(t, a, 12)

	b, err := store.GetByRunID(ctx, "run-ch-b")
	require.NoError(t, err)
	assert.Len(t, b, 6)

	missing, err := store.GetByRunID(ctx, "run-ch-missing")
	require.NoError(t, err)
	assert.Empty(t, missing)
}
