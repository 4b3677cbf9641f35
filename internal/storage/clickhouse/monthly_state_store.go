package clickhouse

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"tokenomics-lab/internal/domain"
	"tokenomics-lab/internal/storage"
)

// MonthlyStateStore implements storage.MonthlyStateStore using ClickHouse.
type MonthlyStateStore struct {
	conn *Conn
}

// NewMonthlyStateStore creates a new MonthlyStateStore.
func NewMonthlyStateStore(conn *Conn) *MonthlyStateStore {
	return &MonthlyStateStore{conn: conn}
}

// Compile-time interface check.
var _ storage.MonthlyStateStore = (*MonthlyStateStore)(nil)

// InsertBulk adds a run's monthly sequence. Fails the entire batch on
// duplicate (run_id, month).
func (s *MonthlyStateStore) InsertBulk(ctx context.Context, runID string, months []domain.MonthlyState) error {
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

	// MergeTree does not enforce uniqueness, so duplicates are rejected
	// with an explicit existence check before the batch goes out.
	exists, err := s.exists(ctx, runID)
	if err != nil {
		return fmt.Errorf("check exists: %w", err)
	}
	if exists {
		return storage.ErrDuplicateKey
	}

	start := time.Now()
	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO monthly_states (
			run_id, month, year,
			active_users, users_acquired, users_churned, marketing_acquired,
			effective_growth_rate, token_price,
			total_revenue, total_costs, total_profit,
			gross_emission, rewards_pool_emission, net_emission,
			circulating_supply, circulating_delta,
			burned_tokens, buyback_tokens, buyback_cost_usd,
			staking_locked_tokens, treasury_tokens, recaptured_tokens, recapture_rate,
			modules_json, vesting_unlocks_json
		)
	`)
	if err != nil {
		observe("insert_monthly_states", start, err)
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, m := range months {
		modulesJSON, err := json.Marshal(m.Modules)
		if err != nil {
			return fmt.Errorf("marshal modules for month %d: %w", m.Month, err)
		}
		unlocksJSON, err := json.Marshal(m.VestingUnlocks)
		if err != nil {
			return fmt.Errorf("marshal unlocks for month %d: %w", m.Month, err)
		}

		err = batch.Append(
			runID, uint32(m.Month), uint32(m.Year),
			uint64(m.ActiveUsers), uint64(m.UsersAcquired), uint64(m.UsersChurned), uint64(m.MarketingAcquired),
			m.EffectiveGrowthRate, m.TokenPrice,
			m.TotalRevenue, m.TotalCosts, m.TotalProfit,
			m.GrossEmission, m.RewardsPoolEmission, m.NetEmission,
			m.CirculatingSupply, m.CirculatingDelta,
			m.Recapture.BurnedTokens, m.Recapture.BuybackTokens, m.Recapture.BuybackCostUsd,
			m.Recapture.StakingLockedTokens, m.Recapture.TreasuryTokens,
			m.Recapture.RecapturedTokens, m.Recapture.RecaptureRate,
			string(modulesJSON), string(unlocksJSON),
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	err = batch.Send()
	observe("insert_monthly_states", start, err)
	if err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

const monthColumns = `
	month, year,
	active_users, users_acquired, users_churned, marketing_acquired,
	effective_growth_rate, token_price,
	total_revenue, total_costs, total_profit,
	gross_emission, rewards_pool_emission, net_emission,
	circulating_supply, circulating_delta,
	burned_tokens, buyback_tokens, buyback_cost_usd,
	staking_locked_tokens, treasury_tokens, recaptured_tokens, recapture_rate,
	modules_json, vesting_unlocks_json
`

// GetByRunID retrieves a run's months ordered by month ASC.
func (s *MonthlyStateStore) GetByRunID(ctx context.Context, runID string) ([]domain.MonthlyState, error) {
	query := `
		SELECT ` + monthColumns + `
		FROM monthly_states
		WHERE run_id = ?
		ORDER BY month ASC
	`

	start := time.Now()
	rows, err := s.conn.Query(ctx, query, runID)
	observe("get_monthly_states", start, err)
	if err != nil {
		return nil, fmt.Errorf("query by run id: %w", err)
	}
	defer rows.Close()

	return scanMonthlyStates(rows)
}

// GetByMonthRange retrieves months for a run within [from, to] (inclusive).
func (s *MonthlyStateStore) GetByMonthRange(ctx context.Context, runID string, from, to int) ([]domain.MonthlyState, error) {
	query := `
		SELECT ` + monthColumns + `
		FROM monthly_states
		WHERE run_id = ? AND month >= ? AND month <= ?
		ORDER BY month ASC
	`

	start := time.Now()
	rows, err := s.conn.Query(ctx, query, runID, uint32(from), uint32(to))
	observe("get_monthly_states_range", start, err)
	if err != nil {
		return nil, fmt.Errorf("query by month range: %w", err)
	}
	defer rows.Close()

	return scanMonthlyStates(rows)
}

// exists checks whether any months are stored for the run.
func (s *MonthlyStateStore) exists(ctx context.Context, runID string) (bool, error) {
	query := `SELECT count(*) FROM monthly_states WHERE run_id = ?`

	var count uint64
	if err := s.conn.QueryRow(ctx, query, runID).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// chRows abstracts driver rows for scanning.
type chRows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

// scanMonthlyStates scans multiple rows.
func scanMonthlyStates(rows chRows) ([]domain.MonthlyState, error) {
	var months []domain.MonthlyState

	for rows.Next() {
		var m domain.MonthlyState
		var month, year uint32
		var activeUsers, acquired, churned, marketing uint64
		var modulesJSON, unlocksJSON string

		err := rows.Scan(
			&month, &year,
			&activeUsers, &acquired, &churned, &marketing,
			&m.EffectiveGrowthRate, &m.TokenPrice,
			&m.TotalRevenue, &m.TotalCosts, &m.TotalProfit,
			&m.GrossEmission, &m.RewardsPoolEmission, &m.NetEmission,
			&m.CirculatingSupply, &m.CirculatingDelta,
			&m.Recapture.BurnedTokens, &m.Recapture.BuybackTokens, &m.Recapture.BuybackCostUsd,
			&m.Recapture.StakingLockedTokens, &m.Recapture.TreasuryTokens,
			&m.Recapture.RecapturedTokens, &m.Recapture.RecaptureRate,
			&modulesJSON, &unlocksJSON,
		)
		if err != nil {
			return nil, fmt.Errorf("scan monthly state row: %w", err)
		}

		m.Month = int(month)
		m.Year = int(year)
		m.ActiveUsers = int(activeUsers)
		m.UsersAcquired = int(acquired)
		m.UsersChurned = int(churned)
		m.MarketingAcquired = int(marketing)

		if modulesJSON != "" {
			if err := json.Unmarshal([]byte(modulesJSON), &m.Modules); err != nil {
				return nil, fmt.Errorf("unmarshal modules for month %d: %w", m.Month, err)
			}
		}
		if unlocksJSON != "" && unlocksJSON != "null" {
			if err := json.Unmarshal([]byte(unlocksJSON), &m.VestingUnlocks); err != nil {
				return nil, fmt.Errorf("unmarshal unlocks for month %d: %w", m.Month, err)
			}
		}

		months = append(months, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate monthly state rows: %w", err)
	}

	return months, nil
}
