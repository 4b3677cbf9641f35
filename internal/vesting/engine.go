// Package vesting computes per-category token unlocks and the circulating
// supply trajectory. Unlocks are keyed purely by elapsed months since TGE
// (month 0) and never depend on economic state.
package vesting

import (
	"fmt"

	"tokenomics-lab/internal/domain"
)

// CategoryState names where a category sits at a given month.
type CategoryState string

const (
	StatePreCliff      CategoryState = "pre_cliff"
	StateVesting       CategoryState = "vesting"
	StateFullyUnlocked CategoryState = "fully_unlocked"
	StateProgrammatic  CategoryState = "programmatic"
	StateLocked        CategoryState = "locked"
)

// MonthUnlocks is the engine's output for one elapsed month.
type MonthUnlocks struct {
	Month       int
	PerCategory map[string]float64
	Total       float64
	// RewardsPool is the slice unlocked by categories feeding the
	// rewards module's emission budget.
	RewardsPool float64
}

// Engine evaluates a validated allocation table against a total supply.
type Engine struct {
	totalSupply float64
	categories  []domain.TokenAllocationCategory
}

// NewEngine validates the table once so per-month evaluation is pure
// arithmetic.
func NewEngine(categories []domain.TokenAllocationCategory, totalSupply float64) (*Engine, error) {
	if totalSupply <= 0 {
		return nil, fmt.Errorf("%w: total supply must be positive, got %v", domain.ErrInvalidParameter, totalSupply)
	}
	if err := domain.ValidateAllocations(categories); err != nil {
		return nil, err
	}
	return &Engine{totalSupply: totalSupply, categories: categories}, nil
}

// UnlockAt returns every category's unlock for elapsed month m (0 = TGE).
func (e *Engine) UnlockAt(month int) MonthUnlocks {
	u := MonthUnlocks{
		Month:       month,
		PerCategory: make(map[string]float64, len(e.categories)),
	}

	for _, c := range e.categories {
		amount := CategoryUnlockAt(c, e.totalSupply, month)
		u.PerCategory[c.Name] = amount
		u.Total += amount
		if c.RewardsPool {
			u.RewardsPool += amount
		}
	}
	return u
}

// CumulativeAt returns per-category cumulative unlocks through elapsed
// month m inclusive.
func (e *Engine) CumulativeAt(month int) map[string]float64 {
	cum := make(map[string]float64, len(e.categories))
	for _, c := range e.categories {
		total := 0.0
		for m := 0; m <= month; m++ {
			total += CategoryUnlockAt(c, e.totalSupply, m)
		}
		cum[c.Name] = total
	}
	return cum
}

// CategoryUnlockAt computes one category's unlock at elapsed month m:
//   - month 0 unlocks tokens * tgePercent
//   - months 1..cliff unlock nothing
//   - months cliff+1..cliff+vesting unlock (tokens-tge)/vestingMonths
//   - afterwards nothing (fully vested)
//
// Programmatic categories unlock tokens/emissionMonths every month from
// month 0 through emissionMonths-1, ignoring cliff and vesting fields.
// Locked categories never auto-unlock.
func CategoryUnlockAt(c domain.TokenAllocationCategory, totalSupply float64, month int) float64 {
	if month < 0 {
		return 0
	}
	tokens := c.Tokens(totalSupply)

	switch c.Mode {
	case domain.AllocationLocked:
		return 0

	case domain.AllocationProgrammatic:
		if month < c.EmissionMonths {
			return tokens / float64(c.EmissionMonths)
		}
		return 0

	default: // linear
		tge := tokens * c.TGEPercent
		switch {
		case month == 0:
			return tge
		case month <= c.CliffMonths:
			return 0
		case month <= c.CliffMonths+c.VestingMonths:
			if c.VestingMonths < 1 {
				return 0
			}
			return (tokens - tge) / float64(c.VestingMonths)
		default:
			return 0
		}
	}
}

// StateAt reports a category's state at elapsed month m.
func StateAt(c domain.TokenAllocationCategory, month int) CategoryState {
	switch c.Mode {
	case domain.AllocationLocked:
		return StateLocked
	case domain.AllocationProgrammatic:
		if month < c.EmissionMonths {
			return StateProgrammatic
		}
		return StateFullyUnlocked
	default:
		switch {
		case month <= c.CliffMonths:
			return StatePreCliff
		case month <= c.CliffMonths+c.VestingMonths:
			return StateVesting
		default:
			return StateFullyUnlocked
		}
	}
}
