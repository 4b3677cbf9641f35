// Package recapture converts gross emission and module profit into burns,
// buybacks, staking lock-up and treasury accumulation.
package recapture

import "tokenomics-lab/internal/domain"

// Engine applies the configured recapture rates with per-flow monthly
// ceilings and the absolute aggregate ceiling.
type Engine struct {
	cfg domain.RecaptureConfig
}

// NewEngine wraps a validated configuration.
func NewEngine(cfg domain.RecaptureConfig) *Engine {
	return &Engine{cfg: cfg}
}

// Compute derives the month's recapture flows. Burn, staking-lock and
// treasury rates apply to gross emission; the buyback percent applies to
// profit in USD, converted at the month's price. When the flows together
// exceed the aggregate ceiling they scale down uniformly, never favoring
// one flow over another. A month with no emission recaptures nothing.
func (e *Engine) Compute(grossEmission, profitUsd, tokenPrice float64) domain.RecaptureFlows {
	var f domain.RecaptureFlows
	if grossEmission <= 0 {
		return f
	}

	f.BurnedTokens = e.cfg.BurnRate * grossEmission
	f.StakingLockedTokens = e.cfg.StakingLockRate * grossEmission
	f.TreasuryTokens = e.cfg.TreasuryRate * grossEmission

	if profitUsd > 0 && tokenPrice > 0 {
		f.BuybackCostUsd = e.cfg.BuybackPercentOfProfit * profitUsd
		f.BuybackTokens = f.BuybackCostUsd / tokenPrice
	}

	f.BurnedTokens = capFlow(f.BurnedTokens, e.cfg.MaxMonthlyBurnTokens)
	f.StakingLockedTokens = capFlow(f.StakingLockedTokens, e.cfg.MaxMonthlyStakingTokens)
	f.TreasuryTokens = capFlow(f.TreasuryTokens, e.cfg.MaxMonthlyTreasuryTokens)
	if capped := capFlow(f.BuybackTokens, e.cfg.MaxMonthlyBuybackTokens); capped != f.BuybackTokens {
		f.BuybackTokens = capped
		f.BuybackCostUsd = capped * tokenPrice
	}

	total := f.BurnedTokens + f.BuybackTokens + f.StakingLockedTokens + f.TreasuryTokens
	rate := total / grossEmission

	if rate > e.cfg.AggregateCeiling {
		scale := e.cfg.AggregateCeiling / rate
		f.BurnedTokens *= scale
		f.BuybackTokens *= scale
		f.BuybackCostUsd = f.BuybackTokens * tokenPrice
		f.StakingLockedTokens *= scale
		f.TreasuryTokens *= scale

		// Set exactly at the ceiling rather than re-summing scaled
		// floats, so the clamp is airtight.
		rate = e.cfg.AggregateCeiling
		total = rate * grossEmission
	}

	f.RecapturedTokens = total
	f.RecaptureRate = rate
	return f
}

// capFlow bounds a flow by its monthly ceiling; zero means uncapped.
func capFlow(flow, ceiling float64) float64 {
	if ceiling > 0 && flow > ceiling {
		return ceiling
	}
	return flow
}
