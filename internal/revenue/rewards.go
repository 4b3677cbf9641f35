package revenue

import (
	"math"

	"tokenomics-lab/internal/domain"
)

// computeRewards drives token emission to users out of the month's
// rewards-pool unlock. The emission percent follows the dynamic
// log-interpolated curve when enabled, otherwise the fixed percent.
// The per-user USD/month cap binds regardless of the curve's output.
func (e *Engine) computeRewards(in Input) domain.ModuleResult {
	cfg := e.params.Modules.Rewards
	da := cfg.DynamicAllocation
	users := float64(in.Users)
	pool := in.RewardsPoolTokens

	allocPct := cfg.FixedAllocationPercent
	progress := 0.0
	if da.Enabled {
		allocPct, progress = dynamicAllocationPercent(da, in.Users)
	}

	emissionTokens := pool * allocPct
	emissionUsd := emissionTokens * in.TokenPrice
	perUserUsd := 0.0

	if in.Users > 0 {
		perUserUsd = emissionUsd / users

		if da.Enabled {
			switch {
			case perUserUsd > da.MaxPerUserMonthlyUsd:
				// Hard ceiling: total emission USD per user never
				// exceeds the cap, whatever the curve said.
				emissionUsd = da.MaxPerUserMonthlyUsd * users
				emissionTokens = tokensFor(emissionUsd, in.TokenPrice)
				perUserUsd = da.MaxPerUserMonthlyUsd
			case perUserUsd < da.MinPerUserMonthlyUsd:
				// The floor tops up only while the pool covers it.
				wantUsd := da.MinPerUserMonthlyUsd * users
				poolUsd := pool * in.TokenPrice
				if wantUsd > poolUsd {
					wantUsd = poolUsd
				}
				if wantUsd > emissionUsd {
					emissionUsd = wantUsd
					emissionTokens = tokensFor(emissionUsd, in.TokenPrice)
					perUserUsd = emissionUsd / users
				}
			}
		}
	} else {
		// No users, no emission.
		emissionTokens = 0
		emissionUsd = 0
	}

	revenue := users / 1000 * cfg.BrandCampaignUsdPer1K
	costs := emissionUsd + revenue*cfg.FulfillmentCostRatio

	return domain.ModuleResult{
		Kind:    domain.ModuleRewards,
		Revenue: revenue,
		Costs:   costs,
		Profit:  revenue - costs,
		Breakdown: map[string]float64{
			"allocation_percent":  allocPct,
			"allocation_progress": progress,
			"pool_tokens":         pool,
			"emission_tokens":     emissionTokens,
			"emission_usd":        emissionUsd,
			"per_user_usd":        perUserUsd,
		},
	}
}

// dynamicAllocationPercent interpolates between the floor and ceiling on
// a log curve: progress = ln(users/initial) / ln(target/initial), clamped
// to [0, 1]. User counts at or below the reference floor sit at the floor.
func dynamicAllocationPercent(da domain.DynamicAllocationConfig, users int) (pct, progress float64) {
	if users < 1 {
		return da.FloorPercent, 0
	}

	denom := math.Log(float64(da.ReferenceTargetUsers) / float64(da.ReferenceInitialUsers))
	if denom <= 0 {
		return da.FloorPercent, 0
	}

	progress = math.Log(float64(users)/float64(da.ReferenceInitialUsers)) / denom
	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}

	return da.FloorPercent + (da.CeilingPercent-da.FloorPercent)*progress, progress
}

// tokensFor converts a USD amount back to tokens, guarding a zero price.
func tokensFor(usd, tokenPrice float64) float64 {
	if tokenPrice <= 0 {
		return 0
	}
	return usd / tokenPrice
}
