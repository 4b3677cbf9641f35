package revenue

import (
	"math"

	"tokenomics-lab/internal/domain"
)

// computeIdentity prices verified-identity subscriptions.
func (e *Engine) computeIdentity(in Input) domain.ModuleResult {
	cfg := e.params.Modules.Identity
	subscribers := float64(in.Users) * cfg.AdoptionRate

	revenue := subscribers * cfg.MonthlyFeeUsd
	costs := revenue * cfg.CostRatio

	return domain.ModuleResult{
		Kind:    domain.ModuleIdentity,
		Revenue: revenue,
		Costs:   costs,
		Profit:  revenue - costs,
		Breakdown: map[string]float64{
			"subscribers": subscribers,
		},
	}
}

// computeContent prices the content/creator module.
func (e *Engine) computeContent(in Input) domain.ModuleResult {
	cfg := e.params.Modules.Content
	users := float64(in.Users)

	revenue := users * cfg.ARPUUsd
	payouts := revenue * cfg.CreatorPayoutRatio
	moderation := users * cfg.ModerationCostPerUserUsd
	costs := payouts + moderation

	return domain.ModuleResult{
		Kind:    domain.ModuleContent,
		Revenue: revenue,
		Costs:   costs,
		Profit:  revenue - costs,
		Breakdown: map[string]float64{
			"creator_payouts_usd": payouts,
			"moderation_usd":      moderation,
		},
	}
}

// computeAdvertising prices ad inventory. A month with zero filled
// impressions reports a zero effective CPM instead of dividing by zero.
func (e *Engine) computeAdvertising(in Input) domain.ModuleResult {
	cfg := e.params.Modules.Advertising

	impressions := float64(in.Users) * cfg.ImpressionsPerUser * cfg.FillRate
	revenue := impressions / 1000 * cfg.BaseCPMUsd
	costs := revenue * cfg.ServingCostRatio

	effectiveCPM := 0.0
	if impressions > 0 {
		effectiveCPM = revenue / impressions * 1000
	}

	return domain.ModuleResult{
		Kind:    domain.ModuleAdvertising,
		Revenue: revenue,
		Costs:   costs,
		Profit:  revenue - costs,
		Breakdown: map[string]float64{
			"filled_impressions": impressions,
			"effective_cpm":      effectiveCPM,
		},
	}
}

// computeExchange prices in-app swap fees.
func (e *Engine) computeExchange(in Input) domain.ModuleResult {
	cfg := e.params.Modules.Exchange

	traders := float64(in.Users) * cfg.ActiveTraderShare
	volume := traders * cfg.MonthlyVolumePerTraderUsd
	revenue := volume * cfg.TakerFeeRate
	costs := revenue * cfg.OperatingCostRatio

	return domain.ModuleResult{
		Kind:    domain.ModuleExchange,
		Revenue: revenue,
		Costs:   costs,
		Profit:  revenue - costs,
		Breakdown: map[string]float64{
			"active_traders": traders,
			"volume_usd":     volume,
		},
	}
}

// computeStaking prices the platform's cut of staking yield. Staked
// supply is estimated from the circulating supply entering the month.
func (e *Engine) computeStaking(in Input) domain.ModuleResult {
	cfg := e.params.Modules.Staking

	staked := in.CirculatingSupply * cfg.ParticipationRate
	yieldTokens := staked * cfg.AnnualYieldRate / 12
	revenue := yieldTokens * cfg.PlatformFeeShare * in.TokenPrice
	costs := revenue * cfg.OperatingCostRatio

	return domain.ModuleResult{
		Kind:    domain.ModuleStaking,
		Revenue: revenue,
		Costs:   costs,
		Profit:  revenue - costs,
		Breakdown: map[string]float64{
			"staked_tokens":        staked,
			"monthly_yield_tokens": yieldTokens,
		},
	}
}

// computeLiquidity prices protocol fees from liquidity pools sized off
// market cap.
func (e *Engine) computeLiquidity(in Input) domain.ModuleResult {
	cfg := e.params.Modules.Liquidity

	marketCap := in.CirculatingSupply * in.TokenPrice
	tvl := marketCap * cfg.TVLShareOfMarketCap
	volume := tvl * cfg.MonthlyTurnover
	poolFees := volume * cfg.PoolFeeRate
	revenue := poolFees * cfg.ProtocolFeeShare
	costs := revenue * cfg.IncentiveCostRatio

	return domain.ModuleResult{
		Kind:    domain.ModuleLiquidity,
		Revenue: revenue,
		Costs:   costs,
		Profit:  revenue - costs,
		Breakdown: map[string]float64{
			"tvl_usd":       tvl,
			"pool_fees_usd": poolFees,
		},
	}
}

// computeGovernance prices proposal fees, scaled per 10k users.
func (e *Engine) computeGovernance(in Input) domain.ModuleResult {
	cfg := e.params.Modules.Governance

	proposals := math.Floor(float64(in.Users) / 10_000 * cfg.ProposalsPer10K)
	revenue := proposals * cfg.ProposalFeeUsd
	costs := revenue * cfg.FacilitationCostPct

	return domain.ModuleResult{
		Kind:    domain.ModuleGovernance,
		Revenue: revenue,
		Costs:   costs,
		Profit:  revenue - costs,
		Breakdown: map[string]float64{
			"proposals": proposals,
		},
	}
}
