package domain

import (
	"errors"
	"fmt"
	"math"
)

// Validation errors. All wrap ErrInvalidParameter so callers can classify
// with a single errors.Is check; runs fail atomically before month 1.
var (
	ErrInvalidParameter = errors.New("invalid parameter")

	ErrUnknownScenario     = fmt.Errorf("%w: unknown growth scenario", ErrInvalidParameter)
	ErrUnknownMarketCycle  = fmt.Errorf("%w: unknown market cycle", ErrInvalidParameter)
	ErrUnknownDistribution = fmt.Errorf("%w: unknown perturbation distribution", ErrInvalidParameter)
	ErrAllocationSum       = fmt.Errorf("%w: allocation percents must sum to 1.0", ErrInvalidParameter)
)

// allocationSumTolerance allows float drift when percents are read from
// config files.
const allocationSumTolerance = 1e-9

// Validate checks every tunable before a run starts. It returns the first
// violation found; a nil error means the parameter set is fully usable by
// all engines without further guarding.
func (p Parameters) Validate() error {
	if p.TotalSupply <= 0 {
		return fmt.Errorf("%w: total_supply must be positive, got %v", ErrInvalidParameter, p.TotalSupply)
	}
	if p.InitialTokenPrice <= 0 {
		return fmt.Errorf("%w: initial_token_price must be positive, got %v", ErrInvalidParameter, p.InitialTokenPrice)
	}
	if p.LaunchUsers < 0 {
		return fmt.Errorf("%w: launch_users must be non-negative, got %d", ErrInvalidParameter, p.LaunchUsers)
	}

	if _, ok := GrowthScenarioByID(p.GrowthScenario); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownScenario, p.GrowthScenario)
	}
	if _, ok := MarketCycleByID(p.MarketCycle); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownMarketCycle, p.MarketCycle)
	}

	if p.MarketingBudgetYear1 < 0 || p.MarketingBudgetAnnual < 0 {
		return fmt.Errorf("%w: marketing budgets must be non-negative", ErrInvalidParameter)
	}
	for _, seg := range p.CACSegments {
		if seg.CostUsd < 0 {
			return fmt.Errorf("%w: cac segment %q cost must be non-negative", ErrInvalidParameter, seg.Name)
		}
		if seg.Share < 0 || seg.Share > 1 {
			return fmt.Errorf("%w: cac segment %q share must be in [0,1]", ErrInvalidParameter, seg.Name)
		}
	}
	for _, ev := range p.FOMOEvents {
		if ev.Month < 1 {
			return fmt.Errorf("%w: fomo event month must be >= 1, got %d", ErrInvalidParameter, ev.Month)
		}
		if ev.Impact < 0 {
			return fmt.Errorf("%w: fomo event impact must be non-negative", ErrInvalidParameter)
		}
		if ev.DurationMonths < 1 {
			return fmt.Errorf("%w: fomo event duration must be >= 1 month", ErrInvalidParameter)
		}
	}
	if p.DiminishingReturnsExp < 0 {
		return fmt.Errorf("%w: diminishing_returns_exp must be non-negative", ErrInvalidParameter)
	}
	if p.GrowthRateScale <= 0 {
		return fmt.Errorf("%w: growth_rate_scale must be positive, got %v", ErrInvalidParameter, p.GrowthRateScale)
	}

	if err := p.Price.validate(); err != nil {
		return err
	}
	if err := p.Modules.validate(); err != nil {
		return err
	}
	if err := ValidateAllocations(p.Allocations); err != nil {
		return err
	}
	if err := p.Recapture.validate(); err != nil {
		return err
	}
	if err := p.MonteCarlo.validate(); err != nil {
		return err
	}
	return p.Agents.validate()
}

func (c PriceConfig) validate() error {
	if c.Elasticity < 0 {
		return fmt.Errorf("%w: price.elasticity must be non-negative", ErrInvalidParameter)
	}
	if c.DampeningCoeff < 0 {
		return fmt.Errorf("%w: price.dampening_coeff must be non-negative", ErrInvalidParameter)
	}
	if c.MaxMultiplier < 1 {
		return fmt.Errorf("%w: price.max_multiplier must be >= 1", ErrInvalidParameter)
	}
	if c.MultiplierFloor <= 0 || c.MultiplierFloor > 1 {
		return fmt.Errorf("%w: price.multiplier_floor must be in (0,1]", ErrInvalidParameter)
	}
	return nil
}

func (c ModulesConfig) validate() error {
	for kind := range c.Enabled {
		if !knownModuleKind(kind) {
			return fmt.Errorf("%w: unknown module kind %q", ErrInvalidParameter, kind)
		}
	}
	if c.Coupling.TokenShare < 0 || c.Coupling.TokenShare > 1 {
		return fmt.Errorf("%w: coupling.token_share must be in [0,1]", ErrInvalidParameter)
	}
	if c.Coupling.BaselinePrice <= 0 {
		return fmt.Errorf("%w: coupling.baseline_price must be positive", ErrInvalidParameter)
	}
	if c.Coupling.MaxBoost < 1 {
		return fmt.Errorf("%w: coupling.max_boost must be >= 1", ErrInvalidParameter)
	}

	da := c.Rewards.DynamicAllocation
	if da.Enabled {
		if da.FloorPercent < 0 || da.CeilingPercent > 1 || da.FloorPercent > da.CeilingPercent {
			return fmt.Errorf("%w: rewards allocation bounds must satisfy 0 <= floor <= ceiling <= 1", ErrInvalidParameter)
		}
		if da.ReferenceInitialUsers < 1 {
			return fmt.Errorf("%w: rewards reference_initial_users must be >= 1", ErrInvalidParameter)
		}
		if da.ReferenceTargetUsers <= da.ReferenceInitialUsers {
			return fmt.Errorf("%w: rewards reference_target_users must exceed reference_initial_users", ErrInvalidParameter)
		}
		if da.MinPerUserMonthlyUsd < 0 || da.MaxPerUserMonthlyUsd < da.MinPerUserMonthlyUsd {
			return fmt.Errorf("%w: rewards per-user usd bounds must satisfy 0 <= min <= max", ErrInvalidParameter)
		}
	} else if c.Rewards.FixedAllocationPercent < 0 || c.Rewards.FixedAllocationPercent > 1 {
		return fmt.Errorf("%w: rewards fixed_allocation_percent must be in [0,1]", ErrInvalidParameter)
	}

	for kind, fc := range c.Future {
		if fc.LaunchMonth < 1 {
			return fmt.Errorf("%w: future module %q launch_month must be >= 1", ErrInvalidParameter, kind)
		}
		if fc.RevenuePerUserUsd < 0 {
			return fmt.Errorf("%w: future module %q revenue_per_user_usd must be non-negative", ErrInvalidParameter, kind)
		}
	}
	for _, kind := range FutureModuleKinds {
		if c.Enabled[kind] {
			if _, ok := c.Future[kind]; !ok {
				return fmt.Errorf("%w: future module %q enabled without config", ErrInvalidParameter, kind)
			}
		}
	}
	return nil
}

// ValidateAllocations checks the distribution table: unique names, percents
// summing to 1.0 within tolerance, and per-mode field consistency.
func ValidateAllocations(cats []TokenAllocationCategory) error {
	if len(cats) == 0 {
		return fmt.Errorf("%w: allocation table is empty", ErrInvalidParameter)
	}

	seen := make(map[string]bool, len(cats))
	sum := 0.0
	for _, c := range cats {
		if c.Name == "" {
			return fmt.Errorf("%w: allocation category without name", ErrInvalidParameter)
		}
		if seen[c.Name] {
			return fmt.Errorf("%w: duplicate allocation category %q", ErrInvalidParameter, c.Name)
		}
		seen[c.Name] = true

		if c.Percent <= 0 || c.Percent > 1 {
			return fmt.Errorf("%w: category %q percent must be in (0,1]", ErrInvalidParameter, c.Name)
		}
		sum += c.Percent

		switch c.Mode {
		case AllocationLinear:
			if c.TGEPercent < 0 || c.TGEPercent > 1 {
				return fmt.Errorf("%w: category %q tge_percent must be in [0,1]", ErrInvalidParameter, c.Name)
			}
			if c.CliffMonths < 0 {
				return fmt.Errorf("%w: category %q cliff_months must be non-negative", ErrInvalidParameter, c.Name)
			}
			if c.TGEPercent < 1 && c.VestingMonths < 1 {
				return fmt.Errorf("%w: category %q needs vesting_months >= 1", ErrInvalidParameter, c.Name)
			}
		case AllocationProgrammatic:
			if c.EmissionMonths < 1 {
				return fmt.Errorf("%w: category %q needs emission_months >= 1", ErrInvalidParameter, c.Name)
			}
		case AllocationLocked:
			// nothing to check
		default:
			return fmt.Errorf("%w: category %q has unknown mode %q", ErrInvalidParameter, c.Name, c.Mode)
		}
	}

	if math.Abs(sum-1.0) > allocationSumTolerance {
		return fmt.Errorf("%w: got %.12f", ErrAllocationSum, sum)
	}
	return nil
}

func (c RecaptureConfig) validate() error {
	for name, rate := range map[string]float64{
		"burn_rate":                 c.BurnRate,
		"buyback_percent_of_profit": c.BuybackPercentOfProfit,
		"staking_lock_rate":         c.StakingLockRate,
		"treasury_rate":             c.TreasuryRate,
	} {
		if rate < 0 || rate > 1 {
			return fmt.Errorf("%w: recapture %s must be in [0,1]", ErrInvalidParameter, name)
		}
	}
	if c.AggregateCeiling <= 0 || c.AggregateCeiling > 1 {
		return fmt.Errorf("%w: recapture aggregate_ceiling must be in (0,1]", ErrInvalidParameter)
	}
	return nil
}

func (c MonteCarloConfig) validate() error {
	if c.Iterations < 1 {
		return fmt.Errorf("%w: monte_carlo.iterations must be >= 1", ErrInvalidParameter)
	}
	switch c.Distribution {
	case DistributionNormal, DistributionUniform:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDistribution, c.Distribution)
	}
	for name, jitter := range map[string]float64{
		"growth_rate_jitter": c.GrowthRateJitter,
		"cac_jitter":         c.CACJitter,
		"elasticity_jitter":  c.ElasticityJitter,
	} {
		if jitter < 0 || jitter > 1 {
			return fmt.Errorf("%w: monte_carlo.%s must be in [0,1]", ErrInvalidParameter, name)
		}
	}
	return nil
}

func (c AgentConfig) validate() error {
	sum := c.Proportions.Creator + c.Proportions.Consumer + c.Proportions.Whale + c.Proportions.Bot
	if math.Abs(sum-1.0) > 1e-9 {
		return fmt.Errorf("%w: agent proportions must sum to 1.0, got %.12f", ErrInvalidParameter, sum)
	}
	for _, t := range AgentTypes {
		b, ok := c.Behavior[t]
		if !ok {
			return fmt.Errorf("%w: missing behavior for agent type %q", ErrInvalidParameter, t)
		}
		if b.SellRate < 0 || b.SellRate > 1 || b.StakeRate < 0 || b.StakeRate > 1 {
			return fmt.Errorf("%w: agent %q sell/stake rates must be in [0,1]", ErrInvalidParameter, t)
		}
		if b.SellRate+b.StakeRate > 1 {
			return fmt.Errorf("%w: agent %q sell_rate + stake_rate must not exceed 1", ErrInvalidParameter, t)
		}
		if b.ActivityMean < 0 || b.ActivitySpread < 0 {
			return fmt.Errorf("%w: agent %q activity must be non-negative", ErrInvalidParameter, t)
		}
		if b.AcquisitionCostUsd < 0 {
			return fmt.Errorf("%w: agent %q acquisition_cost_usd must be non-negative", ErrInvalidParameter, t)
		}
	}
	if c.BotFlagBand.Min < 0 || c.BotFlagBand.Max < c.BotFlagBand.Min {
		return fmt.Errorf("%w: bot_flag_band must satisfy 0 <= min <= max", ErrInvalidParameter)
	}
	if c.LiquidityDepthUsd <= 0 {
		return fmt.Errorf("%w: liquidity_depth_usd must be positive", ErrInvalidParameter)
	}
	// Impacts at or above 1.0 could drive the estimated price to zero or
	// negative in a single month.
	if c.MaxMonthlyPriceImpact <= 0 || c.MaxMonthlyPriceImpact >= 1 {
		return fmt.Errorf("%w: max_monthly_price_impact must be in (0,1)", ErrInvalidParameter)
	}
	return nil
}

func knownModuleKind(kind ModuleKind) bool {
	for _, k := range AllModuleKinds {
		if k == kind {
			return true
		}
	}
	return false
}
