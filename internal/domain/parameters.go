package domain

// Parameters is the fully-resolved configuration for one projection run.
// Defaults are merged once via DefaultParameters (or config loading on top
// of it); engine code never null-coalesces individual fields. A Parameters
// value is immutable for the duration of a run. Monte Carlo trials and
// agent sampling work on copies.
type Parameters struct {
	// Token economics
	TotalSupply       float64 `json:"total_supply" yaml:"total_supply"`
	InitialTokenPrice float64 `json:"initial_token_price" yaml:"initial_token_price"`

	// Growth and acquisition
	LaunchUsers           int          `json:"launch_users" yaml:"launch_users"`
	GrowthScenario        string       `json:"growth_scenario" yaml:"growth_scenario"`
	MarketCycle           string       `json:"market_cycle" yaml:"market_cycle"`
	OrganicGrowth         bool         `json:"organic_growth" yaml:"organic_growth"`
	MarketingBudgetYear1  float64      `json:"marketing_budget_year1" yaml:"marketing_budget_year1"`
	MarketingBudgetAnnual float64      `json:"marketing_budget_annual" yaml:"marketing_budget_annual"`
	CACSegments           []CACSegment `json:"cac_segments" yaml:"cac_segments"`
	FOMOEvents            []FOMOEvent  `json:"fomo_events" yaml:"fomo_events"`
	// DiminishingReturnsExp is the exponent in the marketing addend
	// floor(budget/CAC * 1/year^exp). Industry-benchmark default 0.4.
	DiminishingReturnsExp float64 `json:"diminishing_returns_exp" yaml:"diminishing_returns_exp"`
	// GrowthRateScale multiplies every base monthly rate. 1.0 is neutral;
	// Monte Carlo trials perturb it.
	GrowthRateScale float64 `json:"growth_rate_scale" yaml:"growth_rate_scale"`

	// Price dynamics
	Price PriceConfig `json:"price" yaml:"price"`

	// Revenue modules
	Modules ModulesConfig `json:"modules" yaml:"modules"`

	// Supply and recapture
	Allocations []TokenAllocationCategory `json:"allocations" yaml:"allocations"`
	Recapture   RecaptureConfig           `json:"recapture" yaml:"recapture"`

	// Stochastic wrappers
	MonteCarlo MonteCarloConfig `json:"monte_carlo" yaml:"monte_carlo"`
	Agents     AgentConfig      `json:"agents" yaml:"agents"`
}

// CACSegment is one acquisition channel with its blended share.
type CACSegment struct {
	Name    string  `json:"name" yaml:"name"`
	CostUsd float64 `json:"cost_usd" yaml:"cost_usd"`
	Share   float64 `json:"share" yaml:"share"`
}

// FOMOEvent multiplies marketing-driven acquisition for a bounded window.
type FOMOEvent struct {
	Month          int     `json:"month" yaml:"month"`
	Impact         float64 `json:"impact" yaml:"impact"`
	DurationMonths int     `json:"duration_months" yaml:"duration_months"`
}

// PriceConfig tunes the token price trajectory.
type PriceConfig struct {
	// Elasticity converts user growth into price impact at year starts.
	Elasticity float64 `json:"elasticity" yaml:"elasticity"`
	// DampeningCoeff is the 0.25 coefficient in
	// 1/(1+coeff*(log10(users)-3)), clamped to [0.1, 1.0].
	DampeningCoeff float64 `json:"dampening_coeff" yaml:"dampening_coeff"`
	// MaxMultiplier caps the year-start multiplier; MultiplierFloor keeps
	// the price path strictly positive through bear years.
	MaxMultiplier   float64 `json:"max_multiplier" yaml:"max_multiplier"`
	MultiplierFloor float64 `json:"multiplier_floor" yaml:"multiplier_floor"`
	// BaselineAnnualRate is the 5%/year drift applied from year 3 on,
	// scaled by the market cycle's price multiplier.
	BaselineAnnualRate float64 `json:"baseline_annual_rate" yaml:"baseline_annual_rate"`
}

// ModulesConfig holds the resolved enablement map plus per-module knobs.
type ModulesConfig struct {
	// Enabled is the single source of truth for which modules run.
	Enabled map[ModuleKind]bool `json:"enabled" yaml:"enabled"`

	// Coupling applies to core modules: TokenShare of revenue is
	// token-denominated and scales with price/baseline up to MaxBoost.
	Coupling TokenCouplingConfig `json:"coupling" yaml:"coupling"`

	Identity    IdentityConfig    `json:"identity" yaml:"identity"`
	Content     ContentConfig     `json:"content" yaml:"content"`
	Advertising AdvertisingConfig `json:"advertising" yaml:"advertising"`
	Exchange    ExchangeConfig    `json:"exchange" yaml:"exchange"`
	Rewards     RewardsConfig     `json:"rewards" yaml:"rewards"`
	Staking     StakingConfig     `json:"staking" yaml:"staking"`
	Liquidity   LiquidityConfig   `json:"liquidity" yaml:"liquidity"`
	Governance  GovernanceConfig  `json:"governance" yaml:"governance"`

	Future map[ModuleKind]FutureModuleConfig `json:"future" yaml:"future"`
}

// TokenCouplingConfig scales the token-denominated share of core revenue.
type TokenCouplingConfig struct {
	TokenShare    float64 `json:"token_share" yaml:"token_share"`
	BaselinePrice float64 `json:"baseline_price" yaml:"baseline_price"`
	MaxBoost      float64 `json:"max_boost" yaml:"max_boost"`
}

// IdentityConfig prices the verified-identity subscription module.
type IdentityConfig struct {
	AdoptionRate  float64 `json:"adoption_rate" yaml:"adoption_rate"`
	MonthlyFeeUsd float64 `json:"monthly_fee_usd" yaml:"monthly_fee_usd"`
	CostRatio     float64 `json:"cost_ratio" yaml:"cost_ratio"`
}

// ContentConfig prices the content/creator module.
type ContentConfig struct {
	ARPUUsd                  float64 `json:"arpu_usd" yaml:"arpu_usd"`
	CreatorPayoutRatio       float64 `json:"creator_payout_ratio" yaml:"creator_payout_ratio"`
	ModerationCostPerUserUsd float64 `json:"moderation_cost_per_user_usd" yaml:"moderation_cost_per_user_usd"`
}

// AdvertisingConfig prices the advertising module.
type AdvertisingConfig struct {
	ImpressionsPerUser float64 `json:"impressions_per_user" yaml:"impressions_per_user"`
	BaseCPMUsd         float64 `json:"base_cpm_usd" yaml:"base_cpm_usd"`
	FillRate           float64 `json:"fill_rate" yaml:"fill_rate"`
	ServingCostRatio   float64 `json:"serving_cost_ratio" yaml:"serving_cost_ratio"`
}

// ExchangeConfig prices the in-app exchange module.
type ExchangeConfig struct {
	ActiveTraderShare         float64 `json:"active_trader_share" yaml:"active_trader_share"`
	MonthlyVolumePerTraderUsd float64 `json:"monthly_volume_per_trader_usd" yaml:"monthly_volume_per_trader_usd"`
	TakerFeeRate              float64 `json:"taker_fee_rate" yaml:"taker_fee_rate"`
	OperatingCostRatio        float64 `json:"operating_cost_ratio" yaml:"operating_cost_ratio"`
}

// RewardsConfig drives token emission to users. When dynamic allocation is
// enabled the emission percent follows a log-interpolated curve between
// FloorPercent and CeilingPercent; otherwise FixedAllocationPercent applies.
type RewardsConfig struct {
	DynamicAllocation       DynamicAllocationConfig `json:"dynamic_allocation" yaml:"dynamic_allocation"`
	FixedAllocationPercent  float64                 `json:"fixed_allocation_percent" yaml:"fixed_allocation_percent"`
	BrandCampaignUsdPer1K   float64                 `json:"brand_campaign_usd_per_1k" yaml:"brand_campaign_usd_per_1k"`
	FulfillmentCostRatio    float64                 `json:"fulfillment_cost_ratio" yaml:"fulfillment_cost_ratio"`
}

// DynamicAllocationConfig bounds the reward-emission curve.
type DynamicAllocationConfig struct {
	Enabled               bool    `json:"enabled" yaml:"enabled"`
	FloorPercent          float64 `json:"floor_percent" yaml:"floor_percent"`
	CeilingPercent        float64 `json:"ceiling_percent" yaml:"ceiling_percent"`
	ReferenceInitialUsers int     `json:"reference_initial_users" yaml:"reference_initial_users"`
	ReferenceTargetUsers  int     `json:"reference_target_users" yaml:"reference_target_users"`
	// Per-user USD/month bounds on emitted rewards. The max is a hard cap
	// regardless of curve output; the min tops up only while the monthly
	// reward pool can cover it.
	MinPerUserMonthlyUsd float64 `json:"min_per_user_monthly_usd" yaml:"min_per_user_monthly_usd"`
	MaxPerUserMonthlyUsd float64 `json:"max_per_user_monthly_usd" yaml:"max_per_user_monthly_usd"`
}

// StakingConfig prices the staking module.
type StakingConfig struct {
	ParticipationRate  float64 `json:"participation_rate" yaml:"participation_rate"`
	AnnualYieldRate    float64 `json:"annual_yield_rate" yaml:"annual_yield_rate"`
	PlatformFeeShare   float64 `json:"platform_fee_share" yaml:"platform_fee_share"`
	OperatingCostRatio float64 `json:"operating_cost_ratio" yaml:"operating_cost_ratio"`
}

// LiquidityConfig prices the liquidity-provision module.
type LiquidityConfig struct {
	TVLShareOfMarketCap float64 `json:"tvl_share_of_market_cap" yaml:"tvl_share_of_market_cap"`
	MonthlyTurnover     float64 `json:"monthly_turnover" yaml:"monthly_turnover"`
	PoolFeeRate         float64 `json:"pool_fee_rate" yaml:"pool_fee_rate"`
	ProtocolFeeShare    float64 `json:"protocol_fee_share" yaml:"protocol_fee_share"`
	IncentiveCostRatio  float64 `json:"incentive_cost_ratio" yaml:"incentive_cost_ratio"`
}

// GovernanceConfig prices the governance module.
type GovernanceConfig struct {
	ProposalFeeUsd      float64 `json:"proposal_fee_usd" yaml:"proposal_fee_usd"`
	ProposalsPer10K     float64 `json:"proposals_per_10k" yaml:"proposals_per_10k"`
	FacilitationCostPct float64 `json:"facilitation_cost_pct" yaml:"facilitation_cost_pct"`
}

// FutureModuleConfig gates a module behind a launch month with a linear
// 12-month ramp to full output.
type FutureModuleConfig struct {
	LaunchMonth       int     `json:"launch_month" yaml:"launch_month"`
	RevenuePerUserUsd float64 `json:"revenue_per_user_usd" yaml:"revenue_per_user_usd"`
	CostRatio         float64 `json:"cost_ratio" yaml:"cost_ratio"`
}

// RecaptureConfig converts emission and profit into burns, buybacks,
// staking lock-up and treasury accumulation.
type RecaptureConfig struct {
	BurnRate               float64 `json:"burn_rate" yaml:"burn_rate"`
	BuybackPercentOfProfit float64 `json:"buyback_percent_of_profit" yaml:"buyback_percent_of_profit"`
	StakingLockRate        float64 `json:"staking_lock_rate" yaml:"staking_lock_rate"`
	TreasuryRate           float64 `json:"treasury_rate" yaml:"treasury_rate"`
	// AggregateCeiling bounds recaptured/emitted after per-flow ceilings.
	// Flows are scaled down uniformly when the ceiling binds.
	AggregateCeiling float64 `json:"aggregate_ceiling" yaml:"aggregate_ceiling"`
	// Per-flow monthly token ceilings. Zero means uncapped.
	MaxMonthlyBurnTokens     float64 `json:"max_monthly_burn_tokens" yaml:"max_monthly_burn_tokens"`
	MaxMonthlyBuybackTokens  float64 `json:"max_monthly_buyback_tokens" yaml:"max_monthly_buyback_tokens"`
	MaxMonthlyStakingTokens  float64 `json:"max_monthly_staking_tokens" yaml:"max_monthly_staking_tokens"`
	MaxMonthlyTreasuryTokens float64 `json:"max_monthly_treasury_tokens" yaml:"max_monthly_treasury_tokens"`
}

// MonteCarloConfig tunes the ensemble wrapper. Jitters are relative widths:
// the stddev for normal perturbation, the half-range for uniform.
type MonteCarloConfig struct {
	Iterations        int     `json:"iterations" yaml:"iterations"`
	Seed              int64   `json:"seed" yaml:"seed"`
	Distribution      string  `json:"distribution" yaml:"distribution"`
	GrowthRateJitter  float64 `json:"growth_rate_jitter" yaml:"growth_rate_jitter"`
	CACJitter         float64 `json:"cac_jitter" yaml:"cac_jitter"`
	ElasticityJitter  float64 `json:"elasticity_jitter" yaml:"elasticity_jitter"`
	// SyncIterationLimit is the largest iteration count served inline;
	// bigger submissions go through the job manager.
	SyncIterationLimit int `json:"sync_iteration_limit" yaml:"sync_iteration_limit"`
}

// Perturbation distribution names.
const (
	DistributionNormal  = "normal"
	DistributionUniform = "uniform"
)

// AgentConfig tunes the agent-based wrapper.
type AgentConfig struct {
	Proportions       AgentProportions               `json:"proportions" yaml:"proportions"`
	Behavior          map[AgentType]AgentBehavior    `json:"behavior" yaml:"behavior"`
	BotFlagBand       Band                           `json:"bot_flag_band" yaml:"bot_flag_band"`
	LiquidityDepthUsd float64                        `json:"liquidity_depth_usd" yaml:"liquidity_depth_usd"`
	// MaxMonthlyPriceImpact clamps the per-month estimated price move.
	MaxMonthlyPriceImpact float64 `json:"max_monthly_price_impact" yaml:"max_monthly_price_impact"`
}

// AgentProportions splits the population by archetype; must sum to 1.0.
type AgentProportions struct {
	Creator  float64 `json:"creator" yaml:"creator"`
	Consumer float64 `json:"consumer" yaml:"consumer"`
	Whale    float64 `json:"whale" yaml:"whale"`
	Bot      float64 `json:"bot" yaml:"bot"`
}

// AgentBehavior holds one archetype's acquisition and monthly behavior
// knobs.
type AgentBehavior struct {
	// AcquisitionCostUsd is the one-time cost of acquiring one agent of
	// this archetype.
	AcquisitionCostUsd float64 `json:"acquisition_cost_usd" yaml:"acquisition_cost_usd"`
	ActivityMean       float64 `json:"activity_mean" yaml:"activity_mean"`
	ActivitySpread     float64 `json:"activity_spread" yaml:"activity_spread"`
	SellRate           float64 `json:"sell_rate" yaml:"sell_rate"`
	StakeRate          float64 `json:"stake_rate" yaml:"stake_rate"`
	MonthlySpendUsd    float64 `json:"monthly_spend_usd" yaml:"monthly_spend_usd"`
	// RewardClaimBoost inflates reward extraction relative to activity;
	// values far from 1.0 are what the bot heuristic detects.
	RewardClaimBoost float64 `json:"reward_claim_boost" yaml:"reward_claim_boost"`
}

// Band is an inclusive [Min, Max] interval.
type Band struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

// BlendedCAC returns the share-weighted acquisition cost across segments.
func (p Parameters) BlendedCAC() float64 {
	blended := 0.0
	for _, seg := range p.CACSegments {
		blended += seg.CostUsd * seg.Share
	}
	return blended
}

// MarketingBudgetForYear returns the acquisition budget for a 1-based year.
func (p Parameters) MarketingBudgetForYear(year int) float64 {
	if year <= 1 {
		return p.MarketingBudgetYear1
	}
	return p.MarketingBudgetAnnual
}

// ModuleEnabled reports whether a module participates in the run.
func (p Parameters) ModuleEnabled(kind ModuleKind) bool {
	return p.Modules.Enabled[kind]
}
