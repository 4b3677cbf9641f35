package domain

// Named defaults for the tunable constants. Values match the original
// planning model and are preserved exactly for behavioral compatibility.
const (
	DefaultDiminishingReturnsExp = 0.4
	DefaultDampeningCoeff        = 0.25
	DefaultAllocationFloor       = 0.05
	DefaultAllocationCeiling     = 0.90
	DefaultRecaptureCeiling      = 0.80
	DefaultTokenShare            = 0.5
	DefaultMaxPriceBoost         = 4.0
	DefaultBaselineAnnualRate    = 0.05
)

// DefaultHorizonMonths is the standard 5-year projection window.
const DefaultHorizonMonths = 60

// DefaultParameters returns the fully-populated base parameter set. Config
// files and request bodies are unmarshalled on top of this value, so any
// field they omit keeps its default.
func DefaultParameters() Parameters {
	return Parameters{
		TotalSupply:       1_000_000_000,
		InitialTokenPrice: 0.05,

		LaunchUsers:           0,
		GrowthScenario:        ScenarioBase,
		MarketCycle:           CycleNeutral,
		OrganicGrowth:         true,
		MarketingBudgetYear1:  500_000,
		MarketingBudgetAnnual: 750_000,
		CACSegments: []CACSegment{
			{Name: "paid_social", CostUsd: 10.0, Share: 0.60},
			{Name: "referral", CostUsd: 3.0, Share: 0.25},
			{Name: "partnerships", CostUsd: 15.0, Share: 0.15},
		},
		FOMOEvents:            nil,
		DiminishingReturnsExp: DefaultDiminishingReturnsExp,
		GrowthRateScale:       1.0,

		Price: PriceConfig{
			Elasticity:         0.8,
			DampeningCoeff:     DefaultDampeningCoeff,
			MaxMultiplier:      3.0,
			MultiplierFloor:    0.1,
			BaselineAnnualRate: DefaultBaselineAnnualRate,
		},

		Modules: ModulesConfig{
			Enabled: defaultEnablement(),
			Coupling: TokenCouplingConfig{
				TokenShare:    DefaultTokenShare,
				BaselinePrice: 0.05,
				MaxBoost:      DefaultMaxPriceBoost,
			},
			Identity: IdentityConfig{
				AdoptionRate:  0.15,
				MonthlyFeeUsd: 2.0,
				CostRatio:     0.30,
			},
			Content: ContentConfig{
				ARPUUsd:                  1.20,
				CreatorPayoutRatio:       0.55,
				ModerationCostPerUserUsd: 0.05,
			},
			Advertising: AdvertisingConfig{
				ImpressionsPerUser: 120,
				BaseCPMUsd:         3.50,
				FillRate:           0.65,
				ServingCostRatio:   0.20,
			},
			Exchange: ExchangeConfig{
				ActiveTraderShare:         0.08,
				MonthlyVolumePerTraderUsd: 450,
				TakerFeeRate:              0.002,
				OperatingCostRatio:        0.25,
			},
			Rewards: RewardsConfig{
				DynamicAllocation: DynamicAllocationConfig{
					Enabled:               true,
					FloorPercent:          DefaultAllocationFloor,
					CeilingPercent:        DefaultAllocationCeiling,
					ReferenceInitialUsers: 10_000,
					ReferenceTargetUsers:  1_000_000,
					MinPerUserMonthlyUsd:  0.25,
					MaxPerUserMonthlyUsd:  8.0,
				},
				FixedAllocationPercent: 0.30,
				BrandCampaignUsdPer1K:  15.0,
				FulfillmentCostRatio:   0.10,
			},
			Staking: StakingConfig{
				ParticipationRate:  0.22,
				AnnualYieldRate:    0.08,
				PlatformFeeShare:   0.15,
				OperatingCostRatio: 0.10,
			},
			Liquidity: LiquidityConfig{
				TVLShareOfMarketCap: 0.06,
				MonthlyTurnover:     2.5,
				PoolFeeRate:         0.003,
				ProtocolFeeShare:    0.25,
				IncentiveCostRatio:  0.30,
			},
			Governance: GovernanceConfig{
				ProposalFeeUsd:      150,
				ProposalsPer10K:     0.8,
				FacilitationCostPct: 0.10,
			},
			Future: map[ModuleKind]FutureModuleConfig{
				ModuleCrossPlatform: {LaunchMonth: 18, RevenuePerUserUsd: 0.40, CostRatio: 0.35},
				ModuleMarketplace:   {LaunchMonth: 24, RevenuePerUserUsd: 0.90, CostRatio: 0.45},
				ModuleBusinessHub:   {LaunchMonth: 30, RevenuePerUserUsd: 0.60, CostRatio: 0.40},
				ModuleCrossChain:    {LaunchMonth: 36, RevenuePerUserUsd: 0.30, CostRatio: 0.50},
			},
		},

		Allocations: DefaultAllocations(),
		Recapture: RecaptureConfig{
			BurnRate:               0.15,
			BuybackPercentOfProfit: 0.10,
			StakingLockRate:        0.20,
			TreasuryRate:           0.10,
			AggregateCeiling:       DefaultRecaptureCeiling,
		},

		MonteCarlo: MonteCarloConfig{
			Iterations:         200,
			Seed:               1,
			Distribution:       DistributionNormal,
			GrowthRateJitter:   0.15,
			CACJitter:          0.20,
			ElasticityJitter:   0.10,
			SyncIterationLimit: 100,
		},

		Agents: AgentConfig{
			Proportions: AgentProportions{
				Creator:  0.10,
				Consumer: 0.80,
				Whale:    0.02,
				Bot:      0.08,
			},
			Behavior: map[AgentType]AgentBehavior{
				AgentCreator: {
					AcquisitionCostUsd: 15.00,
					ActivityMean:       3.0,
					ActivitySpread:     1.0,
					SellRate:           0.40,
					StakeRate:          0.20,
					MonthlySpendUsd:    25,
					RewardClaimBoost:   1.0,
				},
				AgentConsumer: {
					AcquisitionCostUsd: 8.00,
					ActivityMean:       1.0,
					ActivitySpread:     0.5,
					SellRate:           0.60,
					StakeRate:          0.10,
					MonthlySpendUsd:    8,
					RewardClaimBoost:   1.0,
				},
				AgentWhale: {
					AcquisitionCostUsd: 50.00,
					ActivityMean:       2.0,
					ActivitySpread:     0.8,
					SellRate:           0.15,
					StakeRate:          0.50,
					MonthlySpendUsd:    500,
					RewardClaimBoost:   1.0,
				},
				// Bots self-register; the residual cost covers fraud review.
				AgentBot: {
					AcquisitionCostUsd: 0.50,
					ActivityMean:       0.3,
					ActivitySpread:     0.1,
					SellRate:           0.95,
					StakeRate:          0,
					MonthlySpendUsd:    0,
					RewardClaimBoost:   4.0,
				},
			},
			BotFlagBand:           Band{Min: 0.5, Max: 2.0},
			LiquidityDepthUsd:     2_000_000,
			MaxMonthlyPriceImpact: 0.50,
		},
	}
}

// defaultEnablement turns every module on; callers flip individual kinds.
func defaultEnablement() map[ModuleKind]bool {
	enabled := make(map[ModuleKind]bool, len(AllModuleKinds))
	for _, kind := range AllModuleKinds {
		enabled[kind] = true
	}
	return enabled
}
