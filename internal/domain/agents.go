package domain

// AgentType identifies an agent archetype.
type AgentType string

// Agent archetype constants
const (
	AgentCreator  AgentType = "creator"
	AgentConsumer AgentType = "consumer"
	AgentWhale    AgentType = "whale"
	AgentBot      AgentType = "bot"
)

// AgentTypes lists archetypes in spawn order.
var AgentTypes = []AgentType{AgentCreator, AgentConsumer, AgentWhale, AgentBot}

// AgentMonthlyAggregate is the population-level view of one simulated
// month: market pressure and price-impact estimates computed from
// individual agent behavior, independent of the module-revenue formulas.
type AgentMonthlyAggregate struct {
	Month                    int     `json:"month"`
	RewardsDistributedTokens float64 `json:"rewards_distributed_tokens"`
	BuyPressureUsd           float64 `json:"buy_pressure_usd"`
	SellPressureUsd          float64 `json:"sell_pressure_usd"`
	NetPressureUsd           float64 `json:"net_pressure_usd"`
	PriceImpact              float64 `json:"price_impact"`
	EstimatedPrice           float64 `json:"estimated_price"`
	StakedTokens             float64 `json:"staked_tokens"`
	FlaggedBots              int     `json:"flagged_bots"`
}

// AgentTypeStats accumulates per-archetype totals across the run.
// AcquisitionSpendUsd is the one-time cost of acquiring the archetype's
// cohort, count times the configured per-agent cost.
type AgentTypeStats struct {
	Count               int     `json:"count"`
	AcquisitionSpendUsd float64 `json:"acquisition_spend_usd"`
	TotalEarnedTokens   float64 `json:"total_earned_tokens"`
	TotalSoldTokens     float64 `json:"total_sold_tokens"`
	TotalStakedTokens   float64 `json:"total_staked_tokens"`
	EndHoldingsTokens   float64 `json:"end_holdings_tokens"`
}

// AgentPopulationResult is the full output of one agent-based run.
type AgentPopulationResult struct {
	AgentCount int   `json:"agent_count"`
	Months     int   `json:"months"`
	Seed       int64 `json:"seed"`

	Monthly   []AgentMonthlyAggregate      `json:"monthly"`
	TypeStats map[AgentType]AgentTypeStats `json:"type_stats"`

	// FlaggedBots counts agents whose reward-to-activity ratio ended the
	// run outside the configured band; ActualBots is the spawned count.
	FlaggedBots int `json:"flagged_bots"`
	ActualBots  int `json:"actual_bots"`

	// TotalAcquisitionSpendUsd sums acquisition spend across archetypes.
	TotalAcquisitionSpendUsd float64 `json:"total_acquisition_spend_usd"`

	FinalEstimatedPrice float64 `json:"final_estimated_price"`
}
