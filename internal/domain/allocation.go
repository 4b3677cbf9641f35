package domain

// AllocationMode selects how a category's tokens unlock.
type AllocationMode string

const (
	// AllocationLinear unlocks TGEPercent at month 0, nothing through the
	// cliff, then the remainder linearly across the vesting months.
	AllocationLinear AllocationMode = "linear"
	// AllocationProgrammatic unlocks tokens/emissionMonths every month
	// from month 0, ignoring cliff and vesting fields.
	AllocationProgrammatic AllocationMode = "programmatic"
	// AllocationLocked never auto-unlocks; release requires an external
	// governance action outside this engine.
	AllocationLocked AllocationMode = "locked"
)

// TokenAllocationCategory is one row of the token distribution table.
type TokenAllocationCategory struct {
	Name           string         `json:"name" yaml:"name"`
	Percent        float64        `json:"percent" yaml:"percent"`
	Mode           AllocationMode `json:"mode" yaml:"mode"`
	TGEPercent     float64        `json:"tge_percent" yaml:"tge_percent"`
	CliffMonths    int            `json:"cliff_months" yaml:"cliff_months"`
	VestingMonths  int            `json:"vesting_months" yaml:"vesting_months"`
	EmissionMonths int            `json:"emission_months" yaml:"emission_months"`
	// RewardsPool marks the programmatic category that feeds the rewards
	// module's monthly emission budget.
	RewardsPool bool `json:"rewards_pool" yaml:"rewards_pool"`
}

// Tokens returns the category's absolute allocation out of totalSupply.
func (c TokenAllocationCategory) Tokens(totalSupply float64) float64 {
	return totalSupply * c.Percent
}

// DefaultAllocations returns the ten-category distribution table.
// Percents sum to exactly 1.0.
func DefaultAllocations() []TokenAllocationCategory {
	return []TokenAllocationCategory{
		{Name: "public_sale", Percent: 0.10, Mode: AllocationLinear, TGEPercent: 0.25, CliffMonths: 0, VestingMonths: 12},
		{Name: "seed", Percent: 0.08, Mode: AllocationLinear, TGEPercent: 0.05, CliffMonths: 6, VestingMonths: 18},
		{Name: "private_sale", Percent: 0.12, Mode: AllocationLinear, TGEPercent: 0.10, CliffMonths: 3, VestingMonths: 18},
		{Name: "team", Percent: 0.18, Mode: AllocationLinear, TGEPercent: 0, CliffMonths: 12, VestingMonths: 24},
		{Name: "advisors", Percent: 0.04, Mode: AllocationLinear, TGEPercent: 0, CliffMonths: 6, VestingMonths: 18},
		{Name: "rewards", Percent: 0.25, Mode: AllocationProgrammatic, EmissionMonths: 60, RewardsPool: true},
		{Name: "treasury", Percent: 0.10, Mode: AllocationLocked},
		{Name: "liquidity", Percent: 0.05, Mode: AllocationLinear, TGEPercent: 0.50, CliffMonths: 0, VestingMonths: 6},
		{Name: "marketing", Percent: 0.05, Mode: AllocationLinear, TGEPercent: 0.10, CliffMonths: 1, VestingMonths: 12},
		{Name: "community", Percent: 0.03, Mode: AllocationLinear, TGEPercent: 0.30, CliffMonths: 0, VestingMonths: 6},
	}
}
