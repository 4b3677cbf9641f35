package domain

// ModuleKind identifies a revenue module.
type ModuleKind string

// Core module kinds, live from month 1.
const (
	ModuleIdentity    ModuleKind = "identity"
	ModuleContent     ModuleKind = "content"
	ModuleAdvertising ModuleKind = "advertising"
	ModuleExchange    ModuleKind = "exchange"
	ModuleRewards     ModuleKind = "rewards"
	ModuleStaking     ModuleKind = "staking"
	ModuleLiquidity   ModuleKind = "liquidity"
	ModuleGovernance  ModuleKind = "governance"
)

// Future module kinds, gated by a configured launch month and a
// 12-month linear ramp after launch.
const (
	ModuleCrossPlatform ModuleKind = "cross_platform"
	ModuleMarketplace   ModuleKind = "marketplace"
	ModuleBusinessHub   ModuleKind = "business_hub"
	ModuleCrossChain    ModuleKind = "cross_chain"
)

// CoreModuleKinds lists core modules in registry order.
var CoreModuleKinds = []ModuleKind{
	ModuleIdentity,
	ModuleContent,
	ModuleAdvertising,
	ModuleExchange,
	ModuleRewards,
	ModuleStaking,
	ModuleLiquidity,
	ModuleGovernance,
}

// FutureModuleKinds lists launch-gated modules in registry order.
var FutureModuleKinds = []ModuleKind{
	ModuleCrossPlatform,
	ModuleMarketplace,
	ModuleBusinessHub,
	ModuleCrossChain,
}

// AllModuleKinds lists every module in registry order. The order is fixed
// so that runs with identical parameters produce identical sequences.
var AllModuleKinds = append(append([]ModuleKind{}, CoreModuleKinds...), FutureModuleKinds...)

// ModuleResult is one module's output for one month. Breakdown carries
// module-specific intermediate figures (impressions, allocation percent,
// staked tokens and so on) keyed by stable snake_case names.
type ModuleResult struct {
	Kind      ModuleKind         `json:"kind"`
	Revenue   float64            `json:"revenue"`
	Costs     float64            `json:"costs"`
	Profit    float64            `json:"profit"`
	Breakdown map[string]float64 `json:"breakdown,omitempty"`
}
