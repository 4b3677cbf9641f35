// Package revenue computes monthly revenue, costs and profit for each
// enabled module through a kind -> computeFn registry.
package revenue

import (
	"fmt"

	"tokenomics-lab/internal/domain"
)

// Input is the per-month context every module computes from.
type Input struct {
	Month int
	Users int
	// TokenPrice is the month's token price in USD.
	TokenPrice float64
	// CirculatingSupply is the circulating token count entering the month.
	CirculatingSupply float64
	// RewardsPoolTokens is this month's programmatic rewards-pool unlock.
	RewardsPoolTokens float64
}

// ComputeFn produces one module's monthly result.
type ComputeFn func(in Input) domain.ModuleResult

// registryEntry binds a module kind to its compute function and the two
// platform-wide policies: token-price coupling and launch gating.
type registryEntry struct {
	kind    domain.ModuleKind
	compute ComputeFn
	coupled bool
	future  bool
}

// Totals sums module results for one month.
type Totals struct {
	Revenue float64
	Costs   float64
	Profit  float64
}

// Engine walks the module registry in a fixed order so identical
// parameters always produce identical sequences.
type Engine struct {
	params   domain.Parameters
	registry []registryEntry
}

// NewEngine builds the registry for params. Enabled future modules must
// carry a launch configuration; Parameters.Validate enforces that before
// any run, and the constructor re-checks to stay safe standalone.
func NewEngine(params domain.Parameters) (*Engine, error) {
	for _, kind := range domain.FutureModuleKinds {
		if !params.ModuleEnabled(kind) {
			continue
		}
		if _, ok := params.Modules.Future[kind]; !ok {
			return nil, fmt.Errorf("%w: future module %q enabled without config", domain.ErrInvalidParameter, kind)
		}
	}

	e := &Engine{params: params}
	e.registry = []registryEntry{
		{domain.ModuleIdentity, e.computeIdentity, true, false},
		{domain.ModuleContent, e.computeContent, true, false},
		{domain.ModuleAdvertising, e.computeAdvertising, true, false},
		{domain.ModuleExchange, e.computeExchange, true, false},
		// Rewards economics are token-linked through emission already,
		// so price coupling does not apply a second time.
		{domain.ModuleRewards, e.computeRewards, false, false},
		{domain.ModuleStaking, e.computeStaking, true, false},
		{domain.ModuleLiquidity, e.computeLiquidity, true, false},
		{domain.ModuleGovernance, e.computeGovernance, true, false},
		{domain.ModuleCrossPlatform, e.futureCompute(domain.ModuleCrossPlatform), false, true},
		{domain.ModuleMarketplace, e.futureCompute(domain.ModuleMarketplace), false, true},
		{domain.ModuleBusinessHub, e.futureCompute(domain.ModuleBusinessHub), false, true},
		{domain.ModuleCrossChain, e.futureCompute(domain.ModuleCrossChain), false, true},
	}
	return e, nil
}

// Compute runs every enabled module for the month and returns the results
// in registry order plus their totals.
func (e *Engine) Compute(in Input) ([]domain.ModuleResult, Totals) {
	results := make([]domain.ModuleResult, 0, len(e.registry))
	var totals Totals

	for _, entry := range e.registry {
		if !e.params.ModuleEnabled(entry.kind) {
			continue
		}

		res := entry.compute(in)
		if entry.coupled {
			res = e.applyCoupling(res, in.TokenPrice)
		}

		results = append(results, res)
		totals.Revenue += res.Revenue
		totals.Costs += res.Costs
		totals.Profit += res.Profit
	}

	return results, totals
}

// applyCoupling scales the token-denominated share of a core module's
// revenue with tokenPrice/baseline, capped at MaxBoost so compounding
// price growth cannot run away.
func (e *Engine) applyCoupling(res domain.ModuleResult, tokenPrice float64) domain.ModuleResult {
	c := e.params.Modules.Coupling

	boost := tokenPrice / c.BaselinePrice
	if boost > c.MaxBoost {
		boost = c.MaxBoost
	}
	factor := (1 - c.TokenShare) + c.TokenShare*boost

	res.Revenue *= factor
	res.Profit = res.Revenue - res.Costs
	if res.Breakdown == nil {
		res.Breakdown = make(map[string]float64, 1)
	}
	res.Breakdown["price_coupling_factor"] = factor
	return res
}
