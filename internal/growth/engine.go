// Package growth produces the monthly active-user trajectory from
// acquisition economics, growth-scenario curves and market-cycle
// multipliers.
package growth

import (
	"fmt"
	"math"

	"tokenomics-lab/internal/domain"
)

// FrontLoadedSchedule distributes a year's marketing acquisition across its
// 12 months, weighted toward the first quarter. Entries sum to exactly 1.0.
var FrontLoadedSchedule = [12]float64{
	0.15, 0.12, 0.10, 0.09, 0.08, 0.08,
	0.07, 0.07, 0.06, 0.06, 0.06, 0.06,
}

// Engine advances the user base one month at a time.
type Engine struct {
	params   domain.Parameters
	scenario domain.GrowthScenarioConfig
	cycle    domain.MarketCycleConfig
}

// Result carries one month's user movement and its components.
type Result struct {
	Users             int
	Acquired          int
	Churned           int
	MarketingAcquired int
	EffectiveRate     float64
}

// NewEngine resolves the scenario and cycle referenced by params.
func NewEngine(params domain.Parameters) (*Engine, error) {
	scenario, ok := domain.GrowthScenarioByID(params.GrowthScenario)
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownScenario, params.GrowthScenario)
	}
	cycle, ok := domain.MarketCycleByID(params.MarketCycle)
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownMarketCycle, params.MarketCycle)
	}
	return &Engine{params: params, scenario: scenario, cycle: cycle}, nil
}

// Advance computes month's user count from the prior month's count.
// Steps:
//  1. Base monthly rate: year 1 reads the scenario's literal 12-entry
//     table; later years use the fixed per-year base rate (organic table
//     when organic growth is on).
//  2. Multiply by the market cycle's growth multiplier for the year.
//  3. Compound: users = round(prev * (1 + effectiveRate)).
//  4. Add the month's slice of the diminishing-returns marketing addend.
//  5. FOMO events multiply the acquisition addend, never the base.
func (e *Engine) Advance(month int, prevUsers int) Result {
	year := (month-1)/12 + 1
	monthOfYear := (month-1)%12 + 1

	var baseRate float64
	if year == 1 {
		baseRate = e.scenario.Year1MonthlyRates[monthOfYear-1]
	} else {
		baseRate = domain.BaseRateForYear(year, e.params.OrganicGrowth)
	}

	effective := baseRate * e.params.GrowthRateScale * e.cycle.GrowthMultiplierForYear(year)

	// Negative rates in bear months are allowed and shrink the base.
	grown := int(math.Round(float64(prevUsers) * (1 + effective)))
	if grown < 0 {
		grown = 0
	}

	marketing := e.marketingAcquired(year, monthOfYear)
	if boost := e.fomoMultiplier(month); boost != 1.0 {
		marketing = int(math.Round(float64(marketing) * boost))
	}

	acquired := marketing
	churned := 0
	if grown > prevUsers {
		acquired += grown - prevUsers
	} else {
		churned = prevUsers - grown
	}

	return Result{
		Users:             grown + marketing,
		Acquired:          acquired,
		Churned:           churned,
		MarketingAcquired: marketing,
		EffectiveRate:     effective,
	}
}

// marketingAcquired returns the month's slice of the year's
// budget-derived acquisition: floor(budget/CAC * 1/year^exp) spread over
// the front-loaded schedule. A zero blended CAC skips the addend rather
// than dividing by zero.
func (e *Engine) marketingAcquired(year, monthOfYear int) int {
	cac := e.params.BlendedCAC()
	if cac <= 0 {
		return 0
	}
	budget := e.params.MarketingBudgetForYear(year)
	if budget <= 0 {
		return 0
	}

	annual := math.Floor(budget / cac / math.Pow(float64(year), e.params.DiminishingReturnsExp))
	return int(math.Round(annual * FrontLoadedSchedule[monthOfYear-1]))
}

// fomoMultiplier returns the combined impact of events covering month.
func (e *Engine) fomoMultiplier(month int) float64 {
	mult := 1.0
	for _, ev := range e.params.FOMOEvents {
		if month >= ev.Month && month < ev.Month+ev.DurationMonths {
			mult *= ev.Impact
		}
	}
	return mult
}
