// Package price produces the monthly token price trajectory from
// market-cycle multipliers and a user-growth elasticity model with
// logarithmic dampening.
package price

import (
	"fmt"
	"math"

	"tokenomics-lab/internal/domain"
)

// Engine advances the token price one month at a time.
type Engine struct {
	cfg   domain.PriceConfig
	cycle domain.MarketCycleConfig
}

// Result carries one month's price and the factors that produced it.
type Result struct {
	Price float64
	// YearMultiplier is the elasticity step applied at year starts,
	// 1.0 everywhere else.
	YearMultiplier float64
	MonthlyRate    float64
	Dampening      float64
}

// NewEngine resolves the market cycle referenced by params.
func NewEngine(params domain.Parameters) (*Engine, error) {
	cycle, ok := domain.MarketCycleByID(params.MarketCycle)
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownMarketCycle, params.MarketCycle)
	}
	return &Engine{cfg: params.Price, cycle: cycle}, nil
}

// Advance computes the month's price. At the start of each year beyond
// year 1 it applies the growth-ratio elasticity step once, then every
// month compounds the smaller continuous rate derived from the year's
// price multiplier. The resulting path stays strictly positive and
// saturates the contribution from user-count scale.
func (e *Engine) Advance(month int, prevPrice float64, users, usersYearAgo int) Result {
	year := (month-1)/12 + 1
	monthOfYear := (month-1)%12 + 1

	res := Result{YearMultiplier: 1.0, Dampening: 1.0}
	p := prevPrice

	if year > 1 && monthOfYear == 1 {
		mult, damp := e.yearStartMultiplier(users, usersYearAgo)
		p *= mult
		res.YearMultiplier = mult
		res.Dampening = damp
	}

	rate := e.monthlyRate(year)
	p *= 1 + rate

	res.MonthlyRate = rate
	res.Price = p
	return res
}

// yearStartMultiplier converts year-over-year user growth into a price
// multiplier: dampening = clamp(1/(1+coeff*(log10(users)-3)), 0.1, 1.0),
// impact = (ratio-1)*elasticity*dampening, multiplier clamped to
// [MultiplierFloor, MaxMultiplier]. User counts below 1 clamp to 1 before
// the logarithm.
func (e *Engine) yearStartMultiplier(users, usersYearAgo int) (mult, damp float64) {
	if users < 1 {
		users = 1
	}
	if usersYearAgo < 1 {
		usersYearAgo = 1
	}

	damp = 1 / (1 + e.cfg.DampeningCoeff*(math.Log10(float64(users))-3))
	damp = clamp(damp, 0.1, 1.0)

	ratio := float64(users) / float64(usersYearAgo)
	impact := (ratio - 1) * e.cfg.Elasticity * damp

	mult = clamp(1+impact, e.cfg.MultiplierFloor, e.cfg.MaxMultiplier)
	return mult, damp
}

// monthlyRate spreads the annual appreciation evenly across 12 months:
// the full cycle multiplier for years 1-2, then the baseline 5%/year
// scaled by the cycle's price multiplier.
func (e *Engine) monthlyRate(year int) float64 {
	pm := e.cycle.PriceMultiplierForYear(year)

	var annual float64
	if year <= 2 {
		annual = pm
	} else {
		annual = 1 + e.cfg.BaselineAnnualRate*pm
	}
	if annual <= 0 {
		return 0
	}
	return math.Pow(annual, 1.0/12.0) - 1
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
