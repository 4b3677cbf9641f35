// Package projection drives one deterministic run of the per-month
// pipeline across a requested horizon.
package projection

import (
	"context"
	"fmt"
	"log"

	"tokenomics-lab/internal/domain"
	"tokenomics-lab/internal/growth"
	"tokenomics-lab/internal/price"
	"tokenomics-lab/internal/recapture"
	"tokenomics-lab/internal/revenue"
	"tokenomics-lab/internal/vesting"
)

// Runner executes deterministic projections.
type Runner struct {
	params  domain.Parameters
	horizon int
	logger  *log.Logger
	verbose bool
}

// Options contains configuration for creating a Runner.
type Options struct {
	Params        domain.Parameters
	HorizonMonths int
	Logger        *log.Logger
	Verbose       bool
}

// NewRunner creates a projection runner.
func NewRunner(opts Options) *Runner {
	return &Runner{
		params:  opts.Params,
		horizon: opts.HorizonMonths,
		logger:  opts.Logger,
		verbose: opts.Verbose,
	}
}

// Run executes the month-by-month pipeline. Validation happens before the
// first month so a bad parameter set fails atomically with no partial
// output; identical Parameters and horizon always produce identical
// sequences. Steps per month:
//  1. Advance the user base
//  2. Advance the token price
//  3. Vesting unlocks for the elapsed month
//  4. Module revenue at current users and price
//  5. Recapture flows from emission and profit
func (r *Runner) Run(ctx context.Context) (*domain.RunResult, error) {
	if r.horizon < 1 {
		return nil, fmt.Errorf("%w: horizon must be >= 1 month, got %d", domain.ErrInvalidParameter, r.horizon)
	}
	if err := r.params.Validate(); err != nil {
		return nil, err
	}

	growthEng, err := growth.NewEngine(r.params)
	if err != nil {
		return nil, err
	}
	priceEng, err := price.NewEngine(r.params)
	if err != nil {
		return nil, err
	}
	revenueEng, err := revenue.NewEngine(r.params)
	if err != nil {
		return nil, err
	}
	vestEng, err := vesting.NewEngine(r.params.Allocations, r.params.TotalSupply)
	if err != nil {
		return nil, err
	}
	recapEng := recapture.NewEngine(r.params.Recapture)

	r.log("starting deterministic run: scenario=%s cycle=%s horizon=%d",
		r.params.GrowthScenario, r.params.MarketCycle, r.horizon)

	months := make([]domain.MonthlyState, 0, r.horizon)
	prevUsers := r.params.LaunchUsers
	prevPrice := r.params.InitialTokenPrice
	circulating := 0.0

	for m := 1; m <= r.horizon; m++ {
		// Deterministic runs are all-or-nothing; a cancelled context
		// aborts without partial output.
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		g := growthEng.Advance(m, prevUsers)
		p := priceEng.Advance(m, prevPrice, g.Users, r.usersYearBefore(months, m))

		// Elapsed months since TGE: the run's first month is month 0.
		unlocks := vestEng.UnlockAt(m - 1)

		modResults, totals := revenueEng.Compute(revenue.Input{
			Month:             m,
			Users:             g.Users,
			TokenPrice:        p.Price,
			CirculatingSupply: circulating,
			RewardsPoolTokens: unlocks.RewardsPool,
		})

		flows := recapEng.Compute(unlocks.Total, totals.Profit, p.Price)

		// Burns and buybacks leave circulation; staked tokens stay in.
		delta := unlocks.Total - flows.BurnedTokens - flows.BuybackTokens
		circulating += delta

		months = append(months, domain.MonthlyState{
			Month: m,
			Year:  (m-1)/12 + 1,

			ActiveUsers:         g.Users,
			UsersAcquired:       g.Acquired,
			UsersChurned:        g.Churned,
			MarketingAcquired:   g.MarketingAcquired,
			EffectiveGrowthRate: g.EffectiveRate,

			TokenPrice: p.Price,

			Modules:      modResults,
			TotalRevenue: totals.Revenue,
			TotalCosts:   totals.Costs,
			TotalProfit:  totals.Profit,

			GrossEmission:       unlocks.Total,
			RewardsPoolEmission: unlocks.RewardsPool,
			NetEmission:         delta,
			CirculatingSupply:   circulating,
			CirculatingDelta:    delta,
			VestingUnlocks:      unlocks.PerCategory,

			Recapture: flows,
		})

		prevUsers = g.Users
		prevPrice = p.Price
	}

	r.log("run complete: final_users=%d final_price=%.6f", prevUsers, prevPrice)

	return &domain.RunResult{
		ScenarioID: r.params.GrowthScenario,
		CycleID:    r.params.MarketCycle,
		Months:     months,
		Years:      domain.AggregateYears(r.params.LaunchUsers, months),
		Summary:    domain.Summarize(months),
	}, nil
}

// usersYearBefore returns the user count 12 months before month m, the
// baseline for the year-start price step. Before the run started that is
// the launch population.
func (r *Runner) usersYearBefore(months []domain.MonthlyState, m int) int {
	baseline := m - 13 // month whose end sits one year back
	if baseline < 1 {
		return r.params.LaunchUsers
	}
	return months[baseline-1].ActiveUsers
}

// log prints if verbose logging is enabled.
func (r *Runner) log(format string, args ...interface{}) {
	if r.verbose && r.logger != nil {
		r.logger.Printf(format, args...)
	}
}
