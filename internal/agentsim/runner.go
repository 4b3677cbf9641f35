package agentsim

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"os"

	"tokenomics-lab/internal/domain"
	"tokenomics-lab/internal/vesting"
)

// Runner executes a discrete agent population over a monthly horizon. It
// estimates market pressure bottom-up from individual behavior; the
// numbers are intentionally independent of the module-revenue formulas so
// the two paths can be cross-checked against each other.
type Runner struct {
	params  domain.Parameters
	count   int
	months  int
	seed    int64
	sink    domain.ProgressSink
	logger  *log.Logger
	verbose bool
}

// Options configures an agent-based runner.
type Options struct {
	Params     domain.Parameters
	AgentCount int
	Months     int
	Seed       int64
	Sink       domain.ProgressSink
	Logger     *log.Logger
	Verbose    bool
}

// NewRunner creates an agent-based runner with sane defaults.
func NewRunner(opts Options) *Runner {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(os.Stderr, "[agentsim] ", log.LstdFlags)
	}
	sink := opts.Sink
	if sink == nil {
		sink = domain.NopSink{}
	}
	return &Runner{
		params:  opts.Params,
		count:   opts.AgentCount,
		months:  opts.Months,
		seed:    opts.Seed,
		sink:    sink,
		logger:  logger,
		verbose: opts.Verbose,
	}
}

// Run executes the population simulation:
//
//  1. Validate parameters and spawn the typed population from the seed.
//  2. Each month, distribute the rewards-pool emission across agents in
//     proportion to activity times the archetype's claim boost, apply
//     sell/stake splits, and convert archetype spending into buy pressure.
//  3. Net pressure against pool depth estimates a price impact, clamped
//     to the configured monthly maximum, which compounds the estimated
//     price.
//  4. Flag agents whose reward-to-activity ratio leaves the normal band.
//
// Exactly one terminal sink call is made: OnComplete with the result on
// success, OnError otherwise.
func (r *Runner) Run(ctx context.Context) (*domain.AgentPopulationResult, error) {
	result, err := r.run(ctx)
	if err != nil {
		r.sink.OnError(err.Error())
		return nil, err
	}
	r.sink.OnComplete(result)
	return result, nil
}

func (r *Runner) run(ctx context.Context) (*domain.AgentPopulationResult, error) {
	if r.count < 1 {
		return nil, fmt.Errorf("%w: agent_count must be >= 1, got %d", domain.ErrInvalidParameter, r.count)
	}
	if r.months < 1 {
		return nil, fmt.Errorf("%w: months must be >= 1, got %d", domain.ErrInvalidParameter, r.months)
	}
	if err := r.params.Validate(); err != nil {
		return nil, err
	}

	cfg := r.params.Agents
	rng := rand.New(rand.NewSource(r.seed))
	agents := spawnPopulation(cfg, r.count, rng)

	r.log("starting population: agents=%d months=%d seed=%d", r.count, r.months, r.seed)

	price := r.params.InitialTokenPrice
	monthly := make([]domain.AgentMonthlyAggregate, 0, r.months)

	for m := 1; m <= r.months; m++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		pool := r.rewardsPoolEmission(m - 1)
		agg := r.advanceMonth(agents, cfg, m, pool, &price)
		monthly = append(monthly, agg)

		r.sink.OnProgress(float64(m) / float64(r.months) * 100.0)
	}

	result := r.assemble(agents, monthly, price)
	r.log("population finished: flagged=%d/%d bots, final price=%.4f",
		result.FlaggedBots, result.ActualBots, price)
	return result, nil
}

// rewardsPoolEmission sums the programmatic unlock of every rewards-pool
// category for the given elapsed month.
func (r *Runner) rewardsPoolEmission(month int) float64 {
	total := 0.0
	for _, c := range r.params.Allocations {
		if c.RewardsPool {
			total += vesting.CategoryUnlockAt(c, r.params.TotalSupply, month)
		}
	}
	return total
}

// advanceMonth mutates the population in place and returns the month's
// aggregate view.
func (r *Runner) advanceMonth(agents []agent, cfg domain.AgentConfig, month int, pool float64, price *float64) domain.AgentMonthlyAggregate {
	// Claim weight is activity scaled by the archetype's extraction boost.
	totalWeight := 0.0
	totalActivity := 0.0
	for i := range agents {
		behavior := cfg.Behavior[agents[i].kind]
		totalWeight += agents[i].activity * behavior.RewardClaimBoost
		totalActivity += agents[i].activity
	}

	var agg domain.AgentMonthlyAggregate
	agg.Month = month

	for i := range agents {
		a := &agents[i]
		behavior := cfg.Behavior[a.kind]

		earned := 0.0
		if pool > 0 && totalWeight > 0 {
			earned = pool * a.activity * behavior.RewardClaimBoost / totalWeight
		}
		sold := earned * behavior.SellRate
		staked := earned * behavior.StakeRate

		a.earned += earned
		a.sold += sold
		a.staked += staked
		a.balance += earned - sold - staked

		agg.RewardsDistributedTokens += earned
		agg.SellPressureUsd += sold * *price
		agg.BuyPressureUsd += behavior.MonthlySpendUsd * a.activity
		agg.StakedTokens += staked
	}

	agg.NetPressureUsd = agg.BuyPressureUsd - agg.SellPressureUsd

	impact := agg.NetPressureUsd / cfg.LiquidityDepthUsd
	if impact > cfg.MaxMonthlyPriceImpact {
		impact = cfg.MaxMonthlyPriceImpact
	}
	if impact < -cfg.MaxMonthlyPriceImpact {
		impact = -cfg.MaxMonthlyPriceImpact
	}
	*price *= 1 + impact
	agg.PriceImpact = impact
	agg.EstimatedPrice = *price

	agg.FlaggedBots = r.flagOutliers(agents, totalActivity)
	return agg
}

// flagOutliers marks agents whose lifetime reward-to-activity ratio sits
// outside the configured band relative to the population mean, and returns
// the number currently flagged. Flags are sticky: once an agent trips the
// heuristic it stays flagged.
func (r *Runner) flagOutliers(agents []agent, totalActivity float64) int {
	totalEarned := 0.0
	for i := range agents {
		totalEarned += agents[i].earned
	}
	if totalEarned <= 0 || totalActivity <= 0 {
		return countFlagged(agents)
	}
	meanPerActivity := totalEarned / totalActivity

	band := r.params.Agents.BotFlagBand
	for i := range agents {
		a := &agents[i]
		ratio := (a.earned / a.activity) / meanPerActivity
		if ratio < band.Min || ratio > band.Max {
			a.flagged = true
		}
	}
	return countFlagged(agents)
}

func countFlagged(agents []agent) int {
	n := 0
	for i := range agents {
		if agents[i].flagged {
			n++
		}
	}
	return n
}

func (r *Runner) assemble(agents []agent, monthly []domain.AgentMonthlyAggregate, price float64) *domain.AgentPopulationResult {
	cfg := r.params.Agents
	stats := make(map[domain.AgentType]domain.AgentTypeStats, len(domain.AgentTypes))
	acquisitionSpend := 0.0
	actualBots := 0
	flagged := 0
	for i := range agents {
		a := &agents[i]
		s := stats[a.kind]
		s.Count++
		s.AcquisitionSpendUsd += cfg.Behavior[a.kind].AcquisitionCostUsd
		s.TotalEarnedTokens += a.earned
		s.TotalSoldTokens += a.sold
		s.TotalStakedTokens += a.staked
		s.EndHoldingsTokens += a.balance + a.staked
		stats[a.kind] = s

		acquisitionSpend += cfg.Behavior[a.kind].AcquisitionCostUsd
		if a.kind == domain.AgentBot {
			actualBots++
		}
		if a.flagged {
			flagged++
		}
	}

	return &domain.AgentPopulationResult{
		AgentCount:               len(agents),
		Months:                   r.months,
		Seed:                     r.seed,
		Monthly:                  monthly,
		TypeStats:                stats,
		FlaggedBots:              flagged,
		ActualBots:               actualBots,
		TotalAcquisitionSpendUsd: acquisitionSpend,
		FinalEstimatedPrice:      price,
	}
}

func (r *Runner) log(format string, args ...interface{}) {
	if r.verbose {
		r.logger.Printf(format, args...)
	}
}
