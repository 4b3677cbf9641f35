package montecarlo

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"os"
	"sort"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"tokenomics-lab/internal/domain"
	"tokenomics-lab/internal/projection"
	"tokenomics-lab/internal/stats"
)

// Runner executes an ensemble of perturbed projection runs and reduces
// them to percentile composites plus moment statistics.
type Runner struct {
	params  domain.Parameters
	horizon int
	workers int
	sink    domain.ProgressSink
	logger  *log.Logger
	verbose bool
}

// Options configures a Monte Carlo runner.
type Options struct {
	Params        domain.Parameters
	HorizonMonths int
	// Workers bounds trial concurrency. Values below 1 run sequentially.
	Workers int
	Sink    domain.ProgressSink
	Logger  *log.Logger
	Verbose bool
}

// NewRunner creates a Monte Carlo runner with sane defaults.
func NewRunner(opts Options) *Runner {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(os.Stderr, "[montecarlo] ", log.LstdFlags)
	}
	sink := opts.Sink
	if sink == nil {
		sink = domain.NopSink{}
	}
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	return &Runner{
		params:  opts.Params,
		horizon: opts.HorizonMonths,
		workers: workers,
		sink:    sink,
		logger:  logger,
		verbose: opts.Verbose,
	}
}

// Run executes the ensemble:
//
//  1. Validate parameters once; every trial shares the same base.
//  2. Run Iterations perturbed projections, each seeded with base seed
//     plus trial index so the ensemble replays bit-for-bit.
//  3. Reduce trials into month-wise p5/p50/p95 composites.
//  4. Compute mean and stddev over per-trial summary metrics.
//
// Exactly one terminal sink call is made: OnComplete with the ensemble on
// success, OnError otherwise.
func (r *Runner) Run(ctx context.Context) (*domain.MonteCarloEnsemble, error) {
	ensemble, err := r.run(ctx)
	if err != nil {
		r.sink.OnError(err.Error())
		return nil, err
	}
	r.sink.OnComplete(ensemble)
	return ensemble, nil
}

func (r *Runner) run(ctx context.Context) (*domain.MonteCarloEnsemble, error) {
	if r.horizon < 1 {
		return nil, fmt.Errorf("%w: horizon_months must be >= 1, got %d", domain.ErrInvalidParameter, r.horizon)
	}
	if err := r.params.Validate(); err != nil {
		return nil, err
	}

	cfg := r.params.MonteCarlo
	iterations := cfg.Iterations
	if iterations < 1 {
		return nil, fmt.Errorf("%w: monte_carlo.iterations must be >= 1, got %d", domain.ErrInvalidParameter, iterations)
	}

	r.log("starting ensemble: iterations=%d seed=%d horizon=%d workers=%d",
		iterations, cfg.Seed, r.horizon, r.workers)

	trials := make([]*domain.RunResult, iterations)
	gate := &progressGate{sink: r.sink}
	var completed int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i := 0; i < iterations; i++ {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			result, err := r.runTrial(gctx, i)
			if err != nil {
				return fmt.Errorf("trial %d: %w", i, err)
			}
			trials[i] = result
			done := atomic.AddInt64(&completed, 1)
			gate.Progress(float64(done) / float64(iterations) * 100.0)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ensemble := &domain.MonteCarloEnsemble{
		Iterations: iterations,
		Seed:       cfg.Seed,
		ScenarioID: r.params.GrowthScenario,
		CycleID:    r.params.MarketCycle,
		P5:         r.composite(trials, 0.05),
		P50:        r.composite(trials, 0.50),
		P95:        r.composite(trials, 0.95),
		Summary:    summarize(trials),
	}

	r.log("ensemble finished: p50 revenue=%.0f profit=%.0f",
		ensemble.P50.Summary.TotalRevenue, ensemble.P50.Summary.TotalProfit)
	return ensemble, nil
}

// runTrial perturbs the base parameters with the trial's own RNG and runs
// one full deterministic projection over them.
func (r *Runner) runTrial(ctx context.Context, trial int) (*domain.RunResult, error) {
	rng := rand.New(rand.NewSource(r.params.MonteCarlo.Seed + int64(trial)))
	params := perturb(r.params, rng)

	runner := projection.NewRunner(projection.Options{
		Params:        params,
		HorizonMonths: r.horizon,
		Logger:        r.logger,
	})
	return runner.Run(ctx)
}

// composite assembles a full RunResult by picking, for every month, the
// complete MonthlyState of the trial sitting at percentile p of that
// month's total revenue. Ties break on trial index so reduction stays
// deterministic regardless of worker scheduling.
func (r *Runner) composite(trials []*domain.RunResult, p float64) *domain.RunResult {
	n := len(trials)
	months := make([]domain.MonthlyState, r.horizon)
	order := make([]int, n)

	for m := 0; m < r.horizon; m++ {
		for i := range order {
			order[i] = i
		}
		sort.SliceStable(order, func(a, b int) bool {
			ra := trials[order[a]].Months[m].TotalRevenue
			rb := trials[order[b]].Months[m].TotalRevenue
			if ra != rb {
				return ra < rb
			}
			return order[a] < order[b]
		})
		pick := order[stats.NearestRankIndex(n, p)]
		months[m] = trials[pick].Months[m]
	}

	result := &domain.RunResult{
		ScenarioID: r.params.GrowthScenario,
		CycleID:    r.params.MarketCycle,
		Months:     months,
	}
	result.Years = domain.AggregateYears(r.params.LaunchUsers, months)
	result.Summary = domain.Summarize(months)
	return result
}

// summarize computes moment statistics over the per-trial summaries.
func summarize(trials []*domain.RunResult) domain.EnsembleSummary {
	revenues := make([]float64, len(trials))
	profits := make([]float64, len(trials))
	rates := make([]float64, len(trials))
	for i, t := range trials {
		revenues[i] = t.Summary.TotalRevenue
		profits[i] = t.Summary.TotalProfit
		rates[i] = t.Summary.AvgRecaptureRate
	}

	var s domain.EnsembleSummary
	s.RevenueMean = stats.Mean(revenues)
	s.RevenueStddev = stats.Stddev(revenues, s.RevenueMean)
	sortedRevenues := stats.SortedCopy(revenues)
	s.RevenueP5 = stats.Percentile(sortedRevenues, 0.05)
	s.RevenueP50 = stats.Percentile(sortedRevenues, 0.50)
	s.RevenueP95 = stats.Percentile(sortedRevenues, 0.95)
	s.ProfitMean = stats.Mean(profits)
	s.ProfitStddev = stats.Stddev(profits, s.ProfitMean)
	s.RecaptureRateMean = stats.Mean(rates)
	s.RecaptureRateStddev = stats.Stddev(rates, s.RecaptureRateMean)
	return s
}

func (r *Runner) log(format string, args ...interface{}) {
	if r.verbose {
		r.logger.Printf(format, args...)
	}
}

// progressGate serializes progress emission from concurrent trials and
// keeps the reported percentage non-decreasing.
type progressGate struct {
	mu   sync.Mutex
	sink domain.ProgressSink
	last float64
}

func (g *progressGate) Progress(pct float64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if pct <= g.last {
		return
	}
	g.last = pct
	g.sink.OnProgress(pct)
}
