package agentsim

import (
	"context"
	"errors"
	"math"
	"reflect"
	"sync"
	"testing"

	"tokenomics-lab/internal/domain"
)

// fakeSink records every callback for assertion.
type fakeSink struct {
	mu        sync.Mutex
	progress  []float64
	completes []interface{}
	errs      []string
}

func (s *fakeSink) OnProgress(pct float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.progress = append(s.progress, pct)
}

func (s *fakeSink) OnComplete(result interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.completes = append(s.completes, result)
}

func (s *fakeSink) OnError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errs = append(s.errs, msg)
}

// monthlyRewardsPool is the default programmatic unlock feeding agents.
const monthlyRewardsPool = 250_000_000.0 / 60

func TestRunner_Run_Deterministic(t *testing.T) {
	ctx := context.Background()

	var first *domain.AgentPopulationResult
	for run := 0; run < 3; run++ {
		runner := NewRunner(Options{
			Params:     domain.DefaultParameters(),
			AgentCount: 200,
			Months:     6,
			Seed:       42,
		})
		result, err := runner.Run(ctx)
		if err != nil {
			t.Fatalf("run %d failed: %v", run, err)
		}
		if first == nil {
			first = result
			continue
		}
		if !reflect.DeepEqual(first, result) {
			t.Fatalf("run %d produced a different result from run 0", run)
		}
	}
}

func TestRunner_Run_RewardsConservation(t *testing.T) {
	runner := NewRunner(Options{
		Params:     domain.DefaultParameters(),
		AgentCount: 200,
		Months:     6,
		Seed:       1,
	})

	result, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// Every month distributes exactly the rewards-pool unlock.
	for _, agg := range result.Monthly {
		if math.Abs(agg.RewardsDistributedTokens-monthlyRewardsPool) > 1.0 {
			t.Errorf("month %d: distributed %f, expected pool %f",
				agg.Month, agg.RewardsDistributedTokens, monthlyRewardsPool)
		}
	}

	// Per-type earnings add back up to the total distributed.
	var earned float64
	for _, s := range result.TypeStats {
		earned += s.TotalEarnedTokens
	}
	want := monthlyRewardsPool * 6
	if math.Abs(earned-want) > 1.0 {
		t.Errorf("total earned %f, expected %f", earned, want)
	}
}

func TestRunner_Run_BotsFlagged(t *testing.T) {
	runner := NewRunner(Options{
		Params:     domain.DefaultParameters(),
		AgentCount: 200,
		Months:     6,
		Seed:       7,
	})

	result, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// The 4x claim boost puts every bot's reward-to-activity ratio far
	// above the band while honest archetypes sit just under the mean, so
	// the heuristic separates them cleanly.
	if result.ActualBots != 16 {
		t.Fatalf("expected 16 spawned bots, got %d", result.ActualBots)
	}
	if result.FlaggedBots != result.ActualBots {
		t.Errorf("expected all %d bots flagged, got %d", result.ActualBots, result.FlaggedBots)
	}
	if result.TypeStats[domain.AgentBot].Count != 16 {
		t.Errorf("expected bot count 16 in type stats, got %d", result.TypeStats[domain.AgentBot].Count)
	}
}

func TestRunner_Run_TypeStatsAccounting(t *testing.T) {
	runner := NewRunner(Options{
		Params:     domain.DefaultParameters(),
		AgentCount: 200,
		Months:     12,
		Seed:       1,
	})

	result, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	total := 0
	for kind, s := range result.TypeStats {
		total += s.Count

		// Holdings are whatever was earned and not sold; staked tokens
		// remain part of holdings.
		wantHoldings := s.TotalEarnedTokens - s.TotalSoldTokens
		if math.Abs(s.EndHoldingsTokens-wantHoldings) > 0.01 {
			t.Errorf("%s: holdings %f, expected %f", kind, s.EndHoldingsTokens, wantHoldings)
		}
		if s.TotalSoldTokens+s.TotalStakedTokens > s.TotalEarnedTokens+0.01 {
			t.Errorf("%s: sold+staked exceeds earned", kind)
		}
	}
	if total != 200 {
		t.Errorf("expected type counts to sum to 200, got %d", total)
	}
}

func TestRunner_Run_AcquisitionSpend(t *testing.T) {
	params := domain.DefaultParameters()
	runner := NewRunner(Options{
		Params:     params,
		AgentCount: 200,
		Months:     3,
		Seed:       1,
	})

	result, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// Each archetype's spend is its cohort size times the configured
	// per-agent acquisition cost.
	total := 0.0
	for kind, s := range result.TypeStats {
		want := float64(s.Count) * params.Agents.Behavior[kind].AcquisitionCostUsd
		if math.Abs(s.AcquisitionSpendUsd-want) > 0.0001 {
			t.Errorf("%s: acquisition spend %f, expected %f", kind, s.AcquisitionSpendUsd, want)
		}
		total += s.AcquisitionSpendUsd
	}
	if math.Abs(result.TotalAcquisitionSpendUsd-total) > 0.0001 {
		t.Errorf("total acquisition spend %f, expected %f", result.TotalAcquisitionSpendUsd, total)
	}

	// 20 creators, 160 consumers (incl. rounding remainder), 4 whales,
	// 16 bots under the default proportions.
	want := 20*15.00 + 160*8.00 + 4*50.00 + 16*0.50
	if math.Abs(result.TotalAcquisitionSpendUsd-want) > 0.0001 {
		t.Errorf("total acquisition spend %f, expected %f", result.TotalAcquisitionSpendUsd, want)
	}
}

func TestAgentConfig_Validate_NegativeAcquisitionCost(t *testing.T) {
	params := domain.DefaultParameters()
	b := params.Agents.Behavior[domain.AgentWhale]
	b.AcquisitionCostUsd = -1
	params.Agents.Behavior[domain.AgentWhale] = b

	runner := NewRunner(Options{
		Params:     params,
		AgentCount: 10,
		Months:     1,
		Seed:       1,
	})
	if _, err := runner.Run(context.Background()); !errors.Is(err, domain.ErrInvalidParameter) {
		t.Errorf("expected ErrInvalidParameter, got %v", err)
	}
}

func TestRunner_Run_PriceImpactClamped(t *testing.T) {
	params := domain.DefaultParameters()
	// A shallow pool makes the clamp bind.
	params.Agents.LiquidityDepthUsd = 1000

	runner := NewRunner(Options{
		Params:     params,
		AgentCount: 500,
		Months:     12,
		Seed:       1,
	})

	result, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	max := params.Agents.MaxMonthlyPriceImpact
	for _, agg := range result.Monthly {
		if agg.PriceImpact > max+1e-9 || agg.PriceImpact < -max-1e-9 {
			t.Errorf("month %d: impact %f outside ±%f", agg.Month, agg.PriceImpact, max)
		}
		if agg.EstimatedPrice <= 0 {
			t.Errorf("month %d: non-positive estimated price %f", agg.Month, agg.EstimatedPrice)
		}
		if math.Abs(agg.NetPressureUsd-(agg.BuyPressureUsd-agg.SellPressureUsd)) > 0.01 {
			t.Errorf("month %d: net pressure does not equal buy minus sell", agg.Month)
		}
	}

	if result.FinalEstimatedPrice != result.Monthly[len(result.Monthly)-1].EstimatedPrice {
		t.Error("final price does not match last month")
	}
}

func TestRunner_Run_SinkLifecycle(t *testing.T) {
	sink := &fakeSink{}
	runner := NewRunner(Options{
		Params:     domain.DefaultParameters(),
		AgentCount: 100,
		Months:     5,
		Seed:       1,
		Sink:       sink,
	})

	result, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(sink.progress) != 5 {
		t.Errorf("expected 5 progress updates, got %d", len(sink.progress))
	}
	last := 0.0
	for i, pct := range sink.progress {
		if pct < last {
			t.Errorf("progress decreased at update %d", i)
		}
		last = pct
	}
	if last != 100.0 {
		t.Errorf("expected final progress 100, got %f", last)
	}
	if len(sink.completes) != 1 {
		t.Fatalf("expected one OnComplete, got %d", len(sink.completes))
	}
	if sink.completes[0].(*domain.AgentPopulationResult) != result {
		t.Error("OnComplete payload is not the returned result")
	}
	if len(sink.errs) != 0 {
		t.Errorf("expected no OnError calls, got %v", sink.errs)
	}
}

func TestRunner_Run_InvalidInputs(t *testing.T) {
	sink := &fakeSink{}

	runner := NewRunner(Options{
		Params:     domain.DefaultParameters(),
		AgentCount: 0,
		Months:     6,
		Sink:       sink,
	})
	if _, err := runner.Run(context.Background()); !errors.Is(err, domain.ErrInvalidParameter) {
		t.Errorf("expected ErrInvalidParameter for zero agents, got %v", err)
	}
	if len(sink.errs) != 1 {
		t.Errorf("expected one OnError call, got %d", len(sink.errs))
	}

	runner = NewRunner(Options{
		Params:     domain.DefaultParameters(),
		AgentCount: 100,
		Months:     0,
	})
	if _, err := runner.Run(context.Background()); !errors.Is(err, domain.ErrInvalidParameter) {
		t.Errorf("expected ErrInvalidParameter for zero months, got %v", err)
	}
}

func TestRunner_Run_ContextCancelled(t *testing.T) {
	runner := NewRunner(Options{
		Params:     domain.DefaultParameters(),
		AgentCount: 100,
		Months:     24,
		Seed:       1,
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := runner.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if result != nil {
		t.Error("expected no partial result after cancellation")
	}
}
