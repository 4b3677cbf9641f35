package recapture

import (
	"math"
	"testing"

	"tokenomics-lab/internal/domain"
)

func defaultConfig() domain.RecaptureConfig {
	return domain.DefaultParameters().Recapture
}

func TestEngine_Compute_BaseRates(t *testing.T) {
	eng := NewEngine(defaultConfig())

	// Emission 1M, profit $100k at $0.05:
	// burn 150k, stake 200k, treasury 100k, buyback $10k → 200k tokens.
	// Total 650k → rate 0.65, under the 0.80 ceiling.
	f := eng.Compute(1_000_000, 100_000, 0.05)

	if math.Abs(f.BurnedTokens-150_000) > 0.001 {
		t.Errorf("expected 150k burned, got %f", f.BurnedTokens)
	}
	if math.Abs(f.StakingLockedTokens-200_000) > 0.001 {
		t.Errorf("expected 200k staking-locked, got %f", f.StakingLockedTokens)
	}
	if math.Abs(f.TreasuryTokens-100_000) > 0.001 {
		t.Errorf("expected 100k treasury, got %f", f.TreasuryTokens)
	}
	if math.Abs(f.BuybackCostUsd-10_000) > 0.001 {
		t.Errorf("expected $10k buyback cost, got %f", f.BuybackCostUsd)
	}
	if math.Abs(f.BuybackTokens-200_000) > 0.01 {
		t.Errorf("expected 200k buyback tokens, got %f", f.BuybackTokens)
	}
	if math.Abs(f.RecapturedTokens-650_000) > 0.01 {
		t.Errorf("expected 650k recaptured, got %f", f.RecapturedTokens)
	}
	if math.Abs(f.RecaptureRate-0.65) > 1e-9 {
		t.Errorf("expected rate 0.65, got %f", f.RecaptureRate)
	}
}

func TestEngine_Compute_AggregateCeilingScalesUniformly(t *testing.T) {
	eng := NewEngine(defaultConfig())

	// $1M profit buys back 2M tokens at $0.05; raw total 2.45M against 1M
	// emitted → rate 2.45 → every flow scales by 0.80/2.45.
	f := eng.Compute(1_000_000, 1_000_000, 0.05)

	if math.Abs(f.RecaptureRate-0.80) > 1e-9 {
		t.Errorf("expected rate clamped to 0.80, got %f", f.RecaptureRate)
	}
	if math.Abs(f.RecapturedTokens-800_000) > 0.01 {
		t.Errorf("expected 800k recaptured, got %f", f.RecapturedTokens)
	}

	// Proportions survive the scale-down: burn/stake = 0.15/0.20.
	if math.Abs(f.BurnedTokens/f.StakingLockedTokens-0.75) > 1e-6 {
		t.Errorf("expected burn/stake ratio 0.75, got %f", f.BurnedTokens/f.StakingLockedTokens)
	}

	scale := 0.80 / 2.45
	if math.Abs(f.BurnedTokens-150_000*scale) > 0.01 {
		t.Errorf("expected burned %f, got %f", 150_000*scale, f.BurnedTokens)
	}
	// Buyback USD is recomputed from the scaled token count.
	if math.Abs(f.BuybackCostUsd-f.BuybackTokens*0.05) > 0.001 {
		t.Errorf("buyback usd %f does not match tokens at price", f.BuybackCostUsd)
	}
}

func TestEngine_Compute_ZeroEmission(t *testing.T) {
	eng := NewEngine(defaultConfig())

	f := eng.Compute(0, 1_000_000, 0.05)
	if f.RecapturedTokens != 0 || f.RecaptureRate != 0 || f.BuybackTokens != 0 {
		t.Errorf("expected zero flows for zero emission, got %+v", f)
	}
}

func TestEngine_Compute_NegativeProfitNoBuyback(t *testing.T) {
	eng := NewEngine(defaultConfig())

	f := eng.Compute(1_000_000, -50_000, 0.05)

	if f.BuybackTokens != 0 || f.BuybackCostUsd != 0 {
		t.Errorf("expected no buyback on losses, got %f tokens", f.BuybackTokens)
	}
	// Emission-driven flows still apply: 0.15+0.20+0.10 = 0.45.
	if math.Abs(f.RecaptureRate-0.45) > 1e-9 {
		t.Errorf("expected rate 0.45, got %f", f.RecaptureRate)
	}
}

func TestEngine_Compute_ZeroPriceNoBuyback(t *testing.T) {
	eng := NewEngine(defaultConfig())

	f := eng.Compute(1_000_000, 100_000, 0)
	if f.BuybackTokens != 0 {
		t.Errorf("expected no buyback at zero price, got %f", f.BuybackTokens)
	}
}

func TestEngine_Compute_PerFlowCeilings(t *testing.T) {
	cfg := defaultConfig()
	cfg.MaxMonthlyBurnTokens = 100_000
	cfg.MaxMonthlyBuybackTokens = 50_000
	eng := NewEngine(cfg)

	f := eng.Compute(1_000_000, 100_000, 0.05)

	if math.Abs(f.BurnedTokens-100_000) > 0.001 {
		t.Errorf("expected burn capped at 100k, got %f", f.BurnedTokens)
	}
	if math.Abs(f.BuybackTokens-50_000) > 0.001 {
		t.Errorf("expected buyback capped at 50k, got %f", f.BuybackTokens)
	}
	// Capped buyback recomputes its USD cost: 50k * $0.05 = $2500.
	if math.Abs(f.BuybackCostUsd-2500) > 0.001 {
		t.Errorf("expected buyback cost $2500, got %f", f.BuybackCostUsd)
	}
	// Uncapped flows keep their full size.
	if math.Abs(f.StakingLockedTokens-200_000) > 0.001 {
		t.Errorf("expected staking flow untouched, got %f", f.StakingLockedTokens)
	}

	// 100k + 50k + 200k + 100k = 450k → rate 0.45.
	if math.Abs(f.RecaptureRate-0.45) > 1e-9 {
		t.Errorf("expected rate 0.45, got %f", f.RecaptureRate)
	}
}

func TestEngine_Compute_ZeroCeilingMeansUncapped(t *testing.T) {
	cfg := defaultConfig()
	cfg.MaxMonthlyBurnTokens = 0
	eng := NewEngine(cfg)

	f := eng.Compute(10_000_000, 0, 0.05)
	if math.Abs(f.BurnedTokens-1_500_000) > 0.01 {
		t.Errorf("expected uncapped burn 1.5M, got %f", f.BurnedTokens)
	}
}
