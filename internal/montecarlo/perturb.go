package montecarlo

import (
	"math/rand"

	"tokenomics-lab/internal/domain"
)

// Perturbation factors clamp to this band so a wide normal draw cannot
// flip a rate negative or blow the trial into absurd territory.
const (
	perturbFloor = 0.1
	perturbCeil  = 1.9
)

// perturb returns a trial copy of base with the stochastic subset drawn
// around the configured jitters: growth rate scale, CAC per segment, and
// price elasticity. Everything else is shared by value; the CAC segment
// slice is cloned so trials never alias the base.
func perturb(base domain.Parameters, rng *rand.Rand) domain.Parameters {
	p := base
	cfg := base.MonteCarlo

	p.GrowthRateScale = base.GrowthRateScale * factor(rng, cfg.Distribution, cfg.GrowthRateJitter)
	p.Price.Elasticity = base.Price.Elasticity * factor(rng, cfg.Distribution, cfg.ElasticityJitter)

	cacFactor := factor(rng, cfg.Distribution, cfg.CACJitter)
	segments := make([]domain.CACSegment, len(base.CACSegments))
	copy(segments, base.CACSegments)
	for i := range segments {
		segments[i].CostUsd *= cacFactor
	}
	p.CACSegments = segments

	return p
}

// factor draws a multiplicative perturbation around 1.0. jitter is the
// stddev for normal draws and the half-range for uniform draws.
func factor(rng *rand.Rand, distribution string, jitter float64) float64 {
	if jitter <= 0 {
		return 1.0
	}

	var f float64
	switch distribution {
	case domain.DistributionUniform:
		f = 1 + jitter*(2*rng.Float64()-1)
	default: // normal
		f = 1 + jitter*rng.NormFloat64()
	}

	if f < perturbFloor {
		f = perturbFloor
	}
	if f > perturbCeil {
		f = perturbCeil
	}
	return f
}
