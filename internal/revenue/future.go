package revenue

import "tokenomics-lab/internal/domain"

// futureCompute wraps a launch-gated module: zero output before its
// configured launch month, then a linear ramp to full output across the
// 12 months starting at launch (rampUp = min(1, monthsActive/12)).
func (e *Engine) futureCompute(kind domain.ModuleKind) ComputeFn {
	return func(in Input) domain.ModuleResult {
		cfg := e.params.Modules.Future[kind]

		res := domain.ModuleResult{Kind: kind}
		if in.Month < cfg.LaunchMonth {
			return res
		}

		monthsActive := in.Month - cfg.LaunchMonth + 1
		rampUp := float64(monthsActive) / 12
		if rampUp > 1 {
			rampUp = 1
		}

		revenue := float64(in.Users) * cfg.RevenuePerUserUsd * rampUp
		costs := revenue * cfg.CostRatio

		res.Revenue = revenue
		res.Costs = costs
		res.Profit = revenue - costs
		res.Breakdown = map[string]float64{
			"ramp_up":       rampUp,
			"months_active": float64(monthsActive),
		}
		return res
	}
}
