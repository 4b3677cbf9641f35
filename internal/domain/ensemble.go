package domain

// MonteCarloEnsemble aggregates N independent perturbed runs.
//
// P5, P50 and P95 are month-wise composites: for each month, the trial at
// that revenue percentile contributes its complete MonthlyState, so
// percentile ordering holds for every month individually and downstream
// consumers can still drill into full module breakdowns.
type MonteCarloEnsemble struct {
	Iterations int    `json:"iterations"`
	Seed       int64  `json:"seed"`
	ScenarioID string `json:"scenario_id"`
	CycleID    string `json:"cycle_id"`

	P5  *RunResult `json:"p5"`
	P50 *RunResult `json:"p50"`
	P95 *RunResult `json:"p95"`

	Summary EnsembleSummary `json:"summary"`
}

// EnsembleSummary holds moment statistics over per-trial summary metrics.
// The revenue percentiles are interpolated scalars over per-trial totals,
// unlike the whole-object month-wise composites above.
type EnsembleSummary struct {
	RevenueMean         float64 `json:"revenue_mean"`
	RevenueStddev       float64 `json:"revenue_stddev"`
	RevenueP5           float64 `json:"revenue_p5"`
	RevenueP50          float64 `json:"revenue_p50"`
	RevenueP95          float64 `json:"revenue_p95"`
	ProfitMean          float64 `json:"profit_mean"`
	ProfitStddev        float64 `json:"profit_stddev"`
	RecaptureRateMean   float64 `json:"recapture_rate_mean"`
	RecaptureRateStddev float64 `json:"recapture_rate_stddev"`
}
