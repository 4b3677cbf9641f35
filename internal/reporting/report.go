package reporting

import (
	"time"

	"tokenomics-lab/internal/domain"
)

// Report is the renderable view of one projection run.
type Report struct {
	// Metadata
	GeneratedAt   time.Time
	ScenarioID    string
	CycleID       string
	HorizonMonths int

	// Headline figures
	Summary domain.RunSummary

	// Yearly Projections (chronological)
	Years []domain.YearlyProjection

	// Module Totals (sorted by lifetime revenue desc, kind asc)
	ModuleTotals []ModuleTotalsRow

	// Vesting Summary (allocation table order)
	Vesting []VestingCategoryRow

	// Ensemble is set only for Monte Carlo reports.
	Ensemble *EnsembleSection
}

// ModuleTotalsRow aggregates one module over the full horizon.
type ModuleTotalsRow struct {
	Kind         domain.ModuleKind
	Revenue      float64
	Costs        float64
	Profit       float64
	RevenueShare float64 // fraction of lifetime total revenue, 0 if revenue is 0
	ActiveMonths int
}

// VestingCategoryRow summarizes one allocation category at the horizon.
type VestingCategoryRow struct {
	Name           string
	Percent        float64 // fraction of total supply
	TotalTokens    float64
	UnlockedTokens float64 // cumulative unlocked through the final month
	UnlockedPct    float64 // unlocked / total, 0 if total is 0
}

// EnsembleSection carries Monte Carlo spread statistics.
type EnsembleSection struct {
	Iterations int
	Seed       int64

	P5Revenue  float64
	P50Revenue float64
	P95Revenue float64
	P5Profit   float64
	P50Profit  float64
	P95Profit  float64

	Summary domain.EnsembleSummary
}
