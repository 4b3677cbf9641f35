package reporting

import (
	"sort"
	"time"

	"tokenomics-lab/internal/domain"
	"tokenomics-lab/internal/observability"
	"tokenomics-lab/internal/vesting"
)

// Generator turns engine result objects into renderable reports.
type Generator struct {
	now func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a new report generator.
func NewGenerator() *Generator {
	return &Generator{
		now: func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// FromRunResult builds a report for one deterministic run.
func (g *Generator) FromRunResult(result *domain.RunResult, params domain.Parameters) *Report {
	report := &Report{
		GeneratedAt:   g.now(),
		ScenarioID:    result.ScenarioID,
		CycleID:       result.CycleID,
		HorizonMonths: len(result.Months),
		Summary:       result.Summary,
		Years:         result.Years,
		ModuleTotals:  moduleTotals(result.Months, result.Summary.TotalRevenue),
		Vesting:       vestingSummary(params, len(result.Months)),
	}
	observability.RecordReportGenerated()
	return report
}

// FromEnsemble builds a report for a Monte Carlo run. The median composite
// provides the body tables; the ensemble section carries the spread.
func (g *Generator) FromEnsemble(ens *domain.MonteCarloEnsemble, params domain.Parameters) *Report {
	report := g.FromRunResult(ens.P50, params)
	report.Ensemble = &EnsembleSection{
		Iterations: ens.Iterations,
		Seed:       ens.Seed,
		P5Revenue:  ens.P5.Summary.TotalRevenue,
		P50Revenue: ens.P50.Summary.TotalRevenue,
		P95Revenue: ens.P95.Summary.TotalRevenue,
		P5Profit:   ens.P5.Summary.TotalProfit,
		P50Profit:  ens.P50.Summary.TotalProfit,
		P95Profit:  ens.P95.Summary.TotalProfit,
		Summary:    ens.Summary,
	}
	return report
}

// moduleTotals reduces per-month module results into lifetime rows.
func moduleTotals(months []domain.MonthlyState, totalRevenue float64) []ModuleTotalsRow {
	byKind := make(map[domain.ModuleKind]*ModuleTotalsRow)

	for i := range months {
		for _, mod := range months[i].Modules {
			row := byKind[mod.Kind]
			if row == nil {
				row = &ModuleTotalsRow{Kind: mod.Kind}
				byKind[mod.Kind] = row
			}
			row.Revenue += mod.Revenue
			row.Costs += mod.Costs
			row.Profit += mod.Profit
			row.ActiveMonths++
		}
	}

	rows := make([]ModuleTotalsRow, 0, len(byKind))
	for _, row := range byKind {
		if totalRevenue > 0 {
			row.RevenueShare = row.Revenue / totalRevenue
		}
		rows = append(rows, *row)
	}

	// Sort by (revenue desc, kind asc) for a stable, readable table.
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Revenue != rows[j].Revenue {
			return rows[i].Revenue > rows[j].Revenue
		}
		return rows[i].Kind < rows[j].Kind
	})
	return rows
}

// vestingSummary computes per-category cumulative unlocks at the horizon.
// It re-derives unlocks from the allocation table so that the TGE portion
// (month 0, before the first simulated month) is included.
func vestingSummary(params domain.Parameters, horizonMonths int) []VestingCategoryRow {
	eng, err := vesting.NewEngine(params.Allocations, params.TotalSupply)
	if err != nil {
		return nil
	}

	// The run's first month is elapsed month 0, so a horizon of H covers
	// elapsed months 0..H-1.
	cumulative := eng.CumulativeAt(horizonMonths - 1)

	rows := make([]VestingCategoryRow, 0, len(params.Allocations))
	for _, c := range params.Allocations {
		total := c.Tokens(params.TotalSupply)
		unlocked := cumulative[c.Name]
		row := VestingCategoryRow{
			Name:           c.Name,
			Percent:        c.Percent,
			TotalTokens:    total,
			UnlockedTokens: unlocked,
		}
		if total > 0 {
			row.UnlockedPct = unlocked / total
		}
		rows = append(rows, row)
	}
	return rows
}
