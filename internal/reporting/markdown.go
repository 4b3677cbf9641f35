package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RenderMarkdown renders report as Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Projection Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Scenario: %s | Cycle: %s | Horizon: %d months\n\n",
		r.ScenarioID, r.CycleID, r.HorizonMonths))

	// Run Summary
	sb.WriteString("## Run Summary\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Final Users | %d |\n", r.Summary.FinalUsers))
	sb.WriteString(fmt.Sprintf("| Final Token Price | $%.6f |\n", r.Summary.FinalTokenPrice))
	sb.WriteString(fmt.Sprintf("| Total Revenue | $%.2f |\n", r.Summary.TotalRevenue))
	sb.WriteString(fmt.Sprintf("| Total Costs | $%.2f |\n", r.Summary.TotalCosts))
	sb.WriteString(fmt.Sprintf("| Total Profit | $%.2f |\n", r.Summary.TotalProfit))
	sb.WriteString(fmt.Sprintf("| Avg Recapture Rate | %.2f%% |\n", r.Summary.AvgRecaptureRate*100))
	sb.WriteString(fmt.Sprintf("| Final Circulating Supply | %.0f |\n", r.Summary.FinalCirculatingSupply))
	sb.WriteString("\n")

	// Yearly Projections
	sb.WriteString("## Yearly Projections\n\n")
	if len(r.Years) > 0 {
		sb.WriteString("| Year | Start Users | End Users | Revenue | Costs | Profit | Avg Price | End Price | Emission | Recaptured | Recapture% | End Supply |\n")
		sb.WriteString("|------|-------------|-----------|---------|-------|--------|-----------|-----------|----------|------------|------------|------------|\n")
		for _, y := range r.Years {
			sb.WriteString(fmt.Sprintf("| %d | %d | %d | %.2f | %.2f | %.2f | %.6f | %.6f | %.0f | %.0f | %.2f | %.0f |\n",
				y.Year, y.StartUsers, y.EndUsers,
				y.TotalRevenue, y.TotalCosts, y.TotalProfit,
				y.AvgTokenPrice, y.EndTokenPrice,
				y.TotalEmission, y.TotalRecaptured, y.AvgRecaptureRate*100,
				y.EndCirculatingSupply))
		}
	} else {
		sb.WriteString("No yearly projections available.\n")
	}
	sb.WriteString("\n")

	// Module Totals
	sb.WriteString("## Module Totals\n\n")
	if len(r.ModuleTotals) > 0 {
		sb.WriteString("| Module | Revenue | Costs | Profit | Share | Active Months |\n")
		sb.WriteString("|--------|---------|-------|--------|-------|---------------|\n")
		for _, m := range r.ModuleTotals {
			sb.WriteString(fmt.Sprintf("| %s | %.2f | %.2f | %.2f | %.2f%% | %d |\n",
				m.Kind, m.Revenue, m.Costs, m.Profit, m.RevenueShare*100, m.ActiveMonths))
		}
	} else {
		sb.WriteString("No module results available.\n")
	}
	sb.WriteString("\n")

	// Vesting Summary
	sb.WriteString("## Vesting Summary\n\n")
	if len(r.Vesting) > 0 {
		sb.WriteString("| Category | Allocation | Total Tokens | Unlocked | Unlocked% |\n")
		sb.WriteString("|----------|------------|--------------|----------|----------|\n")
		for _, v := range r.Vesting {
			sb.WriteString(fmt.Sprintf("| %s | %.2f%% | %.0f | %.0f | %.2f%% |\n",
				v.Name, v.Percent*100, v.TotalTokens, v.UnlockedTokens, v.UnlockedPct*100))
		}
	} else {
		sb.WriteString("No vesting data available.\n")
	}
	sb.WriteString("\n")

	// Monte Carlo Ensemble
	if r.Ensemble != nil {
		e := r.Ensemble
		sb.WriteString("## Monte Carlo Ensemble\n\n")
		sb.WriteString(fmt.Sprintf("Iterations: %d | Seed: %d\n\n", e.Iterations, e.Seed))
		sb.WriteString("| Metric | P5 | P50 | P95 | Mean | Stddev |\n")
		sb.WriteString("|--------|----|-----|-----|------|--------|\n")
		sb.WriteString(fmt.Sprintf("| Total Revenue | %.2f | %.2f | %.2f | %.2f | %.2f |\n",
			e.P5Revenue, e.P50Revenue, e.P95Revenue,
			e.Summary.RevenueMean, e.Summary.RevenueStddev))
		sb.WriteString(fmt.Sprintf("| Total Profit | %.2f | %.2f | %.2f | %.2f | %.2f |\n",
			e.P5Profit, e.P50Profit, e.P95Profit,
			e.Summary.ProfitMean, e.Summary.ProfitStddev))
		sb.WriteString(fmt.Sprintf("| Avg Recapture Rate | | | | %.4f | %.4f |\n",
			e.Summary.RecaptureRateMean, e.Summary.RecaptureRateStddev))
		sb.WriteString("\n")
	}

	return sb.String()
}
