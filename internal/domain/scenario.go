package domain

// GrowthScenarioConfig holds one named growth scenario: a literal 12-entry
// monthly rate table for year 1, then fixed per-year base rates.
type GrowthScenarioConfig struct {
	ScenarioID string
	// Year1MonthlyRates is indexed by calendar month (0 = month 1).
	// Negative entries model bear-market months that shrink the base.
	Year1MonthlyRates [12]float64
}

// Scenario ID constants
const (
	ScenarioConservative = "conservative"
	ScenarioBase         = "base"
	ScenarioAggressive   = "aggressive"
)

// Predefined growth scenarios.
var (
	GrowthScenarioConservative = GrowthScenarioConfig{
		ScenarioID: ScenarioConservative,
		Year1MonthlyRates: [12]float64{
			0.00, 0.02, 0.03, 0.03, 0.04, 0.04,
			0.05, 0.04, -0.01, -0.02, 0.03, 0.03,
		},
	}

	GrowthScenarioBase = GrowthScenarioConfig{
		ScenarioID: ScenarioBase,
		Year1MonthlyRates: [12]float64{
			0.00, 0.05, 0.08, 0.10, 0.10, 0.12,
			0.12, 0.10, 0.08, 0.08, 0.06, 0.06,
		},
	}

	GrowthScenarioAggressive = GrowthScenarioConfig{
		ScenarioID: ScenarioAggressive,
		Year1MonthlyRates: [12]float64{
			0.00, 0.10, 0.15, 0.20, 0.22, 0.25,
			0.22, 0.18, 0.15, 0.12, 0.10, 0.10,
		},
	}
)

// Year-2+ monthly base rates, keyed by year (index 0 = year 2, final entry
// applies to every later year). Organic growth enabled uses the higher
// table reflecting network effects.
var (
	BaseRatesOrganic    = [4]float64{0.060, 0.045, 0.035, 0.025}
	BaseRatesNonOrganic = [4]float64{0.040, 0.030, 0.020, 0.015}
)

// GrowthScenarioByID resolves a scenario name to its configuration.
func GrowthScenarioByID(id string) (GrowthScenarioConfig, bool) {
	switch id {
	case ScenarioConservative:
		return GrowthScenarioConservative, true
	case ScenarioBase:
		return GrowthScenarioBase, true
	case ScenarioAggressive:
		return GrowthScenarioAggressive, true
	default:
		return GrowthScenarioConfig{}, false
	}
}

// BaseRateForYear returns the fixed monthly base rate for a 1-based year
// beyond year 1, choosing the organic or non-organic table.
func BaseRateForYear(year int, organic bool) float64 {
	idx := year - 2
	if idx < 0 {
		idx = 0
	}
	if idx > 3 {
		idx = 3
	}
	if organic {
		return BaseRatesOrganic[idx]
	}
	return BaseRatesNonOrganic[idx]
}
