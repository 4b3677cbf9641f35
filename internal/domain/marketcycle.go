package domain

// MarketCycleConfig holds per-year growth and price multipliers for one
// named market condition. Year indexes past the table clamp to the last
// entry, so long horizons settle into the cycle's steady state.
type MarketCycleConfig struct {
	CycleID           string
	GrowthMultipliers []float64
	PriceMultipliers  []float64
}

// Market cycle ID constants
const (
	CycleNeutral  = "neutral"
	CycleBull     = "bull"
	CycleBear     = "bear"
	CycleCyclical = "cyclical"
)

// Predefined market cycles.
var (
	MarketCycleNeutral = MarketCycleConfig{
		CycleID:           CycleNeutral,
		GrowthMultipliers: []float64{1.00, 1.00, 1.00, 1.00, 1.00},
		PriceMultipliers:  []float64{1.00, 1.00, 1.00, 1.00, 1.00},
	}

	MarketCycleBull = MarketCycleConfig{
		CycleID:           CycleBull,
		GrowthMultipliers: []float64{1.30, 1.20, 1.10, 1.05, 1.00},
		PriceMultipliers:  []float64{1.80, 1.40, 1.20, 1.10, 1.05},
	}

	MarketCycleBear = MarketCycleConfig{
		CycleID:           CycleBear,
		GrowthMultipliers: []float64{0.70, 0.80, 0.90, 1.00, 1.00},
		PriceMultipliers:  []float64{0.60, 0.80, 0.90, 1.00, 1.00},
	}

	MarketCycleCyclical = MarketCycleConfig{
		CycleID:           CycleCyclical,
		GrowthMultipliers: []float64{1.20, 0.80, 1.15, 0.85, 1.10},
		PriceMultipliers:  []float64{1.50, 0.70, 1.30, 0.80, 1.20},
	}
)

// MarketCycleByID resolves a cycle name to its configuration.
func MarketCycleByID(id string) (MarketCycleConfig, bool) {
	switch id {
	case CycleNeutral:
		return MarketCycleNeutral, true
	case CycleBull:
		return MarketCycleBull, true
	case CycleBear:
		return MarketCycleBear, true
	case CycleCyclical:
		return MarketCycleCyclical, true
	default:
		return MarketCycleConfig{}, false
	}
}

// GrowthMultiplierForYear returns the cycle's growth multiplier for a
// 1-based year.
func (c MarketCycleConfig) GrowthMultiplierForYear(year int) float64 {
	return clampYearEntry(c.GrowthMultipliers, year)
}

// PriceMultiplierForYear returns the cycle's price multiplier for a
// 1-based year.
func (c MarketCycleConfig) PriceMultiplierForYear(year int) float64 {
	return clampYearEntry(c.PriceMultipliers, year)
}

func clampYearEntry(table []float64, year int) float64 {
	if len(table) == 0 {
		return 1.0
	}
	idx := year - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(table) {
		idx = len(table) - 1
	}
	return table[idx]
}
