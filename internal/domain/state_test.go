package domain

import (
	"math"
	"testing"
)

// makeMonths builds m synthetic monthly states with simple linear values:
// users grow by 100/month, revenue is 10/month, price equals the month
// number, recapture rate is a constant 0.5.
func makeMonths(count int) []MonthlyState {
	months := make([]MonthlyState, count)
	for i := 0; i < count; i++ {
		m := i + 1
		months[i] = MonthlyState{
			Month:             m,
			Year:              (m-1)/12 + 1,
			ActiveUsers:       m * 100,
			TokenPrice:        float64(m),
			TotalRevenue:      10,
			TotalCosts:        4,
			TotalProfit:       6,
			GrossEmission:     100,
			CirculatingSupply: float64(m) * 1000,
			Recapture: RecaptureFlows{
				RecapturedTokens: 50,
				RecaptureRate:    0.5,
			},
		}
	}
	return months
}

func TestAggregateYears_FullAndPartialYears(t *testing.T) {
	// 13 months: one full year plus a single-month partial year 2
	years := AggregateYears(40, makeMonths(13))

	if len(years) != 2 {
		t.Fatalf("expected 2 years, got %d", len(years))
	}

	y1 := years[0]
	if y1.Year != 1 {
		t.Errorf("expected year 1, got %d", y1.Year)
	}
	// Year 1 starts at the pre-run launch population, not month 1's end.
	if y1.StartUsers != 40 {
		t.Errorf("expected start users 40, got %d", y1.StartUsers)
	}
	if y1.EndUsers != 1200 {
		t.Errorf("expected end users 1200, got %d", y1.EndUsers)
	}
	if y1.TotalRevenue != 120 {
		t.Errorf("expected total revenue 120, got %f", y1.TotalRevenue)
	}
	// Mean of prices 1..12 = 78/12 = 6.5
	if math.Abs(y1.AvgTokenPrice-6.5) > 0.0001 {
		t.Errorf("expected avg token price 6.5, got %f", y1.AvgTokenPrice)
	}
	if y1.EndTokenPrice != 12 {
		t.Errorf("expected end token price 12, got %f", y1.EndTokenPrice)
	}
	if y1.TotalEmission != 1200 {
		t.Errorf("expected total emission 1200, got %f", y1.TotalEmission)
	}
	if y1.TotalRecaptured != 600 {
		t.Errorf("expected total recaptured 600, got %f", y1.TotalRecaptured)
	}
	if math.Abs(y1.AvgRecaptureRate-0.5) > 0.0001 {
		t.Errorf("expected avg recapture rate 0.5, got %f", y1.AvgRecaptureRate)
	}
	if y1.EndCirculatingSupply != 12000 {
		t.Errorf("expected end circulating 12000, got %f", y1.EndCirculatingSupply)
	}

	y2 := years[1]
	if y2.Year != 2 {
		t.Errorf("expected year 2, got %d", y2.Year)
	}
	// Year 2 starts where month 12 ended.
	if y2.StartUsers != 1200 {
		t.Errorf("expected start users 1200, got %d", y2.StartUsers)
	}
	if y2.EndUsers != 1300 {
		t.Errorf("expected end users 1300, got %d", y2.EndUsers)
	}
	if y2.TotalRevenue != 10 {
		t.Errorf("expected total revenue 10, got %f", y2.TotalRevenue)
	}
	// Single-month year averages over one sample.
	if math.Abs(y2.AvgTokenPrice-13) > 0.0001 {
		t.Errorf("expected avg token price 13, got %f", y2.AvgTokenPrice)
	}
}

func TestAggregateYears_ZeroLaunchUsers(t *testing.T) {
	years := AggregateYears(0, makeMonths(12))
	if len(years) != 1 {
		t.Fatalf("expected 1 year, got %d", len(years))
	}
	if years[0].StartUsers != 0 {
		t.Errorf("expected start users 0, got %d", years[0].StartUsers)
	}
	if years[0].EndUsers != 1200 {
		t.Errorf("expected end users 1200, got %d", years[0].EndUsers)
	}
}

func TestAggregateYears_Empty(t *testing.T) {
	if years := AggregateYears(0, nil); years != nil {
		t.Errorf("expected nil for empty input, got %v", years)
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(makeMonths(13))

	if s.HorizonMonths != 13 {
		t.Errorf("expected horizon 13, got %d", s.HorizonMonths)
	}
	if s.FinalUsers != 1300 {
		t.Errorf("expected final users 1300, got %d", s.FinalUsers)
	}
	if s.FinalTokenPrice != 13 {
		t.Errorf("expected final price 13, got %f", s.FinalTokenPrice)
	}
	if s.TotalRevenue != 130 {
		t.Errorf("expected total revenue 130, got %f", s.TotalRevenue)
	}
	if s.TotalCosts != 52 {
		t.Errorf("expected total costs 52, got %f", s.TotalCosts)
	}
	if s.TotalProfit != 78 {
		t.Errorf("expected total profit 78, got %f", s.TotalProfit)
	}
	if math.Abs(s.AvgRecaptureRate-0.5) > 0.0001 {
		t.Errorf("expected avg recapture rate 0.5, got %f", s.AvgRecaptureRate)
	}
	if s.FinalCirculatingSupply != 13000 {
		t.Errorf("expected final circulating 13000, got %f", s.FinalCirculatingSupply)
	}
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)

	if s.HorizonMonths != 0 {
		t.Errorf("expected horizon 0, got %d", s.HorizonMonths)
	}
	if s.FinalUsers != 0 || s.TotalRevenue != 0 {
		t.Errorf("expected zero summary, got %+v", s)
	}
}
