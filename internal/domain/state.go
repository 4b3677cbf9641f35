package domain

// MonthlyState is one month's computed snapshot. State for month m is a
// pure function of month m-1 plus Parameters and is immutable once
// produced; the sequence of all months is a run's primary output.
type MonthlyState struct {
	Month int `json:"month"` // 1-based run month
	Year  int `json:"year"`  // 1-based calendar year

	// Users
	ActiveUsers         int     `json:"active_users"`
	UsersAcquired       int     `json:"users_acquired"`
	UsersChurned        int     `json:"users_churned"`
	MarketingAcquired   int     `json:"marketing_acquired"`
	EffectiveGrowthRate float64 `json:"effective_growth_rate"`

	// Price
	TokenPrice float64 `json:"token_price"`

	// Modules
	Modules      []ModuleResult `json:"modules"`
	TotalRevenue float64        `json:"total_revenue"`
	TotalCosts   float64        `json:"total_costs"`
	TotalProfit  float64        `json:"total_profit"`

	// Supply
	GrossEmission       float64            `json:"gross_emission"`
	RewardsPoolEmission float64            `json:"rewards_pool_emission"`
	NetEmission         float64            `json:"net_emission"`
	CirculatingSupply   float64            `json:"circulating_supply"`
	CirculatingDelta    float64            `json:"circulating_delta"`
	VestingUnlocks      map[string]float64 `json:"vesting_unlocks,omitempty"`

	// Recapture
	Recapture RecaptureFlows `json:"recapture"`
}

// RecaptureFlows is the recapture engine's output for one month.
type RecaptureFlows struct {
	BurnedTokens        float64 `json:"burned_tokens"`
	BuybackTokens       float64 `json:"buyback_tokens"`
	BuybackCostUsd      float64 `json:"buyback_cost_usd"`
	StakingLockedTokens float64 `json:"staking_locked_tokens"`
	TreasuryTokens      float64 `json:"treasury_tokens"`
	RecapturedTokens    float64 `json:"recaptured_tokens"`
	RecaptureRate       float64 `json:"recapture_rate"`
}

// YearlyProjection is a reduction over 12 consecutive monthly states.
type YearlyProjection struct {
	Year                 int     `json:"year"`
	StartUsers           int     `json:"start_users"`
	EndUsers             int     `json:"end_users"`
	TotalRevenue         float64 `json:"total_revenue"`
	TotalCosts           float64 `json:"total_costs"`
	TotalProfit          float64 `json:"total_profit"`
	AvgTokenPrice        float64 `json:"avg_token_price"`
	EndTokenPrice        float64 `json:"end_token_price"`
	TotalEmission        float64 `json:"total_emission"`
	TotalRecaptured      float64 `json:"total_recaptured"`
	AvgRecaptureRate     float64 `json:"avg_recapture_rate"`
	EndCirculatingSupply float64 `json:"end_circulating_supply"`
}

// RunSummary carries the headline figures of one deterministic run.
type RunSummary struct {
	HorizonMonths          int     `json:"horizon_months"`
	FinalUsers             int     `json:"final_users"`
	FinalTokenPrice        float64 `json:"final_token_price"`
	TotalRevenue           float64 `json:"total_revenue"`
	TotalCosts             float64 `json:"total_costs"`
	TotalProfit            float64 `json:"total_profit"`
	AvgRecaptureRate       float64 `json:"avg_recapture_rate"`
	FinalCirculatingSupply float64 `json:"final_circulating_supply"`
}

// RunResult is the full output of one deterministic run.
type RunResult struct {
	ScenarioID string             `json:"scenario_id"`
	CycleID    string             `json:"cycle_id"`
	Months     []MonthlyState     `json:"months"`
	Years      []YearlyProjection `json:"years"`
	Summary    RunSummary         `json:"summary"`
}

// AggregateYears reduces monthly states into per-year projections.
// launchUsers is the pre-run population; it seeds the first year's
// StartUsers so the year-1 delta covers month 1's acquisition. Partial
// trailing years aggregate over however many months exist.
func AggregateYears(launchUsers int, months []MonthlyState) []YearlyProjection {
	if len(months) == 0 {
		return nil
	}

	var years []YearlyProjection
	var cur *YearlyProjection
	count := 0

	for i := range months {
		m := &months[i]
		if cur == nil || m.Year != cur.Year {
			if cur != nil {
				finishYear(cur, count)
				years = append(years, *cur)
			}
			startUsers := launchUsers
			if i > 0 {
				startUsers = months[i-1].ActiveUsers
			}
			cur = &YearlyProjection{Year: m.Year, StartUsers: startUsers}
			count = 0
		}

		cur.EndUsers = m.ActiveUsers
		cur.TotalRevenue += m.TotalRevenue
		cur.TotalCosts += m.TotalCosts
		cur.TotalProfit += m.TotalProfit
		cur.AvgTokenPrice += m.TokenPrice
		cur.EndTokenPrice = m.TokenPrice
		cur.TotalEmission += m.GrossEmission
		cur.TotalRecaptured += m.Recapture.RecapturedTokens
		cur.AvgRecaptureRate += m.Recapture.RecaptureRate
		cur.EndCirculatingSupply = m.CirculatingSupply
		count++
	}

	finishYear(cur, count)
	years = append(years, *cur)
	return years
}

func finishYear(y *YearlyProjection, count int) {
	if count == 0 {
		return
	}
	y.AvgTokenPrice /= float64(count)
	y.AvgRecaptureRate /= float64(count)
}

// Summarize reduces monthly states into a run summary.
func Summarize(months []MonthlyState) RunSummary {
	s := RunSummary{HorizonMonths: len(months)}
	if len(months) == 0 {
		return s
	}

	rateSum := 0.0
	for i := range months {
		m := &months[i]
		s.TotalRevenue += m.TotalRevenue
		s.TotalCosts += m.TotalCosts
		s.TotalProfit += m.TotalProfit
		rateSum += m.Recapture.RecaptureRate
	}

	last := months[len(months)-1]
	s.FinalUsers = last.ActiveUsers
	s.FinalTokenPrice = last.TokenPrice
	s.FinalCirculatingSupply = last.CirculatingSupply
	s.AvgRecaptureRate = rateSum / float64(len(months))
	return s
}
