package reporting

import (
	"fmt"
	"strings"

	"tokenomics-lab/internal/domain"
)

// RenderMonthlyCSV renders monthly states as CSV string.
func RenderMonthlyCSV(months []domain.MonthlyState) string {
	var sb strings.Builder

	// Header
	sb.WriteString("month,year,active_users,users_acquired,users_churned,marketing_acquired,")
	sb.WriteString("effective_growth_rate,token_price,total_revenue,total_costs,total_profit,")
	sb.WriteString("gross_emission,rewards_pool_emission,net_emission,circulating_supply,circulating_delta,")
	sb.WriteString("burned_tokens,buyback_tokens,buyback_cost_usd,staking_locked_tokens,treasury_tokens,")
	sb.WriteString("recaptured_tokens,recapture_rate\n")

	// Rows
	for i := range months {
		m := &months[i]
		sb.WriteString(fmt.Sprintf("%d,%d,%d,%d,%d,%d,%.6f,%.6f,%.6f,%.6f,%.6f,%.6f,%.6f,%.6f,%.6f,%.6f,%.6f,%.6f,%.6f,%.6f,%.6f,%.6f,%.6f\n",
			m.Month,
			m.Year,
			m.ActiveUsers,
			m.UsersAcquired,
			m.UsersChurned,
			m.MarketingAcquired,
			m.EffectiveGrowthRate,
			m.TokenPrice,
			m.TotalRevenue,
			m.TotalCosts,
			m.TotalProfit,
			m.GrossEmission,
			m.RewardsPoolEmission,
			m.NetEmission,
			m.CirculatingSupply,
			m.CirculatingDelta,
			m.Recapture.BurnedTokens,
			m.Recapture.BuybackTokens,
			m.Recapture.BuybackCostUsd,
			m.Recapture.StakingLockedTokens,
			m.Recapture.TreasuryTokens,
			m.Recapture.RecapturedTokens,
			m.Recapture.RecaptureRate,
		))
	}

	return sb.String()
}
