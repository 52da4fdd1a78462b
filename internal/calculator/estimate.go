package calculator

import "minecalc/internal/domain"

// Estimate runs every calculation for one set of inputs against one network
// snapshot. It returns either a complete result or the first error; partial
// results are never returned.
func Estimate(in domain.MiningInputs, snap domain.NetworkSnapshot) (domain.ProfitabilityResult, error) {
	dailyCost, err := CostPerDay(in.PowerConsumptionW, in.ElectricityCostUSDPerKWh)
	if err != nil {
		return domain.ProfitabilityResult{}, err
	}

	dailyCoin, err := EarnedCoinPerDay(in.HashRateTHs, snap.Difficulty, snap.BlockReward)
	if err != nil {
		return domain.ProfitabilityResult{}, err
	}

	breakeven, err := BreakevenTimeline(dailyCost, dailyCoin, in.InitialInvestmentUSD, snap.PriceUSD)
	if err != nil {
		return domain.ProfitabilityResult{}, err
	}

	costToMine, err := CostToMineOneCoin(dailyCost, dailyCoin, in.InitialInvestmentUSD, snap.PriceUSD)
	if err != nil {
		return domain.ProfitabilityResult{}, err
	}

	dailyRevenue := dailyCoin * snap.PriceUSD
	dailyProfit := dailyRevenue - dailyCost

	res := domain.ProfitabilityResult{
		DailyCostUSD:   dailyCost,
		MonthlyCostUSD: dailyCost * daysPerMonth,
		YearlyCostUSD:  dailyCost * daysPerYear,

		DailyRevenueUSD:   dailyRevenue,
		MonthlyRevenueUSD: dailyRevenue * daysPerMonth,
		YearlyRevenueUSD:  dailyRevenue * daysPerYear,

		DailyRevenueCoin:   dailyCoin,
		MonthlyRevenueCoin: dailyCoin * daysPerMonth,
		YearlyRevenueCoin:  dailyCoin * daysPerYear,

		DailyProfitUSD:   dailyProfit,
		MonthlyProfitUSD: dailyProfit * daysPerMonth,
		YearlyProfitUSD:  dailyProfit * daysPerYear,

		Breakeven:         breakeven,
		CostToMineCoinUSD: costToMine,
	}

	if !allFinite(
		res.YearlyCostUSD, res.YearlyRevenueUSD, res.YearlyRevenueCoin, res.YearlyProfitUSD,
	) {
		return domain.ProfitabilityResult{}, domain.NewCalculationError(OpEstimate, domain.ErrOverflow)
	}
	return res, nil
}
