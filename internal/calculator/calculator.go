// Package calculator converts mining hardware parameters and a network snapshot
// into cost, revenue, profit and breakeven figures.
//
// Every function is pure: no I/O, no shared state, safe for concurrent use.
// Failures are always reported as *domain.CalculationError.
package calculator

import (
	"math"

	"minecalc/internal/domain"
)

const (
	secondsPerDay     = 86400
	hashesPerTerahash = 1e12
	hoursPerDay       = 24
	wattsPerKilowatt  = 1000
	daysPerMonth      = 30
	daysPerYear       = 365
)

// Operation names used in CalculationError.Op.
const (
	OpEarnedCoinPerDay  = "earned coin per day"
	OpCostPerDay        = "cost per day"
	OpBreakeven         = "breakeven timeline"
	OpCostToMineOneCoin = "cost to mine one coin"
	OpEstimate          = "profitability estimate"
)

// EarnedCoinPerDay returns the coins mined per day by hashRateTHs against the
// given network difficulty and block reward:
//
//	(hashRate × 1e12 × blockReward) / (difficulty × 86400)
func EarnedCoinPerDay(hashRateTHs, networkDifficulty, blockReward float64) (float64, error) {
	if !allFinite(hashRateTHs, networkDifficulty, blockReward) {
		return 0, domain.NewCalculationError(OpEarnedCoinPerDay, domain.ErrNonNumeric)
	}
	if networkDifficulty == 0 {
		return 0, domain.NewCalculationError(OpEarnedCoinPerDay, domain.ErrDivisionByZero)
	}

	coins := (hashRateTHs * hashesPerTerahash * blockReward) / (networkDifficulty * secondsPerDay)
	if !isFinite(coins) {
		return 0, domain.NewCalculationError(OpEarnedCoinPerDay, domain.ErrOverflow)
	}
	return coins, nil
}

// CostPerDay returns the electricity cost in USD of running powerW watts for 24 hours.
func CostPerDay(powerW, electricityCostUSDPerKWh float64) (float64, error) {
	if !allFinite(powerW, electricityCostUSDPerKWh) {
		return 0, domain.NewCalculationError(OpCostPerDay, domain.ErrNonNumeric)
	}

	cost := powerW * hoursPerDay * electricityCostUSDPerKWh / wattsPerKilowatt
	if !isFinite(cost) {
		return 0, domain.NewCalculationError(OpCostPerDay, domain.ErrOverflow)
	}
	return cost, nil
}

// BreakevenTimeline returns the number of whole 30-day months until the daily
// margin (revenue in USD minus cost) recovers initialInvestment.
//
// A zero margin is a division-by-zero error. A negative margin yields
// BreakevenNever. A positive margin whose day count floors to zero or less
// is clamped to zero months.
func BreakevenTimeline(dailyCost, dailyRevenueCoin, initialInvestment, coinPrice float64) (domain.Breakeven, error) {
	margin, err := dailyMargin(OpBreakeven, dailyCost, dailyRevenueCoin, initialInvestment, coinPrice)
	if err != nil {
		return domain.Breakeven{}, err
	}
	if margin < 0 {
		return domain.Breakeven{Status: domain.BreakevenNever}, nil
	}

	days := math.Floor(initialInvestment / margin)
	if !isFinite(days) || days >= math.MaxInt {
		return domain.Breakeven{}, domain.NewCalculationError(OpBreakeven, domain.ErrOverflow)
	}
	if days <= 0 {
		return domain.Breakeven{Status: domain.BreakevenReachable}, nil
	}
	return domain.Breakeven{
		Status: domain.BreakevenReachable,
		Months: int(days) / daysPerMonth,
	}, nil
}

// CostToMineOneCoin returns initialInvestment divided by the daily USD margin.
// A negative margin yields a negative value.
func CostToMineOneCoin(dailyCost, dailyRevenueCoin, initialInvestment, coinPrice float64) (float64, error) {
	margin, err := dailyMargin(OpCostToMineOneCoin, dailyCost, dailyRevenueCoin, initialInvestment, coinPrice)
	if err != nil {
		return 0, err
	}

	cost := initialInvestment / margin
	if !isFinite(cost) {
		return 0, domain.NewCalculationError(OpCostToMineOneCoin, domain.ErrOverflow)
	}
	return cost, nil
}

// dailyMargin computes dailyRevenueCoin × coinPrice − dailyCost, rejecting
// non-numeric operands and an exactly-zero margin.
func dailyMargin(op string, dailyCost, dailyRevenueCoin, initialInvestment, coinPrice float64) (float64, error) {
	if !allFinite(dailyCost, dailyRevenueCoin, initialInvestment, coinPrice) {
		return 0, domain.NewCalculationError(op, domain.ErrNonNumeric)
	}

	margin := dailyRevenueCoin*coinPrice - dailyCost
	if !isFinite(margin) {
		return 0, domain.NewCalculationError(op, domain.ErrOverflow)
	}
	if margin == 0 {
		return 0, domain.NewCalculationError(op, domain.ErrDivisionByZero)
	}
	return margin, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func allFinite(vs ...float64) bool {
	for _, v := range vs {
		if !isFinite(v) {
			return false
		}
	}
	return true
}
