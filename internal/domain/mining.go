package domain

import (
	"math"
	"time"
)

// MiningInputs holds the user-supplied hardware and economic parameters.
type MiningInputs struct {
	HashRateTHs              float64 `json:"hash_rate"`          // TH/s
	PowerConsumptionW        float64 `json:"power_consumption"`  // W
	ElectricityCostUSDPerKWh float64 `json:"electricity_cost"`   // USD/kWh
	InitialInvestmentUSD     float64 `json:"initial_investment"` // USD
}

// Validate checks that every field is finite and strictly positive.
// The first offending field is reported.
func (in MiningInputs) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"hash_rate", in.HashRateTHs},
		{"power_consumption", in.PowerConsumptionW},
		{"electricity_cost", in.ElectricityCostUSDPerKWh},
		{"initial_investment", in.InitialInvestmentUSD},
	}
	for _, f := range fields {
		if err := checkPositive(f.name, f.value); err != nil {
			return err
		}
	}
	return nil
}

// NetworkSnapshot is the live network data used for one calculation.
// It is fetched per request and never cached.
type NetworkSnapshot struct {
	PriceUSD    float64   `json:"price"`
	Difficulty  float64   `json:"difficulty"`
	BlockReward float64   `json:"block_reward"`
	FetchedAt   time.Time `json:"fetched_at"`
}

// Validate checks that price, difficulty and block reward are finite and positive.
func (s NetworkSnapshot) Validate() error {
	if err := checkPositive("price", s.PriceUSD); err != nil {
		return err
	}
	if err := checkPositive("difficulty", s.Difficulty); err != nil {
		return err
	}
	return checkPositive("block_reward", s.BlockReward)
}

func checkPositive(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return &ValidationError{Field: field, Err: ErrNonNumeric}
	}
	if v <= 0 {
		return &ValidationError{Field: field, Err: ErrNonPositive}
	}
	return nil
}

// BreakevenStatus tags the outcome of a breakeven calculation.
type BreakevenStatus string

const (
	// BreakevenReachable means the investment is recovered after Months months.
	BreakevenReachable BreakevenStatus = "reachable"
	// BreakevenNever means daily mining is a net loss and the investment is never recovered.
	BreakevenNever BreakevenStatus = "never"
)

// Breakeven is the tagged result of a breakeven calculation.
// Months is always 0 when Status is BreakevenNever.
type Breakeven struct {
	Status BreakevenStatus `json:"status"`
	Months int             `json:"months"`
}

// Reachable reports whether the investment is ever recovered.
func (b Breakeven) Reachable() bool {
	return b.Status == BreakevenReachable
}

// ProfitabilityResult holds every derived metric for one calculation at full precision.
// Rounding for presentation is the caller's job.
type ProfitabilityResult struct {
	DailyCostUSD   float64
	MonthlyCostUSD float64
	YearlyCostUSD  float64

	DailyRevenueUSD   float64
	MonthlyRevenueUSD float64
	YearlyRevenueUSD  float64

	DailyRevenueCoin   float64
	MonthlyRevenueCoin float64
	YearlyRevenueCoin  float64

	DailyProfitUSD   float64
	MonthlyProfitUSD float64
	YearlyProfitUSD  float64

	Breakeven         Breakeven
	CostToMineCoinUSD float64
}
