package api

import (
	"errors"
	"net/http"
	"time"

	"minecalc/internal/domain"
	"minecalc/internal/service"

	"github.com/shopspring/decimal"
)

const (
	usdPlaces  = 2
	coinPlaces = 8
)

// CalculateResponse is the JSON body of a successful calculation.
// USD amounts are rounded to cents and coin amounts to satoshis.
type CalculateResponse struct {
	DailyCost   float64 `json:"dailyCost"`
	MonthlyCost float64 `json:"monthlyCost"`
	YearlyCost  float64 `json:"yearlyCost"`

	DailyRevenueUSD   float64 `json:"dailyRevenueUSD"`
	MonthlyRevenueUSD float64 `json:"monthlyRevenueUSD"`
	YearlyRevenueUSD  float64 `json:"yearlyRevenueUSD"`

	DailyRevenueBTC   float64 `json:"dailyRevenueBTC"`
	MonthlyRevenueBTC float64 `json:"monthlyRevenueBTC"`
	YearlyRevenueBTC  float64 `json:"yearlyRevenueBTC"`

	DailyProfitUSD   float64 `json:"dailyProfitUSD"`
	MonthlyProfitUSD float64 `json:"monthlyProfitUSD"`
	YearlyProfitUSD  float64 `json:"yearlyProfitUSD"`

	BreakevenTimeline int                    `json:"breakevenTimeline"`
	BreakevenStatus   domain.BreakevenStatus `json:"breakevenStatus"`
	CostToMine        float64                `json:"costToMine"`

	Network NetworkResponse `json:"network"`
}

// NetworkResponse describes the snapshot a calculation used.
type NetworkResponse struct {
	PriceUSD    float64   `json:"price"`
	Difficulty  float64   `json:"difficulty"`
	BlockReward float64   `json:"blockReward"`
	FetchedAt   time.Time `json:"fetchedAt"`
}

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Detail string `json:"detail"`
	Field  string `json:"field,omitempty"`
	Op     string `json:"op,omitempty"`
}

// NewCalculateResponse rounds a full-precision estimate for presentation.
func NewCalculateResponse(est service.Estimate) CalculateResponse {
	r := est.Result
	return CalculateResponse{
		DailyCost:   roundUSD(r.DailyCostUSD),
		MonthlyCost: roundUSD(r.MonthlyCostUSD),
		YearlyCost:  roundUSD(r.YearlyCostUSD),

		DailyRevenueUSD:   roundUSD(r.DailyRevenueUSD),
		MonthlyRevenueUSD: roundUSD(r.MonthlyRevenueUSD),
		YearlyRevenueUSD:  roundUSD(r.YearlyRevenueUSD),

		DailyRevenueBTC:   roundCoin(r.DailyRevenueCoin),
		MonthlyRevenueBTC: roundCoin(r.MonthlyRevenueCoin),
		YearlyRevenueBTC:  roundCoin(r.YearlyRevenueCoin),

		DailyProfitUSD:   roundUSD(r.DailyProfitUSD),
		MonthlyProfitUSD: roundUSD(r.MonthlyProfitUSD),
		YearlyProfitUSD:  roundUSD(r.YearlyProfitUSD),

		BreakevenTimeline: r.Breakeven.Months,
		BreakevenStatus:   r.Breakeven.Status,
		CostToMine:        roundUSD(r.CostToMineCoinUSD),

		Network: newNetworkResponse(est.Snapshot),
	}
}

func newNetworkResponse(snap domain.NetworkSnapshot) NetworkResponse {
	return NetworkResponse{
		PriceUSD:    snap.PriceUSD,
		Difficulty:  snap.Difficulty,
		BlockReward: snap.BlockReward,
		FetchedAt:   snap.FetchedAt,
	}
}

// roundUSD and roundCoin expect finite input; the calculator guarantees it.
func roundUSD(v float64) float64 {
	return decimal.NewFromFloat(v).Round(usdPlaces).InexactFloat64()
}

func roundCoin(v float64) float64 {
	return decimal.NewFromFloat(v).Round(coinPlaces).InexactFloat64()
}

// errorStatus maps a service error to its HTTP status and body.
// Fetch errors are checked first since they may wrap an upstream validation error.
func errorStatus(err error) (int, ErrorResponse) {
	body := ErrorResponse{Detail: err.Error()}

	if errors.Is(err, domain.ErrFetchFailed) {
		return http.StatusBadGateway, body
	}

	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		body.Field = ve.Field
		return http.StatusUnprocessableEntity, body
	}

	var ce *domain.CalculationError
	if errors.As(err, &ce) {
		body.Op = ce.Op
		return http.StatusBadRequest, body
	}

	return http.StatusInternalServerError, ErrorResponse{Detail: "an unexpected error occurred"}
}
