package service

import (
	"context"
	"errors"
	"log/slog"

	"minecalc/internal/calculator"
	"minecalc/internal/domain"
	"minecalc/internal/infra"
)

// Estimate pairs a profitability result with the snapshot it was computed from.
type Estimate struct {
	Result   domain.ProfitabilityResult
	Snapshot domain.NetworkSnapshot
}

// ProfitabilityService validates inputs, fetches a fresh network snapshot and
// runs the calculator.
type ProfitabilityService struct {
	provider domain.NetworkStatsProvider
	metrics  *infra.Metrics
}

// NewProfitabilityService creates a service backed by provider. metrics may be nil.
func NewProfitabilityService(provider domain.NetworkStatsProvider, metrics *infra.Metrics) *ProfitabilityService {
	return &ProfitabilityService{
		provider: provider,
		metrics:  metrics,
	}
}

// Calculate rejects invalid inputs before any I/O, then fetches a snapshot
// and computes the estimate.
func (s *ProfitabilityService) Calculate(ctx context.Context, in domain.MiningInputs) (Estimate, error) {
	if err := in.Validate(); err != nil {
		s.record(infra.OutcomeValidationError)
		return Estimate{}, err
	}

	snap, err := s.provider.FetchSnapshot(ctx)
	if err != nil {
		s.record(infra.OutcomeFetchError)
		slog.ErrorContext(ctx, "Network snapshot unavailable", slog.Any("error", err))
		return Estimate{}, err
	}

	return s.CalculateWith(ctx, in, snap)
}

// CalculateWith computes the estimate against a caller-supplied snapshot.
func (s *ProfitabilityService) CalculateWith(ctx context.Context, in domain.MiningInputs, snap domain.NetworkSnapshot) (Estimate, error) {
	if err := in.Validate(); err != nil {
		s.record(infra.OutcomeValidationError)
		return Estimate{}, err
	}

	res, err := calculator.Estimate(in, snap)
	if err != nil {
		s.record(infra.OutcomeCalculationError)
		var ce *domain.CalculationError
		if errors.As(err, &ce) {
			slog.WarnContext(ctx, "Calculation failed",
				slog.String("op", ce.Op),
				slog.Any("error", ce.Err),
			)
		}
		return Estimate{}, err
	}

	s.record(infra.OutcomeOK)
	slog.DebugContext(ctx, "Profitability calculated",
		slog.Float64("daily_profit_usd", res.DailyProfitUSD),
		slog.String("breakeven", string(res.Breakeven.Status)),
		slog.Int("breakeven_months", res.Breakeven.Months),
	)
	return Estimate{Result: res, Snapshot: snap}, nil
}

// Snapshot returns a fresh network snapshot.
func (s *ProfitabilityService) Snapshot(ctx context.Context) (domain.NetworkSnapshot, error) {
	return s.provider.FetchSnapshot(ctx)
}

func (s *ProfitabilityService) record(outcome string) {
	if s.metrics != nil {
		s.metrics.RecordCalculation(outcome)
	}
}
