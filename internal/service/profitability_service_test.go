package service

import (
	"context"
	"errors"
	"testing"

	"minecalc/internal/domain"
	"minecalc/internal/infra"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	snap  domain.NetworkSnapshot
	err   error
	calls int
}

func (p *stubProvider) FetchSnapshot(ctx context.Context) (domain.NetworkSnapshot, error) {
	p.calls++
	return p.snap, p.err
}

func validInputs() domain.MiningInputs {
	return domain.MiningInputs{
		HashRateTHs:              100,
		PowerConsumptionW:        1000,
		ElectricityCostUSDPerKWh: 0.1,
		InitialInvestmentUSD:     10000,
	}
}

func TestProfitabilityService_Calculate(t *testing.T) {
	provider := &stubProvider{snap: domain.NetworkSnapshot{PriceUSD: 50000, Difficulty: 1e13, BlockReward: 3.125}}
	svc := NewProfitabilityService(provider, infra.NewMetrics())

	est, err := svc.Calculate(context.Background(), validInputs())
	require.NoError(t, err)

	assert.Equal(t, 1, provider.calls)
	assert.Equal(t, 2.40, est.Result.DailyCostUSD)
	assert.Equal(t, provider.snap, est.Snapshot)
	assert.Equal(t, domain.BreakevenReachable, est.Result.Breakeven.Status)
}

func TestProfitabilityService_FetchesEveryCall(t *testing.T) {
	provider := &stubProvider{snap: domain.NetworkSnapshot{PriceUSD: 50000, Difficulty: 1e13, BlockReward: 3.125}}
	svc := NewProfitabilityService(provider, nil)

	for i := 0; i < 3; i++ {
		_, err := svc.Calculate(context.Background(), validInputs())
		require.NoError(t, err)
	}
	assert.Equal(t, 3, provider.calls)
}

func TestProfitabilityService_ValidationBeforeFetch(t *testing.T) {
	provider := &stubProvider{snap: domain.NetworkSnapshot{PriceUSD: 50000, Difficulty: 1e13, BlockReward: 3.125}}
	svc := NewProfitabilityService(provider, nil)

	for _, mutate := range []func(*domain.MiningInputs){
		func(in *domain.MiningInputs) { in.HashRateTHs = -100 },
		func(in *domain.MiningInputs) { in.PowerConsumptionW = 0 },
		func(in *domain.MiningInputs) { in.ElectricityCostUSDPerKWh = -0.1 },
		func(in *domain.MiningInputs) { in.InitialInvestmentUSD = 0 },
	} {
		in := validInputs()
		mutate(&in)

		_, err := svc.Calculate(context.Background(), in)
		var ve *domain.ValidationError
		require.ErrorAs(t, err, &ve)
	}
	assert.Zero(t, provider.calls, "provider must not be called for invalid input")
}

func TestProfitabilityService_FetchError(t *testing.T) {
	provider := &stubProvider{err: domain.NewFetchError("status", errors.New("unexpected status code: 503"))}
	svc := NewProfitabilityService(provider, nil)

	_, err := svc.Calculate(context.Background(), validInputs())
	assert.ErrorIs(t, err, domain.ErrFetchFailed)
}

func TestProfitabilityService_CalculationError(t *testing.T) {
	svc := NewProfitabilityService(&stubProvider{}, infra.NewMetrics())
	snap := domain.NetworkSnapshot{PriceUSD: 50000, Difficulty: 0, BlockReward: 3.125}

	_, err := svc.CalculateWith(context.Background(), validInputs(), snap)

	var ce *domain.CalculationError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "earned coin per day", ce.Op)
	assert.ErrorIs(t, err, domain.ErrDivisionByZero)
}
