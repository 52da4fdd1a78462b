package calculator

import (
	"math"
	"math/rand"
	"testing"

	"minecalc/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireCalcErr(t *testing.T, err error, op string, want error) {
	t.Helper()
	var ce *domain.CalculationError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, op, ce.Op)
	assert.ErrorIs(t, err, want)
}

func TestEarnedCoinPerDay(t *testing.T) {
	t.Run("positive for tiny difficulty", func(t *testing.T) {
		coins, err := EarnedCoinPerDay(100, 0.000000000000001, 3.125)
		require.NoError(t, err)
		assert.Greater(t, coins, 0.0)
	})

	t.Run("matches formula", func(t *testing.T) {
		coins, err := EarnedCoinPerDay(100, 1e13, 3.125)
		require.NoError(t, err)
		assert.InDelta(t, 100*1e12*3.125/(1e13*86400), coins, 1e-18)
	})

	t.Run("scales with block reward", func(t *testing.T) {
		full, err := EarnedCoinPerDay(100, 1e13, 6.25)
		require.NoError(t, err)
		half, err := EarnedCoinPerDay(100, 1e13, 3.125)
		require.NoError(t, err)
		assert.InDelta(t, full, half*2, 1e-18)
	})

	t.Run("zero difficulty", func(t *testing.T) {
		_, err := EarnedCoinPerDay(100, 0, 3.125)
		requireCalcErr(t, err, OpEarnedCoinPerDay, domain.ErrDivisionByZero)
	})

	t.Run("NaN operand", func(t *testing.T) {
		_, err := EarnedCoinPerDay(math.NaN(), 1e13, 3.125)
		requireCalcErr(t, err, OpEarnedCoinPerDay, domain.ErrNonNumeric)
	})

	t.Run("infinite reward", func(t *testing.T) {
		_, err := EarnedCoinPerDay(100, 1e13, math.Inf(1))
		requireCalcErr(t, err, OpEarnedCoinPerDay, domain.ErrNonNumeric)
	})

	t.Run("overflow", func(t *testing.T) {
		_, err := EarnedCoinPerDay(1e300, 1e-300, 1e300)
		requireCalcErr(t, err, OpEarnedCoinPerDay, domain.ErrOverflow)
	})
}

func TestEarnedCoinPerDay_PositiveForPositiveInputs(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 1000; i++ {
		hashRate := 0.001 + rng.Float64()*1e6
		difficulty := 1 + rng.Float64()*1e20
		reward := 0.001 + rng.Float64()*50

		coins, err := EarnedCoinPerDay(hashRate, difficulty, reward)
		require.NoError(t, err)
		require.Greater(t, coins, 0.0, "hashRate=%v difficulty=%v reward=%v", hashRate, difficulty, reward)
	}
}

func TestCostPerDay(t *testing.T) {
	t.Run("1kW at 10 cents", func(t *testing.T) {
		cost, err := CostPerDay(1000, 0.1)
		require.NoError(t, err)
		assert.Equal(t, 2.40, cost)
	})

	t.Run("3250W at 7 cents", func(t *testing.T) {
		cost, err := CostPerDay(3250, 0.07)
		require.NoError(t, err)
		assert.InDelta(t, 5.46, cost, 1e-9)
	})

	t.Run("NaN operand", func(t *testing.T) {
		_, err := CostPerDay(1000, math.NaN())
		requireCalcErr(t, err, OpCostPerDay, domain.ErrNonNumeric)
	})

	t.Run("overflow", func(t *testing.T) {
		_, err := CostPerDay(math.MaxFloat64, 1e10)
		requireCalcErr(t, err, OpCostPerDay, domain.ErrOverflow)
	})
}

func TestBreakevenTimeline(t *testing.T) {
	t.Run("profitable operation", func(t *testing.T) {
		// margin = 0.01*50000 - 100 = 400/day; 10000/400 = 25 days
		b, err := BreakevenTimeline(100, 0.01, 10000, 50000)
		require.NoError(t, err)
		assert.Equal(t, domain.BreakevenReachable, b.Status)
		assert.Equal(t, 0, b.Months)
	})

	t.Run("whole months by integer division", func(t *testing.T) {
		// margin = 10/day; 1000 days -> 33 months
		b, err := BreakevenTimeline(40, 1, 10000, 50)
		require.NoError(t, err)
		assert.Equal(t, domain.BreakevenReachable, b.Status)
		assert.Equal(t, 33, b.Months)
	})

	t.Run("clamps sub-day breakeven to zero", func(t *testing.T) {
		b, err := BreakevenTimeline(100, 0.01, 100, 50000)
		require.NoError(t, err)
		assert.Equal(t, domain.Breakeven{Status: domain.BreakevenReachable, Months: 0}, b)
	})

	t.Run("net loss never breaks even", func(t *testing.T) {
		b, err := BreakevenTimeline(1000, 0.01, 10000, 50000)
		require.NoError(t, err)
		assert.Equal(t, domain.BreakevenNever, b.Status)
		assert.Equal(t, 0, b.Months)
		assert.False(t, b.Reachable())
	})

	t.Run("revenue equals cost", func(t *testing.T) {
		_, err := BreakevenTimeline(500, 0.5, 10000, 1000)
		requireCalcErr(t, err, OpBreakeven, domain.ErrDivisionByZero)
	})

	t.Run("NaN operand", func(t *testing.T) {
		_, err := BreakevenTimeline(100, 0.01, math.NaN(), 50000)
		requireCalcErr(t, err, OpBreakeven, domain.ErrNonNumeric)
	})

	t.Run("unrepresentable month count", func(t *testing.T) {
		_, err := BreakevenTimeline(0, 1e-300, 1e10, 1)
		requireCalcErr(t, err, OpBreakeven, domain.ErrOverflow)
	})
}

func TestBreakevenTimeline_NonNegativeWhenProfitable(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 1000; i++ {
		price := 1 + rng.Float64()*100000
		coin := 0.0001 + rng.Float64()
		cost := rng.Float64() * coin * price * 0.99
		investment := 1 + rng.Float64()*1e6

		b, err := BreakevenTimeline(cost, coin, investment, price)
		require.NoError(t, err)
		require.Equal(t, domain.BreakevenReachable, b.Status)
		require.GreaterOrEqual(t, b.Months, 0)
	}
}

func TestCostToMineOneCoin(t *testing.T) {
	t.Run("profitable operation", func(t *testing.T) {
		cost, err := CostToMineOneCoin(100, 0.01, 10000, 50000)
		require.NoError(t, err)
		assert.InDelta(t, 25.0, cost, 1e-9)
	})

	t.Run("net loss is negative", func(t *testing.T) {
		cost, err := CostToMineOneCoin(1000, 0.01, 10000, 50000)
		require.NoError(t, err)
		assert.InDelta(t, -20.0, cost, 1e-9)
	})

	t.Run("revenue equals cost", func(t *testing.T) {
		_, err := CostToMineOneCoin(500, 0.5, 10000, 1000)
		requireCalcErr(t, err, OpCostToMineOneCoin, domain.ErrDivisionByZero)
	})

	t.Run("infinite operand", func(t *testing.T) {
		_, err := CostToMineOneCoin(100, 0.01, 10000, math.Inf(-1))
		requireCalcErr(t, err, OpCostToMineOneCoin, domain.ErrNonNumeric)
	})
}

func TestOperations_Idempotent(t *testing.T) {
	c1, err1 := EarnedCoinPerDay(140, 9.2e13, 3.125)
	c2, err2 := EarnedCoinPerDay(140, 9.2e13, 3.125)
	assert.Equal(t, c1, c2)
	assert.Equal(t, err1, err2)

	d1, _ := CostPerDay(3010, 0.083)
	d2, _ := CostPerDay(3010, 0.083)
	assert.Equal(t, d1, d2)

	b1, _ := BreakevenTimeline(d1, c1, 4200, 61000)
	b2, _ := BreakevenTimeline(d2, c2, 4200, 61000)
	assert.Equal(t, b1, b2)

	m1, _ := CostToMineOneCoin(d1, c1, 4200, 61000)
	m2, _ := CostToMineOneCoin(d2, c2, 4200, 61000)
	assert.Equal(t, m1, m2)
}
