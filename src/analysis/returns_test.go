package analysis

import (
	"errors"
	"math/rand"
	"testing"

	"price-movers/src/helpers"
	"price-movers/src/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateReturnsScenario(t *testing.T) {
	returns, err := CalculateReturns(observations("10.00", "10.00", "11.00", "9.90"))
	require.NoError(t, err)
	require.Len(t, returns, 3)

	assert.Equal(t, dayN(1), returns[0].Date)
	assert.Equal(t, 0.0, returns[0].Pct())
	assert.InDelta(t, 10.0, returns[1].Pct(), 1e-12)
	assert.InDelta(t, -10.0, returns[2].Pct(), 1e-12)
	assert.True(t, returns[2].Abs().Equal(decimal.RequireFromString("-1.1")))
	assert.Equal(t, int64(4000), returns[2].Volume)
}

func TestCalculateReturnsLengthAndAbsoluteChange(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 20; trial++ {
		n := 2 + rng.Intn(50)
		closes := make([]string, n)
		for i := range closes {
			closes[i] = decimal.NewFromFloat(1 + rng.Float64()*100).StringFixed(2)
		}
		obs := observations(closes...)

		returns, err := CalculateReturns(obs)
		require.NoError(t, err)
		require.Len(t, returns, n-1)
		for i, r := range returns {
			require.NotNil(t, r.AbsoluteChange)
			require.NotNil(t, r.PercentChange)
			assert.True(t, r.AbsoluteChange.Equal(obs[i+1].Close.Sub(obs[i].Close)))
			assert.Equal(t, obs[i+1].Date, r.Date)
		}
	}
}

func TestCalculateReturnsShortInput(t *testing.T) {
	returns, err := CalculateReturns(observations("10"))
	require.NoError(t, err)
	assert.Empty(t, returns)

	returns, err = CalculateReturns(nil)
	require.NoError(t, err)
	assert.Empty(t, returns)
}

func TestCalculateReturnsZeroPreviousClose(t *testing.T) {
	obs := observations("10", "1", "5")
	obs[1].Close = decimal.Zero

	_, err := CalculateReturns(obs)
	require.Error(t, err)
	assert.True(t, errors.Is(err, helpers.ErrDivisionByZero))
	assert.Contains(t, err.Error(), dayN(2).Format(models.DateLayout))
}
