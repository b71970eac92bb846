package analysis

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"price-movers/src/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateStatisticsScenario(t *testing.T) {
	stats, err := CalculateStatistics(returnsWithPct(0, 10, -10))
	require.NoError(t, err)

	assert.InDelta(t, 0.0, stats.MeanPct, 1e-12)
	assert.InDelta(t, 8.165, stats.StdDevPct, 1e-3)
	assert.Equal(t, 10.0, stats.MaxGainPct)
	assert.Equal(t, dayN(2), stats.MaxGainDate)
	assert.Equal(t, -10.0, stats.MaxLossPct)
	assert.Equal(t, dayN(3), stats.MaxLossDate)
	assert.Equal(t, 3, stats.ObservationCount)
}

func TestCalculateStatisticsFirstOccurrenceOnTies(t *testing.T) {
	stats, err := CalculateStatistics(returnsWithPct(3, -1, 3, -1))
	require.NoError(t, err)
	assert.Equal(t, dayN(1), stats.MaxGainDate)
	assert.Equal(t, dayN(2), stats.MaxLossDate)
}

func TestCalculateStatisticsPopulationVarianceIdentity(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for trial := 0; trial < 25; trial++ {
		pcts := make([]float64, 1+rng.Intn(200))
		sumSq := 0.0
		for i := range pcts {
			pcts[i] = rng.NormFloat64() * 1.5
			sumSq += pcts[i] * pcts[i]
		}

		stats, err := CalculateStatistics(returnsWithPct(pcts...))
		require.NoError(t, err)

		meanSq := sumSq / float64(len(pcts))
		assert.GreaterOrEqual(t, stats.StdDevPct, 0.0)
		assert.InDelta(t, meanSq-stats.MeanPct*stats.MeanPct, math.Pow(stats.StdDevPct, 2), 1e-9)
	}
}

func TestCalculateStatisticsConstantSeries(t *testing.T) {
	stats, err := CalculateStatistics(returnsWithPct(0.1, 0.1, 0.1))
	require.NoError(t, err)
	assert.Equal(t, 0.0, stats.StdDevPct)
}

func TestCalculateStatisticsEmpty(t *testing.T) {
	_, err := CalculateStatistics(nil)
	assert.True(t, errors.Is(err, helpers.ErrEmptyInput))
}

func TestCalculateStatisticsUnsetChange(t *testing.T) {
	returns := returnsWithPct(1, 2)
	returns[1].PercentChange = nil

	_, err := CalculateStatistics(returns)
	var vErr *helpers.ValidationError
	assert.True(t, errors.As(err, &vErr))
}
