package analysis

import (
	"errors"
	"testing"

	"price-movers/src/helpers"
	"price-movers/src/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnnotateSigma(t *testing.T) {
	moves := returnsWithPct(10, -10)
	stats := models.MStatistics{MeanPct: 0, StdDevPct: 8.16496580927726}

	ranked, err := AnnotateSigma(moves, stats)
	require.NoError(t, err)
	require.Len(t, ranked, 2)

	assert.True(t, ranked[0].Sigma.Defined)
	assert.InDelta(t, 1.2247, ranked[0].Sigma.Value, 1e-4)
	assert.InDelta(t, -1.2247, ranked[1].Sigma.Value, 1e-4)
	assert.Equal(t, moves[1].Date, ranked[1].Date)
}

func TestAnnotateSigmaZeroStdDev(t *testing.T) {
	moves := returnsWithPct(0.5, 0.5)

	ranked, err := AnnotateSigma(moves, models.MStatistics{MeanPct: 0.5})
	require.Error(t, err)
	assert.True(t, errors.Is(err, helpers.ErrDivisionByZero))
	require.Len(t, ranked, 2)
	for _, r := range ranked {
		assert.False(t, r.Sigma.Defined)
		_, ferr := r.Sigma.Float()
		assert.True(t, errors.Is(ferr, helpers.ErrDivisionByZero))
	}
}

func TestAnnotateSigmaEmpty(t *testing.T) {
	ranked, err := AnnotateSigma(nil, models.MStatistics{})
	assert.NoError(t, err)
	assert.Empty(t, ranked)
}
