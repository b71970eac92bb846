package analysis

import (
	"errors"
	"testing"
	"time"

	"price-movers/src/helpers"
	"price-movers/src/logger"
	"price-movers/src/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 12, 26, 18, 30, 0, 0, time.UTC)

func newTestFacade(count int) *AnalysisFacade {
	cfg := &models.MConfig{MovementCount: count, DuplicateDates: "reject"}
	f := NewAnalysisFacade(cfg, logger.NewLogger("AnalysisTest"))
	f.Clock = func() time.Time { return fixedNow }
	f.NewRunID = func() string { return "run-1" }
	return f
}

func TestRunScenario(t *testing.T) {
	report, err := newTestFacade(50).Run("SLV", "test", rawRows("10.00", "10.00", "11.00", "9.90"))
	require.NoError(t, err)

	assert.Equal(t, "run-1", report.RunID)
	assert.Equal(t, "SLV", report.Symbol)
	assert.Equal(t, fixedNow, report.GeneratedAt)
	assert.Equal(t, dayN(0), report.PeriodStart)
	assert.Equal(t, dayN(3), report.PeriodEnd)
	assert.False(t, report.SigmaUndefined)
	assert.Len(t, report.Returns, 3)

	stats := report.Statistics
	assert.InDelta(t, 0.0, stats.MeanPct, 1e-12)
	assert.InDelta(t, 8.165, stats.StdDevPct, 1e-3)
	assert.Equal(t, dayN(2), stats.MaxGainDate)
	assert.Equal(t, dayN(3), stats.MaxLossDate)

	require.Len(t, report.TopGains, 3)
	require.Len(t, report.TopLosses, 3)
	assert.Equal(t, dayN(2), report.TopGains[0].Date)
	assert.InDelta(t, 1.2247, report.TopGains[0].Sigma.Value, 1e-4)
	assert.Equal(t, dayN(3), report.TopLosses[0].Date)
	assert.InDelta(t, -1.2247, report.TopLosses[0].Sigma.Value, 1e-4)
}

func TestRunIsIdempotent(t *testing.T) {
	rows := rawRows("20", "20.4", "19.9", "21.3", "21.3", "20.05", "22")
	f := newTestFacade(3)

	first, err := f.Run("SLV", "test", rows)
	require.NoError(t, err)
	second, err := f.Run("SLV", "test", rows)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRunConstantPrices(t *testing.T) {
	report, err := newTestFacade(50).Run("SLV", "test", rawRows("15", "15", "15", "15"))
	require.NoError(t, err)

	assert.True(t, report.SigmaUndefined)
	assert.Equal(t, 0.0, report.Statistics.StdDevPct)
	for _, m := range append(report.TopGains, report.TopLosses...) {
		assert.False(t, m.Sigma.Defined)
		assert.Equal(t, 0.0, m.Pct())
	}
}

func TestRunEmptyInputs(t *testing.T) {
	f := newTestFacade(50)

	_, err := f.Run("SLV", "test", nil)
	assert.True(t, errors.Is(err, helpers.ErrEmptyInput))

	_, err = f.Run("SLV", "test", rawRows("10"))
	assert.True(t, errors.Is(err, helpers.ErrEmptyInput))

	_, err = f.Run("SLV", "test", []models.MRawRow{{Date: "bad", Close: "1"}, {Date: "2024-01-01", Close: "x"}})
	assert.True(t, errors.Is(err, helpers.ErrEmptyInput))
}

func TestRunSkipsRejectedRows(t *testing.T) {
	rows := rawRows("10", "11", "12")
	rows = append(rows[:1], append([]models.MRawRow{{Date: "2024-01-01", Close: "999"}, {Date: "garbage", Close: "5"}}, rows[1:]...)...)

	report, err := newTestFacade(50).Run("SLV", "test", rows)
	require.NoError(t, err)
	require.Len(t, report.Returns, 2)
	assert.InDelta(t, 10.0, report.Returns[0].Pct(), 1e-12)
}

func TestRunDefaultsMovementCount(t *testing.T) {
	f := NewAnalysisFacade(&models.MConfig{}, logger.NewLogger("AnalysisTest"))
	assert.Equal(t, DefaultMovementCount, f.MovementCount)
	assert.True(t, f.Normalizer.RejectDuplicates)
}
