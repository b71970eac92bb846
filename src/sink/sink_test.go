package sink

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"price-movers/src/helpers"
	"price-movers/src/interfaces"
	"price-movers/src/logger"
	"price-movers/src/models"
	"price-movers/src/report"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testReport() *models.MReport {
	day := func(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }
	ret := func(d int, closePrice, change string, pct float64) models.MReturnObservation {
		abs := decimal.RequireFromString(change)
		return models.MReturnObservation{
			MPriceObservation: models.MPriceObservation{Date: day(d), Close: decimal.RequireFromString(closePrice), Volume: 1500000},
			AbsoluteChange:    &abs,
			PercentChange:     &pct,
		}
	}
	flat := ret(2, "10", "0", 0)
	up := ret(3, "11", "1", 10)
	down := ret(4, "9.9", "-1.1", -10)

	return &models.MReport{
		RunID:       "run-1",
		Symbol:      "SLV",
		Source:      "sample",
		GeneratedAt: time.Date(2025, 12, 26, 18, 30, 0, 0, time.UTC),
		PeriodStart: day(1),
		PeriodEnd:   day(4),
		Statistics: models.MStatistics{
			StdDevPct: 8.16496580927726, MaxGainPct: 10, MaxGainDate: day(3),
			MaxLossPct: -10, MaxLossDate: day(4), ObservationCount: 3,
		},
		TopGains:  []models.MRankedMovement{{MReturnObservation: up, Sigma: models.MSigma{Value: 1.2247, Defined: true}}},
		TopLosses: []models.MRankedMovement{{MReturnObservation: down, Sigma: models.MSigma{Value: -1.2247, Defined: true}}},
		Returns:   []models.MReturnObservation{flat, up, down},
	}
}

func testLogger() *logger.Logger { return logger.NewLogger("SinkTest") }

// -----------------------------------------------------------------------------

type stubSink struct {
	name  string
	err   error
	calls int
}

func (s *stubSink) Name() string { return s.name }

func (s *stubSink) Write(context.Context, *models.MReport) error {
	s.calls++
	return s.err
}

type stubDB struct {
	initErr error
	saved   []*models.MReport
	closed  bool
}

func (d *stubDB) Initialize() error { return d.initErr }

func (d *stubDB) SaveReport(_ context.Context, r *models.MReport) error {
	d.saved = append(d.saved, r)
	return nil
}

func (d *stubDB) Close() error {
	d.closed = true
	return nil
}

// -----------------------------------------------------------------------------

func TestJSONFileSink(t *testing.T) {
	dir := t.TempDir()
	r := testReport()
	s := NewJSONFileSink(models.MOutputConfig{Dir: dir, Prefix: "silver"}, testLogger())

	require.NoError(t, s.Write(context.Background(), r))

	got, err := os.ReadFile(filepath.Join(dir, "silver_price_analysis.json"))
	require.NoError(t, err)
	want, err := report.RenderJSON(r)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestTextFileSink(t *testing.T) {
	dir := t.TempDir()
	r := testReport()
	s := NewTextFileSink(models.MOutputConfig{Dir: dir, Prefix: "silver"}, "Silver", testLogger())

	require.NoError(t, s.Write(context.Background(), r))

	got, err := os.ReadFile(filepath.Join(dir, "silver_analysis_report.txt"))
	require.NoError(t, err)
	assert.Equal(t, report.RenderText(r, "Silver"), string(got))
	assert.Contains(t, string(got), "SILVER PRICE MOVEMENT ANALYSIS")
}

func TestCSVSink(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	s := NewCSVSink(models.MOutputConfig{Dir: dir, Prefix: "silver"}, testLogger())

	require.NoError(t, s.Write(context.Background(), testReport()))

	for _, suffix := range []string{FullCSVSuffix, GainsCSVSuffix, LossesCSVSuffix} {
		_, err := os.Stat(filepath.Join(dir, "silver_"+suffix))
		assert.NoError(t, err, suffix)
	}

	full, err := os.ReadFile(filepath.Join(dir, "silver_"+FullCSVSuffix))
	require.NoError(t, err)
	assert.Equal(t, 4, bytes.Count(full, []byte("\n")))
}

func TestFileSinkWithoutPrefix(t *testing.T) {
	dir := t.TempDir()
	s := NewJSONFileSink(models.MOutputConfig{Dir: dir}, testLogger())

	require.NoError(t, s.Write(context.Background(), testReport()))
	_, err := os.Stat(filepath.Join(dir, JSONSuffix))
	assert.NoError(t, err)
}

func TestFileSinkUnwritableDir(t *testing.T) {
	file := filepath.Join(t.TempDir(), "occupied")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	s := NewJSONFileSink(models.MOutputConfig{Dir: file, Prefix: "x"}, testLogger())
	err := s.Write(context.Background(), testReport())

	var sinkErr *helpers.SinkError
	require.ErrorAs(t, err, &sinkErr)
}

func TestConsoleSink(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewConsoleSink(&buf).Write(context.Background(), testReport()))

	out := buf.String()
	assert.Contains(t, out, "SUMMARY STATISTICS")
	assert.Contains(t, out, " 1. 2024-01-03 - +10.00%")
}

// -----------------------------------------------------------------------------

func TestMultiSink_ContinuesAfterFailure(t *testing.T) {
	failing := &stubSink{name: "broken", err: helpers.NewSinkError("broken", errors.New("disk full"))}
	after := &stubSink{name: "after"}
	m := NewMultiSink([]interfaces.IReportSink{failing, after}, testLogger())

	err := m.Write(context.Background(), testReport())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, 1, failing.calls)
	assert.Equal(t, 1, after.calls)
}

func TestMultiSink_StopsOnCancelledContext(t *testing.T) {
	s := &stubSink{name: "never"}
	m := NewMultiSink([]interfaces.IReportSink{s}, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := m.Write(ctx, testReport())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, s.calls)
}

func TestDatabaseSink(t *testing.T) {
	db := &stubDB{}
	m := NewMultiSink([]interfaces.IReportSink{NewDatabaseSink("sqlite", db)}, testLogger())

	require.NoError(t, m.Write(context.Background(), testReport()))
	require.NoError(t, m.Write(context.Background(), testReport()))
	assert.Len(t, db.saved, 2)

	require.NoError(t, m.Close())
	assert.True(t, db.closed)
}

func TestDatabaseSink_InitFailureIsSinkError(t *testing.T) {
	db := &stubDB{initErr: errors.New("connection refused")}
	s := NewDatabaseSink("postgres", db)

	err := s.Write(context.Background(), testReport())

	var sinkErr *helpers.SinkError
	require.ErrorAs(t, err, &sinkErr)
	assert.Contains(t, err.Error(), "connection refused")
	assert.Empty(t, db.saved)
}

// -----------------------------------------------------------------------------

func TestBuildSinks(t *testing.T) {
	cfg := &models.MConfig{
		Symbol:         "SLV",
		InstrumentName: "Silver",
		Output: models.MOutputConfig{
			Dir:    t.TempDir(),
			Prefix: "silver",
			Sinks:  []string{"console", "json", "text", "csv", "sqlite", "server"},
		},
		Storage: models.MStorageConfig{DBPath: filepath.Join(t.TempDir(), "runs.db")},
		Server:  models.MServerConfig{Host: "127.0.0.1", Port: 18080},
	}

	var out bytes.Buffer
	m, srv, err := BuildSinks(cfg, &out, testLogger())
	require.NoError(t, err)
	defer m.Close()

	require.NotNil(t, srv)
	names := make([]string, 0, len(m.Sinks))
	for _, s := range m.Sinks {
		names = append(names, s.Name())
	}
	assert.Equal(t, cfg.Output.Sinks, names)

	require.NoError(t, m.Write(context.Background(), testReport()))
	assert.NotEmpty(t, out.String())
}

func TestBuildSinks_Errors(t *testing.T) {
	_, _, err := BuildSinks(&models.MConfig{Output: models.MOutputConfig{Sinks: []string{"fax"}}}, nil, testLogger())
	var cfgErr *helpers.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)

	_, _, err = BuildSinks(&models.MConfig{Output: models.MOutputConfig{Sinks: []string{"postgres"}}}, nil, testLogger())
	require.ErrorAs(t, err, &cfgErr)
}
