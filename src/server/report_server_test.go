package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"price-movers/src/logger"
	"price-movers/src/models"
	"price-movers/src/report"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer() *ReportServer {
	cfg := &models.MConfig{
		Symbol:         "SLV",
		InstrumentName: "Silver",
		Server:         models.MServerConfig{Host: "127.0.0.1", Port: 8080},
	}
	return NewReportServer(cfg, logger.NewLogger("ServerTest"))
}

func sampleReport(runID string) *models.MReport {
	pct := 2.5
	abs := decimal.RequireFromString("0.5")
	move := models.MRankedMovement{
		MReturnObservation: models.MReturnObservation{
			MPriceObservation: models.MPriceObservation{
				Date: time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC), Close: decimal.RequireFromString("20.5"), Volume: 12000,
			},
			AbsoluteChange: &abs,
			PercentChange:  &pct,
		},
		Sigma: models.MSigma{Value: 1.5, Defined: true},
	}
	return &models.MReport{
		RunID:       runID,
		Symbol:      "SLV",
		Source:      "sample",
		GeneratedAt: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		PeriodStart: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:   time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC),
		Statistics:  models.MStatistics{MaxGainPct: 2.5, ObservationCount: 1},
		TopGains:    []models.MRankedMovement{move},
		TopLosses:   []models.MRankedMovement{move},
	}
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

// -----------------------------------------------------------------------------

func TestReportEndpoints(t *testing.T) {
	s := newTestServer()

	assert.Equal(t, http.StatusNotFound, get(t, s.Handler(), "/api/report").Code)
	assert.Equal(t, http.StatusNotFound, get(t, s.Handler(), "/api/report.txt").Code)

	r := sampleReport("run-1")
	require.NoError(t, s.Write(context.Background(), r))

	rec := get(t, s.Handler(), "/api/report")
	require.Equal(t, http.StatusOK, rec.Code)
	want, err := report.RenderJSON(r)
	require.NoError(t, err)
	assert.Equal(t, string(want), rec.Body.String())

	rec = get(t, s.Handler(), "/api/report.txt")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), strings.Repeat("=", 90)+"\nSILVER PRICE MOVEMENT ANALYSIS"))

	rec = get(t, s.Handler(), "/api/run")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"run_id":"run-1"`)
}

func TestHealth(t *testing.T) {
	s := newTestServer()
	require.NoError(t, s.Write(context.Background(), sampleReport("run-9")))

	rec := get(t, s.Handler(), "/api/health")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "run-9", body["run_id"])
	assert.Equal(t, float64(time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC).Unix()), body["latest_update"])
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer()
	req := httptest.NewRequest(http.MethodOptions, "/api/report", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestWebSocketPushesReports(t *testing.T) {
	s := newTestServer()
	go s.dispatch()
	defer s.Stop(context.Background())

	require.NoError(t, s.Write(context.Background(), sampleReport("run-1")))
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()

	readDoc := func() report.Document {
		var doc report.Document
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
		require.NoError(t, conn.ReadJSON(&doc))
		return doc
	}

	first := readDoc()
	assert.Equal(t, "2025-01-02 03:04:05", first.AnalysisDate)

	next := sampleReport("run-2")
	next.GeneratedAt = time.Date(2025, 2, 3, 4, 5, 6, 0, time.UTC)
	require.NoError(t, s.Write(context.Background(), next))

	// run-1 may arrive twice (connect snapshot plus the queued broadcast)
	var got string
	for i := 0; i < 3 && got != "2025-02-03 04:05:06"; i++ {
		got = readDoc().AnalysisDate
	}
	require.Equal(t, "2025-02-03 04:05:06", got)

	require.NoError(t, conn.WriteJSON(map[string]string{"command": "refresh"}))
	assert.Equal(t, "2025-02-03 04:05:06", readDoc().AnalysisDate)
}
