package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"price-movers/src/logger"
	"price-movers/src/models"
	"price-movers/src/report"

	"github.com/gin-gonic/gin"
)

// -----------------------------------------------------------------------------
// ReportServer
// -----------------------------------------------------------------------------

// ReportServer publishes the latest report over HTTP and pushes every new
// one to connected websocket clients. It is also a report sink.
type ReportServer struct {
	Config     *models.MConfig
	Logger     *logger.Logger
	engine     *gin.Engine
	httpServer *http.Server

	// Subscriber traffic, served by the dispatch goroutine
	broadcast chan report.Document
	joins     chan *subscriber
	leaves    chan *subscriber
	refresh   chan *subscriber
	done      chan struct{}
	stopOnce  sync.Once

	latest     *models.MReport
	stateMutex sync.RWMutex
}

// -----------------------------------------------------------------------------
// Constructor
// -----------------------------------------------------------------------------

func NewReportServer(cfg *models.MConfig, logger *logger.Logger) *ReportServer {
	// Set Gin mode
	if cfg.LogLevel != "DEBUG" && gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &ReportServer{
		Config: cfg,
		Logger: logger,
		engine: gin.New(),
		// Buffered so a publish never waits on the dispatcher
		broadcast: make(chan report.Document, 16),
		joins:     make(chan *subscriber),
		leaves:    make(chan *subscriber),
		refresh:   make(chan *subscriber),
		done:      make(chan struct{}),
	}
	s.engine.Use(gin.Recovery())

	// Add CORS Middleware
	s.engine.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if strings.HasPrefix(origin, "http://127.0.0.1:") || strings.HasPrefix(origin, "http://localhost:") {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept, Origin, Cache-Control")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	s.setupRoutes()
	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// -----------------------------------------------------------------------------
// Route Setup
// -----------------------------------------------------------------------------

func (s *ReportServer) setupRoutes() {
	s.engine.GET("/api/report", s.getReport)
	s.engine.GET("/api/report.txt", s.getReportText)
	s.engine.GET("/api/run", s.getRun)
	s.engine.GET("/api/health", s.getHealth)

	// WebSocket endpoint
	s.engine.GET("/ws", s.handleWebSocket)
}

// Handler exposes the router, mainly for httptest.
func (s *ReportServer) Handler() http.Handler {
	return s.engine
}

// -----------------------------------------------------------------------------
// Server Lifecycle
// -----------------------------------------------------------------------------

// Start runs the hub and serves until Stop is called.
func (s *ReportServer) Start() error {
	s.Logger.Info("Starting server on %s", s.httpServer.Addr)

	go s.dispatch()

	err := s.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// -----------------------------------------------------------------------------

func (s *ReportServer) Stop(ctx context.Context) error {
	s.stopOnce.Do(func() { close(s.done) })
	return s.httpServer.Shutdown(ctx)
}

// -----------------------------------------------------------------------------
// Report Sink
// -----------------------------------------------------------------------------

func (s *ReportServer) Name() string { return "server" }

// Write replaces the published report and pushes it to websocket clients.
func (s *ReportServer) Write(_ context.Context, r *models.MReport) error {
	s.stateMutex.Lock()
	s.latest = r
	s.stateMutex.Unlock()

	select {
	case s.broadcast <- report.BuildDocument(r):
	default:
		s.Logger.Warning("Broadcast queue full, clients will get run %s on reconnect", r.RunID)
	}
	return nil
}

// -----------------------------------------------------------------------------

func (s *ReportServer) latestReport() *models.MReport {
	s.stateMutex.RLock()
	defer s.stateMutex.RUnlock()
	return s.latest
}

// -----------------------------------------------------------------------------
// Route Handlers
// -----------------------------------------------------------------------------

func (s *ReportServer) getReport(c *gin.Context) {
	r := s.latestReport()
	if r == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no report yet"})
		return
	}

	data, err := report.RenderJSON(r)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", data)
}

// -----------------------------------------------------------------------------

func (s *ReportServer) getReportText(c *gin.Context) {
	r := s.latestReport()
	if r == nil {
		c.String(http.StatusNotFound, "no report yet\n")
		return
	}
	c.String(http.StatusOK, report.RenderText(r, s.Config.InstrumentName))
}

// -----------------------------------------------------------------------------

func (s *ReportServer) getRun(c *gin.Context) {
	r := s.latestReport()
	if r == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no report yet"})
		return
	}
	c.JSON(http.StatusOK, r)
}

// -----------------------------------------------------------------------------

func (s *ReportServer) getHealth(c *gin.Context) {
	var runID string
	var generated int64
	if r := s.latestReport(); r != nil {
		runID = r.RunID
		generated = r.GeneratedAt.Unix()
	}

	c.JSON(http.StatusOK, gin.H{
		"status":        "ok",
		"symbol":        s.Config.Symbol,
		"run_id":        runID,
		"latest_update": generated,
	})
}
