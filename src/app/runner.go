package app

import (
	"context"
	"fmt"
	"time"

	"price-movers/src/analysis"
	"price-movers/src/interfaces"
	"price-movers/src/logger"
	"price-movers/src/models"
)

// Runner wires one batch run: feed -> analysis -> sinks.
type Runner struct {
	Symbol string
	Feed   interfaces.IPriceFeed
	Facade *analysis.AnalysisFacade
	Sink   interfaces.IReportSink
	Logger *logger.Logger
}

// -----------------------------------------------------------------------------

func NewRunner(cfg *models.MConfig, feed interfaces.IPriceFeed, sink interfaces.IReportSink, log *logger.Logger) *Runner {
	return &Runner{
		Symbol: cfg.Symbol,
		Feed:   feed,
		Facade: analysis.NewAnalysisFacade(cfg, logger.NewLogger("Analysis")),
		Sink:   sink,
		Logger: log,
	}
}

// -----------------------------------------------------------------------------

// Run fetches, analyses and publishes. A fetch or analysis failure returns
// before any sink is invoked. Sink failures come back joined, with the
// report, since the other sinks still received it.
func (r *Runner) Run(ctx context.Context) (*models.MReport, error) {
	start := time.Now()
	r.Logger.Info("Fetching %s data", r.Symbol)

	rows, err := r.Feed.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", r.Symbol, err)
	}
	source := r.Feed.Name()
	r.Logger.Info("Fetched %d rows from %s", len(rows), source)

	rep, err := r.Facade.Run(r.Symbol, source, rows)
	if err != nil {
		return nil, fmt.Errorf("analyse %s: %w", r.Symbol, err)
	}

	stats := rep.Statistics
	r.Logger.Info("Period %s to %s, mean %.4f%%, std %.2f%%",
		rep.PeriodStart.Format(models.DateLayout), rep.PeriodEnd.Format(models.DateLayout), stats.MeanPct, stats.StdDevPct)

	if err := r.Sink.Write(ctx, rep); err != nil {
		return rep, fmt.Errorf("publish report %s: %w", rep.RunID, err)
	}

	r.Logger.Info("Run %s finished in %v", rep.RunID, time.Since(start).Round(time.Millisecond))
	return rep, nil
}
