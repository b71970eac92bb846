package sink

import (
	"context"
	"errors"
	"io"

	"price-movers/src/interfaces"
	"price-movers/src/logger"
	"price-movers/src/models"
)

// MultiSink delivers a report to every sink in order. A failing sink is
// logged and the rest still run; the failures are returned joined.
type MultiSink struct {
	Sinks  []interfaces.IReportSink
	Logger *logger.Logger
}

// -----------------------------------------------------------------------------

func NewMultiSink(sinks []interfaces.IReportSink, log *logger.Logger) *MultiSink {
	return &MultiSink{Sinks: sinks, Logger: log}
}

func (m *MultiSink) Name() string { return "multi" }

// -----------------------------------------------------------------------------

func (m *MultiSink) Write(ctx context.Context, r *models.MReport) error {
	var errs []error
	for _, s := range m.Sinks {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if err := s.Write(ctx, r); err != nil {
			m.Logger.Error("Sink %s failed: %v", s.Name(), err)
			errs = append(errs, err)
			continue
		}
		m.Logger.Debug("Sink %s done", s.Name())
	}
	return errors.Join(errs...)
}

// -----------------------------------------------------------------------------

// Close releases sinks that hold resources (database handles).
func (m *MultiSink) Close() error {
	var errs []error
	for _, s := range m.Sinks {
		if c, ok := s.(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
