package interfaces

import (
	"context"

	"price-movers/src/models"
)

// -----------------------------------------------------------------------------
// IReportSink accepts the finished report (files, console, database, server).
// -----------------------------------------------------------------------------

type IReportSink interface {

	// Name returns the unique identifier of the sink
	Name() string

	// -----------------------------------------------------------------------------

	// Write persists or publishes the report.
	Write(ctx context.Context, report *models.MReport) error
}
