package interfaces

import (
	"context"

	"price-movers/src/models"
)

// -----------------------------------------------------------------------------
// IDatabase defines the contract for storage operations.
// -----------------------------------------------------------------------------

type IDatabase interface {

	// -----------------------------------------------------------------------------

	// Initialize opens the connection and creates the schema if missing.
	Initialize() error

	// -----------------------------------------------------------------------------

	// SaveReport stores one run with its statistics, ranked movements and return series.
	SaveReport(ctx context.Context, report *models.MReport) error

	// -----------------------------------------------------------------------------

	// Close the database connection
	Close() error
}
