package interfaces

import (
	"context"

	"price-movers/src/models"
)

// -----------------------------------------------------------------------------
// IPriceFeed supplies the ordered raw daily rows for one instrument.
// -----------------------------------------------------------------------------

type IPriceFeed interface {

	// Name returns the unique identifier of the feed
	Name() string

	// -----------------------------------------------------------------------------

	// Fetch returns rows in ascending date order. Zero rows is not an error
	// here; the pipeline treats it as empty input.
	Fetch(ctx context.Context) ([]models.MRawRow, error)
}
