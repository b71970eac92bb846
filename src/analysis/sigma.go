package analysis

import (
	"errors"
	"fmt"

	"price-movers/src/analysis/core"
	"price-movers/src/helpers"
	"price-movers/src/models"
)

// -----------------------------------------------------------------------------

// AnnotateSigma attaches a z-score to every movement. When the standard
// deviation is zero every sigma is marked undefined and the returned error
// wraps helpers.ErrDivisionByZero; the annotated slice is still returned so
// the caller can carry the undefined markers into the report.
func AnnotateSigma(moves []models.MReturnObservation, stats models.MStatistics) ([]models.MRankedMovement, error) {
	ranked := make([]models.MRankedMovement, len(moves))
	var undefined error

	for i, m := range moves {
		ranked[i] = models.MRankedMovement{MReturnObservation: m}

		z, err := core.CalculateZScore(m.Pct(), stats.MeanPct, stats.StdDevPct)
		if errors.Is(err, helpers.ErrDivisionByZero) {
			undefined = fmt.Errorf("sigma: standard deviation is zero: %w", err)
			continue
		}
		ranked[i].Sigma = models.MSigma{Value: z, Defined: true}
	}

	return ranked, undefined
}
