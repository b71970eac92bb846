package analysis

import (
	"fmt"

	"price-movers/src/analysis/core"
	"price-movers/src/helpers"
	"price-movers/src/models"
)

// -----------------------------------------------------------------------------

// CalculateStatistics summarises the percent-change series. Extremum dates
// resolve to the first occurrence in sequence order.
func CalculateStatistics(returns []models.MReturnObservation) (models.MStatistics, error) {
	if len(returns) == 0 {
		return models.MStatistics{}, fmt.Errorf("statistics: %w", helpers.ErrEmptyInput)
	}

	changes := make([]float64, len(returns))
	for i, r := range returns {
		if r.PercentChange == nil {
			return models.MStatistics{}, helpers.NewValidationError(
				fmt.Sprintf("statistics: percent change unset on %s", r.DateString()), nil)
		}
		changes[i] = *r.PercentChange
	}

	mean, std := core.CalculateMeanStd(changes)
	maxIdx, minIdx := core.FindExtrema(changes)

	// A constant series must report exactly zero, not rounding noise.
	if changes[maxIdx] == changes[minIdx] {
		std = 0
	}

	return models.MStatistics{
		MeanPct:          mean,
		StdDevPct:        std,
		MaxGainPct:       changes[maxIdx],
		MaxGainDate:      returns[maxIdx].Date,
		MaxLossPct:       changes[minIdx],
		MaxLossDate:      returns[minIdx].Date,
		ObservationCount: len(changes),
	}, nil
}
