package analysis

import (
	"fmt"

	"price-movers/src/analysis/core"
	"price-movers/src/models"
)

// -----------------------------------------------------------------------------

// CalculateReturns derives day-over-day changes from adjacent observations.
// The first observation has no predecessor and is dropped, so the result has
// len(obs)-1 elements, all with both change fields set.
func CalculateReturns(obs []models.MPriceObservation) ([]models.MReturnObservation, error) {
	if len(obs) < 2 {
		return []models.MReturnObservation{}, nil
	}

	returns := make([]models.MReturnObservation, 0, len(obs)-1)
	for i := 1; i < len(obs); i++ {
		prev, cur := obs[i-1], obs[i]

		abs, pct, err := core.CalculateChange(cur.Close, prev.Close)
		if err != nil {
			return nil, fmt.Errorf("return on %s: %w", cur.DateString(), err)
		}

		returns = append(returns, models.MReturnObservation{
			MPriceObservation: cur,
			AbsoluteChange:    &abs,
			PercentChange:     &pct,
		})
	}
	return returns, nil
}
