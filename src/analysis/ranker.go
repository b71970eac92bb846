package analysis

import (
	"sort"

	"price-movers/src/models"
)

// DefaultMovementCount is the number of gains and losses reported.
const DefaultMovementCount = 50

// -----------------------------------------------------------------------------

// RankMovements returns the n largest gains (best first) and the n largest
// losses (worst first). Ties keep chronological order. When fewer than 2n
// returns exist the two lists overlap; that is intentional.
func RankMovements(returns []models.MReturnObservation, n int) (gains, losses []models.MReturnObservation) {
	if n <= 0 || len(returns) == 0 {
		return []models.MReturnObservation{}, []models.MReturnObservation{}
	}
	if n > len(returns) {
		n = len(returns)
	}

	sorted := make([]models.MReturnObservation, len(returns))
	copy(sorted, returns)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Pct() > sorted[j].Pct()
	})

	gains = make([]models.MReturnObservation, n)
	copy(gains, sorted[:n])

	tail := sorted[len(sorted)-n:]
	losses = make([]models.MReturnObservation, n)
	for i := range tail {
		losses[i] = tail[len(tail)-1-i]
	}
	return gains, losses
}
