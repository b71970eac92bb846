package report

import (
	"encoding/csv"
	"io"
	"strconv"

	"price-movers/src/models"
)

var fullColumns = []string{"date", "close", "volume", "daily_change", "daily_change_pct"}

// -----------------------------------------------------------------------------

// WriteFullCSV writes the complete return series, one row per day.
func WriteFullCSV(w io.Writer, returns []models.MReturnObservation) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(fullColumns); err != nil {
		return err
	}
	for _, r := range returns {
		if err := cw.Write(returnRecord(r)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// -----------------------------------------------------------------------------

// WriteMovementsCSV writes a ranked list with its z-score column.
func WriteMovementsCSV(w io.Writer, moves []models.MRankedMovement) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(append(append([]string{}, fullColumns...), "sigma")); err != nil {
		return err
	}
	for _, m := range moves {
		sigma := SigmaUndefined
		if m.Sigma.Defined {
			sigma = strconv.FormatFloat(m.Sigma.Value, 'f', -1, 64)
		}
		if err := cw.Write(append(returnRecord(m.MReturnObservation), sigma)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// -----------------------------------------------------------------------------

func returnRecord(r models.MReturnObservation) []string {
	return []string{
		r.DateString(),
		r.Close.String(),
		strconv.FormatInt(r.Volume, 10),
		r.Abs().String(),
		strconv.FormatFloat(r.Pct(), 'f', -1, 64),
	}
}
