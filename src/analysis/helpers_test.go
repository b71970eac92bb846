package analysis

import (
	"time"

	"price-movers/src/models"

	"github.com/shopspring/decimal"
)

var day0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func dayN(n int) time.Time {
	return day0.AddDate(0, 0, n)
}

func observations(closes ...string) []models.MPriceObservation {
	obs := make([]models.MPriceObservation, len(closes))
	for i, c := range closes {
		obs[i] = models.MPriceObservation{Date: dayN(i), Close: decimal.RequireFromString(c), Volume: int64(1000 * (i + 1))}
	}
	return obs
}

func rawRows(closes ...string) []models.MRawRow {
	rows := make([]models.MRawRow, len(closes))
	for i, c := range closes {
		rows[i] = models.MRawRow{Date: dayN(i).Format(models.DateLayout), Close: c, Volume: "1000"}
	}
	return rows
}

func returnsWithPct(pcts ...float64) []models.MReturnObservation {
	out := make([]models.MReturnObservation, len(pcts))
	for i := range pcts {
		pct := pcts[i]
		abs := decimal.NewFromFloat(pct)
		out[i] = models.MReturnObservation{
			MPriceObservation: models.MPriceObservation{Date: dayN(i + 1), Close: decimal.NewFromInt(10)},
			AbsoluteChange:    &abs,
			PercentChange:     &pct,
		}
	}
	return out
}
