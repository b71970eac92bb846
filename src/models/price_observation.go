package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar-date format used by feeds and every export.
const DateLayout = "2006-01-02"

// MRawRow is one unvalidated row as supplied by a price feed.
// An empty or "null" Volume means the feed did not report one.
type MRawRow struct {
	Date   string `json:"date"`
	Close  string `json:"close"`
	Volume string `json:"volume,omitempty"`
}

// MPriceObservation is one trading day's close and volume.
type MPriceObservation struct {
	Date   time.Time       `json:"date"`
	Close  decimal.Decimal `json:"close"`
	Volume int64           `json:"volume"`
}

// DateString formats the observation date as YYYY-MM-DD.
func (o MPriceObservation) DateString() string {
	return o.Date.Format(DateLayout)
}

// MReturnObservation is a price observation with its day-over-day change.
// Both change fields are nil only for the first observation of a series,
// which the return calculator never emits.
type MReturnObservation struct {
	MPriceObservation
	AbsoluteChange *decimal.Decimal `json:"daily_change"`
	PercentChange  *float64         `json:"daily_change_pct"`
}

// Pct returns the percent change, or 0 when unset.
func (r MReturnObservation) Pct() float64 {
	if r.PercentChange == nil {
		return 0
	}
	return *r.PercentChange
}

// Abs returns the absolute change, or zero when unset.
func (r MReturnObservation) Abs() decimal.Decimal {
	if r.AbsoluteChange == nil {
		return decimal.Zero
	}
	return *r.AbsoluteChange
}
