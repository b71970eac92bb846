package core

import (
	"fmt"

	"price-movers/src/helpers"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// -----------------------------------------------------------------------------

// CalculateChange returns the absolute and percentage change from previous to current.
// The absolute change is exact; the percentage is (current-previous)/previous*100.
func CalculateChange(current, previous decimal.Decimal) (decimal.Decimal, float64, error) {
	if previous.IsZero() {
		return decimal.Zero, 0, fmt.Errorf("previous close is zero: %w", helpers.ErrDivisionByZero)
	}
	abs := current.Sub(previous)
	pct := abs.Div(previous).Mul(hundred).InexactFloat64()
	return abs, pct, nil
}
