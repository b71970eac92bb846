package report

import (
	"fmt"
	"strings"

	"price-movers/src/models"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// AnalysisDateLayout is the layout of the generated-at timestamp in every rendering.
const AnalysisDateLayout = "2006-01-02 15:04:05"

// SigmaUndefined is rendered in place of a z-score when volatility is zero.
const SigmaUndefined = "undefined"

// -----------------------------------------------------------------------------

// FormatCurrency renders a 2-decimal dollar amount. The sign follows the
// dollar symbol, e.g. "$-0.12".
func FormatCurrency(d decimal.Decimal) string {
	return fmt.Sprintf("$%.2f", d.InexactFloat64())
}

func FormatPct(p float64) string {
	return fmt.Sprintf("%.2f%%", p)
}

func FormatSigma(s models.MSigma) string {
	if !s.Defined {
		return SigmaUndefined
	}
	return fmt.Sprintf("%.2fσ", s.Value)
}

// FormatVolume groups thousands with commas.
func FormatVolume(v int64) string {
	return humanize.Comma(v)
}

// -----------------------------------------------------------------------------

func dateOrNA(r *models.MReport, start bool) string {
	t := r.PeriodEnd
	if start {
		t = r.PeriodStart
	}
	if t.IsZero() {
		return "N/A"
	}
	return t.Format(models.DateLayout)
}

func rule(ch string) string {
	return strings.Repeat(ch, ruleWidth)
}
