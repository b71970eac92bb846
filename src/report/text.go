package report

import (
	"fmt"
	"strings"

	"price-movers/src/models"
)

const ruleWidth = 90

// -----------------------------------------------------------------------------

// RenderText produces the fixed-width human-readable report.
func RenderText(r *models.MReport, instrument string) string {
	doc := BuildDocument(r)
	var b strings.Builder

	title := strings.ToUpper(instrument)
	if title == "" {
		title = strings.ToUpper(r.Symbol)
	}

	fmt.Fprintf(&b, "%s\n%s PRICE MOVEMENT ANALYSIS\n%s\n\n", rule("="), title, rule("="))

	fmt.Fprintf(&b, "Data Source: %s\n", doc.DataSource)
	fmt.Fprintf(&b, "Analysis Date: %s\n", doc.AnalysisDate)
	fmt.Fprintf(&b, "Data Period: %s to %s\n", doc.DataPeriod.Start, doc.DataPeriod.End)
	fmt.Fprintf(&b, "Total Trading Days: %d\n\n", doc.DataPeriod.TotalDays)

	b.WriteString("SUMMARY STATISTICS\n")
	b.WriteString(rule("-") + "\n")
	fmt.Fprintf(&b, "Maximum Single-Day Gain: %s on %s\n", doc.Statistics.MaxGainPct, doc.Statistics.MaxGainDate)
	fmt.Fprintf(&b, "Maximum Single-Day Loss: %s on %s\n", doc.Statistics.MaxLossPct, doc.Statistics.MaxLossDate)
	fmt.Fprintf(&b, "Average Daily Change: %s\n", doc.Statistics.AvgDailyChangePct)
	fmt.Fprintf(&b, "Volatility (Std Dev): %s\n", doc.Statistics.VolatilityStd)
	if r.SigmaUndefined {
		b.WriteString("Sigma: undefined (zero volatility)\n")
	}
	b.WriteString("\n")

	writeSection(&b, fmt.Sprintf("TOP %d BIGGEST GAINS (by percentage) - WITH SIGMA VALUES", len(doc.TopGains)), doc.TopGains)
	b.WriteString("\n")
	writeSection(&b, fmt.Sprintf("TOP %d BIGGEST LOSSES (by percentage) - WITH SIGMA VALUES", len(doc.TopLosses)), doc.TopLosses)

	return b.String()
}

// -----------------------------------------------------------------------------

func writeSection(b *strings.Builder, heading string, rows []Movement) {
	fmt.Fprintf(b, "%s\n%s\n%s\n\n", rule("="), heading, rule("="))
	fmt.Fprintf(b, "%-6s%-15s%-12s%-15s%-15s%-12s%-15s\n", "Rank", "Date", "Close", "Change $", "Change %", "Sigma", "Volume")
	b.WriteString(rule("-") + "\n")

	for i, m := range rows {
		fmt.Fprintf(b, "%-6d%-15s%-12s%-15s%-15s%-12s%-15s\n",
			i+1, m.Date, m.ClosePrice, m.DailyChange, m.DailyChangePct, m.Sigma, m.Volume)
	}
}
