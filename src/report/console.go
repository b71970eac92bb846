package report

import (
	"fmt"
	"io"

	"price-movers/src/models"
)

// ConsoleTopCount is how many movements the console summary lists per side.
const ConsoleTopCount = 10

// -----------------------------------------------------------------------------

// WriteConsoleSummary prints the statistics block and the top gains/losses.
func WriteConsoleSummary(w io.Writer, r *models.MReport, limit int) error {
	stats := r.Statistics
	p := &errWriter{w: w}

	p.printf("%s\nSUMMARY STATISTICS\n%s\n", rule("="), rule("="))
	p.printf("Maximum Single-Day Gain: %+.2f%% on %s\n", stats.MaxGainPct, stats.MaxGainDate.Format(models.DateLayout))
	p.printf("Maximum Single-Day Loss: %+.2f%% on %s\n", stats.MaxLossPct, stats.MaxLossDate.Format(models.DateLayout))
	p.printf("Average Daily Change: %+.4f%%\n", stats.MeanPct)
	p.printf("Volatility (Std Dev): %.2f%%\n", stats.StdDevPct)

	p.printf("\n%s\nTOP %d BIGGEST GAINS\n%s\n", rule("="), limit, rule("="))
	writeConsoleMoves(p, r.TopGains, limit)

	p.printf("\n%s\nTOP %d BIGGEST LOSSES\n%s\n", rule("="), limit, rule("="))
	writeConsoleMoves(p, r.TopLosses, limit)

	return p.err
}

// -----------------------------------------------------------------------------

func writeConsoleMoves(p *errWriter, moves []models.MRankedMovement, limit int) {
	if limit > len(moves) {
		limit = len(moves)
	}
	for i, m := range moves[:limit] {
		sigma := "σ " + SigmaUndefined
		if m.Sigma.Defined {
			sigma = fmt.Sprintf("%+.2fσ", m.Sigma.Value)
		}
		p.printf("%2d. %s - %+.2f%% (%s) (Close: $%.2f, Change: $%+.2f)\n",
			i+1, m.DateString(), m.Pct(), sigma, m.Close.InexactFloat64(), m.Abs().InexactFloat64())
	}
}

// -----------------------------------------------------------------------------

// errWriter keeps the first write error so the caller checks once.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...interface{}) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}
