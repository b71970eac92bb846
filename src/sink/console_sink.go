package sink

import (
	"context"
	"io"
	"os"

	"price-movers/src/helpers"
	"price-movers/src/models"
	"price-movers/src/report"
)

// ConsoleSink prints the summary block and the top movements.
type ConsoleSink struct {
	Out   io.Writer
	Limit int
}

func NewConsoleSink(out io.Writer) *ConsoleSink {
	if out == nil {
		out = os.Stdout
	}
	return &ConsoleSink{Out: out, Limit: report.ConsoleTopCount}
}

func (s *ConsoleSink) Name() string { return "console" }

func (s *ConsoleSink) Write(_ context.Context, r *models.MReport) error {
	if err := report.WriteConsoleSummary(s.Out, r, s.Limit); err != nil {
		return helpers.NewSinkError(s.Name(), err)
	}
	return nil
}
