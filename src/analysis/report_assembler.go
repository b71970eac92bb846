package analysis

import (
	"time"

	"price-movers/src/models"
)

// ReportInput carries everything the assembler composes.
type ReportInput struct {
	RunID          string
	Symbol         string
	Source         string
	GeneratedAt    time.Time
	Observations   []models.MPriceObservation
	Returns        []models.MReturnObservation
	Statistics     models.MStatistics
	TopGains       []models.MRankedMovement
	TopLosses      []models.MRankedMovement
	SigmaUndefined bool
}

// -----------------------------------------------------------------------------

// AssembleReport composes the terminal report. Period bounds come from the
// untrimmed observation sequence.
func AssembleReport(in ReportInput) *models.MReport {
	report := &models.MReport{
		RunID:          in.RunID,
		Symbol:         in.Symbol,
		Source:         in.Source,
		GeneratedAt:    in.GeneratedAt,
		Statistics:     in.Statistics,
		TopGains:       in.TopGains,
		TopLosses:      in.TopLosses,
		SigmaUndefined: in.SigmaUndefined,
		Returns:        in.Returns,
	}
	if len(in.Observations) > 0 {
		report.PeriodStart = in.Observations[0].Date
		report.PeriodEnd = in.Observations[len(in.Observations)-1].Date
	}
	return report
}
