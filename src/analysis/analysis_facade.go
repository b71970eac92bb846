package analysis

import (
	"errors"
	"fmt"
	"time"

	"price-movers/src/helpers"
	"price-movers/src/logger"
	"price-movers/src/models"

	"github.com/google/uuid"
)

// AnalysisFacade runs the movement pipeline:
// normalize -> returns -> statistics -> rank -> sigma -> report.
type AnalysisFacade struct {
	MovementCount int
	Normalizer    *Normalizer
	Logger        *logger.Logger
	Clock         func() time.Time
	NewRunID      func() string
}

// -----------------------------------------------------------------------------

func NewAnalysisFacade(cfg *models.MConfig, log *logger.Logger) *AnalysisFacade {
	count := cfg.MovementCount
	if count <= 0 {
		count = DefaultMovementCount
	}

	return &AnalysisFacade{
		MovementCount: count,
		Normalizer:    NewNormalizer(cfg.DuplicateDates != "accept", log),
		Logger:        log,
		Clock:         time.Now,
		NewRunID:      uuid.NewString,
	}
}

// -----------------------------------------------------------------------------

// Run turns raw feed rows into a report. Any sequence-level failure (empty
// input, zero previous close, unset changes) aborts the run and no report is
// returned. A zero standard deviation does not abort: sigma is marked
// undefined on every movement and SigmaUndefined is set on the report.
func (a *AnalysisFacade) Run(symbol, source string, rows []models.MRawRow) (*models.MReport, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("feed %s returned no rows: %w", source, helpers.ErrEmptyInput)
	}

	normalized := a.Normalizer.Normalize(rows)
	observations := normalized.Observations
	if len(observations) == 0 {
		return nil, fmt.Errorf("no usable rows after normalization (%d rejected): %w",
			len(normalized.Rejected), helpers.ErrEmptyInput)
	}

	returns, err := CalculateReturns(observations)
	if err != nil {
		return nil, err
	}
	if len(returns) == 0 {
		return nil, fmt.Errorf("need at least two observations, got %d: %w", len(observations), helpers.ErrEmptyInput)
	}
	a.Logger.Info("Processed %d days with price movements", len(returns))

	stats, err := CalculateStatistics(returns)
	if err != nil {
		return nil, err
	}

	gainMoves, lossMoves := RankMovements(returns, a.MovementCount)

	sigmaUndefined := false
	gains, err := AnnotateSigma(gainMoves, stats)
	if err != nil {
		if !errors.Is(err, helpers.ErrDivisionByZero) {
			return nil, err
		}
		sigmaUndefined = true
		a.Logger.Warning("Sigma undefined for all movements: %v", err)
	}
	losses, err := AnnotateSigma(lossMoves, stats)
	if err != nil && !errors.Is(err, helpers.ErrDivisionByZero) {
		return nil, err
	}

	return AssembleReport(ReportInput{
		RunID:          a.NewRunID(),
		Symbol:         symbol,
		Source:         source,
		GeneratedAt:    a.Clock(),
		Observations:   observations,
		Returns:        returns,
		Statistics:     stats,
		TopGains:       gains,
		TopLosses:      losses,
		SigmaUndefined: sigmaUndefined,
	}), nil
}
