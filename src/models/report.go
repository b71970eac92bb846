package models

import (
	"fmt"
	"time"

	"price-movers/src/helpers"
)

// MSigma is a z-score that may be undefined.
type MSigma struct {
	Value   float64 `json:"value"`
	Defined bool    `json:"defined"`
}

// Float returns the z-score, or an error wrapping helpers.ErrDivisionByZero
// when the standard deviation was zero.
func (s MSigma) Float() (float64, error) {
	if !s.Defined {
		return 0, fmt.Errorf("sigma undefined: %w", helpers.ErrDivisionByZero)
	}
	return s.Value, nil
}

// MRankedMovement is a ranked return observation annotated with its z-score.
type MRankedMovement struct {
	MReturnObservation
	Sigma MSigma `json:"sigma"`
}

// MReport is the terminal artifact of one pipeline run.
type MReport struct {
	RunID          string               `json:"run_id"`
	Symbol         string               `json:"symbol"`
	Source         string               `json:"source"`
	GeneratedAt    time.Time            `json:"generated_at"`
	PeriodStart    time.Time            `json:"period_start"`
	PeriodEnd      time.Time            `json:"period_end"`
	Statistics     MStatistics          `json:"statistics"`
	TopGains       []MRankedMovement    `json:"top_gains"`
	TopLosses      []MRankedMovement    `json:"top_losses"`
	SigmaUndefined bool                 `json:"sigma_undefined"`
	Returns        []MReturnObservation `json:"-"`
}
