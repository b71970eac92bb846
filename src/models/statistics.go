package models

import "time"

// MStatistics summarises a percent-change series.
// StdDevPct is the population standard deviation (divisor N).
type MStatistics struct {
	MeanPct          float64   `json:"mean_pct"`
	StdDevPct        float64   `json:"std_dev_pct"`
	MaxGainPct       float64   `json:"max_gain_pct"`
	MaxGainDate      time.Time `json:"max_gain_date"`
	MaxLossPct       float64   `json:"max_loss_pct"`
	MaxLossDate      time.Time `json:"max_loss_date"`
	ObservationCount int       `json:"observation_count"`
}
