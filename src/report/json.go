package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"unicode/utf16"
	"unicode/utf8"

	"price-movers/src/models"
)

// Document is the reference JSON shape. Field order is the key order on disk.
type Document struct {
	AnalysisDate string         `json:"analysis_date"`
	DataSource   string         `json:"data_source"`
	DataPeriod   DataPeriod     `json:"data_period"`
	TopGains     []Movement     `json:"top_gains"`
	TopLosses    []Movement     `json:"top_losses"`
	Statistics   StatisticsView `json:"statistics"`
}

type DataPeriod struct {
	Start     string `json:"start"`
	End       string `json:"end"`
	TotalDays int    `json:"total_days"`
}

type Movement struct {
	Date           string `json:"Date"`
	ClosePrice     string `json:"Close_Price"`
	DailyChange    string `json:"Daily_Change"`
	DailyChangePct string `json:"Daily_Change_Pct"`
	Sigma          string `json:"Sigma"`
	Volume         string `json:"Volume"`
}

type StatisticsView struct {
	MaxGainPct        string `json:"max_gain_pct"`
	MaxGainDate       string `json:"max_gain_date"`
	MaxLossPct        string `json:"max_loss_pct"`
	MaxLossDate       string `json:"max_loss_date"`
	AvgDailyChangePct string `json:"avg_daily_change_pct"`
	VolatilityStd     string `json:"volatility_std"`
}

// -----------------------------------------------------------------------------

// BuildDocument converts a report to its reference serialization.
func BuildDocument(r *models.MReport) Document {
	stats := r.Statistics
	return Document{
		AnalysisDate: r.GeneratedAt.Format(AnalysisDateLayout),
		DataSource:   r.Source,
		DataPeriod: DataPeriod{
			Start:     dateOrNA(r, true),
			End:       dateOrNA(r, false),
			TotalDays: stats.ObservationCount,
		},
		TopGains:  movements(r.TopGains),
		TopLosses: movements(r.TopLosses),
		Statistics: StatisticsView{
			MaxGainPct:        FormatPct(stats.MaxGainPct),
			MaxGainDate:       stats.MaxGainDate.Format(models.DateLayout),
			MaxLossPct:        FormatPct(stats.MaxLossPct),
			MaxLossDate:       stats.MaxLossDate.Format(models.DateLayout),
			AvgDailyChangePct: fmt.Sprintf("%.4f%%", stats.MeanPct),
			VolatilityStd:     FormatPct(stats.StdDevPct),
		},
	}
}

// -----------------------------------------------------------------------------

func movements(moves []models.MRankedMovement) []Movement {
	out := make([]Movement, len(moves))
	for i, m := range moves {
		out[i] = Movement{
			Date:           m.DateString(),
			ClosePrice:     FormatCurrency(m.Close),
			DailyChange:    FormatCurrency(m.Abs()),
			DailyChangePct: FormatPct(m.Pct()),
			Sigma:          FormatSigma(m.Sigma),
			Volume:         FormatVolume(m.Volume),
		}
	}
	return out
}

// -----------------------------------------------------------------------------

// RenderJSON serializes the report with 2-space indentation, no trailing
// newline, HTML left unescaped and every non-ASCII rune written as \uXXXX.
func RenderJSON(r *models.MReport) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(BuildDocument(r)); err != nil {
		return nil, err
	}
	return escapeNonASCII(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

// -----------------------------------------------------------------------------

func escapeNonASCII(b []byte) []byte {
	out := make([]byte, 0, len(b))
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		b = b[size:]
		switch {
		case r < utf8.RuneSelf:
			out = append(out, byte(r))
		case r > 0xFFFF:
			r1, r2 := utf16.EncodeRune(r)
			out = fmt.Appendf(out, `\u%04x\u%04x`, r1, r2)
		default:
			out = fmt.Appendf(out, `\u%04x`, r)
		}
	}
	return out
}
