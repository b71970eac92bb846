package sink

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"price-movers/src/helpers"
	"price-movers/src/logger"
	"price-movers/src/models"
	"price-movers/src/report"
)

// Output file suffixes, joined to the configured prefix with "_".
const (
	JSONSuffix       = "price_analysis.json"
	TextSuffix       = "analysis_report.txt"
	FullCSVSuffix    = "price_data_full.csv"
	GainsCSVSuffix   = "top_gains.csv"
	LossesCSVSuffix  = "top_losses.csv"
	defaultFilePerms = 0o644
)

// -----------------------------------------------------------------------------

// fileTarget resolves output paths under a directory and prefix.
type fileTarget struct {
	Dir    string
	Prefix string
}

func (f fileTarget) path(suffix string) string {
	name := suffix
	if f.Prefix != "" {
		name = f.Prefix + "_" + suffix
	}
	return filepath.Join(f.Dir, name)
}

func (f fileTarget) write(suffix string, data []byte) (string, error) {
	if f.Dir != "" {
		if err := os.MkdirAll(f.Dir, 0o755); err != nil {
			return "", err
		}
	}
	p := f.path(suffix)
	return p, os.WriteFile(p, data, defaultFilePerms)
}

// -----------------------------------------------------------------------------
// JSON
// -----------------------------------------------------------------------------

type JSONFileSink struct {
	target fileTarget
	Logger *logger.Logger
}

func NewJSONFileSink(cfg models.MOutputConfig, log *logger.Logger) *JSONFileSink {
	return &JSONFileSink{target: fileTarget{Dir: cfg.Dir, Prefix: cfg.Prefix}, Logger: log}
}

func (s *JSONFileSink) Name() string { return "json" }

func (s *JSONFileSink) Write(_ context.Context, r *models.MReport) error {
	data, err := report.RenderJSON(r)
	if err != nil {
		return helpers.NewSinkError(s.Name(), err)
	}
	p, err := s.target.write(JSONSuffix, data)
	if err != nil {
		return helpers.NewSinkError(s.Name(), err)
	}
	s.Logger.Info("Wrote %s (structured data)", p)
	return nil
}

// -----------------------------------------------------------------------------
// Text
// -----------------------------------------------------------------------------

type TextFileSink struct {
	target     fileTarget
	Instrument string
	Logger     *logger.Logger
}

func NewTextFileSink(cfg models.MOutputConfig, instrument string, log *logger.Logger) *TextFileSink {
	return &TextFileSink{target: fileTarget{Dir: cfg.Dir, Prefix: cfg.Prefix}, Instrument: instrument, Logger: log}
}

func (s *TextFileSink) Name() string { return "text" }

func (s *TextFileSink) Write(_ context.Context, r *models.MReport) error {
	p, err := s.target.write(TextSuffix, []byte(report.RenderText(r, s.Instrument)))
	if err != nil {
		return helpers.NewSinkError(s.Name(), err)
	}
	s.Logger.Info("Wrote %s (human-readable report)", p)
	return nil
}

// -----------------------------------------------------------------------------
// CSV
// -----------------------------------------------------------------------------

// CSVSink writes the full dataset plus one file per ranked list.
type CSVSink struct {
	target fileTarget
	Logger *logger.Logger
}

func NewCSVSink(cfg models.MOutputConfig, log *logger.Logger) *CSVSink {
	return &CSVSink{target: fileTarget{Dir: cfg.Dir, Prefix: cfg.Prefix}, Logger: log}
}

func (s *CSVSink) Name() string { return "csv" }

func (s *CSVSink) Write(_ context.Context, r *models.MReport) error {
	files := []struct {
		suffix string
		render func(*bytes.Buffer) error
	}{
		{FullCSVSuffix, func(b *bytes.Buffer) error { return report.WriteFullCSV(b, r.Returns) }},
		{GainsCSVSuffix, func(b *bytes.Buffer) error { return report.WriteMovementsCSV(b, r.TopGains) }},
		{LossesCSVSuffix, func(b *bytes.Buffer) error { return report.WriteMovementsCSV(b, r.TopLosses) }},
	}

	written := make([]string, 0, len(files))
	for _, f := range files {
		var buf bytes.Buffer
		if err := f.render(&buf); err != nil {
			return helpers.NewSinkError(s.Name(), fmt.Errorf("%s: %w", f.suffix, err))
		}
		p, err := s.target.write(f.suffix, buf.Bytes())
		if err != nil {
			return helpers.NewSinkError(s.Name(), err)
		}
		written = append(written, p)
	}
	s.Logger.Info("Wrote %s", strings.Join(written, ", "))
	return nil
}
