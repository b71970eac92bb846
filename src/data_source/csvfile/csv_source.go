package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"price-movers/src/helpers"
	"price-movers/src/logger"
	"price-movers/src/models"
)

// CSVSource reads a local export with a header row containing at least
// Date and Close (Yahoo's download format works as is). "Adj Close" is
// ignored in favour of Close; Volume is optional.
type CSVSource struct {
	SourceConfig models.MSourceConfig
	Window       models.MWindow
	Logger       *logger.Logger
}

// -----------------------------------------------------------------------------

func NewCSVSource(sourceCfg models.MSourceConfig, window models.MWindow) *CSVSource {
	return &CSVSource{
		SourceConfig: sourceCfg,
		Window:       window,
		Logger:       logger.NewLogger("CSVSource-" + sourceCfg.Name),
	}
}

func (s *CSVSource) Name() string {
	return s.SourceConfig.Name
}

// -----------------------------------------------------------------------------

func (s *CSVSource) Fetch(ctx context.Context) ([]models.MRawRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.SourceConfig.Path)
	if err != nil {
		return nil, helpers.NewDataSourceError(s.Name(), err)
	}
	defer f.Close()

	rows, err := s.read(f)
	if err != nil {
		return nil, helpers.NewDataSourceError(s.Name(), fmt.Errorf("%s: %w", s.SourceConfig.Path, err))
	}
	s.Logger.Info("Read %d rows from %s", len(rows), s.SourceConfig.Path)
	return rows, nil
}

// -----------------------------------------------------------------------------

func (s *CSVSource) read(r io.Reader) ([]models.MRawRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}

	col := map[string]int{}
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	dateIdx, okDate := col["date"]
	closeIdx, okClose := col["close"]
	if !okDate || !okClose {
		return nil, fmt.Errorf("header must contain Date and Close columns, got %v", header)
	}
	volIdx, okVol := col["volume"]

	field := func(rec []string, i int) string {
		if i < len(rec) {
			return rec[i]
		}
		return ""
	}

	var rows []models.MRawRow
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		row := models.MRawRow{Date: strings.TrimSpace(field(rec, dateIdx)), Close: field(rec, closeIdx)}
		if okVol {
			row.Volume = field(rec, volIdx)
		}
		// Unparseable dates go through so the normalizer can report them
		if len(row.Date) >= 10 && !s.Window.ContainsDay(row.Date[:10]) {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}
