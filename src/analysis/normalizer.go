package analysis

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"price-movers/src/helpers"
	"price-movers/src/logger"
	"price-movers/src/models"

	"github.com/shopspring/decimal"
)

var dateLayouts = []string{
	models.DateLayout,
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// NormalizeResult holds the typed observations in input order and one
// diagnostic per skipped row.
type NormalizeResult struct {
	Observations []models.MPriceObservation
	Rejected     []*helpers.RowRejectedError
}

// Normalizer validates and coerces raw feed rows into price observations.
type Normalizer struct {
	RejectDuplicates bool
	Logger           *logger.Logger
}

// -----------------------------------------------------------------------------

func NewNormalizer(rejectDuplicates bool, log *logger.Logger) *Normalizer {
	return &Normalizer{
		RejectDuplicates: rejectDuplicates,
		Logger:           log,
	}
}

// -----------------------------------------------------------------------------

// Normalize converts rows, skipping (and logging) every row that cannot be coerced.
// With RejectDuplicates the first row for a date wins.
func (n *Normalizer) Normalize(rows []models.MRawRow) NormalizeResult {
	result := NormalizeResult{
		Observations: make([]models.MPriceObservation, 0, len(rows)),
	}
	seen := make(map[time.Time]struct{}, len(rows))

	for i, row := range rows {
		obs, rejectErr := ParseRow(i, row)
		if rejectErr == nil && n.RejectDuplicates {
			if _, dup := seen[obs.Date]; dup {
				rejectErr = &helpers.RowRejectedError{Index: i, Date: row.Date, Reason: "duplicate date"}
			}
		}

		if rejectErr != nil {
			if n.Logger != nil {
				n.Logger.Warning("Skipping row: %v", rejectErr)
			}
			result.Rejected = append(result.Rejected, rejectErr)
			continue
		}

		seen[obs.Date] = struct{}{}
		result.Observations = append(result.Observations, obs)
	}

	if n.Logger != nil {
		n.Logger.Info("Normalized %d/%d rows (%d rejected)", len(result.Observations), len(rows), len(result.Rejected))
	}
	return result
}

// -----------------------------------------------------------------------------

// ParseRow coerces a single raw row. index is only used for diagnostics.
func ParseRow(index int, row models.MRawRow) (models.MPriceObservation, *helpers.RowRejectedError) {
	reject := func(reason string, cause error) (models.MPriceObservation, *helpers.RowRejectedError) {
		return models.MPriceObservation{}, &helpers.RowRejectedError{Index: index, Date: row.Date, Reason: reason, Cause: cause}
	}

	date, err := parseDate(row.Date)
	if err != nil {
		return reject("invalid date", err)
	}

	closeStr := strings.TrimSpace(row.Close)
	if closeStr == "" || strings.EqualFold(closeStr, "null") {
		return reject("missing close", nil)
	}
	closePrice, err := decimal.NewFromString(closeStr)
	if err != nil {
		return reject("invalid close", err)
	}
	if f := closePrice.InexactFloat64(); math.IsInf(f, 0) || math.IsNaN(f) {
		return reject("close is not finite", nil)
	}
	if !closePrice.IsPositive() {
		return reject("close must be positive", nil)
	}

	volume, err := parseVolume(row.Volume)
	if err != nil {
		return reject("invalid volume", err)
	}

	return models.MPriceObservation{Date: date, Close: closePrice, Volume: volume}, nil
}

// -----------------------------------------------------------------------------

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}

// -----------------------------------------------------------------------------

// parseVolume treats an absent or "null" volume as 0.
func parseVolume(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "null") {
		return 0, nil
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		if v < 0 {
			return 0, fmt.Errorf("negative volume %d", v)
		}
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	// float64(math.MaxInt64) rounds up to 2^63, which int64 cannot hold
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 || f >= math.MaxInt64 {
		return 0, fmt.Errorf("volume out of range: %s", s)
	}
	return int64(f), nil
}
