package sample

import (
	"context"
	"math/rand"
	"strconv"

	"price-movers/src/logger"
	"price-movers/src/models"
	"price-movers/src/utils"

	"github.com/shopspring/decimal"
)

// Random-walk parameters. Prices are clamped to a plausible silver range.
const (
	DefaultSeed    = 42
	StartPrice     = 20.0
	DailyStdDevPct = 1.5
	MinPrice       = 10.0
	MaxPrice       = 40.0
	MinVolume      = 5_000_000
	MaxVolume      = 30_000_000
)

// SampleSource generates a deterministic synthetic series over the
// instrument's trading days. It never touches the network.
type SampleSource struct {
	Config       *models.MConfig
	SourceConfig models.MSourceConfig
	Window       models.MWindow
	Calendar     *utils.TradingCalendar
	Logger       *logger.Logger
}

// -----------------------------------------------------------------------------

func NewSampleSource(cfg *models.MConfig, sourceCfg models.MSourceConfig, window models.MWindow) *SampleSource {
	return &SampleSource{
		Config:       cfg,
		SourceConfig: sourceCfg,
		Window:       window,
		Calendar:     utils.GetCalendar(cfg.Symbol),
		Logger:       logger.NewLogger("SampleSource-" + sourceCfg.Name),
	}
}

func (s *SampleSource) Name() string {
	return s.SourceConfig.Name
}

// -----------------------------------------------------------------------------

func (s *SampleSource) Fetch(ctx context.Context) ([]models.MRawRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	seed := s.SourceConfig.Seed
	if seed == 0 {
		seed = DefaultSeed
	}
	rng := rand.New(rand.NewSource(seed))

	days := s.Calendar.TradingDays(s.Window.Start, s.Window.End)
	rows := make([]models.MRawRow, 0, len(days))
	price := StartPrice

	for _, day := range days {
		changePct := rng.NormFloat64() * DailyStdDevPct
		price *= 1 + changePct/100
		price = max(MinPrice, min(MaxPrice, price))

		rows = append(rows, models.MRawRow{
			Date:   day.Format(models.DateLayout),
			Close:  decimal.NewFromFloat(price).StringFixed(2),
			Volume: strconv.FormatInt(MinVolume+rng.Int63n(MaxVolume-MinVolume+1), 10),
		})
	}

	if len(rows) > 0 {
		s.Logger.Warning("Using %d days of SAMPLE data [%s -> %s], not real prices", len(rows), rows[0].Date, rows[len(rows)-1].Date)
	}
	return rows, nil
}
