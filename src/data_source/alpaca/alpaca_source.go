package alpaca

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"price-movers/src/helpers"
	"price-movers/src/logger"
	"price-movers/src/models"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
)

// BarsClient is the slice of the Alpaca market-data client this feed uses.
type BarsClient interface {
	GetBars(symbol string, req marketdata.GetBarsRequest) ([]marketdata.Bar, error)
}

// AlpacaSource reads split-adjusted daily bars from Alpaca market data.
type AlpacaSource struct {
	Config       *models.MConfig
	SourceConfig models.MSourceConfig
	Window       models.MWindow
	Client       BarsClient
	Logger       *logger.Logger
	location     *time.Location
}

// -----------------------------------------------------------------------------

func NewAlpacaSource(cfg *models.MConfig, sourceCfg models.MSourceConfig, window models.MWindow) (*AlpacaSource, error) {
	if sourceCfg.APIKey == "" || sourceCfg.APISecret == "" {
		return nil, helpers.NewConfigurationError(
			fmt.Sprintf("alpaca source %s needs api_key and api_secret", sourceCfg.Name), nil)
	}

	client := marketdata.NewClient(marketdata.ClientOpts{
		APIKey:    sourceCfg.APIKey,
		APISecret: sourceCfg.APISecret,
		BaseURL:   sourceCfg.BaseURL,
	})
	return newAlpacaSource(cfg, sourceCfg, window, client), nil
}

func newAlpacaSource(cfg *models.MConfig, sourceCfg models.MSourceConfig, window models.MWindow, client BarsClient) *AlpacaSource {
	// Daily bars are stamped at midnight New York time
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		loc = time.UTC
	}
	return &AlpacaSource{
		Config:       cfg,
		SourceConfig: sourceCfg,
		Window:       window,
		Client:       client,
		Logger:       logger.NewLogger("AlpacaSource-" + sourceCfg.Name),
		location:     loc,
	}
}

// -----------------------------------------------------------------------------

func (s *AlpacaSource) Name() string {
	return s.SourceConfig.Name
}

// -----------------------------------------------------------------------------

// Fetch pages through the SDK. The SDK call itself is not cancellable, so
// ctx is only checked before the request.
func (s *AlpacaSource) Fetch(ctx context.Context) ([]models.MRawRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bars, err := s.Client.GetBars(s.Config.Symbol, marketdata.GetBarsRequest{
		TimeFrame:  marketdata.OneDay,
		Adjustment: marketdata.Split,
		Start:      s.Window.Start,
		End:        s.Window.End,
		Feed:       marketdata.IEX,
	})
	if err != nil {
		return nil, helpers.NewDataSourceError(s.Name(), err)
	}

	rows := make([]models.MRawRow, 0, len(bars))
	for _, b := range bars {
		// Start/End are instants; the window is in exchange calendar days
		day := b.Timestamp.In(s.location)
		if !s.Window.Contains(day) {
			continue
		}
		rows = append(rows, models.MRawRow{
			Date:   day.Format(models.DateLayout),
			Close:  strconv.FormatFloat(b.Close, 'f', -1, 64),
			Volume: strconv.FormatUint(b.Volume, 10),
		})
	}

	if len(rows) > 0 {
		s.Logger.Info("Fetched %s: %d bars [%s -> %s]", s.Config.Symbol, len(rows), rows[0].Date, rows[len(rows)-1].Date)
	}
	return rows, nil
}
