package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"

	"price-movers/src/helpers"
	"price-movers/src/interfaces"
	"price-movers/src/logger"
	"price-movers/src/models"
)

const DefaultBaseURL = "https://query2.finance.yahoo.com"

// YahooFinanceSource reads daily closes from the v8 chart API.
type YahooFinanceSource struct {
	Config       *models.MConfig
	SourceConfig models.MSourceConfig
	Window       models.MWindow
	Network      interfaces.INetworkManager
	Logger       *logger.Logger
}

// -----------------------------------------------------------------------------

func NewYahooFinanceSource(cfg *models.MConfig, sourceCfg models.MSourceConfig, window models.MWindow, netMgr interfaces.INetworkManager) *YahooFinanceSource {
	return &YahooFinanceSource{
		Config:       cfg,
		SourceConfig: sourceCfg,
		Window:       window,
		Network:      netMgr,
		Logger:       logger.NewLogger("YahooFinanceSource-" + sourceCfg.Name),
	}
}

// -----------------------------------------------------------------------------

func (s *YahooFinanceSource) Name() string {
	return s.SourceConfig.Name
}

// -----------------------------------------------------------------------------

// Fetch downloads the lookback window for the configured symbol.
func (s *YahooFinanceSource) Fetch(ctx context.Context) ([]models.MRawRow, error) {
	symbol := s.Config.Symbol
	baseURL := s.SourceConfig.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	params := map[string]string{
		"period1":        strconv.FormatInt(s.Window.Start.Unix(), 10),
		"period2":        strconv.FormatInt(s.Window.End.Unix(), 10),
		"interval":       "1d",
		"includePrePost": "false",
	}
	url := fmt.Sprintf("%s/v8/finance/chart/%s", baseURL, symbol)

	s.Logger.Info("Fetching %s from Yahoo Finance (%s to %s)", symbol,
		s.Window.Start.Format(models.DateLayout), s.Window.End.Format(models.DateLayout))

	respBytes, err := s.Network.Get(ctx, url, params)
	if err != nil {
		return nil, helpers.NewDataSourceError(s.Name(), err)
	}

	rows, err := s.parseChartResponse(symbol, respBytes)
	if err != nil {
		return nil, helpers.NewDataSourceError(s.Name(), err)
	}
	return rows, nil
}

// -----------------------------------------------------------------------------

type YahooChartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Currency             string `json:"currency"`
				Symbol               string `json:"symbol"`
				ExchangeName         string `json:"exchangeName"`
				Gmtoffset            int64  `json:"gmtoffset"`
				ExchangeTimezoneName string `json:"exchangeTimezoneName"`
				DataGranularity      string `json:"dataGranularity"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close  []*float64 `json:"close"`  // Use pointers to handle null
					Volume []*float64 `json:"volume"` // Use pointers to handle null
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// -----------------------------------------------------------------------------

func (s *YahooFinanceSource) parseChartResponse(symbol string, data []byte) ([]models.MRawRow, error) {
	var resp YahooChartResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("json unmarshal failed: %w", err)
	}

	if resp.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s - %s", resp.Chart.Error.Code, resp.Chart.Error.Description)
	}

	if len(resp.Chart.Result) == 0 {
		return nil, fmt.Errorf("no result in response for %s", symbol)
	}

	result := resp.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("no quote data in response for %s", symbol)
	}
	quote := result.Indicators.Quote[0]

	// Alignment check
	if len(result.Timestamp) != len(quote.Close) || len(result.Timestamp) != len(quote.Volume) {
		return nil, fmt.Errorf("data alignment error for %s: mismatched array lengths", symbol)
	}

	type point struct {
		ts  int64
		row models.MRawRow
	}
	points := make([]point, 0, len(result.Timestamp))

	for i, ts := range result.Timestamp {
		// Days without a close are holidays or halts
		if quote.Close[i] == nil {
			continue
		}

		// Volume stays textual; the normalizer owns the range check
		volume := ""
		if quote.Volume[i] != nil {
			volume = strconv.FormatFloat(*quote.Volume[i], 'f', -1, 64)
		}

		// Daily timestamps sit at the session open; shift to exchange time before taking the date
		day := time.Unix(ts+result.Meta.Gmtoffset, 0).UTC()
		points = append(points, point{ts: ts, row: models.MRawRow{
			Date:   day.Format(models.DateLayout),
			Close:  strconv.FormatFloat(*quote.Close[i], 'f', -1, 64),
			Volume: volume,
		}})
	}

	sort.SliceStable(points, func(i, j int) bool {
		return points[i].ts < points[j].ts
	})

	rows := make([]models.MRawRow, len(points))
	for i, p := range points {
		rows[i] = p.row
	}

	if len(rows) > 0 {
		s.Logger.Info("Fetched %s: %d days [%s -> %s]", symbol, len(rows), rows[0].Date, rows[len(rows)-1].Date)
	}
	return rows, nil
}
