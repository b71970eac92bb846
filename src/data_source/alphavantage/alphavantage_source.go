package alphavantage

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"price-movers/src/helpers"
	"price-movers/src/interfaces"
	"price-movers/src/logger"
	"price-movers/src/models"
)

const (
	DefaultBaseURL = "https://www.alphavantage.co"
	DemoAPIKey     = "demo"
)

// AlphaVantageSource reads TIME_SERIES_DAILY with the full output size.
type AlphaVantageSource struct {
	Config       *models.MConfig
	SourceConfig models.MSourceConfig
	Window       models.MWindow
	Network      interfaces.INetworkManager
	Logger       *logger.Logger
}

// -----------------------------------------------------------------------------

func NewAlphaVantageSource(cfg *models.MConfig, sourceCfg models.MSourceConfig, window models.MWindow, netMgr interfaces.INetworkManager) *AlphaVantageSource {
	return &AlphaVantageSource{
		Config:       cfg,
		SourceConfig: sourceCfg,
		Window:       window,
		Network:      netMgr,
		Logger:       logger.NewLogger("AlphaVantageSource-" + sourceCfg.Name),
	}
}

func (s *AlphaVantageSource) Name() string {
	return s.SourceConfig.Name
}

// -----------------------------------------------------------------------------

type dailyResponse struct {
	ErrorMessage string                    `json:"Error Message"`
	Note         string                    `json:"Note"`
	Information  string                    `json:"Information"`
	Series       map[string]dailyBarValues `json:"Time Series (Daily)"`
}

type dailyBarValues struct {
	Open   string `json:"1. open"`
	High   string `json:"2. high"`
	Low    string `json:"3. low"`
	Close  string `json:"4. close"`
	Volume string `json:"5. volume"`
}

// -----------------------------------------------------------------------------

func (s *AlphaVantageSource) Fetch(ctx context.Context) ([]models.MRawRow, error) {
	apiKey := s.SourceConfig.APIKey
	if apiKey == "" {
		apiKey = DemoAPIKey
		s.Logger.Warning("No Alpha Vantage API key configured, using the demo key (limited data)")
	}
	baseURL := s.SourceConfig.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	params := map[string]string{
		"function":   "TIME_SERIES_DAILY",
		"symbol":     s.Config.Symbol,
		"outputsize": "full",
		"apikey":     apiKey,
	}

	body, err := s.Network.Get(ctx, baseURL+"/query", params)
	if err != nil {
		return nil, helpers.NewDataSourceError(s.Name(), err)
	}

	rows, err := s.parse(body)
	if err != nil {
		return nil, helpers.NewDataSourceError(s.Name(), err)
	}
	return rows, nil
}

// -----------------------------------------------------------------------------

func (s *AlphaVantageSource) parse(body []byte) ([]models.MRawRow, error) {
	var resp dailyResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("json unmarshal failed: %w", err)
	}

	switch {
	case resp.ErrorMessage != "":
		return nil, fmt.Errorf("alpha vantage error: %s", resp.ErrorMessage)
	case resp.Note != "":
		return nil, fmt.Errorf("alpha vantage api limit: %s", resp.Note)
	case len(resp.Series) == 0 && resp.Information != "":
		return nil, fmt.Errorf("alpha vantage: %s", resp.Information)
	case len(resp.Series) == 0:
		return nil, fmt.Errorf("no time series data found in response")
	}

	// Keys are YYYY-MM-DD so lexical order is chronological
	dates := make([]string, 0, len(resp.Series))
	for d := range resp.Series {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	rows := make([]models.MRawRow, 0, len(dates))
	for _, d := range dates {
		if !s.Window.ContainsDay(d) {
			continue
		}
		v := resp.Series[d]
		rows = append(rows, models.MRawRow{Date: d, Close: v.Close, Volume: v.Volume})
	}

	if len(rows) > 0 {
		s.Logger.Info("Retrieved %d days of data [%s -> %s]", len(rows), rows[0].Date, rows[len(rows)-1].Date)
	}
	return rows, nil
}
