package datasource

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"price-movers/src/data_source/alpaca"
	"price-movers/src/data_source/alphavantage"
	"price-movers/src/data_source/csvfile"
	"price-movers/src/data_source/sample"
	"price-movers/src/data_source/yahoo"
	"price-movers/src/helpers"
	"price-movers/src/interfaces"
	"price-movers/src/logger"
	"price-movers/src/models"
)

const (
	defaultSourceRetries = 1
	defaultRetryDelay    = 2 * time.Second
)

// MultiSourceManager tries its feeds in configured order and returns the
// rows of the first one that yields any.
type MultiSourceManager struct {
	Sources    []interfaces.IPriceFeed
	Logger     *logger.Logger
	Retries    int
	RetryDelay time.Duration

	mu     sync.RWMutex
	active string
}

// -----------------------------------------------------------------------------

func NewMultiSourceManager(sources []interfaces.IPriceFeed, log *logger.Logger) *MultiSourceManager {
	return &MultiSourceManager{
		Sources:    sources,
		Logger:     log,
		Retries:    defaultSourceRetries,
		RetryDelay: defaultRetryDelay,
	}
}

// -----------------------------------------------------------------------------

// NewPriceFeed builds every configured source behind a MultiSourceManager.
func NewPriceFeed(cfg *models.MConfig, window models.MWindow, netMgr interfaces.INetworkManager, log *logger.Logger) (*MultiSourceManager, error) {
	sources := make([]interfaces.IPriceFeed, 0, len(cfg.DataSource.Sources))

	for _, srcCfg := range cfg.DataSource.Sources {
		var src interfaces.IPriceFeed
		switch srcCfg.Type {
		case "yahoo":
			src = yahoo.NewYahooFinanceSource(cfg, srcCfg, window, netMgr)
		case "alphavantage":
			src = alphavantage.NewAlphaVantageSource(cfg, srcCfg, window, netMgr)
		case "alpaca":
			a, err := alpaca.NewAlpacaSource(cfg, srcCfg, window)
			if err != nil {
				return nil, err
			}
			src = a
		case "csv":
			src = csvfile.NewCSVSource(srcCfg, window)
		case "sample":
			src = sample.NewSampleSource(cfg, srcCfg, window)
		default:
			return nil, helpers.NewConfigurationError(fmt.Sprintf("unknown source type %q for %s", srcCfg.Type, srcCfg.Name), nil)
		}
		sources = append(sources, src)
		log.Debug("Configured source %s (%s)", srcCfg.Name, srcCfg.Type)
	}

	if len(sources) == 0 {
		return nil, helpers.NewConfigurationError("no data sources configured", nil)
	}
	return NewMultiSourceManager(sources, log), nil
}

// -----------------------------------------------------------------------------

// Name returns the source that supplied the last successful fetch, or
// "MultiSourceManager" before any.
func (m *MultiSourceManager) Name() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.active == "" {
		return "MultiSourceManager"
	}
	return m.active
}

// -----------------------------------------------------------------------------

// Fetch falls through the sources. A source that errors (after retries) or
// returns no rows hands over to the next one. If every source errored the
// failures are returned together; if some merely returned nothing, the
// result is empty with no error.
func (m *MultiSourceManager) Fetch(ctx context.Context) ([]models.MRawRow, error) {
	var errs []error

	for _, src := range m.Sources {
		rows, err := helpers.RetryWithBackoff(ctx, "fetch "+src.Name(), m.Retries, m.RetryDelay, m.Logger,
			func(ctx context.Context) ([]models.MRawRow, error) {
				return src.Fetch(ctx)
			})
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if err != nil {
			m.Logger.Warning("Source %s failed: %v", src.Name(), err)
			errs = append(errs, err)
			continue
		}
		if len(rows) == 0 {
			m.Logger.Warning("Source %s returned no rows, trying next source", src.Name())
			continue
		}

		m.mu.Lock()
		m.active = src.Name()
		m.mu.Unlock()
		m.Logger.Info("Using %d rows from source %s", len(rows), src.Name())
		return rows, nil
	}

	if len(errs) == len(m.Sources) {
		return nil, helpers.NewDataSourceError("all", errors.Join(errs...))
	}
	return []models.MRawRow{}, nil
}
