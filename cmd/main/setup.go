package main

import (
	"context"
	"fmt"
	"os"
	"slices"
	"time"

	"price-movers/src/config"
	datasource "price-movers/src/data_source"
	"price-movers/src/logger"
	"price-movers/src/models"
	"price-movers/src/network"
	"price-movers/src/server"
	"price-movers/src/sink"
)

// cliOptions holds command line overrides. Zero values leave the config alone.
type cliOptions struct {
	ConfigPath string
	Symbol     string
	Instrument string
	Years      int
	Count      int
	Source     string
	OutDir     string
	Serve      bool
}

// -----------------------------------------------------------------------------

// setupConfig loads the YAML file (or built-in defaults) and applies flags.
func setupConfig(opts cliOptions) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if opts.ConfigPath != "" {
		cfg, err = config.NewConfig(opts.ConfigPath)
	} else {
		cfg, err = config.DefaultConfig()
	}
	if err != nil {
		return nil, err
	}

	if err := applyFlags(cfg, opts); err != nil {
		return nil, err
	}
	return cfg, nil
}

// -----------------------------------------------------------------------------

// applyFlags layers non-zero command line values over the loaded config.
func applyFlags(cfg *config.Config, opts cliOptions) error {
	if opts.Symbol != "" {
		cfg.Symbol = opts.Symbol
		if opts.Instrument == "" {
			cfg.InstrumentName = opts.Symbol
		}
	}
	if opts.Instrument != "" {
		cfg.InstrumentName = opts.Instrument
	}
	if opts.Years > 0 {
		cfg.LookbackYears = opts.Years
	}
	if opts.Count > 0 {
		cfg.MovementCount = opts.Count
	}
	if opts.OutDir != "" {
		cfg.Output.Dir = opts.OutDir
	}
	if opts.Serve && !slices.Contains(cfg.Output.Sinks, "server") {
		cfg.Output.Sinks = append(cfg.Output.Sinks, "server")
	}

	if opts.Source != "" {
		var picked []models.MSourceConfig
		for _, s := range cfg.DataSource.Sources {
			if s.Name == opts.Source {
				picked = append(picked, s)
			}
		}
		if len(picked) == 0 {
			return fmt.Errorf("no data source named '%s'", opts.Source)
		}
		cfg.DataSource.Sources = picked
	}

	return cfg.Validate()
}

// -----------------------------------------------------------------------------

// setupLogger configures the process-wide log output.
func setupLogger(cfg *config.Config) (*logger.Logger, error) {
	if err := logger.Setup(cfg.LogLevel, cfg.LogFormat, os.Stderr); err != nil {
		return nil, err
	}
	return logger.NewLogger(cfg.Name), nil
}

// -----------------------------------------------------------------------------

// setupDataSources builds the feed chain over the lookback window.
func setupDataSources(cfg *models.MConfig, now time.Time) (*datasource.MultiSourceManager, error) {
	window := models.NewLookbackWindow(now, cfg.LookbackYears)
	netMgr := network.NewNetworkManager(cfg.Network, logger.NewLogger("NetworkManager"))
	return datasource.NewPriceFeed(cfg, window, netMgr, logger.NewLogger("DataSource"))
}

// -----------------------------------------------------------------------------

// setupSinks builds the configured sinks and starts the report server if any.
// onServerError is called if the server stops with an error.
func setupSinks(cfg *models.MConfig, appLogger *logger.Logger, onServerError func()) (*sink.MultiSink, *server.ReportServer, error) {
	sinks, srv, err := sink.BuildSinks(cfg, os.Stdout, logger.NewLogger("Sinks"))
	if err != nil {
		return nil, nil, err
	}

	if srv != nil {
		go func() {
			if err := srv.Start(); err != nil {
				appLogger.Error("Server failed: %v", err)
				onServerError()
			}
		}()
	}
	return sinks, srv, nil
}

// -----------------------------------------------------------------------------

func stopServer(srv *server.ReportServer, appLogger *logger.Logger) {
	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Stop(ctx); err != nil {
		appLogger.Warning("Server shutdown: %v", err)
	}
}
