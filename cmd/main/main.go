package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"price-movers/src/app"
	"price-movers/src/logger"
)

// -----------------------------------------------------------------------------

func main() {
	os.Exit(run())
}

// -----------------------------------------------------------------------------

func run() int {

	// 1. Parse command line flags
	var opts cliOptions
	flag.StringVar(&opts.ConfigPath, "config", "", "path to config file (built-in defaults when empty)")
	flag.StringVar(&opts.Symbol, "symbol", "", "ticker symbol to analyse")
	flag.StringVar(&opts.Instrument, "instrument", "", "instrument name used in report titles")
	flag.IntVar(&opts.Years, "years", 0, "lookback window in years")
	flag.IntVar(&opts.Count, "count", 0, "number of top gains and losses")
	flag.StringVar(&opts.Source, "source", "", "use only the named data source")
	flag.StringVar(&opts.OutDir, "out", "", "output directory for report files")
	flag.BoolVar(&opts.Serve, "serve", false, "keep serving the report over HTTP until interrupted")
	dumpPath := flag.String("dump-config", "", "write the effective config (file, env and flags merged) to this path and exit")
	flag.Parse()

	// 2. Load config
	cfg, err := setupConfig(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return 1
	}

	if *dumpPath != "" {
		if err := cfg.Save(*dumpPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving config: %v\n", err)
			return 1
		}
		return 0
	}

	// 3. Setup Logger
	appLogger, err := setupLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error configuring logger: %v\n", err)
		return 1
	}

	// 4. Setup Components
	feed, err := setupDataSources(cfg.MConfig, time.Now())
	if err != nil {
		appLogger.Critical("Failed to configure data sources: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sinks, srv, err := setupSinks(cfg.MConfig, appLogger, stop)
	if err != nil {
		appLogger.Critical("Failed to configure sinks: %v", err)
	}
	defer sinks.Close()

	// 5. Run
	runner := app.NewRunner(cfg.MConfig, feed, sinks, logger.NewLogger("Runner"))
	if _, err := runner.Run(ctx); err != nil {
		appLogger.Error("Run failed: %v", err)
		stopServer(srv, appLogger)
		return 1
	}

	// 6. Serve until interrupted
	if srv != nil {
		appLogger.Info("Serving report on http://%s:%d (Ctrl+C to stop)", cfg.Server.Host, cfg.Server.Port)
		<-ctx.Done()
		appLogger.Info("Shutting down...")
		stopServer(srv, appLogger)
	}

	return 0
}
