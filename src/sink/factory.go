package sink

import (
	"fmt"
	"io"

	"price-movers/src/helpers"
	"price-movers/src/interfaces"
	"price-movers/src/logger"
	"price-movers/src/models"
	"price-movers/src/server"
	"price-movers/src/storage"
)

// -----------------------------------------------------------------------------

// BuildSinks creates the configured sinks in order. The report server is
// returned separately so the caller can start and stop it.
func BuildSinks(cfg *models.MConfig, out io.Writer, log *logger.Logger) (*MultiSink, *server.ReportServer, error) {
	sinks := make([]interfaces.IReportSink, 0, len(cfg.Output.Sinks))
	var srv *server.ReportServer

	for _, name := range cfg.Output.Sinks {
		switch name {
		case "console":
			sinks = append(sinks, NewConsoleSink(out))
		case "json":
			sinks = append(sinks, NewJSONFileSink(cfg.Output, logger.NewLogger("JSONSink")))
		case "text":
			sinks = append(sinks, NewTextFileSink(cfg.Output, instrumentLabel(cfg), logger.NewLogger("TextSink")))
		case "csv":
			sinks = append(sinks, NewCSVSink(cfg.Output, logger.NewLogger("CSVSink")))
		case "sqlite":
			db, err := storage.NewSQLiteDB(cfg, logger.NewLogger("SQLite"))
			if err != nil {
				return nil, nil, helpers.NewConfigurationError("sqlite sink", err)
			}
			sinks = append(sinks, NewDatabaseSink(name, db))
		case "postgres":
			db, err := storage.NewPostgresDB(cfg, logger.NewLogger("Postgres"))
			if err != nil {
				return nil, nil, helpers.NewConfigurationError("postgres sink", err)
			}
			sinks = append(sinks, NewDatabaseSink(name, db))
		case "server":
			srv = server.NewReportServer(cfg, logger.NewLogger("ReportServer"))
			sinks = append(sinks, srv)
		default:
			return nil, nil, helpers.NewConfigurationError(fmt.Sprintf("unknown sink '%s'", name), nil)
		}
	}

	log.Info("Sinks: %v", cfg.Output.Sinks)
	return NewMultiSink(sinks, log), srv, nil
}

// instrumentLabel is the display name used in report titles.
func instrumentLabel(cfg *models.MConfig) string {
	if cfg.InstrumentName != "" {
		return cfg.InstrumentName
	}
	return cfg.Symbol
}
