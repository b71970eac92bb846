package storage

import (
	"context"
	"database/sql"
	"fmt"

	"price-movers/src/logger"
	"price-movers/src/models"

	_ "modernc.org/sqlite"
)

// -----------------------------------------------------------------------------

type SQLiteDB struct {
	Config *models.MConfig
	DB     *sql.DB
	Logger *logger.Logger
	writer *reportWriter
}

// -----------------------------------------------------------------------------

func NewSQLiteDB(cfg *models.MConfig, log *logger.Logger) (*SQLiteDB, error) {
	if cfg.Storage.DBPath == "" {
		return nil, fmt.Errorf("sqlite: db_path is empty")
	}
	return &SQLiteDB{
		Config: cfg,
		Logger: log,
	}, nil
}

// -----------------------------------------------------------------------------

func (d *SQLiteDB) Initialize() error {
	dsn := d.Config.Storage.DBPath

	// Open DB
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return err
	}

	d.DB = db

	// PRAGMA optimizations
	if _, err := db.Exec("PRAGMA journal_mode = WAL;"); err != nil {
		d.Logger.Warning("Failed to set WAL mode: %v", err)
	}
	if _, err := db.Exec("PRAGMA synchronous = NORMAL;"); err != nil {
		d.Logger.Warning("Failed to set synchronous mode: %v", err)
	}

	if err := d.createTables(); err != nil {
		return err
	}

	d.writer = &reportWriter{
		db:     db,
		tables: tableNames{runs: "runs", movements: "ranked_movements", returns: "daily_returns"},
	}
	d.Logger.Info("SQLite initialized (%s)", dsn)
	return nil
}

// -----------------------------------------------------------------------------

func (d *SQLiteDB) createTables() error {
	// SQLite types: INTEGER for int64, REAL for float64, TEXT for string and decimals
	queries := map[string]string{
		"runs": `
			CREATE TABLE IF NOT EXISTS runs (
				run_id TEXT PRIMARY KEY,
				symbol TEXT,
				source TEXT,
				generated_at TIMESTAMP,
				period_start TEXT,
				period_end TEXT,
				observation_count INTEGER,
				mean_pct REAL,
				std_dev_pct REAL,
				max_gain_pct REAL,
				max_gain_date TEXT,
				max_loss_pct REAL,
				max_loss_date TEXT,
				sigma_undefined BOOLEAN
			);`,
		"ranked_movements": `
			CREATE TABLE IF NOT EXISTS ranked_movements (
				run_id TEXT REFERENCES runs(run_id),
				side TEXT,
				rank INTEGER,
				date TEXT,
				close TEXT,
				volume INTEGER,
				abs_change TEXT,
				pct_change REAL,
				sigma REAL,
				PRIMARY KEY (run_id, side, rank)
			);`,
		"daily_returns": `
			CREATE TABLE IF NOT EXISTS daily_returns (
				run_id TEXT REFERENCES runs(run_id),
				seq INTEGER,
				date TEXT,
				close TEXT,
				volume INTEGER,
				abs_change TEXT,
				pct_change REAL,
				PRIMARY KEY (run_id, seq)
			);`,
	}

	for _, name := range []string{"runs", "ranked_movements", "daily_returns"} {
		if _, err := d.DB.Exec(queries[name]); err != nil {
			return fmt.Errorf("failed to create %s: %w", name, err)
		}
	}
	return nil
}

// -----------------------------------------------------------------------------

func (d *SQLiteDB) SaveReport(ctx context.Context, report *models.MReport) error {
	if d.writer == nil {
		return fmt.Errorf("sqlite: not initialized")
	}
	if err := d.writer.save(ctx, report); err != nil {
		return err
	}
	d.Logger.Info("Saved run %s (%d returns) to SQLite", report.RunID, len(report.Returns))
	return nil
}

// -----------------------------------------------------------------------------

func (d *SQLiteDB) Close() error {
	if d.DB != nil {
		return d.DB.Close()
	}
	return nil
}
