package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"price-movers/src/logger"
	"price-movers/src/models"

	_ "github.com/lib/pq"
)

// -----------------------------------------------------------------------------

type PostgresDB struct {
	Config *models.MConfig
	DB     *sql.DB
	Schema string
	Logger *logger.Logger
	writer *reportWriter
}

// -----------------------------------------------------------------------------

// NewPostgresDB stores runs under a schema named after the application
// (config name, falling back to the executable name).
func NewPostgresDB(cfg *models.MConfig, log *logger.Logger) (*PostgresDB, error) {
	if cfg.Storage.DBConnectionString == "" {
		return nil, fmt.Errorf("postgres: db_connection_string is empty")
	}

	name := cfg.Name
	if name == "" {
		exe, err := os.Executable()
		if err != nil {
			return nil, fmt.Errorf("failed to get executable name: %w", err)
		}
		name = filepath.Base(exe)
		name = strings.TrimSuffix(name, filepath.Ext(name))
	}

	return &PostgresDB{
		Config: cfg,
		Schema: name,
		Logger: log,
	}, nil
}

// -----------------------------------------------------------------------------

func (d *PostgresDB) Initialize() error {
	dsn := d.Config.Storage.DBConnectionString
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return err
	}

	d.DB = db

	// Create Schema
	if _, err := d.DB.Exec(fmt.Sprintf(`CREATE SCHEMA IF NOT EXISTS "%s"`, d.Schema)); err != nil {
		return fmt.Errorf("failed to create schema %s: %w", d.Schema, err)
	}

	if err := d.createTables(); err != nil {
		return err
	}

	d.writer = &reportWriter{
		db:     db,
		tables: d.tableNames(),
		dollar: true,
	}
	d.Logger.Info("PostgresDB initialized successfully (Schema: %s)", d.Schema)
	return nil
}

// -----------------------------------------------------------------------------

func (d *PostgresDB) tableNames() tableNames {
	return tableNames{
		runs:      fmt.Sprintf(`"%s"."runs"`, d.Schema),
		movements: fmt.Sprintf(`"%s"."ranked_movements"`, d.Schema),
		returns:   fmt.Sprintf(`"%s"."daily_returns"`, d.Schema),
	}
}

// -----------------------------------------------------------------------------

func (d *PostgresDB) createTables() error {
	t := d.tableNames()

	queries := []struct{ name, ddl string }{
		{t.runs, fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id TEXT PRIMARY KEY,
				symbol TEXT,
				source TEXT,
				generated_at TIMESTAMPTZ,
				period_start DATE,
				period_end DATE,
				observation_count INTEGER,
				mean_pct DOUBLE PRECISION,
				std_dev_pct DOUBLE PRECISION,
				max_gain_pct DOUBLE PRECISION,
				max_gain_date DATE,
				max_loss_pct DOUBLE PRECISION,
				max_loss_date DATE,
				sigma_undefined BOOLEAN
			);`, t.runs)},
		{t.movements, fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id TEXT REFERENCES %s(run_id),
				side TEXT,
				rank INTEGER,
				date DATE,
				close NUMERIC,
				volume BIGINT,
				abs_change NUMERIC,
				pct_change DOUBLE PRECISION,
				sigma DOUBLE PRECISION,
				PRIMARY KEY (run_id, side, rank)
			);`, t.movements, t.runs)},
		{t.returns, fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id TEXT REFERENCES %s(run_id),
				seq INTEGER,
				date DATE,
				close NUMERIC,
				volume BIGINT,
				abs_change NUMERIC,
				pct_change DOUBLE PRECISION,
				PRIMARY KEY (run_id, seq)
			);`, t.returns, t.runs)},
	}

	for _, q := range queries {
		if _, err := d.DB.Exec(q.ddl); err != nil {
			return fmt.Errorf("failed to create %s: %w", q.name, err)
		}
	}
	return nil
}

// -----------------------------------------------------------------------------

func (d *PostgresDB) SaveReport(ctx context.Context, report *models.MReport) error {
	if d.writer == nil {
		return fmt.Errorf("postgres: not initialized")
	}
	if err := d.writer.save(ctx, report); err != nil {
		return err
	}
	d.Logger.Info("Saved run %s to Postgres schema %s", report.RunID, d.Schema)
	return nil
}

// -----------------------------------------------------------------------------

func (d *PostgresDB) Close() error {
	if d.DB != nil {
		return d.DB.Close()
	}
	return nil
}
