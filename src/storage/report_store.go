package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"price-movers/src/models"
)

// Shared insert path for SQLite and Postgres. Queries are written with "?"
// placeholders and rebound per driver.

const (
	sideGain = "gain"
	sideLoss = "loss"
)

// -----------------------------------------------------------------------------

type reportWriter struct {
	db     *sql.DB
	tables tableNames
	dollar bool // Postgres numbered placeholders
}

type tableNames struct {
	runs      string
	movements string
	returns   string
}

// -----------------------------------------------------------------------------

func (w *reportWriter) save(ctx context.Context, r *models.MReport) error {
	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stats := r.Statistics
	_, err = tx.ExecContext(ctx, w.bind(fmt.Sprintf(`
		INSERT INTO %s (run_id, symbol, source, generated_at, period_start, period_end,
			observation_count, mean_pct, std_dev_pct, max_gain_pct, max_gain_date,
			max_loss_pct, max_loss_date, sigma_undefined)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, w.tables.runs)),
		r.RunID, r.Symbol, r.Source, r.GeneratedAt.UTC(),
		r.PeriodStart.Format(models.DateLayout), r.PeriodEnd.Format(models.DateLayout),
		stats.ObservationCount, stats.MeanPct, stats.StdDevPct,
		stats.MaxGainPct, stats.MaxGainDate.Format(models.DateLayout),
		stats.MaxLossPct, stats.MaxLossDate.Format(models.DateLayout),
		r.SigmaUndefined,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	if err := w.saveMovements(ctx, tx, r.RunID, sideGain, r.TopGains); err != nil {
		return err
	}
	if err := w.saveMovements(ctx, tx, r.RunID, sideLoss, r.TopLosses); err != nil {
		return err
	}
	if err := w.saveReturns(ctx, tx, r.RunID, r.Returns); err != nil {
		return err
	}

	return tx.Commit()
}

// -----------------------------------------------------------------------------

func (w *reportWriter) saveMovements(ctx context.Context, tx *sql.Tx, runID, side string, moves []models.MRankedMovement) error {
	if len(moves) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, w.bind(fmt.Sprintf(`
		INSERT INTO %s (run_id, side, rank, date, close, volume, abs_change, pct_change, sigma)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, w.tables.movements)))
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, m := range moves {
		sigma := sql.NullFloat64{Float64: m.Sigma.Value, Valid: m.Sigma.Defined}
		_, err := stmt.ExecContext(ctx, runID, side, i+1, m.DateString(), m.Close.String(), m.Volume,
			m.Abs().String(), m.Pct(), sigma)
		if err != nil {
			return fmt.Errorf("insert %s movement %d: %w", side, i+1, err)
		}
	}
	return nil
}

// -----------------------------------------------------------------------------

func (w *reportWriter) saveReturns(ctx context.Context, tx *sql.Tx, runID string, returns []models.MReturnObservation) error {
	if len(returns) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, w.bind(fmt.Sprintf(`
		INSERT INTO %s (run_id, seq, date, close, volume, abs_change, pct_change)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, w.tables.returns)))
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, r := range returns {
		_, err := stmt.ExecContext(ctx, runID, i, r.DateString(), r.Close.String(), r.Volume, r.Abs().String(), r.Pct())
		if err != nil {
			return fmt.Errorf("insert return %s: %w", r.DateString(), err)
		}
	}
	return nil
}

// -----------------------------------------------------------------------------

func (w *reportWriter) bind(query string) string {
	if !w.dollar {
		return query
	}
	return rebindDollar(query)
}

// rebindDollar rewrites "?" placeholders as $1, $2, ...
func rebindDollar(query string) string {
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
