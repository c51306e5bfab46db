package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rustyeddy/maxoi/market"
	"github.com/rustyeddy/maxoi/resample"
)

type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open journal %s: %w", path, err)
	}

	if _, err := db.Exec(Schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

// RecordRun stores the header and every bucket row in one transaction.
// Absent values are written as NULL.
func (j *SQLite) RecordRun(ctx context.Context, run Run, res *resample.Result) error {
	overlays, err := json.Marshal(run.Overlays)
	if err != nil {
		return err
	}

	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs
		(run_id, created, symbol, session_date, timeframe, label, start_time, end_time, buckets, populated, overlays)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID, run.Created.UTC(), run.Symbol, run.Date, run.Timeframe, run.Label,
		run.Start.UTC(), run.End.UTC(), run.Buckets, run.Populated, string(overlays),
	)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", run.RunID, err)
	}

	candle, err := tx.PrepareContext(ctx, `
		INSERT INTO candles
		(run_id, idx, time, open, high, low, close, ce_max_oi_strike, ce_max_oi, pe_max_oi_strike, pe_max_oi)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer candle.Close()

	overlay, err := tx.PrepareContext(ctx, `
		INSERT INTO overlay_values (run_id, idx, pos, name, value)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer overlay.Close()

	for i, rec := range Records(res) {
		_, err := candle.ExecContext(ctx,
			run.RunID, i, rec.Time.UTC(),
			nullFloat(rec.Open), nullFloat(rec.High), nullFloat(rec.Low), nullFloat(rec.Close),
			nullFloat(rec.CEStrike), nullInt(rec.CEOI),
			nullFloat(rec.PEStrike), nullInt(rec.PEOI),
		)
		if err != nil {
			return fmt.Errorf("insert row %d: %w", i, err)
		}
		for pos, v := range rec.Overlays {
			if _, err := overlay.ExecContext(ctx, run.RunID, i, pos, run.Overlays[pos], nullFloat(v)); err != nil {
				return fmt.Errorf("insert overlay %d/%d: %w", i, pos, err)
			}
		}
	}

	return tx.Commit()
}

func (j *SQLite) Close() error {
	return j.db.Close()
}

func nullFloat(v market.Value) sql.NullFloat64 {
	return sql.NullFloat64{Float64: v.V, Valid: v.Valid}
}

func nullInt(v market.Value) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(v.V), Valid: v.Valid}
}

func fromFloat(n sql.NullFloat64) market.Value {
	if !n.Valid {
		return market.Absent
	}
	return market.Some(n.Float64)
}

func fromInt(n sql.NullInt64) market.Value {
	if !n.Valid {
		return market.Absent
	}
	return market.Some(float64(n.Int64))
}
