package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrRunNotFound is returned by GetRun for an unknown id.
var ErrRunNotFound = errors.New("run not found")

const runColumns = `run_id, created, symbol, session_date, timeframe, label, start_time, end_time, buckets, populated, overlays`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (Run, error) {
	var (
		run      Run
		overlays string
	)
	err := s.Scan(
		&run.RunID,
		&run.Created,
		&run.Symbol,
		&run.Date,
		&run.Timeframe,
		&run.Label,
		&run.Start,
		&run.End,
		&run.Buckets,
		&run.Populated,
		&overlays,
	)
	if err != nil {
		return Run{}, err
	}
	if err := json.Unmarshal([]byte(overlays), &run.Overlays); err != nil {
		return Run{}, fmt.Errorf("bad overlays %q: %w", overlays, err)
	}
	return run, nil
}

// GetRun returns a single run header by ID.
func (j *SQLite) GetRun(ctx context.Context, runID string) (Run, error) {
	row := j.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE run_id = ?`, runID)

	run, err := scanRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, fmt.Errorf("run %q: %w", runID, ErrRunNotFound)
		}
		return Run{}, err
	}
	return run, nil
}

// ListRuns returns the runs of one session date, oldest first. An empty
// date lists every run.
func (j *SQLite) ListRuns(ctx context.Context, date string) ([]Run, error) {
	q := `SELECT ` + runColumns + ` FROM runs`
	var args []any
	if date != "" {
		q += ` WHERE session_date = ?`
		args = append(args, date)
	}
	q += ` ORDER BY run_id ASC`

	rows, err := j.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListRows returns the bucket rows of a run in bucket order.
func (j *SQLite) ListRows(ctx context.Context, runID string) ([]Record, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT time, open, high, low, close, ce_max_oi_strike, ce_max_oi, pe_max_oi_strike, pe_max_oi
		FROM candles
		WHERE run_id = ?
		ORDER BY idx ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var (
			rec                                   Record
			open, high, low, cls, ceStrike, peStr sql.NullFloat64
			ceOI, peOI                            sql.NullInt64
		)
		if err := rows.Scan(&rec.Time, &open, &high, &low, &cls, &ceStrike, &ceOI, &peStr, &peOI); err != nil {
			return nil, err
		}
		rec.Open, rec.High, rec.Low, rec.Close = fromFloat(open), fromFloat(high), fromFloat(low), fromFloat(cls)
		rec.CEStrike, rec.CEOI = fromFloat(ceStrike), fromInt(ceOI)
		rec.PEStrike, rec.PEOI = fromFloat(peStr), fromInt(peOI)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}

	if err := j.fillOverlays(ctx, runID, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (j *SQLite) fillOverlays(ctx context.Context, runID string, recs []Record) error {
	rows, err := j.db.QueryContext(ctx, `
		SELECT idx, value
		FROM overlay_values
		WHERE run_id = ?
		ORDER BY idx ASC, pos ASC`, runID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			idx int
			v   sql.NullFloat64
		)
		if err := rows.Scan(&idx, &v); err != nil {
			return err
		}
		if idx < 0 || idx >= len(recs) {
			return fmt.Errorf("overlay row %d out of range", idx)
		}
		recs[idx].Overlays = append(recs[idx].Overlays, fromFloat(v))
	}
	return rows.Err()
}
