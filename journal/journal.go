package journal

import (
	"context"
	"fmt"
	"time"

	"github.com/rustyeddy/maxoi/config"
	"github.com/rustyeddy/maxoi/market"
	"github.com/rustyeddy/maxoi/pkg/id"
	"github.com/rustyeddy/maxoi/resample"
)

// Run is the header of one recorded resample: a session on one timeframe.
type Run struct {
	RunID     string
	Created   time.Time
	Symbol    string
	Date      string // YYYY-MM-DD
	Timeframe string // M5, M10, ...
	Label     string
	Start     time.Time // first bucket start
	End       time.Time // session close
	Buckets   int
	Populated int
	Overlays  []string
}

// Record is one bucket row as it is exported. Overlays line up with
// Run.Overlays.
type Record struct {
	Time     time.Time
	Open     market.Value
	High     market.Value
	Low      market.Value
	Close    market.Value
	CEStrike market.Value
	CEOI     market.Value
	PEStrike market.Value
	PEOI     market.Value
	Overlays []market.Value
}

type Journal interface {
	RecordRun(ctx context.Context, run Run, res *resample.Result) error
	Close() error
}

// Store is a journal that can be queried back.
type Store interface {
	Journal
	GetRun(ctx context.Context, runID string) (Run, error)
	ListRuns(ctx context.Context, date string) ([]Run, error)
	ListRows(ctx context.Context, runID string) ([]Record, error)
}

// NewRun builds the header for res with a fresh run id.
func NewRun(res *resample.Result) (Run, error) {
	runID, err := id.New()
	if err != nil {
		return Run{}, err
	}

	run := Run{
		RunID:     runID,
		Created:   time.Now().UTC(),
		Symbol:    res.Symbol,
		Date:      res.Date.Format(market.DateLayout),
		Timeframe: res.Timeframe.Key(),
		Label:     res.Timeframe.Label(),
		Buckets:   len(res.Rows),
		Populated: res.Populated(),
	}
	if n := len(res.Rows); n > 0 {
		run.Start = res.Rows[0].Start
		run.End = res.Rows[n-1].End
	}
	for _, o := range res.Overlays {
		run.Overlays = append(run.Overlays, o.Name())
	}
	return run, nil
}

// Records flattens res into export rows.
func Records(res *resample.Result) []Record {
	cols := make(map[string][]market.Value, len(resample.ColumnNames))
	for _, name := range resample.ColumnNames {
		cols[name] = res.Column(name)
	}

	out := make([]Record, len(res.Rows))
	for i, row := range res.Rows {
		rec := Record{
			Time:     row.Start,
			Open:     cols["open"][i],
			High:     cols["high"][i],
			Low:      cols["low"][i],
			Close:    cols["close"][i],
			CEStrike: cols["ce_max_oi_strike"][i],
			CEOI:     cols["ce_max_oi"][i],
			PEStrike: cols["pe_max_oi_strike"][i],
			PEOI:     cols["pe_max_oi"][i],
		}
		for _, o := range res.Overlays {
			rec.Overlays = append(rec.Overlays, o.Values[i])
		}
		out[i] = rec
	}
	return out
}

func (r Record) values() []market.Value {
	out := []market.Value{
		r.Open, r.High, r.Low, r.Close,
		r.CEStrike, r.CEOI, r.PEStrike, r.PEOI,
	}
	return append(out, r.Overlays...)
}

// Open builds the journal selected by cfg. Type "none" records nothing.
func Open(cfg config.JournalConfig) (Journal, error) {
	switch cfg.Type {
	case "", "none":
		return Nop{}, nil
	case "csv":
		return NewCSVDir(cfg.Dir)
	case "parquet":
		return NewParquetDir(cfg.Dir)
	case "sqlite":
		return NewSQLite(cfg.DBPath)
	default:
		return nil, fmt.Errorf("unknown journal type %q", cfg.Type)
	}
}

// Nop discards runs.
type Nop struct{}

func (Nop) RecordRun(context.Context, Run, *resample.Result) error { return nil }
func (Nop) Close() error                                          { return nil }
