// Package resample turns one trading session of option ticks into candle
// series with the max open interest strikes for calls and puts.
package resample

import (
	"context"
	"sync"
	"time"

	"github.com/rustyeddy/maxoi/market"
)

// Session describes the trading day being resampled. Ticks handed to
// Resample must already be scoped to Symbol and Date.
type Session struct {
	Symbol  string
	Date    time.Time // midnight in the session's location
	Close   market.Clock
	Offsets []Offset
}

// Row is one bucket of the combined table. Nil pointers are absent samples.
type Row struct {
	market.Bucket
	Ticks int

	Candle *market.Candle
	CE     *market.OIStrike
	PE     *market.OIStrike
}

// Result is the combined table for one timeframe.
type Result struct {
	Symbol    string
	Date      time.Time
	Timeframe market.Timeframe

	Rows     []Row
	Overlays []Overlay
}

// Resample buckets the session on tf's grid and builds one row per bucket,
// including buckets that received no ticks.
func Resample(ticks []market.OptionTick, tf market.Timeframe, s Session) (*Result, error) {
	start := tf.Start.On(s.Date)
	end := s.Close.On(s.Date)

	buckets, err := market.Buckets(tf.Length, start, end)
	if err != nil {
		return nil, err
	}
	if len(ticks) == 0 {
		return nil, &market.EmptySessionError{Symbol: s.Symbol, Date: s.Date.Format(market.DateLayout)}
	}

	parts := partition(ticks, buckets, tf.Length)

	rows := make([]Row, len(buckets))
	for i, b := range buckets {
		in := parts[i]
		row := Row{Bucket: b, Ticks: len(in)}

		if c, ok := Aggregate(in); ok {
			c.Time = b.Start
			row.Candle = &c
		}
		if ce, ok := MaxOI(in, market.Call); ok {
			row.CE = &ce
		}
		if pe, ok := MaxOI(in, market.Put); ok {
			row.PE = &pe
		}
		rows[i] = row
	}

	res := &Result{
		Symbol:    s.Symbol,
		Date:      s.Date,
		Timeframe: tf,
		Rows:      rows,
	}
	res.Overlays = Overlays(res.Closes(), s.Offsets)
	return res, nil
}

// partition assigns every tick to its bucket in a single pass. Ticks keep
// their input order inside a bucket; ticks outside the grid are dropped.
func partition(ticks []market.OptionTick, buckets []market.Bucket, tf time.Duration) [][]market.OptionTick {
	parts := make([][]market.OptionTick, len(buckets))
	start := buckets[0].Start
	end := buckets[len(buckets)-1].End

	for _, t := range ticks {
		if t.Time.Before(start) || !t.Time.Before(end) {
			continue
		}
		idx := int(t.Time.Sub(start) / tf)
		parts[idx] = append(parts[idx], t)
	}
	return parts
}

// Times returns the bucket start times.
func (r *Result) Times() []time.Time {
	out := make([]time.Time, len(r.Rows))
	for i, row := range r.Rows {
		out[i] = row.Start
	}
	return out
}

// Closes returns the close column with gaps left absent.
func (r *Result) Closes() []market.Value {
	return r.column(func(row Row) market.Value {
		if row.Candle == nil {
			return market.Absent
		}
		return market.Some(row.Candle.Close)
	})
}

// Column returns one of the named table columns: open, high, low, close,
// ce_max_oi_strike, ce_max_oi, pe_max_oi_strike, pe_max_oi.
func (r *Result) Column(name string) []market.Value {
	get, ok := columns[name]
	if !ok {
		return nil
	}
	return r.column(get)
}

// Overlay looks an overlay up by its name.
func (r *Result) Overlay(name string) (Overlay, bool) {
	for _, o := range r.Overlays {
		if o.Name() == name {
			return o, true
		}
	}
	return Overlay{}, false
}

// Populated counts the rows that received a candle.
func (r *Result) Populated() int {
	n := 0
	for _, row := range r.Rows {
		if row.Candle != nil {
			n++
		}
	}
	return n
}

func (r *Result) column(get func(Row) market.Value) []market.Value {
	out := make([]market.Value, len(r.Rows))
	for i, row := range r.Rows {
		out[i] = get(row)
	}
	return out
}

// ColumnNames lists the fixed table columns in output order.
var ColumnNames = []string{
	"open", "high", "low", "close",
	"ce_max_oi_strike", "ce_max_oi",
	"pe_max_oi_strike", "pe_max_oi",
}

var columns = map[string]func(Row) market.Value{
	"open":             candleField(func(c *market.Candle) float64 { return c.Open }),
	"high":             candleField(func(c *market.Candle) float64 { return c.High }),
	"low":              candleField(func(c *market.Candle) float64 { return c.Low }),
	"close":            candleField(func(c *market.Candle) float64 { return c.Close }),
	"ce_max_oi_strike": strikeField(func(r Row) *market.OIStrike { return r.CE }, false),
	"ce_max_oi":        strikeField(func(r Row) *market.OIStrike { return r.CE }, true),
	"pe_max_oi_strike": strikeField(func(r Row) *market.OIStrike { return r.PE }, false),
	"pe_max_oi":        strikeField(func(r Row) *market.OIStrike { return r.PE }, true),
}

func candleField(f func(*market.Candle) float64) func(Row) market.Value {
	return func(r Row) market.Value {
		if r.Candle == nil {
			return market.Absent
		}
		return market.Some(f(r.Candle))
	}
}

func strikeField(pick func(Row) *market.OIStrike, oi bool) func(Row) market.Value {
	return func(r Row) market.Value {
		s := pick(r)
		if s == nil {
			return market.Absent
		}
		if oi {
			return market.Some(float64(s.OI))
		}
		return market.Some(s.Strike)
	}
}

// Outcome is the result, or the failure, of one timeframe.
type Outcome struct {
	Timeframe market.Timeframe
	Result    *Result
	Err       error
	Elapsed   time.Duration
}

// All resamples every timeframe concurrently. Outcomes come back in the
// order of tfs and a failing timeframe does not affect the others.
func All(ctx context.Context, ticks []market.OptionTick, tfs []market.Timeframe, s Session) []Outcome {
	out := make([]Outcome, len(tfs))

	var wg sync.WaitGroup
	for i, tf := range tfs {
		wg.Add(1)
		go func(i int, tf market.Timeframe) {
			defer wg.Done()

			out[i].Timeframe = tf
			if err := ctx.Err(); err != nil {
				out[i].Err = err
				return
			}
			start := time.Now()
			out[i].Result, out[i].Err = Resample(ticks, tf, s)
			out[i].Elapsed = time.Since(start)
		}(i, tf)
	}
	wg.Wait()

	return out
}
