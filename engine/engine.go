// Package engine drives session resamples for the CLI and the API: it owns
// the loaded dataset and fans results out to metrics and the journal.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rustyeddy/maxoi/config"
	"github.com/rustyeddy/maxoi/journal"
	"github.com/rustyeddy/maxoi/logger"
	"github.com/rustyeddy/maxoi/market"
	"github.com/rustyeddy/maxoi/metrics"
	"github.com/rustyeddy/maxoi/resample"
	"github.com/rustyeddy/maxoi/ticks"
	"github.com/sirupsen/logrus"
)

var (
	ErrBadDate          = errors.New("bad session date")
	ErrUnknownTimeframe = errors.New("unknown timeframe")
)

// Engine resamples sessions of one symbol from a loaded dataset.
type Engine struct {
	Dataset    *ticks.Dataset
	Symbol     string
	Close      market.Clock
	Timeframes []market.Timeframe
	Offsets    []resample.Offset

	// Optional
	Journal journal.Journal
	Metrics *metrics.Metrics
	Log     logrus.FieldLogger
}

// New builds an engine from cfg over an already loaded dataset.
func New(cfg *config.Config, ds *ticks.Dataset) (*Engine, error) {
	if ds == nil {
		return nil, fmt.Errorf("engine: dataset is required")
	}
	closeAt, err := cfg.Session.CloseClock()
	if err != nil {
		return nil, fmt.Errorf("session close: %w", err)
	}
	tfs, err := cfg.Session.ParseTimeframes()
	if err != nil {
		return nil, fmt.Errorf("session timeframes: %w", err)
	}

	return &Engine{
		Dataset:    ds,
		Symbol:     cfg.Data.Symbol,
		Close:      closeAt,
		Timeframes: tfs,
		Offsets:    cfg.Offsets(),
		Log:        logger.Discard(),
	}, nil
}

// Load reads the configured tick file.
func Load(cfg *config.Config, log logrus.FieldLogger, m *metrics.Metrics) (*ticks.Dataset, error) {
	loc, err := cfg.Data.Loc()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	ds, err := ticks.Load(cfg.Data.TicksFile, cfg.Data.Columns, loc)
	if err != nil {
		return nil, err
	}
	m.TicksLoaded(ds.Len())

	if log != nil {
		logger.WithComponent(log, "engine").WithFields(logrus.Fields{
			"file":     cfg.Data.TicksFile,
			"ticks":    ds.Len(),
			"symbols":  ds.Symbols(),
			"duration": time.Since(start).Milliseconds(),
		}).Info("tick dataset loaded")
	}
	return ds, nil
}

// Dates lists the sessions available for the engine's symbol.
func (e *Engine) Dates() []string {
	return e.Dataset.Dates(e.Symbol)
}

// Timeframe finds a configured timeframe by key, label or duration string.
func (e *Engine) Timeframe(name string) (market.Timeframe, error) {
	for _, tf := range e.Timeframes {
		if tf.Matches(name) {
			return tf, nil
		}
	}
	return market.Timeframe{}, fmt.Errorf("%w %q", ErrUnknownTimeframe, name)
}

func (e *Engine) log() logrus.FieldLogger {
	if e.Log == nil {
		return logger.Discard()
	}
	return logger.WithComponent(e.Log, "engine")
}

// Run resamples one session date on the named timeframes, or on every
// configured timeframe when none are named. Outcomes keep the order of the
// timeframes. Per timeframe failures are reported in the outcomes; the
// returned error covers bad input and journal failures.
func (e *Engine) Run(ctx context.Context, date string, names ...string) ([]resample.Outcome, error) {
	day, err := market.ParseDate(date, e.Dataset.Location())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadDate, err)
	}

	tfs := e.Timeframes
	if len(names) > 0 {
		tfs = make([]market.Timeframe, 0, len(names))
		for _, n := range names {
			tf, err := e.Timeframe(n)
			if err != nil {
				return nil, err
			}
			tfs = append(tfs, tf)
		}
	}

	session := resample.Session{
		Symbol:  e.Symbol,
		Date:    day,
		Close:   e.Close,
		Offsets: e.Offsets,
	}
	ticks := e.Dataset.Session(e.Symbol, day)

	log := e.log().WithFields(logrus.Fields{"symbol": e.Symbol, "date": date})
	log.WithField("ticks", len(ticks)).Debug("resampling session")

	outcomes := resample.All(ctx, ticks, tfs, session)

	var errs []error
	for _, o := range outcomes {
		key := o.Timeframe.Key()
		tfLog := log.WithField("timeframe", key)

		switch {
		case errors.Is(o.Err, market.ErrEmptySession):
			e.Metrics.ObserveResample(key, metrics.StatusEmpty, o.Elapsed)
			tfLog.Warn("no ticks for session")
			continue
		case o.Err != nil:
			e.Metrics.ObserveResample(key, metrics.StatusError, o.Elapsed)
			tfLog.WithError(o.Err).Error("resample failed")
			continue
		}

		e.Metrics.ObserveResample(key, metrics.StatusOK, o.Elapsed)
		st := o.Result.Stats()
		tfLog.WithFields(logrus.Fields{
			"buckets":     st.Buckets,
			"populated":   st.Populated,
			"gaps":        st.GapCount,
			"longest_gap": st.LongestGap,
			"elapsed":     o.Elapsed,
		}).Info("session resampled")

		if err := e.record(ctx, o.Result, tfLog); err != nil {
			errs = append(errs, fmt.Errorf("journal %s: %w", key, err))
		}
	}

	return outcomes, errors.Join(errs...)
}

func (e *Engine) record(ctx context.Context, res *resample.Result, log logrus.FieldLogger) error {
	if e.Journal == nil {
		return nil
	}
	run, err := journal.NewRun(res)
	if err != nil {
		return err
	}
	if err := e.Journal.RecordRun(ctx, run, res); err != nil {
		return err
	}
	log.WithField("run_id", run.RunID).Info("run recorded")
	return nil
}
