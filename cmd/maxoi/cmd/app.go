package cmd

import (
	"github.com/rustyeddy/maxoi/config"
	"github.com/rustyeddy/maxoi/engine"
	"github.com/rustyeddy/maxoi/metrics"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// app is what every data command needs: config, logger, metrics and an
// engine over the loaded dataset.
type app struct {
	cfg     *config.Config
	log     *logrus.Logger
	metrics *metrics.Metrics
	engine  *engine.Engine
}

func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	log, err := newLogger(cmd, cfg)
	if err != nil {
		return nil, err
	}

	m := metrics.New()
	ds, err := engine.Load(cfg, log, m)
	if err != nil {
		return nil, err
	}

	e, err := engine.New(cfg, ds)
	if err != nil {
		return nil, err
	}
	e.Log = log
	e.Metrics = m

	return &app{cfg: cfg, log: log, metrics: m, engine: e}, nil
}
