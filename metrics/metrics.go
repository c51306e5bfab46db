// Registers:
//
//	#maxoi_resample_total{timeframe,status}
//	#maxoi_resample_duration_seconds{timeframe}
//	#maxoi_ticks_loaded_total
//
// plus the Go runtime and process collectors.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	StatusOK    = "ok"
	StatusEmpty = "empty"
	StatusError = "error"
)

// Metrics holds the maxoi collectors on their own registry.
type Metrics struct {
	reg *prometheus.Registry

	resamples   *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	ticksLoaded prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		resamples: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "maxoi_resample_total",
				Help: "Number of session resamples by timeframe and outcome",
			},
			[]string{"timeframe", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "maxoi_resample_duration_seconds",
				Help:    "Time spent resampling one session on one timeframe",
				Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14),
			},
			[]string{"timeframe"},
		),
		ticksLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "maxoi_ticks_loaded_total",
			Help: "Number of option ticks read from datasets",
		}),
	}

	m.reg.MustRegister(m.resamples, m.duration, m.ticksLoaded)
	m.reg.MustRegister(collectors.NewGoCollector())
	m.reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return m
}

// ObserveResample records one timeframe outcome.
func (m *Metrics) ObserveResample(timeframe, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.resamples.WithLabelValues(timeframe, status).Inc()
	m.duration.WithLabelValues(timeframe).Observe(elapsed.Seconds())
}

func (m *Metrics) TicksLoaded(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.ticksLoaded.Add(float64(n))
}

func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}
