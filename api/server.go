// Package api serves session dates and chart payloads over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rustyeddy/maxoi/config"
	"github.com/rustyeddy/maxoi/engine"
	"github.com/rustyeddy/maxoi/logger"
	"github.com/rustyeddy/maxoi/metrics"
	"github.com/sirupsen/logrus"
)

type Server struct {
	cfg     config.ServerConfig
	engine  *engine.Engine
	metrics *metrics.Metrics
	log     logrus.FieldLogger
}

func NewServer(cfg config.ServerConfig, e *engine.Engine, m *metrics.Metrics, log logrus.FieldLogger) *Server {
	if m == nil {
		m = metrics.New()
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Server{cfg: cfg, engine: e, metrics: m, log: logger.WithComponent(log, "api")}
}

// Handler is the full router with access logging and, when enabled,
// zstd compression.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	s.serveRoutes(r)
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})

	var h http.Handler = r
	if s.cfg.Compress {
		h = ZstdMiddleware(h)
	}
	return logger.Middleware(s.log)(h)
}

// ListenAndServe runs until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.WithField("addr", s.cfg.Addr).Info("HTTP server listening")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.log.Info("HTTP server shutting down")
	return srv.Shutdown(shutdownCtx)
}
