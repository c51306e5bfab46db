// Package logger builds the logrus logger shared by the CLI and the API.
package logger

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/rustyeddy/maxoi/config"
	"github.com/sirupsen/logrus"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

// New creates a logger from the logging section of the config
func New(cfg config.LoggingConfig) (*logrus.Logger, error) {
	log := logrus.New()

	level := cfg.Level
	if level == "" {
		level = "info"
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %s: %w", cfg.Level, err)
	}
	log.SetLevel(lvl)

	switch cfg.Format {
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05.000",
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
			},
		})
	case "", "text":
		log.SetFormatter(&logrus.TextFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
			FullTimestamp:   true,
		})
	default:
		return nil, fmt.Errorf("invalid log format %s", cfg.Format)
	}

	out, err := output(cfg.Output, cfg.MaxAgeDays)
	if err != nil {
		return nil, fmt.Errorf("failed to set output: %w", err)
	}
	log.SetOutput(out)
	return log, nil
}

func output(path string, maxAge int) (io.Writer, error) {
	switch path {
	case "", "stderr":
		return os.Stderr, nil
	case "stdout":
		return os.Stdout, nil
	}

	if maxAge > 0 {
		return &lumberjack.Logger{
			Filename: path,
			MaxAge:   maxAge,
			MaxSize:  100,
			Compress: true,
		}, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	return f, nil
}

// Discard is a logger that writes nowhere, for tests and library defaults.
func Discard() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// WithComponent creates a logger with component field
func WithComponent(log logrus.FieldLogger, component string) *logrus.Entry {
	return log.WithField("component", component)
}

// Middleware logs one line per HTTP request
func Middleware(log logrus.FieldLogger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(wrapped, r)

			log.WithFields(logrus.Fields{
				"method":     r.Method,
				"path":       r.URL.Path,
				"status":     wrapped.statusCode,
				"duration":   time.Since(start).Milliseconds(),
				"ip":         r.RemoteAddr,
				"user_agent": r.UserAgent(),
			}).Info("HTTP request")
		})
	}
}

// responseWriter captures the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
