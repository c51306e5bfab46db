package logger

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/rustyeddy/maxoi/config"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

func TestNewLevels(t *testing.T) {
	t.Parallel()

	log, err := New(config.LoggingConfig{Level: "debug"})
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())
	assert.Equal(t, os.Stderr, log.Out)

	log, err = New(config.LoggingConfig{})
	require.NoError(t, err)
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())

	_, err = New(config.LoggingConfig{Level: "loud"})
	assert.Error(t, err)

	_, err = New(config.LoggingConfig{Format: "xml"})
	assert.Error(t, err)
}

func TestJSONFieldNames(t *testing.T) {
	t.Parallel()

	log, err := New(config.LoggingConfig{Level: "info", Format: "json", Output: "stdout"})
	require.NoError(t, err)

	var buf bytes.Buffer
	log.SetOutput(&buf)
	WithComponent(log, "resample").Info("done")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "done", line["message"])
	assert.Equal(t, "info", line["level"])
	assert.Equal(t, "resample", line["component"])
	assert.Contains(t, line, "timestamp")
}

func TestFileOutput(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	path := filepath.Join(dir, "maxoi.log")
	log, err := New(config.LoggingConfig{Output: path})
	require.NoError(t, err)
	log.Info("hello")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")

	rotated := filepath.Join(dir, "rotated.log")
	log, err = New(config.LoggingConfig{Output: rotated, MaxAgeDays: 7})
	require.NoError(t, err)
	lj, ok := log.Out.(*lumberjack.Logger)
	require.True(t, ok)
	assert.Equal(t, 7, lj.MaxAge)
	assert.Equal(t, rotated, lj.Filename)
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	log, hook := test.NewNullLogger()
	h := Middleware(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/dates", nil))

	require.Len(t, hook.AllEntries(), 1)
	e := hook.LastEntry()
	assert.Equal(t, "HTTP request", e.Message)
	assert.Equal(t, http.StatusTeapot, e.Data["status"])
	assert.Equal(t, "/api/v1/dates", e.Data["path"])
	assert.Equal(t, http.MethodGet, e.Data["method"])
}
