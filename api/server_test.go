package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/rustyeddy/maxoi/config"
	"github.com/rustyeddy/maxoi/engine"
	"github.com/rustyeddy/maxoi/market"
	"github.com/rustyeddy/maxoi/metrics"
	"github.com/rustyeddy/maxoi/resample"
	"github.com/rustyeddy/maxoi/ticks"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, compress bool) (http.Handler, *test.Hook) {
	t.Helper()

	loc, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)
	at := func(day int, clock string) time.Time {
		return market.MustClock(clock).On(time.Date(2023, 9, day, 0, 0, 0, 0, loc))
	}
	ds := ticks.NewDataset([]market.OptionTick{
		{Time: at(1, "09:15:30"), Symbol: "BANKNIFTY", Type: market.Call, Strike: 45000, OI: 1000, Open: 45000, High: 45010, Low: 44990, Close: 45000},
		{Time: at(1, "09:16:00"), Symbol: "BANKNIFTY", Type: market.Call, Strike: 45100, OI: 3000, Open: 45000, High: 45020, Low: 44995, Close: 45010},
		{Time: at(1, "09:18:00"), Symbol: "BANKNIFTY", Type: market.Put, Strike: 44900, OI: 2000, Open: 45010, High: 45012, Low: 44980, Close: 45005},
		{Time: at(4, "09:21:00"), Symbol: "BANKNIFTY", Type: market.Put, Strike: 45000, OI: 10, Open: 45300, High: 45300, Low: 45300, Close: 45300},
	}, loc)

	cfg := config.Default()
	e, err := engine.New(cfg, ds)
	require.NoError(t, err)

	m := metrics.New()
	e.Metrics = m

	log, hook := test.NewNullLogger()
	cfg.Server.Compress = compress
	return NewServer(cfg.Server, e, m, log).Handler(), hook
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealth(t *testing.T) {
	t.Parallel()

	h, _ := newTestServer(t, false)
	rec := get(t, h, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestGetDates(t *testing.T) {
	t.Parallel()

	h, _ := newTestServer(t, false)
	rec := get(t, h, "/api/v1/dates")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp Response[[]string]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"2023-09-01", "2023-09-04"}, resp.Data)
	assert.Equal(t, "BANKNIFTY", resp.Meta.Symbol)
	assert.Equal(t, 2, resp.Meta.Count)
}

func TestGetChart(t *testing.T) {
	t.Parallel()

	h, _ := newTestServer(t, false)
	rec := get(t, h, "/api/v1/sessions/2023-09-01/charts/5m")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp Response[resample.Chart]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	c := resp.Data
	assert.Equal(t, "5 Min BANKNIFTY Candlestick Chart with Max OI Strikes (2023-09-01)", c.Title)
	require.Len(t, c.Time, 75)
	assert.Equal(t, market.Some(45000), c.Open[0])
	assert.Equal(t, market.Some(45005), c.Close[0])
	assert.Equal(t, market.Absent, c.Close[1])
	assert.Equal(t, "M5", resp.Meta.Timeframe)
	assert.Equal(t, 75, resp.Meta.Count)

	// the second bucket is empty and must be null, never zero
	assert.Contains(t, rec.Body.String(), `"close":[45005,null`)
}

func TestGetCharts(t *testing.T) {
	t.Parallel()

	h, _ := newTestServer(t, false)
	rec := get(t, h, "/api/v1/sessions/2023-09-04/charts")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp Response[[]TimeframeChart]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 3)

	keys := []string{}
	for _, tc := range resp.Data {
		keys = append(keys, tc.Timeframe)
		assert.Empty(t, tc.Error)
		require.NotNil(t, tc.Chart)
	}
	assert.Equal(t, []string{"M5", "M10", "M15"}, keys)

	// 09:21 is the first 10m bucket (09:20 start) but the second 5m bucket
	assert.Equal(t, market.Some(45300), resp.Data[1].Chart.Close[0])
	assert.Equal(t, market.Absent, resp.Data[0].Chart.Close[0])
	assert.Equal(t, market.Some(45300), resp.Data[0].Chart.Close[1])
}

func TestErrorStatuses(t *testing.T) {
	t.Parallel()

	h, _ := newTestServer(t, false)

	tests := []struct {
		path string
		code int
	}{
		{"/api/v1/sessions/2023-09-02/charts/M5", http.StatusNotFound},
		{"/api/v1/sessions/2023-09-02/charts", http.StatusNotFound},
		{"/api/v1/sessions/yesterday/charts", http.StatusBadRequest},
		{"/api/v1/sessions/yesterday/charts/M5", http.StatusBadRequest},
		{"/api/v1/sessions/2023-09-01/charts/M7", http.StatusNotFound},
		{"/api/v1/nope", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := get(t, h, tt.path)
			assert.Equal(t, tt.code, rec.Code)

			var body errorBody
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body.Error)
		})
	}
}

func TestZstdCompression(t *testing.T) {
	t.Parallel()

	h, _ := newTestServer(t, true)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dates", nil)
	req.Header.Set("Accept-Encoding", "gzip, zstd")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "zstd", rec.Header().Get("Content-Encoding"))

	dec, err := zstd.NewReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer dec.Close()
	plain, err := io.ReadAll(dec)
	require.NoError(t, err)

	var resp Response[[]string]
	require.NoError(t, json.Unmarshal(plain, &resp))
	assert.Equal(t, []string{"2023-09-01", "2023-09-04"}, resp.Data)

	// plain clients get plain JSON
	rec = get(t, h, "/api/v1/dates")
	assert.Empty(t, rec.Header().Get("Content-Encoding"))
	assert.True(t, json.Valid(rec.Body.Bytes()))
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()

	h, _ := newTestServer(t, false)
	get(t, h, "/api/v1/sessions/2023-09-01/charts/M15")

	rec := get(t, h, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "maxoi_resample_total")
}

func TestAccessLog(t *testing.T) {
	t.Parallel()

	h, hook := newTestServer(t, false)
	get(t, h, "/api/v1/sessions/2023-09-02/charts/M5")

	var found bool
	for _, e := range hook.AllEntries() {
		if e.Message == "HTTP request" {
			found = true
			assert.Equal(t, http.StatusNotFound, e.Data["status"])
			assert.Equal(t, "api", e.Data["component"])
		}
	}
	assert.True(t, found)
}
