package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rustyeddy/maxoi/resample"
)

type Response[T any] struct {
	Data T    `json:"data"`
	Meta Meta `json:"meta"`
}

type Meta struct {
	Symbol    string `json:"symbol,omitempty"`
	Date      string `json:"date,omitempty"`
	Timeframe string `json:"timeframe,omitempty"`
	Count     int    `json:"count"`

	FirstTs string `json:"first_ts,omitempty"`
	LastTs  string `json:"last_ts,omitempty"`
}

// TimeframeChart is one entry of the all-timeframes response. Exactly one of
// Chart and Error is set.
type TimeframeChart struct {
	Timeframe string          `json:"timeframe"`
	Label     string          `json:"label"`
	Chart     *resample.Chart `json:"chart,omitempty"`
	Error     string          `json:"error,omitempty"`
	ElapsedMs float64         `json:"elapsed_ms"`
}

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

func span(times []time.Time) (first, last string) {
	if len(times) == 0 {
		return "", ""
	}
	return times[0].Format(time.RFC3339), times[len(times)-1].Format(time.RFC3339)
}
