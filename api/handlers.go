package api

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rustyeddy/maxoi/engine"
	"github.com/rustyeddy/maxoi/market"
	"github.com/rustyeddy/maxoi/resample"
)

func (s *Server) getHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) getDates(w http.ResponseWriter, _ *http.Request) {
	dates := s.engine.Dates()
	if dates == nil {
		dates = []string{}
	}
	meta := Meta{Symbol: s.engine.Symbol, Count: len(dates)}
	if len(dates) > 0 {
		meta.FirstTs, meta.LastTs = dates[0], dates[len(dates)-1]
	}
	writeJSON(w, http.StatusOK, Response[[]string]{Data: dates, Meta: meta})
}

// runStatus maps engine input errors to HTTP statuses.
func runStatus(err error) int {
	switch {
	case errors.Is(err, engine.ErrBadDate):
		return http.StatusBadRequest
	case errors.Is(err, engine.ErrUnknownTimeframe):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) run(w http.ResponseWriter, r *http.Request, names ...string) ([]resample.Outcome, bool) {
	date := mux.Vars(r)["date"]
	outcomes, err := s.engine.Run(r.Context(), date, names...)
	if outcomes == nil {
		writeError(w, runStatus(err), err.Error())
		return nil, false
	}
	if err != nil {
		s.log.WithError(err).WithField("date", date).Warn("session served without journal")
	}
	return outcomes, true
}

func (s *Server) getCharts(w http.ResponseWriter, r *http.Request) {
	outcomes, ok := s.run(w, r)
	if !ok {
		return
	}

	date := mux.Vars(r)["date"]
	out := make([]TimeframeChart, 0, len(outcomes))
	empty := 0
	for _, o := range outcomes {
		tc := TimeframeChart{
			Timeframe: o.Timeframe.Key(),
			Label:     o.Timeframe.Label(),
			ElapsedMs: float64(o.Elapsed.Microseconds()) / 1000,
		}
		if o.Err != nil {
			if errors.Is(o.Err, market.ErrEmptySession) {
				empty++
			}
			tc.Error = o.Err.Error()
		} else {
			c := o.Result.Chart()
			tc.Chart = &c
		}
		out = append(out, tc)
	}

	if empty == len(outcomes) && empty > 0 {
		writeError(w, http.StatusNotFound, outcomes[0].Err.Error())
		return
	}

	writeJSON(w, http.StatusOK, Response[[]TimeframeChart]{
		Data: out,
		Meta: Meta{Symbol: s.engine.Symbol, Date: date, Count: len(out)},
	})
}

func (s *Server) getChart(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["timeframe"]
	outcomes, ok := s.run(w, r, name)
	if !ok {
		return
	}

	o := outcomes[0]
	switch {
	case errors.Is(o.Err, market.ErrEmptySession):
		writeError(w, http.StatusNotFound, o.Err.Error())
		return
	case o.Err != nil:
		writeError(w, http.StatusInternalServerError, o.Err.Error())
		return
	}

	chart := o.Result.Chart()
	meta := Meta{
		Symbol:    chart.Symbol,
		Date:      chart.Date,
		Timeframe: o.Timeframe.Key(),
		Count:     len(chart.Time),
	}
	meta.FirstTs, meta.LastTs = span(chart.Time)
	writeJSON(w, http.StatusOK, Response[resample.Chart]{Data: chart, Meta: meta})
}
