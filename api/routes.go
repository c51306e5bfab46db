package api

import (
	"net/http"

	"github.com/gorilla/mux"
)

type apiRoute struct {
	Path    string
	Method  string
	Handler http.HandlerFunc
}

func (s *Server) routes() []apiRoute {
	return []apiRoute{
		{
			Path:    "/dates",
			Method:  http.MethodGet,
			Handler: s.getDates,
		},
		{
			Path:    "/sessions/{date}/charts",
			Method:  http.MethodGet,
			Handler: s.getCharts,
		},
		{
			Path:    "/sessions/{date}/charts/{timeframe}",
			Method:  http.MethodGet,
			Handler: s.getChart,
		},
	}
}

func (s *Server) serveRoutes(router *mux.Router) {
	router.HandleFunc("/health", s.getHealth).Methods(http.MethodGet)
	router.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)

	api := router.PathPrefix("/api/v1").Subrouter()
	for _, r := range s.routes() {
		api.HandleFunc(r.Path, r.Handler).Methods(r.Method)
	}
}
