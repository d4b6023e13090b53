// Package api serves the status endpoints of a running scenario.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server wires the status routes.
type Server struct {
	healthHandler *HealthHandler
	statsHandler  *StatsHandler
	gatherer      prometheus.Gatherer
}

// NewServer creates a status server reading progress from provider and
// exposing the metrics collected by gatherer.
func NewServer(provider StatsProvider, gatherer prometheus.Gatherer) *Server {
	return &Server{
		healthHandler: NewHealthHandler(),
		statsHandler:  NewStatsHandler(provider),
		gatherer:      gatherer,
	}
}

// Register attaches all status routes to mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
