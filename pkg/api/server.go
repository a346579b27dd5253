// Package api exposes the availability engine over HTTP for the
// booking administration front end.
package api

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Server wires the availability handler, health check and metrics
// endpoint onto one router
type Server struct {
	router *httprouter.Router
	logger *zap.Logger
}

// NewServer builds the HTTP server around an availability handler. The
// registry backs the /metrics endpoint; pass the same registry the
// engine's collectors were registered on.
func NewServer(h *AvailabilityHandler, registry *prometheus.Registry, logger *zap.Logger) *Server {
	router := httprouter.New()

	router.POST("/v1/availability/check", h.Check)
	router.GET("/healthz", healthz)
	router.Handler(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	return &Server{router: router, logger: logger}
}

// Handler returns the root http.Handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe blocks serving HTTP on addr
func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info("HTTP server listening", zap.String("addr", addr))
	return http.ListenAndServe(addr, s.router)
}

func healthz(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
