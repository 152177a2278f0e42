package handlers

import (
	"context"
	"log/slog"
	nethttp "net/http"
	"strconv"

	"golf-match-service/internal/app/enrollment"
	"golf-match-service/internal/app/leaderboard"
	"golf-match-service/internal/app/matches"
	"golf-match-service/internal/app/scoring"
)

// Services groups the operations exposed over HTTP.
type Services struct {
	Matches     *matches.Service
	Enrollment  *enrollment.Service
	Scoring     *scoring.Service
	Leaderboard *leaderboard.Service
}

// Handler wires HTTP routes to the golf services.
type Handler struct {
	svc     Services
	logger  *slog.Logger
	readyFn func(context.Context) error
}

// NewHandler constructs a Handler. readyFn backs /ready; nil means always ready.
func NewHandler(svc Services, logger *slog.Logger, readyFn func(context.Context) error) *Handler {
	return &Handler{
		svc:     svc,
		logger:  logger,
		readyFn: readyFn,
	}
}

// Health reports the service health.
func (h *Handler) Health(w nethttp.ResponseWriter, r *nethttp.Request) {
	if err := r.Context().Err(); err != nil {
		writeError(w, r, nethttp.StatusServiceUnavailable, "shutting down", h.logger)
		return
	}
	writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ok"}, h.logger)
}

// Ready reports readiness for traffic (e.g., for Kubernetes probes).
func (h *Handler) Ready(w nethttp.ResponseWriter, r *nethttp.Request) {
	if h.readyFn != nil {
		if err := h.readyFn(r.Context()); err != nil {
			loggerFromContext(r, h.logger).Warn("readiness check failed", "error", err)
			writeError(w, r, nethttp.StatusServiceUnavailable, "store unavailable", h.logger)
			return
		}
	}
	writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ready"}, h.logger)
}

// NotFound answers unknown API paths.
func (h *Handler) NotFound(w nethttp.ResponseWriter, r *nethttp.Request) {
	writeError(w, r, nethttp.StatusNotFound, "Not Found", h.logger)
}

func matchIDParam(r *nethttp.Request) (int64, bool) {
	return parseID(r.PathValue("id"))
}

func parseID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
