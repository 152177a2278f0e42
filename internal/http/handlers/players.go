package handlers

import (
	nethttp "net/http"

	"golf-match-service/internal/logging"
)

type enrollRequest struct {
	Name string `json:"name"`
}

// EnrollPlayer handles POST /api/matches/{id}/players.
func (h *Handler) EnrollPlayer(w nethttp.ResponseWriter, r *nethttp.Request) {
	matchID, ok := matchIDParam(r)
	if !ok {
		writeError(w, r, nethttp.StatusBadRequest, "invalid match id", h.logger)
		return
	}
	var req enrollRequest
	if !decodeBody(w, r, &req, h.logger) {
		return
	}

	p, err := h.svc.Enrollment.EnrollPlayer(r.Context(), matchID, req.Name)
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}
	loggerFromContext(r, h.logger).Info("player enrolled",
		logging.FieldMatchID, matchID,
		logging.FieldPlayerID, p.ID,
	)
	writeJSON(w, nethttp.StatusOK, p, h.logger)
}

// ListMatchPlayers handles GET /api/matches/{id}/players.
func (h *Handler) ListMatchPlayers(w nethttp.ResponseWriter, r *nethttp.Request) {
	matchID, ok := matchIDParam(r)
	if !ok {
		writeError(w, r, nethttp.StatusBadRequest, "invalid match id", h.logger)
		return
	}
	players, err := h.svc.Enrollment.ListMatchPlayers(r.Context(), matchID)
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}
	writeJSON(w, nethttp.StatusOK, players, h.logger)
}
