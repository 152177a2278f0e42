package handlers

import (
	nethttp "net/http"

	"golf-match-service/internal/domain/golf"
	"golf-match-service/internal/logging"
)

type createMatchRequest struct {
	Name     string `json:"name"`
	NumHoles *int   `json:"num_holes"`
}

// CreateMatch handles POST /api/matches. An omitted or null num_holes means a
// standard round.
func (h *Handler) CreateMatch(w nethttp.ResponseWriter, r *nethttp.Request) {
	var req createMatchRequest
	if !decodeBody(w, r, &req, h.logger) {
		return
	}
	holes := golf.DefaultHoles
	if req.NumHoles != nil {
		holes = *req.NumHoles
	}

	m, err := h.svc.Matches.CreateMatch(r.Context(), req.Name, holes)
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}
	loggerFromContext(r, h.logger).Info("match created", logging.FieldMatchID, m.ID, "num_holes", m.NumHoles)
	writeJSON(w, nethttp.StatusOK, m, h.logger)
}

// ListMatches handles GET /api/matches.
func (h *Handler) ListMatches(w nethttp.ResponseWriter, r *nethttp.Request) {
	list, err := h.svc.Matches.ListMatches(r.Context())
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}
	writeJSON(w, nethttp.StatusOK, list, h.logger)
}

// GetMatch handles GET /api/matches/{id}.
func (h *Handler) GetMatch(w nethttp.ResponseWriter, r *nethttp.Request) {
	id, ok := matchIDParam(r)
	if !ok {
		writeError(w, r, nethttp.StatusBadRequest, "invalid match id", h.logger)
		return
	}
	m, err := h.svc.Matches.GetMatch(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}
	writeJSON(w, nethttp.StatusOK, m, h.logger)
}
