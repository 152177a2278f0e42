package handlers

import (
	nethttp "net/http"

	"golf-match-service/internal/domain/golf"
)

type recordScoreRequest struct {
	PlayerID   *int64 `json:"player_id" validate:"required"`
	HoleNumber *int   `json:"hole_number" validate:"required"`
	Strokes    *int   `json:"strokes" validate:"required"`
}

// RecordScore handles POST /api/matches/{id}/scores.
func (h *Handler) RecordScore(w nethttp.ResponseWriter, r *nethttp.Request) {
	matchID, ok := matchIDParam(r)
	if !ok {
		writeError(w, r, nethttp.StatusBadRequest, "invalid match id", h.logger)
		return
	}
	var req recordScoreRequest
	if !decodeBody(w, r, &req, h.logger) {
		return
	}
	if err := golf.Validate(req); err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}

	sc, err := h.svc.Scoring.RecordScore(r.Context(), matchID, *req.PlayerID, *req.HoleNumber, *req.Strokes)
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}
	writeJSON(w, nethttp.StatusOK, sc, h.logger)
}

// ListPlayerScores handles GET /api/matches/{id}/scores?player_id=.
func (h *Handler) ListPlayerScores(w nethttp.ResponseWriter, r *nethttp.Request) {
	matchID, ok := matchIDParam(r)
	if !ok {
		writeError(w, r, nethttp.StatusBadRequest, "invalid match id", h.logger)
		return
	}
	raw := r.URL.Query().Get("player_id")
	if raw == "" {
		writeError(w, r, nethttp.StatusBadRequest, "player_id is required", h.logger)
		return
	}
	playerID, ok := parseID(raw)
	if !ok {
		writeError(w, r, nethttp.StatusBadRequest, "invalid player_id", h.logger)
		return
	}

	scores, err := h.svc.Scoring.ListPlayerScores(r.Context(), matchID, playerID)
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}
	writeJSON(w, nethttp.StatusOK, scores, h.logger)
}

// Leaderboard handles GET /api/matches/{id}/leaderboard.
func (h *Handler) Leaderboard(w nethttp.ResponseWriter, r *nethttp.Request) {
	matchID, ok := matchIDParam(r)
	if !ok {
		writeError(w, r, nethttp.StatusBadRequest, "invalid match id", h.logger)
		return
	}
	rows, err := h.svc.Leaderboard.ComputeLeaderboard(r.Context(), matchID)
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}
	writeJSON(w, nethttp.StatusOK, rows, h.logger)
}
