package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"golf-match-service/internal/domain/golf"
	"golf-match-service/internal/http/middleware"
	"golf-match-service/internal/http/requestutil"
	"golf-match-service/internal/logging"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, payload any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil && logger != nil {
		logger.Error("failed to encode response", "err", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string, logger *slog.Logger) {
	reqID := middleware.RequestIDFromContext(r.Context())
	if reqID == "" {
		reqID = r.Header.Get(requestutil.HeaderRequestID)
	}
	body := map[string]string{"detail": message}
	if reqID != "" {
		body["request_id"] = reqID
	}
	writeJSON(w, status, body, logger)
}

// writeDomainError maps the domain error taxonomy onto status codes. Anything
// outside it is logged and reported as a generic 500.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error, logger *slog.Logger) {
	switch {
	case errors.Is(err, golf.ErrValidation):
		writeError(w, r, http.StatusBadRequest, err.Error(), logger)
	case errors.Is(err, golf.ErrNotFound):
		writeError(w, r, http.StatusNotFound, capitalize(err.Error()), logger)
	case errors.Is(err, golf.ErrPreconditionFailed):
		writeError(w, r, http.StatusBadRequest, capitalize(err.Error()), logger)
	default:
		logging.Error(loggerFromContext(r, logger), "request failed", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error", logger)
	}
}

// decodeBody reads a JSON body into dest and writes a 400 when it is malformed.
func decodeBody(w http.ResponseWriter, r *http.Request, dest any, logger *slog.Logger) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		msg := "invalid JSON body"
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			msg = "request body too large"
		} else if errors.Is(err, io.EOF) {
			msg = "request body is required"
		}
		writeError(w, r, http.StatusBadRequest, msg, logger)
		return false
	}
	return true
}

func loggerFromContext(r *http.Request, fallback *slog.Logger) *slog.Logger {
	if r == nil {
		return fallback
	}
	if logger := logging.FromContext(r.Context(), fallback); logger != nil {
		return logger
	}
	return slog.Default()
}

func capitalize(s string) string {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
