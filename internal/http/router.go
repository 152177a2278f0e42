package http

import (
	"log/slog"
	nethttp "net/http"

	"golf-match-service/internal/http/handlers"
	"golf-match-service/internal/http/middleware"
	"golf-match-service/internal/metrics"
)

// NewRouter registers HTTP routes on a ServeMux. Paths outside /api, /health
// and /ready fall through to static.
func NewRouter(handler *handlers.Handler, static nethttp.Handler) nethttp.Handler {
	mux := nethttp.NewServeMux()
	mux.HandleFunc("GET /health", handler.Health)
	mux.HandleFunc("GET /ready", handler.Ready)

	mux.HandleFunc("POST /api/matches", handler.CreateMatch)
	mux.HandleFunc("GET /api/matches", handler.ListMatches)
	mux.HandleFunc("GET /api/matches/{id}", handler.GetMatch)
	mux.HandleFunc("POST /api/matches/{id}/players", handler.EnrollPlayer)
	mux.HandleFunc("GET /api/matches/{id}/players", handler.ListMatchPlayers)
	mux.HandleFunc("POST /api/matches/{id}/scores", handler.RecordScore)
	mux.HandleFunc("GET /api/matches/{id}/scores", handler.ListPlayerScores)
	mux.HandleFunc("GET /api/matches/{id}/leaderboard", handler.Leaderboard)
	mux.HandleFunc("GET /api/", handler.NotFound)
	mux.HandleFunc("POST /api/", handler.NotFound)

	if static != nil {
		mux.Handle("GET /", static)
	}
	return mux
}

// Options configures the middleware stack applied around the router.
type Options struct {
	Logger        *slog.Logger
	Recorder      *metrics.Recorder
	AllowedOrigin string
	RateLimit     middleware.RateLimitConfig
}

// WithMiddleware wraps next with tracing, request logging, CORS and rate limiting,
// outermost first.
func WithMiddleware(next nethttp.Handler, opts Options) nethttp.Handler {
	h := middleware.RateLimit(opts.RateLimit, opts.Logger, next)
	h = middleware.CORS(opts.AllowedOrigin, h)
	h = middleware.LoggingMiddleware(opts.Logger, opts.Recorder, h)
	return middleware.Tracing(h)
}
