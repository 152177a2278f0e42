package middleware

import (
	"encoding/json"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"golf-match-service/internal/http/requestutil"
	"golf-match-service/internal/logging"
)

// RateLimitConfig sizes the per-client token bucket. RPS <= 0 disables limiting.
type RateLimitConfig struct {
	RPS   float64
	Burst int
}

type limiterStore struct {
	mu       sync.Mutex
	rps      rate.Limit
	burst    int
	limiters map[string]*rate.Limiter
}

func newLimiterStore(cfg RateLimitConfig) *limiterStore {
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	return &limiterStore{
		rps:      rate.Limit(cfg.RPS),
		burst:    burst,
		limiters: make(map[string]*rate.Limiter),
	}
}

func (s *limiterStore) get(key string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()
	lim, ok := s.limiters[key]
	if !ok {
		lim = rate.NewLimiter(s.rps, s.burst)
		s.limiters[key] = lim
	}
	return lim
}

// RateLimit throttles mutating requests per client address. Reads pass through.
func RateLimit(cfg RateLimitConfig, logger *slog.Logger, next http.Handler) http.Handler {
	if cfg.RPS <= 0 {
		return next
	}
	store := newLimiterStore(cfg)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !isMutating(r.Method) {
			next.ServeHTTP(w, r)
			return
		}

		key := requestutil.ClientKey(r)
		res := store.get(key).Reserve()
		if delay := res.Delay(); delay > 0 {
			res.Cancel()
			logging.Warn(logging.FromContext(r.Context(), logger), "rate limited", "client", key)
			w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds(delay)))
			writeDetail(w, r, http.StatusTooManyRequests, http.StatusText(http.StatusTooManyRequests))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	default:
		return false
	}
}

func retryAfterSeconds(d time.Duration) int {
	secs := int(math.Ceil(d.Seconds()))
	if secs < 1 {
		return 1
	}
	return secs
}

func writeDetail(w http.ResponseWriter, r *http.Request, status int, detail string) {
	body := map[string]string{"detail": detail}
	if reqID := RequestIDFromContext(r.Context()); reqID != "" {
		body["request_id"] = reqID
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
