package middleware

import (
	"net/http"
	"sync"

	"golang.org/x/time/rate"

	"github.com/sakif/connectly/internal/auth"
	"github.com/sakif/connectly/internal/telemetry"
)

// RateLimiter enforces a per-caller request budget. Requests are partitioned
// by the verified token subject when available (the middleware runs after
// authentication) and by remote address otherwise. A rejected request gets
// 429 and a telemetry tick; it is never queued.
type RateLimiter struct {
	mu        sync.Mutex
	callers   map[string]*rate.Limiter
	limit     rate.Limit
	burst     int
	perMinute int
}

// NewRateLimiter allows perMinute requests per caller per minute.
// perMinute <= 0 disables limiting entirely.
func NewRateLimiter(perMinute int) *RateLimiter {
	return &RateLimiter{
		callers:   make(map[string]*rate.Limiter),
		limit:     rate.Limit(float64(perMinute) / 60.0),
		burst:     perMinute,
		perMinute: perMinute,
	}
}

func (rl *RateLimiter) limiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	l, ok := rl.callers[key]
	if !ok {
		l = rate.NewLimiter(rl.limit, rl.burst)
		rl.callers[key] = l
	}
	return l
}

// Limit is the middleware.
func (rl *RateLimiter) Limit(next http.Handler) http.Handler {
	if rl.perMinute <= 0 {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.RemoteAddr
		if subject, ok := auth.SubjectFromContext(r.Context()); ok {
			key = subject
		}

		if !rl.limiter(key).Allow() {
			telemetry.RateLimited.Inc()
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"error":"rate_limited","message":"too many requests"}`))
			return
		}

		next.ServeHTTP(w, r)
	})
}
