package api

import (
	"crypto/subtle"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"
)

// TokenCookie carries the access token for browser navigation, where no
// Authorization header can be set.
const TokenCookie = "dinnerclub_token"

// AccessTokenMiddleware requires the access token when token is set. It is
// accepted as "Authorization: Bearer <token>", the TokenCookie cookie, or a
// "token" query parameter; a valid query token is stored in the cookie so
// the dashboard's form and download links keep working. An empty token
// leaves the dashboard open.
func AccessTokenMiddleware(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}
			if auth := r.Header.Get("Authorization"); auth != "" {
				got, ok := strings.CutPrefix(auth, "Bearer ")
				if !ok || !tokenMatches(got, token) {
					writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
					return
				}
				next.ServeHTTP(w, r)
				return
			}
			if q := r.URL.Query().Get("token"); q != "" && tokenMatches(q, token) {
				http.SetCookie(w, &http.Cookie{
					Name:     TokenCookie,
					Value:    q,
					Path:     "/",
					HttpOnly: true,
					SameSite: http.SameSiteStrictMode,
				})
				next.ServeHTTP(w, r)
				return
			}
			if c, err := r.Cookie(TokenCookie); err == nil && tokenMatches(c.Value, token) {
				next.ServeHTTP(w, r)
				return
			}
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		})
	}
}

func tokenMatches(got, want string) bool {
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}

func RequestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", chiMiddleware.GetReqID(r.Context()),
			)
		})
	}
}

// limiterIdleTTL is how long a client's limiter is kept after its last request.
const limiterIdleTTL = 10 * time.Minute

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type rateLimiter struct {
	mu        sync.Mutex
	limiters  map[string]*limiterEntry
	limit     rate.Limit
	burst     int
	idleTTL   time.Duration
	lastSweep time.Time
	now       func() time.Time
}

func newRateLimiter(requestsPerMinute int) *rateLimiter {
	return &rateLimiter{
		limiters: make(map[string]*limiterEntry),
		limit:    rate.Limit(float64(requestsPerMinute) / 60),
		burst:    requestsPerMinute,
		idleTTL:  limiterIdleTTL,
		now:      time.Now,
	}
}

func (rl *rateLimiter) allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if now.Sub(rl.lastSweep) >= rl.idleTTL {
		rl.sweep(now)
	}
	e, ok := rl.limiters[key]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.limiters[key] = e
	}
	e.lastSeen = now
	return e.limiter.AllowN(now, 1)
}

// sweep drops limiters idle for longer than idleTTL. A limiter idle that long
// has refilled its whole burst, so recreating it later changes nothing.
func (rl *rateLimiter) sweep(now time.Time) {
	for key, e := range rl.limiters {
		if now.Sub(e.lastSeen) > rl.idleTTL {
			delete(rl.limiters, key)
		}
	}
	rl.lastSweep = now
}

// RateLimitMiddleware allows requestsPerMinute per client address, with the
// full minute's allowance available as a burst. Zero disables limiting.
func RateLimitMiddleware(requestsPerMinute int) func(http.Handler) http.Handler {
	rl := newRateLimiter(requestsPerMinute)
	return func(next http.Handler) http.Handler {
		if requestsPerMinute <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !rl.allow(clientKey(r)) {
				writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": "rate limit exceeded"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
