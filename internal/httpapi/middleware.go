package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/andreasstove999/storefront-backend/internal/ratelimit"
)

// Allower is the limiter surface the middleware needs; satisfied by
// *ratelimit.Limiter and by stubs in tests.
type Allower interface {
	Allow(ctx context.Context, clientKey string) error
}

// RateLimit rejects requests over the client's fixed-window budget with 429.
// Clients are keyed by remote IP; the RealIP middleware must run first so
// proxied requests carry the right address.
func RateLimit(limiter Allower, log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			err := limiter.Allow(r.Context(), clientIP(r))
			if err == nil {
				next.ServeHTTP(w, r)
				return
			}

			var limitErr *ratelimit.LimitExceededError
			if errors.As(err, &limitErr) {
				retryAfter := int(limitErr.RetryAfter.Seconds())
				writeJSON(w, http.StatusTooManyRequests, map[string]any{
					"error":             limitErr.Error(),
					"retryAfterSeconds": retryAfter,
				})
				return
			}

			// Limiter infrastructure failure; don't take the API down with it.
			log.Error().Err(err).Msg("rate limiter unavailable, letting request through")
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// requestLogger logs one line per request once the response is written.
func requestLogger(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)
			log.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", sw.status).
				Dur("duration", time.Since(start)).
				Msg("request")
		})
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
