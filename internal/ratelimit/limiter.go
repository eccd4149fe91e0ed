// Package ratelimit implements a fixed-window request limiter on top of
// Redis INCR/EXPIRE, shared by every process pointed at the same store.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
)

const (
	DefaultWindow = 60 * time.Second
	DefaultMax    = 10
)

var rejections = promauto.NewCounter(prometheus.CounterOpts{
	Name: "storefront_ratelimit_rejections_total",
	Help: "Total number of requests rejected by the rate limiter",
})

// LimitExceededError is returned when a client runs over its window budget.
type LimitExceededError struct {
	RetryAfter time.Duration
}

func (e *LimitExceededError) Error() string {
	return fmt.Sprintf("too many requests, try again in %d seconds", int(e.RetryAfter.Seconds()))
}

// Limiter holds no per-client state; the counters live in Redis and the
// increment is atomic there, so concurrent callers are safe by construction.
type Limiter struct {
	rdb    *redis.Client
	window time.Duration
	max    int64
}

func New(rdb *redis.Client, window time.Duration, max int64) *Limiter {
	if window <= 0 {
		window = DefaultWindow
	}
	if max <= 0 {
		max = DefaultMax
	}
	return &Limiter{rdb: rdb, window: window, max: max}
}

// Allow counts one request for clientKey and returns a *LimitExceededError
// once the fixed window's budget is spent. The first request of a window
// arms the counter's expiry; the whole counter vanishes when the window
// elapses, resetting the budget.
func (l *Limiter) Allow(ctx context.Context, clientKey string) error {
	key := "rate:" + clientKey

	count, err := l.rdb.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("redis incr %q: %w", key, err)
	}

	if count == 1 {
		if err := l.rdb.Expire(ctx, key, l.window).Err(); err != nil {
			return fmt.Errorf("redis expire %q: %w", key, err)
		}
	}

	if count > l.max {
		retryAfter := l.window
		// If the counter expired between INCR and here the TTL read comes
		// back non-positive; fall back to the full window.
		if ttl, err := l.rdb.TTL(ctx, key).Result(); err == nil && ttl > 0 {
			retryAfter = ttl
		}
		rejections.Inc()
		return &LimitExceededError{RetryAfter: retryAfter}
	}

	return nil
}
