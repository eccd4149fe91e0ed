// Package cache provides a Redis-backed read-through cache for the product
// read path.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// DefaultTTL is used when a Store is constructed without one.
const DefaultTTL = 60 * time.Second

// Store wraps a Redis client with a default expiry and hit/miss telemetry.
type Store struct {
	rdb        *redis.Client
	defaultTTL time.Duration
	log        zerolog.Logger
}

func NewStore(rdb *redis.Client, defaultTTL time.Duration, log zerolog.Logger) *Store {
	if rdb == nil {
		panic("redis client cannot be nil")
	}
	if defaultTTL <= 0 {
		defaultTTL = DefaultTTL
	}
	return &Store{rdb: rdb, defaultTTL: defaultTTL, log: log}
}

// GetOrSet looks key up and, on a miss, computes the value with fetch,
// stores it under key and returns it. On a hit fetch is never invoked.
//
// A ttl of zero selects the store's default. Any other value is handed to
// Redis verbatim: Redis rejects negative expirations with an error and its
// own zero means "no expiry", neither is clamped here.
//
// Concurrent misses for the same key are not de-duplicated; each caller
// fetches and writes independently. The fetched values are identical reads
// from the database, so the last write winning is harmless.
func GetOrSet[T any](ctx context.Context, s *Store, key string, ttl time.Duration, fetch func(context.Context) (T, error)) (T, error) {
	var zero T

	data, err := s.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var v T
		if jsonErr := json.Unmarshal(data, &v); jsonErr == nil {
			Hits.WithLabelValues(keyPrefix(key)).Inc()
			s.log.Debug().Str("key", key).Msg("cache hit")
			return v, nil
		}
		// Corrupt entry: treat as a miss and overwrite below.
		Errors.WithLabelValues("get").Inc()
	case err != redis.Nil:
		Errors.WithLabelValues("get").Inc()
		return zero, fmt.Errorf("redis get %q: %w", key, err)
	}

	Misses.WithLabelValues(keyPrefix(key)).Inc()
	s.log.Debug().Str("key", key).Msg("cache miss, fetching")

	v, err := fetch(ctx)
	if err != nil {
		// The miss is not cached; the next caller fetches again.
		return zero, err
	}

	payload, err := json.Marshal(v)
	if err != nil {
		Errors.WithLabelValues("set").Inc()
		return zero, fmt.Errorf("marshal cache value for %q: %w", key, err)
	}

	if ttl == 0 {
		ttl = s.defaultTTL
	}
	if err := s.rdb.Set(ctx, key, payload, ttl).Err(); err != nil {
		Errors.WithLabelValues("set").Inc()
		return zero, fmt.Errorf("redis set %q: %w", key, err)
	}

	return v, nil
}

// keyPrefix reduces "products:all" to "products" so metric cardinality stays
// bounded by entity type, not by id.
func keyPrefix(key string) string {
	if i := strings.IndexByte(key, ':'); i > 0 {
		return key[:i]
	}
	return key
}
