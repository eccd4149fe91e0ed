package httpapi

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreasstove999/storefront-backend/internal/cache"
	"github.com/andreasstove999/storefront-backend/internal/catalog"
)

// setupTestRedis connects to a local Redis and skips the test when none is
// available, flushing the dedicated test DB around each test.
func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   15, // separate DB for tests
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available for testing: %v", err)
	}

	if err := client.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("failed to flush test DB: %v", err)
	}

	t.Cleanup(func() {
		client.FlushDB(context.Background())
		client.Close()
	})

	return client
}

func TestCachedCatalog_Warm(t *testing.T) {
	rdb := setupTestRedis(t)
	store := cache.NewStore(rdb, time.Minute, zerolog.Nop())

	repo := &fakeCatalogRepo{
		products: []catalog.Product{
			{ID: "p1", Name: "Socks", Image: "socks.jpg", PriceCents: 1090},
			{ID: "p2", Name: "Basketball", Image: "ball.jpg", PriceCents: 2095},
		},
	}
	c := NewCachedCatalog(repo, store, time.Minute)

	ctx := context.Background()
	require.NoError(t, c.Warm(ctx))

	exists, err := rdb.Exists(ctx, "products:all", "products:p1", "products:p2").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(3), exists)

	// Warmed keys serve reads without going back to the repository.
	repo.products = nil
	p, err := c.GetProduct(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Socks", p.Name)

	all, err := c.ListProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
