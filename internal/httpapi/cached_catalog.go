package httpapi

import (
	"context"
	"time"

	"github.com/andreasstove999/storefront-backend/internal/cache"
	"github.com/andreasstove999/storefront-backend/internal/catalog"
)

// CachedCatalog serves product reads through the read-through cache. Keys
// are "products:all" for the listing and "products:<id>" per product.
//
// Absent products are not negative-cached: the repository's ErrNotFound
// propagates and nothing is written, so the next lookup hits the database
// again.
type CachedCatalog struct {
	repo  catalog.Repository
	store *cache.Store
	ttl   time.Duration
}

func NewCachedCatalog(repo catalog.Repository, store *cache.Store, ttl time.Duration) *CachedCatalog {
	return &CachedCatalog{repo: repo, store: store, ttl: ttl}
}

func (c *CachedCatalog) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	return cache.GetOrSet(ctx, c.store, "products:all", c.ttl, c.repo.ListProducts)
}

func (c *CachedCatalog) GetProduct(ctx context.Context, productID string) (catalog.Product, error) {
	return cache.GetOrSet(ctx, c.store, "products:"+productID, c.ttl, func(ctx context.Context) (catalog.Product, error) {
		return c.repo.GetProduct(ctx, productID)
	})
}

// Warm primes the product cache at startup: one database read fills
// "products:all" and every per-product key, so the first requests after boot
// are served hot.
func (c *CachedCatalog) Warm(ctx context.Context) error {
	products, err := c.ListProducts(ctx)
	if err != nil {
		return err
	}
	for _, p := range products {
		p := p
		if _, err := cache.GetOrSet(ctx, c.store, "products:"+p.ID, c.ttl, func(context.Context) (catalog.Product, error) {
			return p, nil
		}); err != nil {
			return err
		}
	}
	return nil
}
