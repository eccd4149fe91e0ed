package httpapi

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/andreasstove999/storefront-backend/internal/cart"
	"github.com/andreasstove999/storefront-backend/internal/catalog"
	"github.com/andreasstove999/storefront-backend/internal/order"
)

// ProductReader is the product read path. Production wires the cache-backed
// CachedCatalog here; tests plug in fakes.
type ProductReader interface {
	ListProducts(ctx context.Context) ([]catalog.Product, error)
	GetProduct(ctx context.Context, productID string) (catalog.Product, error)
}

type OrderEventsPublisher interface {
	PublishOrderCreated(ctx context.Context, o *order.Order) error
}

type Handler struct {
	Products ProductReader
	Catalog  catalog.Repository
	Cart     *cart.Service
	CartRepo cart.Repository
	Orders   order.Repository
	Checkout *order.Service

	// Events is optional; nil disables order event publishing.
	Events OrderEventsPublisher

	// Reset wipes and reseeds the database. Wired from internal/db in main.
	Reset func(ctx context.Context) error

	Log zerolog.Logger
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
