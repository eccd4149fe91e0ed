package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/andreasstove999/storefront-backend/internal/cart"
	"github.com/andreasstove999/storefront-backend/internal/catalog"
)

var ErrEmptyCart = errors.New("cart is empty")

// ReferenceNotFoundError reports a cart line pointing at a product or
// delivery option that does not exist.
type ReferenceNotFoundError struct {
	Field string
}

func (e *ReferenceNotFoundError) Error() string {
	return fmt.Sprintf("%s references a missing row", e.Field)
}

// CatalogResolver is the slice of the catalog the pipeline needs: two
// batched lookups, one per referenced entity type.
type CatalogResolver interface {
	ProductsByIDs(ctx context.Context, ids []string) (map[string]catalog.Product, error)
	DeliveryOptionsByIDs(ctx context.Context, ids []string) (map[string]catalog.DeliveryOption, error)
}

// CartReader supplies the current cart snapshot for checkout and the
// payment summary.
type CartReader interface {
	List(ctx context.Context) ([]cart.Item, error)
}

// Service runs the order pricing and creation pipeline.
type Service struct {
	catalog CatalogResolver
	orders  Repository
	cart    CartReader

	// now is swappable in tests.
	now func() time.Time
}

func NewService(catalogRepo CatalogResolver, orders Repository, cartRepo CartReader) *Service {
	return &Service{
		catalog: catalogRepo,
		orders:  orders,
		cart:    cartRepo,
		now:     time.Now,
	}
}

// Create prices the given cart lines and persists the resulting order
// atomically. With expand set, each returned item carries full product
// details.
//
// The cart itself is left untouched: checkout consumes a snapshot, it does
// not clear the draft. Two concurrent checkouts of the same cart will both
// succeed and produce two orders; there is no cart-level locking.
func (s *Service) Create(ctx context.Context, lines []Line, expand bool) (*Order, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	productIDs := distinct(lines, func(l Line) string { return l.ProductID })
	optionIDs := distinct(lines, func(l Line) string { return l.DeliveryOptionID })

	products, err := s.catalog.ProductsByIDs(ctx, productIDs)
	if err != nil {
		return nil, fmt.Errorf("resolve products: %w", err)
	}
	if len(products) != len(productIDs) {
		return nil, &ReferenceNotFoundError{Field: "productId"}
	}

	options, err := s.catalog.DeliveryOptionsByIDs(ctx, optionIDs)
	if err != nil {
		return nil, fmt.Errorf("resolve delivery options: %w", err)
	}
	if len(options) != len(optionIDs) {
		return nil, &ReferenceNotFoundError{Field: "deliveryOptionId"}
	}

	orderTimeMs := s.now().UnixMilli()
	subtotal := SubtotalCents(lines, products, options)

	o := &Order{
		OrderTimeMs:    orderTimeMs,
		TotalCostCents: TotalWithTaxCents(subtotal),
	}
	for _, ln := range lines {
		o.Items = append(o.Items, Item{
			ProductID:               ln.ProductID,
			Quantity:                ln.Quantity,
			EstimatedDeliveryTimeMs: estimatedDeliveryTimeMs(orderTimeMs, options[ln.DeliveryOptionID]),
		})
	}

	if err := s.orders.Create(ctx, o); err != nil {
		return nil, fmt.Errorf("persist order: %w", err)
	}

	if expand {
		for i := range o.Items {
			p := products[o.Items[i].ProductID]
			o.Items[i].Product = &p
		}
	}

	return o, nil
}

// CheckoutCart snapshots the current cart and runs Create over it.
func (s *Service) CheckoutCart(ctx context.Context, expand bool) (*Order, error) {
	items, err := s.cart.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("read cart: %w", err)
	}

	lines := make([]Line, 0, len(items))
	for _, it := range items {
		lines = append(lines, Line{
			ProductID:        it.ProductID,
			Quantity:         it.Quantity,
			DeliveryOptionID: it.DeliveryOptionID,
		})
	}

	return s.Create(ctx, lines, expand)
}

// PaymentSummary prices the live cart without persisting anything. It uses
// the same flat per-line shipping fee and ceiling tax as order creation.
func (s *Service) PaymentSummary(ctx context.Context) (PaymentSummary, error) {
	items, err := s.cart.List(ctx)
	if err != nil {
		return PaymentSummary{}, fmt.Errorf("read cart: %w", err)
	}
	if len(items) == 0 {
		return PaymentSummary{}, nil
	}

	lines := make([]Line, 0, len(items))
	for _, it := range items {
		lines = append(lines, Line{
			ProductID:        it.ProductID,
			Quantity:         it.Quantity,
			DeliveryOptionID: it.DeliveryOptionID,
		})
	}

	productIDs := distinct(lines, func(l Line) string { return l.ProductID })
	optionIDs := distinct(lines, func(l Line) string { return l.DeliveryOptionID })

	products, err := s.catalog.ProductsByIDs(ctx, productIDs)
	if err != nil {
		return PaymentSummary{}, fmt.Errorf("resolve products: %w", err)
	}
	options, err := s.catalog.DeliveryOptionsByIDs(ctx, optionIDs)
	if err != nil {
		return PaymentSummary{}, fmt.Errorf("resolve delivery options: %w", err)
	}

	var sum PaymentSummary
	for _, ln := range lines {
		sum.TotalItems += ln.Quantity
		sum.ProductCostCents += products[ln.ProductID].PriceCents * ln.Quantity
		sum.ShippingCostCents += options[ln.DeliveryOptionID].PriceCents
	}
	sum.TotalCostBeforeTaxCents = sum.ProductCostCents + sum.ShippingCostCents
	sum.TotalCostCents = TotalWithTaxCents(sum.TotalCostBeforeTaxCents)
	sum.TaxCents = sum.TotalCostCents - sum.TotalCostBeforeTaxCents

	return sum, nil
}

func distinct(lines []Line, key func(Line) string) []string {
	seen := make(map[string]struct{}, len(lines))
	var out []string
	for _, ln := range lines {
		k := key(ln)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}
