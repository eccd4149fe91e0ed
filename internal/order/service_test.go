package order

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreasstove999/storefront-backend/internal/cart"
	"github.com/andreasstove999/storefront-backend/internal/catalog"
)

type fakeCatalog struct {
	products map[string]catalog.Product
	options  map[string]catalog.DeliveryOption

	productsErr error
}

func (f *fakeCatalog) ProductsByIDs(ctx context.Context, ids []string) (map[string]catalog.Product, error) {
	if f.productsErr != nil {
		return nil, f.productsErr
	}
	out := make(map[string]catalog.Product)
	for _, id := range ids {
		if p, ok := f.products[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (f *fakeCatalog) DeliveryOptionsByIDs(ctx context.Context, ids []string) (map[string]catalog.DeliveryOption, error) {
	out := make(map[string]catalog.DeliveryOption)
	for _, id := range ids {
		if o, ok := f.options[id]; ok {
			out[id] = o
		}
	}
	return out, nil
}

type fakeOrderRepo struct {
	created   []*Order
	createErr error
}

func (f *fakeOrderRepo) Create(ctx context.Context, o *Order) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, o)
	return nil
}

func (f *fakeOrderRepo) GetByID(ctx context.Context, orderID string, expand bool) (*Order, error) {
	return nil, ErrNotFound
}

func (f *fakeOrderRepo) List(ctx context.Context, expand bool) ([]Order, error) { return nil, nil }
func (f *fakeOrderRepo) Delete(ctx context.Context, orderID string) error       { return nil }

type fakeCart struct {
	items []cart.Item
	err   error
}

func (f *fakeCart) List(ctx context.Context) ([]cart.Item, error) {
	return f.items, f.err
}

func newTestService(cat *fakeCatalog, repo *fakeOrderRepo, c *fakeCart) *Service {
	s := NewService(cat, repo, c)
	s.now = func() time.Time { return time.UnixMilli(1723456800000) }
	return s
}

func defaultCatalog() *fakeCatalog {
	return &fakeCatalog{
		products: map[string]catalog.Product{
			"p1": {ID: "p1", Name: "Socks", PriceCents: 5000},
			"p2": {ID: "p2", Name: "Basketball", PriceCents: 2095},
		},
		options: map[string]catalog.DeliveryOption{
			"1": {ID: "1", DeliveryDays: 7, PriceCents: 0},
			"2": {ID: "2", DeliveryDays: 3, PriceCents: 1000},
		},
	}
}

func TestCreate_EmptyCart(t *testing.T) {
	repo := &fakeOrderRepo{}
	svc := newTestService(defaultCatalog(), repo, &fakeCart{})

	_, err := svc.Create(context.Background(), nil, false)

	require.ErrorIs(t, err, ErrEmptyCart)
	assert.Empty(t, repo.created, "nothing must be persisted")
}

func TestCreate_UnknownProduct(t *testing.T) {
	repo := &fakeOrderRepo{}
	svc := newTestService(defaultCatalog(), repo, &fakeCart{})

	_, err := svc.Create(context.Background(), []Line{
		{ProductID: "p1", Quantity: 1, DeliveryOptionID: "1"},
		{ProductID: "missing", Quantity: 1, DeliveryOptionID: "1"},
	}, false)

	var refErr *ReferenceNotFoundError
	require.ErrorAs(t, err, &refErr)
	assert.Equal(t, "productId", refErr.Field)
	assert.Empty(t, repo.created)
}

func TestCreate_UnknownDeliveryOption(t *testing.T) {
	repo := &fakeOrderRepo{}
	svc := newTestService(defaultCatalog(), repo, &fakeCart{})

	_, err := svc.Create(context.Background(), []Line{
		{ProductID: "p1", Quantity: 1, DeliveryOptionID: "99"},
	}, false)

	var refErr *ReferenceNotFoundError
	require.ErrorAs(t, err, &refErr)
	assert.Equal(t, "deliveryOptionId", refErr.Field)
}

func TestCreate_PricesAndPersists(t *testing.T) {
	repo := &fakeOrderRepo{}
	svc := newTestService(defaultCatalog(), repo, &fakeCart{})

	o, err := svc.Create(context.Background(), []Line{
		{ProductID: "p1", Quantity: 2, DeliveryOptionID: "2"},
		{ProductID: "p1", Quantity: 1, DeliveryOptionID: "2"},
	}, false)
	require.NoError(t, err)

	// subtotal = (5000*2+1000) + (5000*1+1000) = 17000; total = ceil(17000*1.1)
	assert.Equal(t, 18700, o.TotalCostCents)
	assert.Equal(t, int64(1723456800000), o.OrderTimeMs)

	require.Len(t, o.Items, 2)
	wantETA := int64(1723456800000) + 3*86_400_000
	assert.Equal(t, wantETA, o.Items[0].EstimatedDeliveryTimeMs)
	assert.Equal(t, wantETA, o.Items[1].EstimatedDeliveryTimeMs)
	assert.Nil(t, o.Items[0].Product, "no product join without expand")

	require.Len(t, repo.created, 1)
	assert.Equal(t, o, repo.created[0])
}

func TestCreate_Expand(t *testing.T) {
	svc := newTestService(defaultCatalog(), &fakeOrderRepo{}, &fakeCart{})

	o, err := svc.Create(context.Background(), []Line{
		{ProductID: "p2", Quantity: 1, DeliveryOptionID: "1"},
	}, true)
	require.NoError(t, err)

	require.NotNil(t, o.Items[0].Product)
	assert.Equal(t, "Basketball", o.Items[0].Product.Name)
}

func TestCreate_PersistFailure(t *testing.T) {
	repo := &fakeOrderRepo{createErr: errors.New("db down")}
	svc := newTestService(defaultCatalog(), repo, &fakeCart{})

	_, err := svc.Create(context.Background(), []Line{
		{ProductID: "p1", Quantity: 1, DeliveryOptionID: "1"},
	}, false)

	require.Error(t, err)
	assert.Empty(t, repo.created)
}

func TestCheckoutCart(t *testing.T) {
	repo := &fakeOrderRepo{}
	c := &fakeCart{items: []cart.Item{
		{ID: "c1", ProductID: "p1", Quantity: 2, DeliveryOptionID: "2"},
		{ID: "c2", ProductID: "p2", Quantity: 1, DeliveryOptionID: "1"},
	}}
	svc := newTestService(defaultCatalog(), repo, c)

	o, err := svc.CheckoutCart(context.Background(), false)
	require.NoError(t, err)

	// subtotal = (5000*2+1000) + (2095*1+0) = 13095; total = ceil(14404.5)
	assert.Equal(t, 14405, o.TotalCostCents)

	// Checkout must not clear the cart.
	assert.Len(t, c.items, 2)
}

func TestCheckoutCart_Empty(t *testing.T) {
	svc := newTestService(defaultCatalog(), &fakeOrderRepo{}, &fakeCart{})

	_, err := svc.CheckoutCart(context.Background(), false)
	require.ErrorIs(t, err, ErrEmptyCart)
}

func TestPaymentSummary(t *testing.T) {
	c := &fakeCart{items: []cart.Item{
		{ID: "c1", ProductID: "p1", Quantity: 2, DeliveryOptionID: "2"},
		{ID: "c2", ProductID: "p1", Quantity: 1, DeliveryOptionID: "2"},
	}}
	svc := newTestService(defaultCatalog(), &fakeOrderRepo{}, c)

	sum, err := svc.PaymentSummary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, PaymentSummary{
		TotalItems:              3,
		ProductCostCents:        15000,
		ShippingCostCents:       2000, // flat per line, same as order creation
		TotalCostBeforeTaxCents: 17000,
		TaxCents:                1700,
		TotalCostCents:          18700,
	}, sum)
}

func TestPaymentSummary_EmptyCart(t *testing.T) {
	svc := newTestService(defaultCatalog(), &fakeOrderRepo{}, &fakeCart{})

	sum, err := svc.PaymentSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, PaymentSummary{}, sum)
}
