package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreasstove999/storefront-backend/internal/catalog"
)

type fakeRepo struct {
	items map[string]Item

	createErr error
	updateErr error
}

func newFakeRepo(items ...Item) *fakeRepo {
	r := &fakeRepo{items: map[string]Item{}}
	for _, it := range items {
		r.items[it.ID] = it
	}
	return r
}

func (f *fakeRepo) List(ctx context.Context) ([]Item, error) {
	var out []Item
	for _, it := range f.items {
		out = append(out, it)
	}
	return out, nil
}

func (f *fakeRepo) FindByProduct(ctx context.Context, productID string) (*Item, error) {
	for _, it := range f.items {
		if it.ProductID == productID {
			found := it
			return &found, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) Create(ctx context.Context, item *Item) error {
	if f.createErr != nil {
		return f.createErr
	}
	if item.ID == "" {
		item.ID = "generated"
	}
	f.items[item.ID] = *item
	return nil
}

func (f *fakeRepo) Update(ctx context.Context, id string, patch UpdatePatch) (Item, error) {
	if f.updateErr != nil {
		return Item{}, f.updateErr
	}
	it, ok := f.items[id]
	if !ok {
		return Item{}, ErrNotFound
	}
	if patch.Quantity != nil {
		it.Quantity = *patch.Quantity
	}
	if patch.DeliveryOptionID != nil {
		it.DeliveryOptionID = *patch.DeliveryOptionID
	}
	f.items[id] = it
	return it, nil
}

func (f *fakeRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.items[id]; !ok {
		return ErrNotFound
	}
	delete(f.items, id)
	return nil
}

type fakeProducts struct {
	known map[string]bool
}

func (f *fakeProducts) GetProduct(ctx context.Context, productID string) (catalog.Product, error) {
	if f.known[productID] {
		return catalog.Product{ID: productID, PriceCents: 100}, nil
	}
	return catalog.Product{}, catalog.ErrNotFound
}

func TestAddItem_CreatesNewLine(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, &fakeProducts{known: map[string]bool{"p1": true}})

	item, created, err := svc.AddItem(context.Background(), "p1", 3)
	require.NoError(t, err)

	assert.True(t, created)
	assert.Equal(t, 3, item.Quantity)
	assert.Equal(t, DefaultDeliveryOptionID, item.DeliveryOptionID)
}

func TestAddItem_MergesExistingLine(t *testing.T) {
	tests := map[string]struct {
		existing int
		add      int
		want     int
	}{
		"simple merge":   {existing: 2, add: 3, want: 5},
		"capped at ten":  {existing: 8, add: 5, want: 10},
		"already at cap": {existing: 10, add: 1, want: 10},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			repo := newFakeRepo(Item{ID: "c1", ProductID: "p1", Quantity: tc.existing, DeliveryOptionID: "2"})
			svc := NewService(repo, &fakeProducts{known: map[string]bool{"p1": true}})

			item, created, err := svc.AddItem(context.Background(), "p1", tc.add)
			require.NoError(t, err)

			assert.False(t, created)
			assert.Equal(t, tc.want, item.Quantity)
			assert.Equal(t, "2", item.DeliveryOptionID, "merge keeps the chosen delivery option")
		})
	}
}

func TestAddItem_QuantityBounds(t *testing.T) {
	svc := NewService(newFakeRepo(), &fakeProducts{known: map[string]bool{"p1": true}})

	for _, qty := range []int{0, -1, 11} {
		_, _, err := svc.AddItem(context.Background(), "p1", qty)
		require.ErrorIs(t, err, ErrQuantityOutOfRange, "qty %d", qty)
	}
}

func TestAddItem_UnknownProduct(t *testing.T) {
	svc := NewService(newFakeRepo(), &fakeProducts{})

	_, _, err := svc.AddItem(context.Background(), "ghost", 1)
	require.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestUpdateItem(t *testing.T) {
	repo := newFakeRepo(Item{ID: "c1", ProductID: "p1", Quantity: 2, DeliveryOptionID: "1"})
	svc := NewService(repo, &fakeProducts{})

	qty := 5
	opt := "3"
	item, err := svc.UpdateItem(context.Background(), "c1", UpdatePatch{Quantity: &qty, DeliveryOptionID: &opt})
	require.NoError(t, err)
	assert.Equal(t, 5, item.Quantity)
	assert.Equal(t, "3", item.DeliveryOptionID)
}

func TestUpdateItem_NoFields(t *testing.T) {
	svc := NewService(newFakeRepo(), &fakeProducts{})

	_, err := svc.UpdateItem(context.Background(), "c1", UpdatePatch{})
	require.Error(t, err)
}

func TestUpdateItem_QuantityBounds(t *testing.T) {
	svc := NewService(newFakeRepo(), &fakeProducts{})

	qty := 11
	_, err := svc.UpdateItem(context.Background(), "c1", UpdatePatch{Quantity: &qty})
	require.ErrorIs(t, err, ErrQuantityOutOfRange)
}

func TestUpdateItem_NotFound(t *testing.T) {
	svc := NewService(newFakeRepo(), &fakeProducts{})

	qty := 2
	_, err := svc.UpdateItem(context.Background(), "missing", UpdatePatch{Quantity: &qty})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRemoveItem(t *testing.T) {
	repo := newFakeRepo(Item{ID: "c1", ProductID: "p1", Quantity: 1, DeliveryOptionID: "1"})
	svc := NewService(repo, &fakeProducts{})

	require.NoError(t, svc.RemoveItem(context.Background(), "c1"))
	require.ErrorIs(t, svc.RemoveItem(context.Background(), "c1"), ErrNotFound)
}

func TestAddItem_RepoFailurePropagates(t *testing.T) {
	repo := newFakeRepo()
	repo.createErr = errors.New("db down")
	svc := NewService(repo, &fakeProducts{known: map[string]bool{"p1": true}})

	_, _, err := svc.AddItem(context.Background(), "p1", 1)
	require.Error(t, err)
}
