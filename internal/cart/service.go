package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/andreasstove999/storefront-backend/internal/catalog"
)

// DefaultDeliveryOptionID is assigned to new cart lines until the client
// picks another option.
const DefaultDeliveryOptionID = "1"

var ErrQuantityOutOfRange = errors.New("quantity must be between 1 and 10")

// ProductFinder is the slice of the catalog the cart needs. The HTTP layer
// wires a cached implementation here so cart writes reuse the product cache.
type ProductFinder interface {
	GetProduct(ctx context.Context, productID string) (catalog.Product, error)
}

// Service applies the cart business rules on top of the repository:
// quantity bounds, and merging a new line into an existing one for the same
// product instead of creating a duplicate.
type Service struct {
	repo     Repository
	products ProductFinder
}

func NewService(repo Repository, products ProductFinder) *Service {
	return &Service{repo: repo, products: products}
}

// AddItem adds quantity of a product to the cart. If a line for the product
// already exists the quantities are merged, capped at MaxQuantity. The second
// return value reports whether a new line was created.
func (s *Service) AddItem(ctx context.Context, productID string, quantity int) (Item, bool, error) {
	if quantity < MinQuantity || quantity > MaxQuantity {
		return Item{}, false, ErrQuantityOutOfRange
	}

	if _, err := s.products.GetProduct(ctx, productID); err != nil {
		return Item{}, false, fmt.Errorf("resolve product: %w", err)
	}

	existing, err := s.repo.FindByProduct(ctx, productID)
	if err != nil {
		return Item{}, false, err
	}

	if existing != nil {
		merged := existing.Quantity + quantity
		if merged > MaxQuantity {
			merged = MaxQuantity
		}
		updated, err := s.repo.Update(ctx, existing.ID, UpdatePatch{Quantity: &merged})
		if err != nil {
			return Item{}, false, err
		}
		return updated, false, nil
	}

	item := Item{
		ProductID:        productID,
		Quantity:         quantity,
		DeliveryOptionID: DefaultDeliveryOptionID,
	}
	if err := s.repo.Create(ctx, &item); err != nil {
		return Item{}, false, err
	}
	return item, true, nil
}

// UpdateItem applies a partial update. At least one field must be set; the
// quantity, when present, must stay within bounds.
func (s *Service) UpdateItem(ctx context.Context, id string, patch UpdatePatch) (Item, error) {
	if patch.Quantity == nil && patch.DeliveryOptionID == nil {
		return Item{}, errors.New("at least one field must be provided to update")
	}
	if patch.Quantity != nil && (*patch.Quantity < MinQuantity || *patch.Quantity > MaxQuantity) {
		return Item{}, ErrQuantityOutOfRange
	}
	return s.repo.Update(ctx, id, patch)
}

func (s *Service) RemoveItem(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
