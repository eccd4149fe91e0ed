package cart

import "github.com/andreasstove999/storefront-backend/internal/catalog"

const (
	MinQuantity = 1
	MaxQuantity = 10
)

type Item struct {
	ID               string `json:"id"`
	ProductID        string `json:"productId"`
	Quantity         int    `json:"quantity"`
	DeliveryOptionID string `json:"deliveryOptionId"`

	// Product is only populated on the expand=product read path.
	Product *catalog.Product `json:"product,omitempty"`
}

// UpdatePatch carries the optional fields of a cart item update.
// A nil field is left untouched.
type UpdatePatch struct {
	Quantity         *int
	DeliveryOptionID *string
}
