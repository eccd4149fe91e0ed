package order

import "github.com/andreasstove999/storefront-backend/internal/catalog"

// Line is one cart line fed into the pricing pipeline.
type Line struct {
	ProductID        string
	Quantity         int
	DeliveryOptionID string
}

type Item struct {
	ProductID               string `json:"productId"`
	Quantity                int    `json:"quantity"`
	EstimatedDeliveryTimeMs int64  `json:"estimatedDeliveryTimeMs"`

	// Product is only populated on the expand=products read path.
	Product *catalog.Product `json:"product,omitempty"`
}

// Order is the immutable receipt produced from a cart snapshot. Totals and
// per-item delivery estimates are frozen at creation time and never
// recomputed, even if products or delivery options change later.
type Order struct {
	ID             string `json:"id"`
	OrderTimeMs    int64  `json:"orderTimeMs"`
	TotalCostCents int    `json:"totalCostCents"`
	Items          []Item `json:"products"`
}

// PaymentSummary is a read-only projection over the live cart. It is never
// cached and never persisted.
type PaymentSummary struct {
	TotalItems              int `json:"totalItems"`
	ProductCostCents        int `json:"productCostCents"`
	ShippingCostCents       int `json:"shippingCostCents"`
	TotalCostBeforeTaxCents int `json:"totalCostBeforeTaxCents"`
	TaxCents                int `json:"taxCents"`
	TotalCostCents          int `json:"totalCostCents"`
}
