package order

import "github.com/andreasstove999/storefront-backend/internal/catalog"

// Delivery cost is charged once per cart line regardless of quantity. The
// same flat per-line policy applies to order creation and to the payment
// summary so the two paths always agree.

const millisPerDay = int64(24 * 60 * 60 * 1000)

// LineCostCents prices a single cart line: product price times quantity plus
// the line's flat delivery fee.
func LineCostCents(p catalog.Product, o catalog.DeliveryOption, quantity int) int {
	return p.PriceCents*quantity + o.PriceCents
}

// TotalWithTaxCents applies the flat 10% tax, rounding up to the next cent.
// Computed in integer arithmetic so ceil(subtotal * 1.10) is exact for any
// subtotal: (subtotal*11 + 9) / 10.
func TotalWithTaxCents(subtotalCents int) int {
	return (subtotalCents*11 + 9) / 10
}

// SubtotalCents sums the line costs of a cart. Every line must resolve in
// the given maps; callers validate references before pricing.
func SubtotalCents(lines []Line, products map[string]catalog.Product, options map[string]catalog.DeliveryOption) int {
	subtotal := 0
	for _, ln := range lines {
		subtotal += LineCostCents(products[ln.ProductID], options[ln.DeliveryOptionID], ln.Quantity)
	}
	return subtotal
}

// estimatedDeliveryTimeMs is the absolute moment the line should arrive:
// the order timestamp plus the option's delivery days.
func estimatedDeliveryTimeMs(orderTimeMs int64, o catalog.DeliveryOption) int64 {
	return orderTimeMs + int64(o.DeliveryDays)*millisPerDay
}
