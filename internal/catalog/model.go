package catalog

type Product struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Image       string   `json:"image"`
	Stars       float64  `json:"stars"`
	RatingCount int      `json:"ratingCount"`
	PriceCents  int      `json:"priceCents"`
	Keywords    []string `json:"keywords"`
}

type DeliveryOption struct {
	ID           string `json:"id"`
	DeliveryDays int    `json:"deliveryDays"`
	PriceCents   int    `json:"priceCents"`
}

// DeliveryOptionWithETA is the expand=estimatedDeliveryTime projection.
type DeliveryOptionWithETA struct {
	DeliveryOption
	EstimatedDeliveryTimeMs int64 `json:"estimatedDeliveryTimeMs"`
}
