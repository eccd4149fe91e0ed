package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

func NewRouter(h *Handler, limiter Allower, log zerolog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(log))

	r.Get("/health", h.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(RateLimit(limiter, log))

		r.Get("/products", h.ListProducts)
		r.Get("/products/{productId}", h.GetProduct)

		r.Get("/delivery-options", h.ListDeliveryOptions)

		r.Route("/cart-items", func(r chi.Router) {
			r.Get("/", h.ListCartItems)
			r.Post("/", h.AddCartItem)
			r.Put("/{id}", h.UpdateCartItem)
			r.Delete("/{id}", h.DeleteCartItem)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", h.ListOrders)
			r.Post("/", h.CreateOrder)
			r.Get("/{id}", h.GetOrder)
			r.Delete("/{id}", h.DeleteOrder)
		})

		r.Get("/payment-summary", h.GetPaymentSummary)
		r.Post("/reset", h.ResetDatabase)
	})

	return r
}
