package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/andreasstove999/storefront-backend/internal/order"
)

func expandProducts(r *http.Request) bool {
	return r.URL.Query().Get("expand") == "products"
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Orders.List(r.Context(), expandProducts(r))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if orders == nil {
		orders = []order.Order{}
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")
	o, err := h.Orders.GetByID(r.Context(), orderID, expandProducts(r))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

// CreateOrder snapshots the current cart and runs the pricing pipeline.
// The response always carries expanded product details, matching what
// storefront clients render on the confirmation page.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.Checkout.CheckoutCart(r.Context(), true)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	if h.Events != nil {
		// Best effort: a checkout must not fail because the broker is down.
		if err := h.Events.PublishOrderCreated(r.Context(), o); err != nil {
			h.Log.Error().Err(err).Str("orderId", o.ID).Msg("publish OrderCreated failed")
		}
	}

	writeJSON(w, http.StatusCreated, o)
}

func (h *Handler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")
	if err := h.Orders.Delete(r.Context(), orderID); err != nil {
		h.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "order deleted successfully",
	})
}

func (h *Handler) GetPaymentSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Checkout.PaymentSummary(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	if err := h.Reset(r.Context()); err != nil {
		h.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "database reset and seeded successfully"})
}
