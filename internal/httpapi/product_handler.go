package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/andreasstove999/storefront-backend/internal/catalog"
)

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.Products.ListProducts(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")
	product, err := h.Products.GetProduct(r.Context(), productID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func (h *Handler) ListDeliveryOptions(w http.ResponseWriter, r *http.Request) {
	options, err := h.Catalog.ListDeliveryOptions(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	if r.URL.Query().Get("expand") != "estimatedDeliveryTime" {
		writeJSON(w, http.StatusOK, options)
		return
	}

	nowMs := time.Now().UnixMilli()
	expanded := make([]catalog.DeliveryOptionWithETA, 0, len(options))
	for _, o := range options {
		expanded = append(expanded, catalog.DeliveryOptionWithETA{
			DeliveryOption:          o,
			EstimatedDeliveryTimeMs: nowMs + int64(o.DeliveryDays)*24*60*60*1000,
		})
	}
	writeJSON(w, http.StatusOK, expanded)
}
