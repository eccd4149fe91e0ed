package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/andreasstove999/storefront-backend/internal/cart"
	"github.com/andreasstove999/storefront-backend/internal/catalog"
)

func (h *Handler) ListCartItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.CartRepo.List(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	if r.URL.Query().Get("expand") == "product" && len(items) > 0 {
		products, err := h.Products.ListProducts(r.Context())
		if err != nil {
			h.respondError(w, r, err)
			return
		}
		byID := make(map[string]catalog.Product, len(products))
		for _, p := range products {
			byID[p.ID] = p
		}
		for i := range items {
			if p, ok := byID[items[i].ProductID]; ok {
				items[i].Product = &p
			}
		}
	}

	if items == nil {
		items = []cart.Item{}
	}
	writeJSON(w, http.StatusOK, items)
}

type addCartItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

func (h *Handler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	var req addCartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.ProductID == "" {
		writeError(w, http.StatusBadRequest, "missing productId")
		return
	}

	item, created, err := h.Cart.AddItem(r.Context(), req.ProductID, req.Quantity)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, item)
}

type updateCartItemRequest struct {
	Quantity         *int    `json:"quantity"`
	DeliveryOptionID *string `json:"deliveryOptionId"`
}

func (h *Handler) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req updateCartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Quantity == nil && req.DeliveryOptionID == nil {
		writeError(w, http.StatusBadRequest, "at least one field must be provided to update")
		return
	}

	item, err := h.Cart.UpdateItem(r.Context(), id, cart.UpdatePatch{
		Quantity:         req.Quantity,
		DeliveryOptionID: req.DeliveryOptionID,
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *Handler) DeleteCartItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Cart.RemoveItem(r.Context(), id); err != nil {
		h.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
