package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/andreasstove999/storefront-backend/internal/cart"
	"github.com/andreasstove999/storefront-backend/internal/catalog"
	"github.com/andreasstove999/storefront-backend/internal/order"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// respondError translates a domain error into the response taxonomy. This is
// the only place errors are logged; services below never swallow or log.
func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	var fkErr *cart.ForeignKeyError
	var refErr *order.ReferenceNotFoundError

	switch {
	case errors.Is(err, catalog.ErrNotFound),
		errors.Is(err, cart.ErrNotFound),
		errors.Is(err, order.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, order.ErrEmptyCart):
		writeError(w, http.StatusBadRequest, "cart is empty")
	case errors.Is(err, cart.ErrQuantityOutOfRange):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &fkErr):
		writeError(w, http.StatusBadRequest, fkErr.Error())
	case errors.As(err, &refErr):
		writeError(w, http.StatusBadRequest, refErr.Error())
	default:
		h.Log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
