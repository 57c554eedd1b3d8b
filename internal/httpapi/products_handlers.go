package httpapi

import (
	"database/sql"
	"net/http"
	"strconv"

	"partscout-engine/internal/store"
)

type ProductsHandler struct {
	DB *sql.DB
}

// List serves GET /products?category=&q=&limit=&offset= — catalog products
// with their active listings.
func (h ProductsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	opts := store.ListProductsOpts{
		Category: q.Get("category"),
		Search:   q.Get("q"),
	}
	if v, err := strconv.Atoi(q.Get("limit")); err == nil {
		opts.Limit = v
	}
	if v, err := strconv.Atoi(q.Get("offset")); err == nil {
		opts.Offset = v
	}

	products, err := store.ListProducts(r.Context(), h.DB, opts)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "db_error", err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"products": products,
		"count":    len(products),
		"offset":   opts.Offset,
	})
}
