package httpapi

import (
	"database/sql"
	"net/http"
	"strconv"

	"partscout-engine/internal/store"
)

type JobsHandler struct {
	DB *sql.DB
}

// List serves GET /jobs?retailer=&limit= — recent scrape jobs, newest first.
func (h JobsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit := 0
	if v, err := strconv.Atoi(q.Get("limit")); err == nil {
		limit = v
	}

	jobs, err := store.ListJobs(r.Context(), h.DB, q.Get("retailer"), limit)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "db_error", err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"jobs": jobs})
}
