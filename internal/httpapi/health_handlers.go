package httpapi

import (
	"database/sql"
	"net/http"
)

type HealthHandler struct {
	DB *sql.DB
}

// Health serves GET /health: liveness plus a ping of the catalog database.
func (h HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	dbState := "ok"
	if h.DB != nil {
		if err := h.DB.PingContext(r.Context()); err != nil {
			dbState = err.Error()
		}
	}

	status := http.StatusOK
	if dbState != "ok" {
		status = http.StatusServiceUnavailable
	}
	WriteJSON(w, status, map[string]any{
		"ok": dbState == "ok",
		"db": dbState,
	})
}
