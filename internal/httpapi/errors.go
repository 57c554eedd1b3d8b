package httpapi

import (
	"encoding/json"
	"net/http"
)

// apiError is the envelope every non-2xx JSON response carries.
type apiError struct {
	Error struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"request_id,omitempty"`
	} `json:"error"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes the error envelope, tagged with the request id so a
// client-side report can be matched against the access log.
func WriteError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	var e apiError
	e.Error.Code = code
	e.Error.Message = message
	e.Error.RequestID = RequestIDFrom(r.Context())
	WriteJSON(w, status, e)
}
