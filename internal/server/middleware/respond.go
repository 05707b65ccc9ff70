package middleware

import (
	"encoding/json"
	"net/http"
)

// errorBody is the uniform error response shape: a short machine-consumable
// reason, no internal detail.
type errorBody struct {
	Detail string `json:"detail"`
}

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes the uniform JSON error body with the given status.
func WriteError(w http.ResponseWriter, status int, detail string) {
	WriteJSON(w, status, errorBody{Detail: detail})
}
