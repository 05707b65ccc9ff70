package middleware

import (
	"net/http"

	"github.com/google/uuid"
)

// RequestID returns middleware that assigns each request a UUID, stores it in
// the context, and echoes it in the X-Request-ID response header. An id
// supplied by the client is kept so ids correlate across service hops.
func RequestID() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get("X-Request-ID")
			if id == "" {
				id = uuid.New().String()
			}
			w.Header().Set("X-Request-ID", id)
			next.ServeHTTP(w, r.WithContext(WithRequestID(r.Context(), id)))
		})
	}
}
