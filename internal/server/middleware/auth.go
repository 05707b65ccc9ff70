package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"recipe-sharing-platform/backend/internal/authn"
)

const bearerPrefix = "bearer "

// RequireAuth returns middleware that resolves the Authorization bearer token
// via the given verifier and sets the caller identity in the request context.
// 401 when the header is missing or malformed, when verification fails, and
// when the identity service is unreachable (fail closed): the client sees the
// same rejection either way, the unreachable case is only logged distinctly.
func RequireAuth(verifier authn.Verifier) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractBearer(r.Header.Get("Authorization"))
			if token == "" {
				WriteError(w, http.StatusUnauthorized, "Authorization header with Bearer token required")
				return
			}

			id, err := verifier.Verify(r.Context(), token)
			if err != nil {
				if errors.Is(err, authn.ErrDependencyUnavailable) {
					slog.WarnContext(r.Context(), "identity resolution rejected: dependency unavailable",
						slog.String("path", r.URL.Path),
					)
				}
				WriteError(w, http.StatusUnauthorized, "Invalid token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

// ExtractBearer returns the token from an Authorization header value, or ""
// if the value is missing or not a bearer credential.
func ExtractBearer(header string) string {
	v := strings.TrimSpace(header)
	if len(v) < len(bearerPrefix) {
		return ""
	}
	if !strings.EqualFold(v[:len(bearerPrefix)], bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(v[len(bearerPrefix):])
}
