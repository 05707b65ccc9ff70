package middleware

import (
	"context"

	"recipe-sharing-platform/backend/internal/authn"
)

type contextKey struct{ name string }

var (
	identityKey  = contextKey{"identity"}
	requestIDKey = contextKey{"request_id"}
)

// WithIdentity returns a context carrying the resolved caller identity.
// Handlers read it via IdentityFrom.
func WithIdentity(ctx context.Context, id *authn.Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFrom returns the resolved identity from ctx and true if set.
func IdentityFrom(ctx context.Context) (*authn.Identity, bool) {
	id, ok := ctx.Value(identityKey).(*authn.Identity)
	return id, ok
}

// WithRequestID returns a context carrying the request id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFrom returns the request id from ctx and true if set.
func RequestIDFrom(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDKey).(string)
	return id, ok
}
