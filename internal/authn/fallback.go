package authn

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// FallbackVerifier verifies locally first and falls back to remote
// verification on any local failure. The fallback deliberately does not
// distinguish a malformed token from other local failures: the remote call is
// the authoritative check either way, and the conflation is recorded in logs
// and metrics rather than surfaced to clients.
type FallbackVerifier struct {
	local  Verifier
	remote Verifier

	fallbacks metric.Int64Counter
}

// NewFallbackVerifier returns a FallbackVerifier combining local and remote.
func NewFallbackVerifier(local, remote Verifier) *FallbackVerifier {
	v := &FallbackVerifier{local: local, remote: remote}
	meter := otel.Meter("recipe-sharing-platform/backend/internal/authn")
	v.fallbacks, _ = meter.Int64Counter("authn.fallback",
		metric.WithDescription("Token verifications that fell back to the user service after local failure"))
	return v
}

// Verify resolves the token locally, then remotely on local failure.
func (v *FallbackVerifier) Verify(ctx context.Context, token string) (*Identity, error) {
	id, err := v.local.Verify(ctx, token)
	if err == nil {
		return id, nil
	}

	if v.fallbacks != nil {
		v.fallbacks.Add(ctx, 1)
	}
	slog.DebugContext(ctx, "local token verification failed, trying remote",
		slog.String("error", err.Error()),
	)
	return v.remote.Verify(ctx, token)
}
