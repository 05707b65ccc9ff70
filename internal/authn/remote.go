package authn

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// RemoteVerifier resolves a token by calling the user service's /users/me
// endpoint with the bearer token. Any non-success status is
// ErrInvalidCredential; any connection failure or timeout is
// ErrDependencyUnavailable. No retries: a transient blip during verification
// rejects the request and the caller must resubmit.
type RemoteVerifier struct {
	baseURL     string
	client      *http.Client
	probeClient *http.Client // nil when the liveness probe is disabled

	unavailable metric.Int64Counter
}

// NewRemoteVerifier returns a RemoteVerifier for the user service at baseURL.
// verifyTimeout bounds the /users/me call (0 means 10s). probeTimeout bounds
// the preceding liveness probe; 0 disables the probe.
func NewRemoteVerifier(baseURL string, verifyTimeout, probeTimeout time.Duration) *RemoteVerifier {
	if verifyTimeout <= 0 {
		verifyTimeout = 10 * time.Second
	}
	v := &RemoteVerifier{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: verifyTimeout},
	}
	if probeTimeout > 0 {
		v.probeClient = &http.Client{Timeout: probeTimeout}
	}
	meter := otel.Meter("recipe-sharing-platform/backend/internal/authn")
	v.unavailable, _ = meter.Int64Counter("authn.dependency_unavailable",
		metric.WithDescription("Remote identity verifications that failed because the user service was unreachable"))
	return v
}

// Verify probes the user service (when enabled) and then resolves the token
// via GET /users/me.
func (v *RemoteVerifier) Verify(ctx context.Context, token string) (*Identity, error) {
	if v.probeClient != nil {
		if err := v.probe(ctx); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.baseURL+"/users/me", nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDependencyUnavailable, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := v.client.Do(req)
	if err != nil {
		v.countUnavailable(ctx, "verify")
		slog.WarnContext(ctx, "remote identity verification unreachable",
			slog.String("peer", v.baseURL),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("%w: %v", ErrDependencyUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, ErrInvalidCredential
	}

	var id Identity
	if err := json.NewDecoder(resp.Body).Decode(&id); err != nil {
		return nil, ErrInvalidCredential
	}
	if id.ID == 0 || id.Username == "" {
		return nil, ErrInvalidCredential
	}
	return &id, nil
}

// probe checks that the user service answers its liveness endpoint before the
// authoritative call is attempted.
func (v *RemoteVerifier) probe(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.baseURL+"/", nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDependencyUnavailable, err)
	}
	resp, err := v.probeClient.Do(req)
	if err != nil {
		v.countUnavailable(ctx, "probe")
		slog.WarnContext(ctx, "user service liveness probe failed",
			slog.String("peer", v.baseURL),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("%w: %v", ErrDependencyUnavailable, err)
	}
	resp.Body.Close()
	return nil
}

func (v *RemoteVerifier) countUnavailable(ctx context.Context, stage string) {
	if v.unavailable != nil {
		v.unavailable.Add(ctx, 1, metric.WithAttributes(attribute.String("stage", stage)))
	}
}
