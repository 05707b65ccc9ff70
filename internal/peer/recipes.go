// Package peer holds HTTP clients for the other services' read endpoints,
// used to confirm foreign entity references before dependent writes.
package peer

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// RecipeChecker reports whether a recipe id is live in the recipe service.
type RecipeChecker interface {
	RecipeExists(ctx context.Context, recipeID int64) bool
}

// RecipeClient checks recipe existence via GET /recipes/{id} on the recipe
// service. Fail closed: a 404, a 5xx, a timeout, and a connection error all
// report false, blocking the dependent write. No retries, no caching — every
// create that declares a recipe reference re-verifies it.
type RecipeClient struct {
	baseURL string
	client  *http.Client

	unavailable metric.Int64Counter
}

// NewRecipeClient returns a RecipeClient for the recipe service at baseURL.
// timeout bounds each existence check (0 means 5s).
func NewRecipeClient(baseURL string, timeout time.Duration) *RecipeClient {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	c := &RecipeClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
	meter := otel.Meter("recipe-sharing-platform/backend/internal/peer")
	c.unavailable, _ = meter.Int64Counter("peer.dependency_unavailable",
		metric.WithDescription("Existence checks that failed because the owning service was unreachable"))
	return c
}

// RecipeExists reports whether the recipe service answers 200 for the id.
// The caller cannot distinguish "genuinely missing" from "service
// unreachable"; both block the write, but the unreachable case is logged and
// counted distinctly.
func (c *RecipeClient) RecipeExists(ctx context.Context, recipeID int64) bool {
	url := fmt.Sprintf("%s/recipes/%d", c.baseURL, recipeID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if c.unavailable != nil {
			c.unavailable.Add(ctx, 1, metric.WithAttributes(attribute.String("peer", "recipe-service")))
		}
		slog.WarnContext(ctx, "recipe existence check unreachable",
			slog.Int64("recipe_id", recipeID),
			slog.String("peer", c.baseURL),
			slog.String("error", err.Error()),
		)
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}
