// Package handler serves the unauthenticated liveness and readiness probes.
package handler

import (
	"context"
	"net/http"

	"recipe-sharing-platform/backend/internal/server/middleware"
)

// Pinger reports database reachability (e.g. *sql.DB).
type Pinger interface {
	PingContext(ctx context.Context) error
}

// PolicyChecker reports authorization engine health (e.g. the authz gate).
type PolicyChecker interface {
	HealthCheck(ctx context.Context) error
}

// Handler serves GET / (liveness) and GET /healthz (readiness).
type Handler struct {
	service string
	pinger  Pinger
	policy  PolicyChecker
}

// New returns a health handler for the named service. pinger and policy may
// be nil; nil checks are skipped.
func New(service string, pinger Pinger, policy PolicyChecker) *Handler {
	return &Handler{service: service, pinger: pinger, policy: policy}
}

type statusBody struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// Liveness answers the fixed status payload. Always 200 while the process is
// serving; peers use this as the precursor probe before remote verification.
func (h *Handler) Liveness(w http.ResponseWriter, r *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, statusBody{Status: "healthy", Service: h.service})
}

// Readiness answers 200 when the configured dependencies respond, 503
// otherwise.
func (h *Handler) Readiness(w http.ResponseWriter, r *http.Request) {
	if h.pinger != nil {
		if err := h.pinger.PingContext(r.Context()); err != nil {
			middleware.WriteError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
	}
	if h.policy != nil {
		if err := h.policy.HealthCheck(r.Context()); err != nil {
			middleware.WriteError(w, http.StatusServiceUnavailable, "policy engine unavailable")
			return
		}
	}
	middleware.WriteJSON(w, http.StatusOK, statusBody{Status: "ready", Service: h.service})
}
