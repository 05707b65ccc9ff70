// Package authz decides whether a resolved caller may mutate an owned entity.
// The ownership policy is expressed in Rego and evaluated in process with OPA,
// so the decision logic stays declarative and inspectable.
package authz

import (
	"context"
	"errors"
	"fmt"

	"github.com/open-policy-agent/opa/v1/ast"
	"github.com/open-policy-agent/opa/v1/rego"
)

// ErrForbidden is returned when the caller is not the owner of the entity
// being mutated. Handlers map it to 403.
var ErrForbidden = errors.New("caller is not the owner")

// ownershipPolicy grants mutation only to the recorded owner of an entity.
const ownershipPolicy = `package recipes.authz

default allow = false

allow if {
	input.caller_id == input.owner_id
}
`

// Gate evaluates the ownership policy for update/delete requests.
type Gate struct {
	query rego.PreparedEvalQuery
}

// NewGate compiles and prepares the ownership policy. The policy is fixed at
// build time; preparation happens once so per-request evaluation is cheap.
func NewGate(ctx context.Context) (*Gate, error) {
	compiler, err := ast.CompileModules(map[string]string{"ownership.rego": ownershipPolicy})
	if err != nil {
		return nil, fmt.Errorf("authz: compile ownership policy: %w", err)
	}
	query, err := rego.New(
		rego.Query("data.recipes.authz.allow"),
		rego.Compiler(compiler),
	).PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("authz: prepare ownership query: %w", err)
	}
	return &Gate{query: query}, nil
}

// RequireOwner returns nil when callerID is the recorded owner, ErrForbidden
// otherwise. Evaluation errors also deny (fail closed).
func (g *Gate) RequireOwner(ctx context.Context, callerID, ownerID int64) error {
	input := map[string]interface{}{
		"caller_id": callerID,
		"owner_id":  ownerID,
	}
	rs, err := g.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return fmt.Errorf("authz: eval ownership policy: %w", err)
	}
	if !rs.Allowed() {
		return ErrForbidden
	}
	return nil
}

// HealthCheck verifies the prepared policy still evaluates. Returns nil on
// success.
func (g *Gate) HealthCheck(ctx context.Context) error {
	if err := g.RequireOwner(ctx, 1, 1); err != nil {
		return fmt.Errorf("authz: health check: %w", err)
	}
	return nil
}
