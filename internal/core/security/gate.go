// Package security provides authorization and access control.
package security

import (
	"fmt"

	"github.com/google/cel-go/cel"

	appctx "productdesk/internal/core/context"
)

// Operation is a guarded action on the product catalog.
type Operation string

const (
	OperationCreate Operation = "create"
	OperationRead   Operation = "read"
	OperationUpdate Operation = "update"
	OperationDelete Operation = "delete"
)

// Operations lists every guarded operation.
var Operations = []Operation{OperationCreate, OperationRead, OperationUpdate, OperationDelete}

// Roles known to the catalog.
const (
	RoleAdmin   = "Admin"
	RoleManager = "Manager"
)

// Gate is the single authorization decision point: a table from operation to
// a compiled rule over the principal's roles. It is read-only after construction.
type Gate struct {
	policy Policy
	rules  map[Operation]cel.Program
}

// NewGate compiles every rule of policy. Unknown operations and rules that do
// not evaluate to bool are rejected.
func NewGate(policy Policy) (*Gate, error) {
	env, err := cel.NewEnv(cel.Variable("roles", cel.ListType(cel.StringType)))
	if err != nil {
		return nil, fmt.Errorf("create rule environment: %w", err)
	}

	g := &Gate{policy: policy, rules: make(map[Operation]cel.Program, len(policy))}
	for op, expr := range policy {
		if !op.Valid() {
			return nil, fmt.Errorf("policy: unknown operation %q", op)
		}

		ast, iss := env.Compile(expr)
		if iss != nil && iss.Err() != nil {
			return nil, fmt.Errorf("policy: rule for %s: %w", op, iss.Err())
		}
		if !ast.OutputType().IsExactType(cel.BoolType) {
			return nil, fmt.Errorf("policy: rule for %s must be boolean, got %s", op, ast.OutputType())
		}

		prg, err := env.Program(ast)
		if err != nil {
			return nil, fmt.Errorf("policy: program for %s: %w", op, err)
		}
		g.rules[op] = prg
	}

	return g, nil
}

// MustDefaultGate builds the gate for DefaultPolicy.
func MustDefaultGate() *Gate {
	g, err := NewGate(DefaultPolicy())
	if err != nil {
		panic(err)
	}
	return g
}

// Authorize reports whether principal may perform op.
// Anonymous principals, operations without a rule and rule failures are denied.
func (g *Gate) Authorize(principal *appctx.UserContext, op Operation) bool {
	if principal == nil {
		return false
	}

	prg, ok := g.rules[op]
	if !ok {
		return false
	}

	roles := principal.Roles
	if roles == nil {
		roles = []string{}
	}

	out, _, err := prg.Eval(map[string]any{"roles": roles})
	if err != nil {
		return false
	}
	allowed, ok := out.Value().(bool)
	return ok && allowed
}

// Policy returns a copy of the rule table the gate was built from.
func (g *Gate) Policy() Policy {
	cp := make(Policy, len(g.policy))
	for op, expr := range g.policy {
		cp[op] = expr
	}
	return cp
}

// Valid reports whether op is a known operation.
func (op Operation) Valid() bool {
	switch op {
	case OperationCreate, OperationRead, OperationUpdate, OperationDelete:
		return true
	}
	return false
}
