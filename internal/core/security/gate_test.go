package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appctx "productdesk/internal/core/context"
)

func principal(roles ...string) *appctx.UserContext {
	return &appctx.UserContext{UserID: "u-1", Roles: roles}
}

func TestGate_DefaultPolicyTable(t *testing.T) {
	gate := MustDefaultGate()

	tests := []struct {
		name  string
		user  *appctx.UserContext
		allow map[Operation]bool
	}{
		{
			name:  "admin",
			user:  principal(RoleAdmin),
			allow: map[Operation]bool{OperationCreate: true, OperationRead: true, OperationUpdate: true, OperationDelete: true},
		},
		{
			name:  "manager",
			user:  principal(RoleManager),
			allow: map[Operation]bool{OperationCreate: false, OperationRead: true, OperationUpdate: true, OperationDelete: false},
		},
		{
			name:  "both roles",
			user:  principal(RoleManager, RoleAdmin),
			allow: map[Operation]bool{OperationCreate: true, OperationRead: true, OperationUpdate: true, OperationDelete: true},
		},
		{
			name:  "authenticated without roles",
			user:  principal(),
			allow: map[Operation]bool{},
		},
		{
			name:  "role names are case sensitive",
			user:  principal("admin"),
			allow: map[Operation]bool{},
		},
		{
			name:  "anonymous",
			user:  nil,
			allow: map[Operation]bool{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, op := range Operations {
				assert.Equal(t, tt.allow[op], gate.Authorize(tt.user, op), "operation %s", op)
			}
		})
	}
}

func TestGate_UnknownOperationDenied(t *testing.T) {
	gate := MustDefaultGate()
	assert.False(t, gate.Authorize(principal(RoleAdmin), Operation("export")))
}

func TestGate_MissingRuleDenied(t *testing.T) {
	gate, err := NewGate(Policy{OperationRead: "true"})
	require.NoError(t, err)

	assert.True(t, gate.Authorize(principal(), OperationRead))
	assert.False(t, gate.Authorize(principal(RoleAdmin), OperationCreate))
}

func TestNewGate_RejectsBadRules(t *testing.T) {
	_, err := NewGate(Policy{OperationRead: "'Admin' in"})
	assert.Error(t, err)

	_, err = NewGate(Policy{OperationRead: "size(roles)"})
	assert.Error(t, err, "non-boolean rule")

	_, err = NewGate(Policy{OperationRead: "user.isAdmin"})
	assert.Error(t, err, "undeclared variable")

	_, err = NewGate(Policy{Operation("export"): "true"})
	assert.Error(t, err)
}

func TestGate_PolicyIsCopy(t *testing.T) {
	gate := MustDefaultGate()

	p := gate.Policy()
	p[OperationDelete] = "true"

	assert.False(t, gate.Authorize(principal(RoleManager), OperationDelete))
}
