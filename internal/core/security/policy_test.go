package security

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePolicy_OverlaysDefaults(t *testing.T) {
	policy, err := ParsePolicy([]byte(`
rules:
  read: "'Admin' in roles || 'Manager' in roles || 'Auditor' in roles"
`))
	require.NoError(t, err)

	assert.Equal(t, DefaultPolicy()[OperationCreate], policy[OperationCreate])
	assert.Contains(t, policy[OperationRead], "Auditor")

	gate, err := NewGate(policy)
	require.NoError(t, err)
	assert.True(t, gate.Authorize(principal("Auditor"), OperationRead))
	assert.False(t, gate.Authorize(principal("Auditor"), OperationUpdate))
}

func TestParsePolicy_Errors(t *testing.T) {
	_, err := ParsePolicy([]byte("rules: [not, a, map]"))
	assert.Error(t, err)

	_, err = ParsePolicy([]byte("rules:\n  export: 'true'\n"))
	assert.Error(t, err)

	_, err = ParsePolicy([]byte("rules:\n  read: ''\n"))
	assert.Error(t, err)
}

func TestLoadPolicy(t *testing.T) {
	policy, err := LoadPolicy("")
	require.NoError(t, err)
	assert.Equal(t, DefaultPolicy(), policy)

	path := filepath.Join(t.TempDir(), "policy.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rules:\n  delete: \"'Admin' in roles && 'Manager' in roles\"\n"), 0o600))

	policy, err = LoadPolicy(path)
	require.NoError(t, err)
	assert.Equal(t, "'Admin' in roles && 'Manager' in roles", policy[OperationDelete])

	_, err = LoadPolicy(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
