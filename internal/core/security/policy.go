package security

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Policy maps each operation to a CEL expression over `roles` (list of string).
type Policy map[Operation]string

// DefaultPolicy: Admin has full control, Manager may view and edit.
func DefaultPolicy() Policy {
	return Policy{
		OperationCreate: "'Admin' in roles",
		OperationRead:   "'Admin' in roles || 'Manager' in roles",
		OperationUpdate: "'Admin' in roles || 'Manager' in roles",
		OperationDelete: "'Admin' in roles",
	}
}

// policyFile is the on-disk shape:
//
//	rules:
//	  create: "'Admin' in roles"
//	  read: "'Admin' in roles || 'Auditor' in roles"
type policyFile struct {
	Rules map[string]string `yaml:"rules"`
}

// ParsePolicy overlays rules from YAML onto DefaultPolicy.
// Operations absent from the document keep their default rule.
func ParsePolicy(data []byte) (Policy, error) {
	var file policyFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse policy: %w", err)
	}

	policy := DefaultPolicy()
	for name, expr := range file.Rules {
		op := Operation(name)
		if !op.Valid() {
			return nil, fmt.Errorf("parse policy: unknown operation %q", name)
		}
		if expr == "" {
			return nil, fmt.Errorf("parse policy: empty rule for %q", name)
		}
		policy[op] = expr
	}

	return policy, nil
}

// LoadPolicy reads a policy file. An empty path yields DefaultPolicy.
func LoadPolicy(path string) (Policy, error) {
	if path == "" {
		return DefaultPolicy(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read policy %s: %w", path, err)
	}
	return ParsePolicy(data)
}
