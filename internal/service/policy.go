package service

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/spec-kit/coordination-audit/internal/overdue"
	"github.com/spec-kit/coordination-audit/internal/sla"
)

// AuditPolicy is the SLA policy plus the column mapping of the coordination export.
type AuditPolicy struct {
	SLA     sla.Policy
	Columns overdue.Columns
}

// DefaultAuditPolicy returns the built-in policy and column names.
func DefaultAuditPolicy() AuditPolicy {
	return AuditPolicy{SLA: sla.DefaultPolicy(), Columns: overdue.DefaultColumns()}
}

// LoadAuditPolicy reads a YAML policy file. An empty path yields the defaults.
func LoadAuditPolicy(path string) (AuditPolicy, error) {
	if path == "" {
		return DefaultAuditPolicy(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return AuditPolicy{}, fmt.Errorf("read audit policy: %w", err)
	}
	return ParseAuditPolicy(data)
}

// ParseAuditPolicy decodes the SLA sections and the optional columns section of a policy document.
func ParseAuditPolicy(data []byte) (AuditPolicy, error) {
	policy, err := sla.ParsePolicy(data)
	if err != nil {
		return AuditPolicy{}, err
	}

	var doc struct {
		Columns overdue.Columns `yaml:"columns"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return AuditPolicy{}, fmt.Errorf("decode columns: %w", err)
	}
	return AuditPolicy{SLA: policy, Columns: doc.Columns.WithDefaults()}, nil
}
