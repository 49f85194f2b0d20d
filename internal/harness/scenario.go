package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/roach88/ludb/internal/backend"
	"github.com/roach88/ludb/internal/ir"
)

// Scenario defines a conformance test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Backend selects the numeric backend; empty means the default.
	Backend string `yaml:"backend,omitempty"`

	// Strict enables strict linearity checks.
	Strict bool `yaml:"strict,omitempty"`

	// RunID is a fixed run id for deterministic output.
	// Defaults to "test-run-default".
	RunID string `yaml:"run_id,omitempty"`

	// System is the constraint system under test.
	System ir.SystemSpec `yaml:"system"`

	// Linear, when set, is the expected system-level outcome.
	Linear *bool `yaml:"linear,omitempty"`

	// Expect lists per-constraint expectations.
	Expect []Expectation `yaml:"expect"`
}

// DefaultRunID is used when a scenario gives no run id.
const DefaultRunID = "test-run-default"

// Expectation describes one constraint result, or the objective when
// Constraint is "objective". Affine fields are compared only when given.
type Expectation struct {
	Constraint string        `yaml:"constraint"`
	LHS        *ExpectAffine `yaml:"lhs,omitempty"`
	RHS        *ExpectAffine `yaml:"rhs,omitempty"`
	Difference *ExpectAffine `yaml:"difference,omitempty"`
	Value      *ExpectAffine `yaml:"value,omitempty"`
	Rendered   string        `yaml:"rendered,omitempty"`

	// Error is the expected failure code, e.g. NONLINEAR_TERM.
	Error string `yaml:"error,omitempty"`
}

// ExpectAffine is an expected affine form. Terms may be listed in any order
// and must name every participating variable.
type ExpectAffine struct {
	Constant ir.Number    `yaml:"constant"`
	Terms    []ExpectTerm `yaml:"terms"`
}

// ExpectTerm is one expected coefficient.
type ExpectTerm struct {
	Var   int       `yaml:"var"`
	Coeff ir.Number `yaml:"coeff"`
}

// Kind resolves the scenario's backend.
func (s *Scenario) Kind() (backend.Kind, error) {
	if s.Backend == "" {
		return backend.DefaultKind, nil
	}
	return backend.ParseKind(s.Backend)
}

// LoadScenario reads and parses a scenario YAML file. Unknown fields
// (typos) and missing required fields are errors.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// LoadScenarios loads every .yaml and .yml file in dir, sorted by file name.
func LoadScenarios(dir string) ([]*Scenario, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenarios directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		ext := filepath.Ext(e.Name())
		if !e.IsDir() && (ext == ".yaml" || ext == ".yml") {
			names = append(names, e.Name())
		}
	}
	slices.Sort(names)

	scenarios := make([]*Scenario, 0, len(names))
	for _, name := range names {
		s, err := LoadScenario(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if _, err := s.Kind(); err != nil {
		return err
	}
	if s.System.Name == "" {
		s.System.Name = s.Name
	}
	if len(s.System.Constraints) == 0 && s.System.Objective == nil {
		return fmt.Errorf("system must have constraints or an objective")
	}
	if len(s.Expect) == 0 {
		return fmt.Errorf("expect list is required and must be non-empty")
	}

	for i, e := range s.Expect {
		if e.Constraint == "" {
			return fmt.Errorf("expect[%d]: constraint is required", i)
		}
		hasForm := e.LHS != nil || e.RHS != nil || e.Difference != nil || e.Value != nil
		if e.Error != "" && hasForm {
			return fmt.Errorf("expect[%d]: error excludes lhs, rhs, difference and value", i)
		}
		if e.Value != nil && e.Constraint != ir.ObjectiveName {
			return fmt.Errorf("expect[%d]: value applies only to the objective", i)
		}
		if e.Constraint == ir.ObjectiveName && (e.LHS != nil || e.RHS != nil || e.Difference != nil) {
			return fmt.Errorf("expect[%d]: the objective has a value, not lhs/rhs/difference", i)
		}
	}
	return nil
}
