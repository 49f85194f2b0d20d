package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ludb/internal/backend"
)

func writeScenario(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const minimalScenario = `
name: minimal
description: one constraint
system:
  constraints:
    - name: c
      node:
        geq: [{var: 0}, {lit: 1}]
expect:
  - constraint: c
    difference:
      constant: -1
      terms: [{var: 0, coeff: 1}]
`

func TestLoadScenario(t *testing.T) {
	s, err := LoadScenario(writeScenario(t, minimalScenario))
	require.NoError(t, err)

	assert.Equal(t, "minimal", s.Name)
	assert.Equal(t, "minimal", s.System.Name, "system name defaults to the scenario name")
	require.Len(t, s.System.Constraints, 1)
	assert.Equal(t, "geq(s_0, 1)", s.System.Constraints[0].Node.String())

	require.Len(t, s.Expect, 1)
	require.NotNil(t, s.Expect[0].Difference)
	assert.Equal(t, "-1", string(s.Expect[0].Difference.Constant))
	assert.Equal(t, "1", string(s.Expect[0].Difference.Terms[0].Coeff))

	kind, err := s.Kind()
	require.NoError(t, err)
	assert.Equal(t, backend.DefaultKind, kind)
}

func TestLoadScenarioErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{
			name:    "unknown field",
			content: minimalScenario + "bogus: 1\n",
			errMsg:  "failed to parse YAML",
		},
		{
			name:    "missing name",
			content: "description: x\nsystem: {constraints: [{name: c, node: {var: 0}}]}\nexpect: [{constraint: c}]\n",
			errMsg:  "name is required",
		},
		{
			name:    "missing description",
			content: "name: x\nsystem: {constraints: [{name: c, node: {var: 0}}]}\nexpect: [{constraint: c}]\n",
			errMsg:  "description is required",
		},
		{
			name:    "unknown backend",
			content: "name: x\ndescription: x\nbackend: interval\nsystem: {constraints: [{name: c, node: {var: 0}}]}\nexpect: [{constraint: c}]\n",
			errMsg:  "interval",
		},
		{
			name:    "empty system",
			content: "name: x\ndescription: x\nsystem: {name: s}\nexpect: [{constraint: c}]\n",
			errMsg:  "constraints or an objective",
		},
		{
			name:    "no expectations",
			content: "name: x\ndescription: x\nsystem: {constraints: [{name: c, node: {var: 0}}]}\n",
			errMsg:  "expect list is required",
		},
		{
			name:    "error with form",
			content: "name: x\ndescription: x\nsystem: {constraints: [{name: c, node: {var: 0}}]}\nexpect: [{constraint: c, error: NONLINEAR_TERM, lhs: {constant: 0}}]\n",
			errMsg:  "error excludes",
		},
		{
			name:    "value on a constraint",
			content: "name: x\ndescription: x\nsystem: {constraints: [{name: c, node: {var: 0}}]}\nexpect: [{constraint: c, value: {constant: 0}}]\n",
			errMsg:  "value applies only to the objective",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadScenario(writeScenario(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoadScenarioMissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadScenarios(t *testing.T) {
	scenarios, err := LoadScenarios("testdata/scenarios")
	require.NoError(t, err)

	names := make([]string, len(scenarios))
	for i, s := range scenarios {
		names[i] = s.Name
	}
	assert.Equal(t, []string{
		"decimal_fractions",
		"division_by_zero",
		"nonlinear_topology",
		"strict_division",
		"tandem_rational",
	}, names)
}
