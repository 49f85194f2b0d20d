package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ludb/internal/ir"
)

func TestScenariosPass(t *testing.T) {
	scenarios, err := LoadScenarios("testdata/scenarios")
	require.NoError(t, err)
	require.NotEmpty(t, scenarios)

	for _, s := range scenarios {
		t.Run(s.Name, func(t *testing.T) {
			result, err := Run(t.Context(), s)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
			assert.Equal(t, DefaultRunID, result.Report.RunID)
		})
	}
}

func TestScenariosGolden(t *testing.T) {
	for _, name := range []string{"tandem_rational", "nonlinear_topology"} {
		t.Run(name, func(t *testing.T) {
			s, err := LoadScenario("testdata/scenarios/" + name + ".yaml")
			require.NoError(t, err)

			result, err := RunWithGolden(t, s)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}

func floorScenario(expect ...Expectation) *Scenario {
	one := ir.Number("1")
	zero := 0
	return &Scenario{
		Name:        "floor",
		Description: "s_0 >= 1",
		System: ir.SystemSpec{
			Name: "floor",
			Constraints: []ir.ConstraintSpec{{
				Name: "c",
				Node: ir.NodeSpec{Geq: []ir.NodeSpec{{Var: &zero}, {Lit: &one}}},
			}},
		},
		Expect: expect,
	}
}

func TestRunReportsMismatches(t *testing.T) {
	linear := false
	s := floorScenario(
		Expectation{
			Constraint: "c",
			Rendered:   "s_0 > 1",
			Difference: &ExpectAffine{
				Constant: "-2",
				Terms:    []ExpectTerm{{Var: 0, Coeff: "1"}, {Var: 3, Coeff: "1"}},
			},
		},
		Expectation{Constraint: "missing"},
	)
	s.Linear = &linear

	result, err := Run(t.Context(), s)
	require.NoError(t, err)
	assert.False(t, result.Pass)

	joined := ""
	for _, e := range result.Errors {
		joined += e + "\n"
	}
	assert.Contains(t, joined, "linear: expected false, got true")
	assert.Contains(t, joined, `c: rendered: expected "s_0 > 1", got "s_0 >= 1"`)
	assert.Contains(t, joined, "c.difference.constant: expected -2, got -1")
	assert.Contains(t, joined, "c.difference: s_3: expected 1, term absent")
	assert.Contains(t, joined, "missing: no result stored")
}

func TestRunUnexpectedTerm(t *testing.T) {
	s := floorScenario(Expectation{
		Constraint: "c",
		Difference: &ExpectAffine{Constant: "-1"},
	})

	result, err := Run(t.Context(), s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Equal(t, []string{"c.difference: unexpected term s_0 with coefficient 1"}, result.Errors)
}

func TestRunExpectedErrorMissing(t *testing.T) {
	s := floorScenario(Expectation{Constraint: "c", Error: "NONLINEAR_TERM"})

	result, err := Run(t.Context(), s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Equal(t, []string{"c: expected error NONLINEAR_TERM, got status linear"}, result.Errors)
}

func TestRunNumericEquality(t *testing.T) {
	// 0.5 and 1/2 denote the same rational.
	half := ir.Number("0.5")
	zero := 0
	s := &Scenario{
		Name:        "half",
		Description: "s_0 / 2 >= 0",
		Backend:     "rational",
		System: ir.SystemSpec{
			Name: "half",
			Constraints: []ir.ConstraintSpec{{
				Name: "c",
				Node: ir.NodeSpec{Geq: []ir.NodeSpec{
					{Mul: []ir.NodeSpec{{Lit: &half}, {Var: &zero}}},
					{Lit: numberPtr("0")},
				}},
			}},
		},
		Expect: []Expectation{{
			Constraint: "c",
			LHS:        &ExpectAffine{Terms: []ExpectTerm{{Var: 0, Coeff: "1/2"}}},
		}},
	}

	result, err := Run(t.Context(), s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Equal(t, "1/2", result.Report.Systems[0].Constraints[0].LHS.Terms[0].Coeff)
}

func TestRunInvalidSystem(t *testing.T) {
	s := floorScenario(Expectation{Constraint: "c"})
	s.System.Constraints[0].Node = ir.NodeSpec{Var: new(int)}

	_, err := Run(t.Context(), s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "analyze")
}

func numberPtr(s string) *ir.Number {
	n := ir.Number(s)
	return &n
}
