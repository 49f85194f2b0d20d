package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/ludb/internal/analysis"
	"github.com/roach88/ludb/internal/ir"
)

// Snapshot is the canonical form of a report for golden comparison. Content
// ids and digests are left out; they are covered by the ir hash tests and
// would churn on every wording change.
func Snapshot(name string, report *analysis.Report) ir.Object {
	systems := make(ir.Array, len(report.Systems))
	for i := range report.Systems {
		sys := &report.Systems[i]
		constraints := make(ir.Array, len(sys.Constraints))
		for j := range sys.Constraints {
			constraints[j] = sys.Constraints[j].Payload()
		}
		obj := ir.Object{
			"system":      ir.String(sys.System),
			"linear":      ir.Bool(sys.Linear),
			"constraints": constraints,
		}
		if sys.Message != "" {
			obj["message"] = ir.String(sys.Message)
		}
		if sys.Objective != nil {
			obj["objective"] = sys.Objective.Payload()
		}
		systems[i] = obj
	}
	return ir.Object{
		"scenario": ir.String(name),
		"backend":  ir.String(report.Backend),
		"linear":   ir.Bool(report.Linear),
		"systems":  systems,
	}
}

// RunWithGolden executes a scenario and compares its snapshot against
// testdata/golden/{scenario.Name}.golden.
//
// Returns error if scenario execution fails. Test failure (via goldie)
// occurs if the snapshot doesn't match the golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(t.Context(), scenario)
	if err != nil {
		return nil, err
	}
	return result, AssertGolden(t, scenario.Name, result)
}

// AssertGolden compares an already computed result against a golden file.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	data, err := GoldenData(scenarioName, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)
	return nil
}

// GoldenData is the golden file content for a result: the canonical JSON of
// its Snapshot.
func GoldenData(scenarioName string, result *Result) ([]byte, error) {
	return ir.MarshalCanonical(Snapshot(scenarioName, result.Report))
}
