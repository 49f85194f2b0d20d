package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ludb/internal/ir"
)

func sampleSystems() []ir.SystemResult {
	return []ir.SystemResult{
		{
			System:  "tandem",
			Backend: "RATIONAL_PWAFFINE(RATIONAL_BIGRAT)",
			Digest:  "d1",
			Linear:  true,
			Constraints: []ir.ConstraintResult{
				{
					ID:         "b-order",
					Name:       "order",
					Status:     ir.StatusLinear,
					Rendered:   "s_1 >= 5",
					LHS:        &ir.AffineRecord{Constant: "0", Terms: []ir.Term{{Var: 1, Coeff: "1"}}},
					RHS:        &ir.AffineRecord{Constant: "5", Terms: []ir.Term{}},
					Difference: &ir.AffineRecord{Constant: "-5", Terms: []ir.Term{{Var: 1, Coeff: "1"}}},
				},
				{
					ID:       "a-latency",
					Name:     "latency",
					Status:   ir.StatusLinear,
					Rendered: "s_0 >= 0",
					LHS:      &ir.AffineRecord{Constant: "0", Terms: []ir.Term{{Var: 0, Coeff: "1"}}},
					RHS:      &ir.AffineRecord{Constant: "0", Terms: []ir.Term{}},
				},
			},
			Objective: &ir.ExpressionResult{
				ID:       "c-objective",
				Name:     ir.ObjectiveName,
				Status:   ir.StatusLinear,
				Rendered: "(s_0 + s_1)",
				Value:    &ir.AffineRecord{Constant: "0", Terms: []ir.Term{{Var: 0, Coeff: "1"}, {Var: 1, Coeff: "1"}}},
			},
		},
		{
			System:  "quadratic",
			Backend: "RATIONAL_PWAFFINE(RATIONAL_BIGRAT)",
			Digest:  "d2",
			Linear:  false,
			Message: ir.NonlinearMessage,
			Constraints: []ir.ConstraintResult{
				{
					ID:       "e-square",
					Name:     "square",
					Status:   ir.StatusFailed,
					Rendered: "(s_1 * s_1) >= 0",
					Error:    &ir.ErrorRecord{Code: "NONLINEAR_TERM", Message: "both operands depend on the same variable"},
				},
			},
		},
	}
}

func writeSample(t *testing.T, s *Store, id string) Run {
	t.Helper()
	systems := sampleSystems()
	run, err := NewRun(id, "RATIONAL_PWAFFINE(RATIONAL_BIGRAT)", systems)
	require.NoError(t, err)
	require.NoError(t, s.WriteRun(context.Background(), run, systems))
	return run
}

func TestNewRun(t *testing.T) {
	run, err := NewRun("r1", "b", sampleSystems())
	require.NoError(t, err)
	assert.False(t, run.Linear)
	assert.Equal(t, ir.EngineVersion, run.EngineVersion)
	assert.Equal(t, ir.IRVersion, run.IRVersion)
	assert.Len(t, run.SystemDigest, 64)

	linear, err := NewRun("r2", "b", sampleSystems()[:1])
	require.NoError(t, err)
	assert.True(t, linear.Linear)
	assert.NotEqual(t, run.SystemDigest, linear.SystemDigest)
}

func TestWriteAndReadRun(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	want := writeSample(t, s, "run-1")

	got, err := s.ReadRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Seq)
	want.Seq = got.Seq
	assert.Equal(t, want, got)

	results, err := s.ReadResults(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, results, 4)

	// Analysis order, not id order.
	assert.Equal(t, []string{"order", "latency", "objective", "square"},
		[]string{results[0].Name, results[1].Name, results[2].Name, results[3].Name})
	for i, r := range results {
		assert.Equal(t, i, r.Ordinal)
	}

	order := results[0]
	assert.Equal(t, KindConstraint, order.Kind)
	require.NotNil(t, order.Constraint)
	assert.Equal(t, sampleSystems()[0].Constraints[0], *order.Constraint)

	obj := results[2]
	assert.Equal(t, KindObjective, obj.Kind)
	require.NotNil(t, obj.Objective)
	assert.Equal(t, *sampleSystems()[0].Objective, *obj.Objective)

	square := results[3]
	assert.Equal(t, "quadratic", square.System)
	assert.Equal(t, ir.StatusFailed, square.Status)
	assert.Equal(t, "NONLINEAR_TERM", square.ErrorCode)
	assert.Empty(t, results[0].ErrorCode)
}

func TestWriteRunIdempotent(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	writeSample(t, s, "run-1")
	writeSample(t, s, "run-1")

	runs, err := s.ListRuns(ctx)
	require.NoError(t, err)
	assert.Len(t, runs, 1)

	results, err := s.ReadResults(ctx, "run-1")
	require.NoError(t, err)
	assert.Len(t, results, 4)
}

func TestListRuns(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	runs, err := s.ListRuns(ctx)
	require.NoError(t, err)
	assert.NotNil(t, runs)
	assert.Empty(t, runs)

	writeSample(t, s, "run-b")
	writeSample(t, s, "run-a")

	runs, err = s.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-b", runs[0].ID, "runs list in insertion order")
	assert.Equal(t, "run-a", runs[1].ID)
}

func TestRunNotFound(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	_, err := s.ReadRun(ctx, "missing")
	assert.ErrorIs(t, err, ErrRunNotFound)

	_, err = s.ReadResults(ctx, "missing")
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestHistory(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	writeSample(t, s, "run-1")
	writeSample(t, s, "run-2")

	hist, err := s.History(ctx, "tandem", "order")
	require.NoError(t, err)
	require.Len(t, hist, 2)
	assert.Equal(t, "run-1", hist[0].RunID)
	assert.Equal(t, "run-2", hist[1].RunID)

	hist, err = s.History(ctx, "tandem", "nope")
	require.NoError(t, err)
	assert.Empty(t, hist)
}

func TestResultsRequireRun(t *testing.T) {
	s := createTestStore(t)
	_, err := s.db.Exec(`INSERT INTO results (id, run_id, system, name, ordinal, kind, status, payload)
		VALUES ('x', 'no-such-run', 's', 'n', 0, 'constraint', 'linear', '{}')`)
	assert.Error(t, err, "foreign key must reject orphan results")
}
