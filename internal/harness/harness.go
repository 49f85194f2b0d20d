package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/ludb/internal/analysis"
	"github.com/roach88/ludb/internal/ir"
	"github.com/roach88/ludb/internal/store"
)

// Run executes a scenario in a fresh in-memory store and checks its
// expectations. The returned error reports harness failures (bad backend,
// invalid system, store errors); failed expectations are in the Result.
func Run(ctx context.Context, s *Scenario) (*Result, error) {
	kind, err := s.Kind()
	if err != nil {
		return nil, err
	}

	runID := s.RunID
	if runID == "" {
		runID = DefaultRunID
	}
	opts := []analysis.Option{
		analysis.WithIDGenerator(analysis.NewFixedGenerator(runID)),
		analysis.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}
	if s.Strict {
		opts = append(opts, analysis.WithStrictLinearity())
	}
	sess, err := analysis.Open(kind, opts...)
	if err != nil {
		return nil, err
	}

	system := s.System
	report, err := sess.AnalyzeAll(ctx, []*ir.SystemSpec{&system})
	if err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}

	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create store: %w", err)
	}
	defer st.Close()

	run, err := store.NewRun(report.RunID, report.Backend, report.Systems)
	if err != nil {
		return nil, err
	}
	if err := st.WriteRun(ctx, run, report.Systems); err != nil {
		return nil, fmt.Errorf("write run: %w", err)
	}
	rows, err := st.ReadResults(ctx, report.RunID)
	if err != nil {
		return nil, fmt.Errorf("read results: %w", err)
	}

	result := NewResult()
	result.Report = report

	if s.Linear != nil && report.Linear != *s.Linear {
		result.AddError("linear: expected %t, got %t", *s.Linear, report.Linear)
	}

	byName := make(map[string]store.Result, len(rows))
	for _, row := range rows {
		byName[row.Name] = row
	}
	for _, e := range s.Expect {
		row, ok := byName[e.Constraint]
		if !ok {
			result.AddError("%s: no result stored", e.Constraint)
			continue
		}
		checkExpectation(sess, result, e, row)
	}
	return result, nil
}

func checkExpectation(sess analysis.Session, r *Result, e Expectation, row store.Result) {
	var (
		status   string
		rendered string
		errRec   *ir.ErrorRecord
		forms    = map[string]*ir.AffineRecord{}
	)
	switch {
	case row.Constraint != nil:
		c := row.Constraint
		status, rendered, errRec = c.Status, c.Rendered, c.Error
		forms["lhs"], forms["rhs"], forms["difference"] = c.LHS, c.RHS, c.Difference
	case row.Objective != nil:
		o := row.Objective
		status, rendered, errRec = o.Status, o.Rendered, o.Error
		forms["value"] = o.Value
	default:
		r.AddError("%s: stored row has no payload", e.Constraint)
		return
	}

	if e.Rendered != "" && rendered != e.Rendered {
		r.AddError("%s: rendered: expected %q, got %q", e.Constraint, e.Rendered, rendered)
	}

	if e.Error != "" {
		switch {
		case errRec == nil:
			r.AddError("%s: expected error %s, got status %s", e.Constraint, e.Error, status)
		case errRec.Code != e.Error:
			r.AddError("%s: expected error %s, got %s (%s)", e.Constraint, e.Error, errRec.Code, errRec.Message)
		}
		return
	}
	if errRec != nil {
		r.AddError("%s: unexpected error %s: %s", e.Constraint, errRec.Code, errRec.Message)
		return
	}

	expected := map[string]*ExpectAffine{
		"lhs":        e.LHS,
		"rhs":        e.RHS,
		"difference": e.Difference,
		"value":      e.Value,
	}
	for _, key := range []string{"lhs", "rhs", "difference", "value"} {
		if want := expected[key]; want != nil {
			compareAffine(sess, r, e.Constraint+"."+key, want, forms[key])
		}
	}
}

// compareAffine checks got against want numerically in the session's domain.
func compareAffine(sess analysis.Session, r *Result, field string, want *ExpectAffine, got *ir.AffineRecord) {
	if got == nil {
		r.AddError("%s: missing", field)
		return
	}

	constant := string(want.Constant)
	if constant == "" {
		constant = "0"
	}
	equalNumber(sess, r, field+".constant", constant, got.Constant)

	coeffs := make(map[int]string, len(got.Terms))
	for _, t := range got.Terms {
		coeffs[t.Var] = t.Coeff
	}
	seen := make(map[int]bool, len(want.Terms))
	for _, t := range want.Terms {
		seen[t.Var] = true
		c, ok := coeffs[t.Var]
		if !ok {
			r.AddError("%s: s_%d: expected %s, term absent", field, t.Var, t.Coeff)
			continue
		}
		equalNumber(sess, r, fmt.Sprintf("%s.s_%d", field, t.Var), string(t.Coeff), c)
	}
	for _, t := range got.Terms {
		if !seen[t.Var] {
			r.AddError("%s: unexpected term s_%d with coefficient %s", field, t.Var, t.Coeff)
		}
	}
}

func equalNumber(sess analysis.Session, r *Result, field, want, got string) {
	ok, err := sess.Equal(want, got)
	if err != nil {
		r.AddError("%s: %v", field, err)
		return
	}
	if !ok {
		r.AddError("%s: expected %s, got %s", field, want, got)
	}
}
