package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/roach88/ludb/internal/backend"
	"github.com/roach88/ludb/internal/compiler"
	"github.com/roach88/ludb/internal/expr"
	"github.com/roach88/ludb/internal/ir"
	"github.com/roach88/ludb/internal/num"
)

// Session analyzes constraint systems in one backend. It is safe for
// concurrent use; every method reads the same immutable backend.
type Session interface {
	// Kind returns the backend kind the session was opened with.
	Kind() backend.Kind

	// Backend identifies the backend for provenance, e.g.
	// "RATIONAL_PWAFFINE(RATIONAL_BIGRAT)".
	Backend() string

	// Analyze validates, builds and simplifies one system. Constraint
	// failures are reported inside the result; the error is non-nil only for
	// an invalid system or a cancelled context.
	Analyze(ctx context.Context, spec *ir.SystemSpec) (*ir.SystemResult, error)

	// AnalyzeAll analyzes systems in order under a fresh run id.
	AnalyzeAll(ctx context.Context, specs []*ir.SystemSpec) (*Report, error)

	// Equal compares two numeric literals in the session's domain.
	Equal(a, b string) (bool, error)

	// Curve evaluates a curve built by the backend's curve factory.
	Curve(req CurveRequest) (*CurveReport, error)
}

// Report is the outcome of one run.
type Report struct {
	RunID   string            `json:"run_id"`
	Backend string            `json:"backend"`
	Linear  bool              `json:"linear"`
	Systems []ir.SystemResult `json:"systems"`
}

// Value returns the canonical form of the report, content ids included.
func (r *Report) Value() ir.Value {
	systems := make(ir.Array, len(r.Systems))
	for i := range r.Systems {
		systems[i] = r.Systems[i].Value()
	}
	return ir.Object{
		"run_id":  ir.String(r.RunID),
		"backend": ir.String(r.Backend),
		"linear":  ir.Bool(r.Linear),
		"systems": systems,
	}
}

// Open returns a session for kind.
func Open(kind backend.Kind, opts ...Option) (Session, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	switch kind {
	case backend.RationalPwAffine:
		return newSession(backend.Rational(), cfg), nil
	case backend.DoublePwAffine:
		return newSession(backend.Double(), cfg), nil
	case backend.DecimalPwAffine:
		return newSession(backend.Decimal(), cfg), nil
	default:
		return nil, fmt.Errorf("open session: unknown backend %q", kind)
	}
}

type session[N any] struct {
	backend *backend.Backend[N]
	alg     num.Algebra[N]
	simp    *expr.Simplifier[N]
	name    string
	cfg     config
	logger  *slog.Logger
}

func newSession[N any](b *backend.Backend[N], cfg config) *session[N] {
	var opts []expr.Option
	if cfg.strict {
		opts = append(opts, expr.WithStrictLinearity())
	}
	alg := b.NumericAlgebra()
	name := b.String()
	return &session[N]{
		backend: b,
		alg:     alg,
		simp:    expr.New(alg, opts...),
		name:    name,
		cfg:     cfg,
		logger:  cfg.logger.With("backend", name),
	}
}

func (s *session[N]) Kind() backend.Kind { return s.backend.Kind() }

func (s *session[N]) Backend() string { return s.name }

func (s *session[N]) Equal(a, b string) (bool, error) {
	x, err := s.alg.Parse(a)
	if err != nil {
		return false, err
	}
	y, err := s.alg.Parse(b)
	if err != nil {
		return false, err
	}
	return num.Equal(s.alg, x, y), nil
}

func (s *session[N]) AnalyzeAll(ctx context.Context, specs []*ir.SystemSpec) (*Report, error) {
	r := &Report{
		RunID:   s.cfg.ids.Generate(),
		Backend: s.name,
		Linear:  true,
		Systems: make([]ir.SystemResult, 0, len(specs)),
	}
	for _, spec := range specs {
		res, err := s.Analyze(ctx, spec)
		if err != nil {
			return nil, err
		}
		r.Linear = r.Linear && res.Linear
		r.Systems = append(r.Systems, *res)
	}
	s.logger.Info("run complete", "run_id", r.RunID, "systems", len(r.Systems), "linear", r.Linear)
	return r, nil
}

func (s *session[N]) Analyze(ctx context.Context, spec *ir.SystemSpec) (*ir.SystemResult, error) {
	start := time.Now()

	if errs := compiler.Validate(spec); len(errs) > 0 {
		return nil, &InvalidSystemError{System: spec.Name, Errors: errs}
	}
	digest, err := ir.SystemDigest(*spec)
	if err != nil {
		return nil, err
	}

	// Build every tree before simplifying any, so a bad literal rejects the
	// whole system.
	trees := make([]expr.Node[N], len(spec.Constraints))
	for i, c := range spec.Constraints {
		trees[i], err = compiler.BuildConstraint(s.alg, c.Node)
		if err != nil {
			return nil, &InvalidSystemError{System: spec.Name, Err: fmt.Errorf("constraint %q: %w", c.Name, err)}
		}
	}
	var objective expr.Node[N]
	if spec.Objective != nil {
		objective, err = compiler.BuildExpression(s.alg, *spec.Objective)
		if err != nil {
			return nil, &InvalidSystemError{System: spec.Name, Err: fmt.Errorf("objective: %w", err)}
		}
	}

	results := make([]ir.ConstraintResult, len(trees))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.workers)
	for i, tree := range trees {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := s.constraint(gctx, spec.Name, spec.Constraints[i].Name, tree)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &ir.SystemResult{
		System:      spec.Name,
		Backend:     s.name,
		Digest:      digest,
		Linear:      true,
		Constraints: results,
	}
	if objective != nil {
		obj, err := s.expression(spec.Name, objective)
		if err != nil {
			return nil, err
		}
		out.Objective = obj
		out.Linear = obj.Status == ir.StatusLinear
	}
	for _, c := range results {
		if c.Status != ir.StatusLinear {
			out.Linear = false
		}
	}
	if !out.Linear {
		out.Message = ir.NonlinearMessage
	}

	recordAnalysis(ctx, string(s.Kind()), time.Since(start), out.Linear)
	s.logger.Info("system analyzed",
		"system", spec.Name,
		"constraints", len(results),
		"failed", len(out.Failed()),
		"linear", out.Linear,
	)
	return out, nil
}

func (s *session[N]) constraint(ctx context.Context, system, name string, tree expr.Node[N]) (ir.ConstraintResult, error) {
	res := ir.ConstraintResult{Name: name, Rendered: s.simp.Render(tree)}

	norm, err := s.simp.SimplifyConstraint(tree)
	if err != nil {
		res.Status = ir.StatusFailed
		res.Error = errorRecord(err)
	} else {
		res.Status = ir.StatusLinear
		res.LHS = s.record(norm.LHS)
		res.RHS = s.record(norm.RHS)
		res.Difference = s.record(s.simp.Difference(norm))
	}

	code := string(expr.CodeOf(err))
	recordConstraint(ctx, string(s.Kind()), code)
	s.logger.Debug("constraint simplified", "system", system, "constraint", name, "outcome", outcome(code))

	res.ID, err = ir.ResultID(s.name, system, name, res.Payload())
	return res, err
}

func (s *session[N]) expression(system string, tree expr.Node[N]) (*ir.ExpressionResult, error) {
	res := &ir.ExpressionResult{Name: ir.ObjectiveName, Rendered: s.simp.Render(tree)}

	a, err := s.simp.Simplify(tree)
	if err != nil {
		res.Status = ir.StatusFailed
		res.Error = errorRecord(err)
	} else {
		res.Status = ir.StatusLinear
		res.Value = s.record(a)
	}

	res.ID, err = ir.ResultID(s.name, system, ir.ObjectiveName, res.Payload())
	return res, err
}

func (s *session[N]) record(a expr.Affine[N]) *ir.AffineRecord {
	rec := &ir.AffineRecord{Constant: s.alg.Format(a.Constant), Terms: []ir.Term{}}
	for _, id := range a.Vars() {
		rec.Terms = append(rec.Terms, ir.Term{Var: id, Coeff: s.alg.Format(a.Coefficients[id])})
	}
	return rec
}

func errorRecord(err error) *ir.ErrorRecord {
	return &ir.ErrorRecord{Code: string(expr.CodeOf(err)), Message: err.Error()}
}
