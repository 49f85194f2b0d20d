package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/roach88/ludb/internal/ir"
)

// ErrRunNotFound is returned when a run id is not in the store.
var ErrRunNotFound = errors.New("store: run not found")

// Result is one stored result row. Exactly one of Constraint and Objective is
// set, according to Kind.
type Result struct {
	ID         string               `json:"id"`
	RunID      string               `json:"run_id"`
	System     string               `json:"system"`
	Name       string               `json:"name"`
	Ordinal    int                  `json:"ordinal"`
	Kind       string               `json:"kind"`
	Status     string               `json:"status"`
	ErrorCode  string               `json:"error_code,omitempty"`
	Constraint *ir.ConstraintResult `json:"constraint,omitempty"`
	Objective  *ir.ExpressionResult `json:"objective,omitempty"`
}

// ListRuns returns every run, oldest first.
// Returns an empty slice (not nil) for an empty store.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, id, backend, engine_version, ir_version, linear, system_digest
		FROM runs
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// ReadRun returns the run with id, or ErrRunNotFound.
func (s *Store) ReadRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT seq, id, backend, engine_version, ir_version, linear, system_digest
		FROM runs
		WHERE id = ?
	`, id)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return r, err
}

// ReadResults returns a run's results in analysis order.
// Returns ErrRunNotFound when the run does not exist.
func (s *Store) ReadResults(ctx context.Context, runID string) ([]Result, error) {
	if _, err := s.ReadRun(ctx, runID); err != nil {
		return nil, err
	}
	return s.queryResults(ctx, `
		SELECT id, run_id, system, name, ordinal, kind, status, error_code, payload
		FROM results
		WHERE run_id = ?
		ORDER BY ordinal ASC, id COLLATE BINARY ASC
	`, runID)
}

// History returns every stored result for one named constraint (or the
// objective) of a system, oldest run first.
func (s *Store) History(ctx context.Context, system, name string) ([]Result, error) {
	return s.queryResults(ctx, `
		SELECT r.id, r.run_id, r.system, r.name, r.ordinal, r.kind, r.status, r.error_code, r.payload
		FROM results r
		JOIN runs ON runs.id = r.run_id
		WHERE r.system = ? AND r.name = ?
		ORDER BY runs.seq ASC, r.id COLLATE BINARY ASC
	`, system, name)
}

func (s *Store) queryResults(ctx context.Context, query string, args ...any) ([]Result, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	results := []Result{}
	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate results: %w", err)
	}
	return results, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var r Run
	if err := row.Scan(&r.Seq, &r.ID, &r.Backend, &r.EngineVersion, &r.IRVersion, &r.Linear, &r.SystemDigest); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	return r, nil
}

func scanResult(row scanner) (Result, error) {
	var (
		r       Result
		code    sql.NullString
		payload string
	)
	if err := row.Scan(&r.ID, &r.RunID, &r.System, &r.Name, &r.Ordinal, &r.Kind, &r.Status, &code, &payload); err != nil {
		return Result{}, fmt.Errorf("scan result: %w", err)
	}
	r.ErrorCode = code.String

	var target any
	switch r.Kind {
	case KindConstraint:
		r.Constraint = &ir.ConstraintResult{}
		target = r.Constraint
	case KindObjective:
		r.Objective = &ir.ExpressionResult{}
		target = r.Objective
	default:
		return Result{}, fmt.Errorf("scan result %s: unknown kind %q", r.ID, r.Kind)
	}
	if err := json.Unmarshal([]byte(payload), target); err != nil {
		return Result{}, fmt.Errorf("scan result %s: payload: %w", r.ID, err)
	}
	return r, nil
}
