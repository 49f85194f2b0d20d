package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/ludb/internal/ir"
)

// Result kinds.
const (
	KindConstraint = "constraint"
	KindObjective  = "objective"
)

// Run is one stored analysis run.
type Run struct {
	Seq           int64  `json:"seq"`
	ID            string `json:"id"`
	Backend       string `json:"backend"`
	EngineVersion string `json:"engine_version"`
	IRVersion     string `json:"ir_version"`
	Linear        bool   `json:"linear"`
	SystemDigest  string `json:"system_digest"`
}

// NewRun describes a run over systems, stamped with the current versions.
func NewRun(id, backend string, systems []ir.SystemResult) (Run, error) {
	digest, err := ir.RunDigest(systems)
	if err != nil {
		return Run{}, err
	}
	linear := true
	for _, s := range systems {
		linear = linear && s.Linear
	}
	return Run{
		ID:            id,
		Backend:       backend,
		EngineVersion: ir.EngineVersion,
		IRVersion:     ir.IRVersion,
		Linear:        linear,
		SystemDigest:  digest,
	}, nil
}

// WriteRun stores a run and all of its results in one transaction.
// Rewriting an existing run or result is a no-op (ON CONFLICT DO NOTHING).
// run.Seq is ignored; the store assigns it.
func (s *Store) WriteRun(ctx context.Context, run Run, systems []ir.SystemResult) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write run: begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, backend, engine_version, ir_version, linear, system_digest)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		run.ID,
		run.Backend,
		run.EngineVersion,
		run.IRVersion,
		run.Linear,
		run.SystemDigest,
	)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}

	ordinal := 0
	for _, sys := range systems {
		for i := range sys.Constraints {
			c := &sys.Constraints[i]
			payload := c.Payload()
			payload["id"] = ir.String(c.ID)
			if err := writeResult(ctx, tx, run.ID, sys.System, KindConstraint, ordinal, c.ID, c.Name, c.Status, c.Error, payload); err != nil {
				return err
			}
			ordinal++
		}
		if o := sys.Objective; o != nil {
			payload := o.Payload()
			payload["id"] = ir.String(o.ID)
			if err := writeResult(ctx, tx, run.ID, sys.System, KindObjective, ordinal, o.ID, o.Name, o.Status, o.Error, payload); err != nil {
				return err
			}
			ordinal++
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write run: commit: %w", err)
	}
	return nil
}

func writeResult(ctx context.Context, tx *sql.Tx, runID, system, kind string, ordinal int,
	id, name, status string, rerr *ir.ErrorRecord, payload ir.Object,
) error {
	data, err := ir.MarshalCanonical(payload)
	if err != nil {
		return fmt.Errorf("write result %s/%s: marshal: %w", system, name, err)
	}

	var code sql.NullString
	if rerr != nil {
		code = sql.NullString{String: rerr.Code, Valid: true}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO results
		(id, run_id, system, name, ordinal, kind, status, error_code, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING
	`,
		id, runID, system, name, ordinal, kind, status, code, string(data),
	)
	if err != nil {
		return fmt.Errorf("write result %s/%s: %w", system, name, err)
	}
	return nil
}
