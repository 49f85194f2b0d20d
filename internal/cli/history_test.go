package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ludb/internal/store"
	"github.com/roach88/ludb/internal/testutil"
)

// recordRun records one rational run of specsDir as run-1.
func recordRun(t *testing.T, db string) {
	t.Helper()
	opts := &SimplifyOptions{RootOptions: &RootOptions{Format: "text"}}
	_, _, err := runSimplifyCmd(t, opts, "--db", db, specsDir)
	require.NoError(t, err)
}

func TestHistoryListRuns(t *testing.T) {
	db := filepath.Join(t.TempDir(), "ludb.db")
	recordRun(t, db)

	out, _, err := execute(t, "history", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "1  run-1  RATIONAL_PWAFFINE(RATIONAL_BIGRAT)  linear  ")
}

func TestHistoryRunResults(t *testing.T) {
	db := filepath.Join(t.TempDir(), "ludb.db")
	recordRun(t, db)

	out, _, err := execute(t, "history", "--db", db, "run-1")
	require.NoError(t, err)
	assert.Equal(t, `run-1  tandem/order  linear  3/2 - s_0 + s_1 >= 0
run-1  tandem/scaled  linear  0 + 1/2*s_1 + 1/4*s_2 >= 0
run-1  tandem/objective  linear  0 + s_0 + s_1
run-1  offsets/shift  linear  -1/10 + s_0 - s_1 >= 0
`, out)
}

func TestHistoryConstraintAcrossRuns(t *testing.T) {
	db := filepath.Join(t.TempDir(), "ludb.db")
	ids := testutil.NewRunIDs("run")
	for _, b := range []string{"rational", "decimal"} {
		opts := &SimplifyOptions{RootOptions: &RootOptions{Format: "text", Backend: b}, IDs: ids}
		var out, errOut bytes.Buffer
		cmd := newSimplifyCommand(opts)
		cmd.SetOut(&out)
		cmd.SetErr(&errOut)
		cmd.SetArgs([]string{"--db", db, specsDir})
		require.NoError(t, cmd.Execute())
	}

	out, _, err := execute(t, "history", "--db", db, "--system", "offsets", "--constraint", "shift", "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Data []store.Result `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data, 2)
	assert.Equal(t, "run-1", resp.Data[0].RunID)
	assert.Equal(t, "run-2", resp.Data[1].RunID)
	assert.Equal(t, "-1/10", resp.Data[0].Constraint.Difference.Constant)
	assert.Equal(t, "-0.1", resp.Data[1].Constraint.Difference.Constant)
	assert.NotEqual(t, resp.Data[0].ID, resp.Data[1].ID, "backend is part of the result id")
}

func TestHistoryErrors(t *testing.T) {
	db := filepath.Join(t.TempDir(), "ludb.db")
	recordRun(t, db)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing database", []string{"history", "--db", filepath.Join(t.TempDir(), "absent.db")}, "database not found"},
		{"unknown run", []string{"history", "--db", db, "run-9"}, "unknown run"},
		{"system without constraint", []string{"history", "--db", db, "--system", "tandem"}, "must be given together"},
		{"run id with system", []string{"history", "--db", db, "run-1", "--system", "a", "--constraint", "b"}, "excludes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestHistoryRequiresDB(t *testing.T) {
	_, _, err := execute(t, "history")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `required flag(s) "db" not set`)
}

func TestRunListEmpty(t *testing.T) {
	assert.Equal(t, "No runs recorded.", RunList{}.String())
	assert.Equal(t, "No results.", ResultList{}.String())
}
