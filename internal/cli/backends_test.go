package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackendsText(t *testing.T) {
	out, _, err := execute(t, "backends")
	require.NoError(t, err)
	assert.Equal(t, `RATIONAL_PWAFFINE(RATIONAL_BIGRAT) (default)
DOUBLE_PWAFFINE(REAL_DOUBLE_PRECISION)
DECIMAL_PWAFFINE(DECIMAL_APD)
`, out)
}

func TestBackendsJSON(t *testing.T) {
	out, _, err := execute(t, "backends", "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Status string        `json:"status"`
		Data   []BackendInfo `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	require.Len(t, resp.Data, 3)
	assert.Equal(t, BackendInfo{
		Kind:        "RATIONAL_PWAFFINE",
		Description: "RATIONAL_PWAFFINE(RATIONAL_BIGRAT)",
		Default:     true,
	}, resp.Data[0])
	assert.False(t, resp.Data[2].Default)
}
