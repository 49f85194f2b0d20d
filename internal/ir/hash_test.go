package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSystem() SystemSpec {
	return SystemSpec{
		Name: "tandem",
		Constraints: []ConstraintSpec{
			{Name: "c1", Node: NodeSpec{Geq: []NodeSpec{VarNode(1), LitNode("5")}}},
		},
	}
}

func TestResultIDDeterminism(t *testing.T) {
	payload := Object{"status": String(StatusLinear)}

	id1, err := ResultID("RATIONAL_PWAFFINE", "tandem", "c1", payload)
	require.NoError(t, err)
	id2, err := ResultID("RATIONAL_PWAFFINE", "tandem", "c1", payload)
	require.NoError(t, err)

	assert.Equal(t, id1, id2)
	assert.Len(t, id1, 64, "SHA-256 hex is 64 characters")
}

func TestResultIDChangesWithInput(t *testing.T) {
	payload := Object{"status": String(StatusLinear)}

	id := MustResultID("RATIONAL_PWAFFINE", "tandem", "c1", payload)
	assert.NotEqual(t, id, MustResultID("DOUBLE_PWAFFINE", "tandem", "c1", payload))
	assert.NotEqual(t, id, MustResultID("RATIONAL_PWAFFINE", "other", "c1", payload))
	assert.NotEqual(t, id, MustResultID("RATIONAL_PWAFFINE", "tandem", "c2", payload))
	assert.NotEqual(t, id, MustResultID("RATIONAL_PWAFFINE", "tandem", "c1", Object{"status": String(StatusFailed)}))
}

func TestDomainSeparation(t *testing.T) {
	data := []byte(`{"a":1}`)
	assert.NotEqual(t, hashWithDomain(DomainResult, data), hashWithDomain(DomainSystem, data))
}

func TestSystemDigest(t *testing.T) {
	a := sampleSystem()
	b := sampleSystem()
	assert.Equal(t, MustSystemDigest(a), MustSystemDigest(b))

	b.Constraints[0].Node = NodeSpec{Geq: []NodeSpec{VarNode(1), LitNode("6")}}
	assert.NotEqual(t, MustSystemDigest(a), MustSystemDigest(b))

	b = sampleSystem()
	b.Description = "two servers"
	assert.NotEqual(t, MustSystemDigest(a), MustSystemDigest(b))
}
