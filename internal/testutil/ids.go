// Package testutil holds deterministic helpers shared by tests.
package testutil

import (
	"fmt"
	"sync"
)

// RunIDs hands out "<prefix>-1", "<prefix>-2", ... in order. It satisfies
// analysis.IDGenerator, so a test can record several runs with predictable
// ids and replay them after Reset.
//
// Thread-safety: all methods are safe for concurrent use.
type RunIDs struct {
	mu     sync.Mutex
	prefix string
	seq    int64
}

// NewRunIDs creates a generator. An empty prefix means "run".
func NewRunIDs(prefix string) *RunIDs {
	if prefix == "" {
		prefix = "run"
	}
	return &RunIDs{prefix: prefix}
}

// Generate returns the next id. The first call returns "<prefix>-1".
func (g *RunIDs) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	return fmt.Sprintf("%s-%d", g.prefix, g.seq)
}

// Current returns how many ids have been generated since the last Reset.
func (g *RunIDs) Current() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.seq
}

// Reset restarts the sequence; the next Generate returns "<prefix>-1".
func (g *RunIDs) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq = 0
}
