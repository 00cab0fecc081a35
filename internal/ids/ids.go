// Package ids provides the identifier generator injected into the planner
// and import engines, so tests can supply deterministic generators instead
// of relying on process-global state.
package ids

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Generator mints identifiers for newly created meal entries.
type Generator interface {
	NewID() string
}

// Runtime combines a coarse timestamp with an atomic counter. The counter
// makes IDs unique within a process even when the clock does not advance;
// the uuid suffix keeps them unique across restarts.
type Runtime struct {
	counter atomic.Int64
}

// NewRuntime returns the production generator.
func NewRuntime() *Runtime {
	return &Runtime{}
}

func (g *Runtime) NewID() string {
	n := g.counter.Add(1)
	return fmt.Sprintf("%x-%d-%s", time.Now().Unix(), n, uuid.NewString()[:8])
}

// Sequence is a deterministic generator for tests: prefix-1, prefix-2, ...
type Sequence struct {
	prefix  string
	counter atomic.Int64
}

// NewSequence returns a deterministic generator with the given prefix.
func NewSequence(prefix string) *Sequence {
	return &Sequence{prefix: prefix}
}

func (g *Sequence) NewID() string {
	return fmt.Sprintf("%s-%d", g.prefix, g.counter.Add(1))
}
