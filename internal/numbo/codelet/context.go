// Package codelet implements the dozen codelet kinds of spec.md §4.4: the
// tasks that read and write the Slipnet and Cytoplasm and enqueue further
// tasks into the Rack. Each codelet is a nullary action closed over its
// arguments (spec.md §9's "tagged variant carrying its own payload"),
// modeled after the teacher's NodeExecutor registry
// (internal/application/engine/node_executor.go) except a Numbo codelet
// closes directly over its payload instead of looking one up from a shared
// registry by type.
package codelet

import (
	"math/rand"

	"github.com/smilemakc/numbo/internal/numbo/cytoplasm"
	"github.com/smilemakc/numbo/internal/numbo/rack"
	"github.com/smilemakc/numbo/internal/numbo/slipnet"
)

// Context threads the Slipnet, Cytoplasm, Rack, RNG, and remaining input
// bricks through every codelet invocation (spec.md §9: "thread an explicit
// context carrying references... through every codelet invocation").
type Context struct {
	Slipnet   *slipnet.Slipnet
	Cytoplasm *cytoplasm.Cytoplasm
	Rack      *rack.Rack
	RNG       *rand.Rand
	Bricks    *BrickPool
}

// Codelet is a nullary action that, given a Context, returns zero or more
// follow-up (codelet, urgency) pairs.
type Codelet func(ctx *Context) []Followup

// Followup pairs a Codelet with the urgency it should be enqueued at.
type Followup struct {
	Codelet Codelet
	Urgency int
}

// BrickPool holds the not-yet-read input bricks. read_brick pops one
// uniformly at random per spec.md §4.4.
type BrickPool struct {
	remaining []string
}

// NewBrickPool returns a pool seeded with the given bricks.
func NewBrickPool(bricks []string) *BrickPool {
	return &BrickPool{remaining: append([]string(nil), bricks...)}
}

// Len returns the number of bricks not yet read.
func (p *BrickPool) Len() int { return len(p.remaining) }

// PopRandom removes and returns one brick uniformly at random, or reports
// ok == false if the pool is empty.
func (p *BrickPool) PopRandom(rng *rand.Rand) (string, bool) {
	if len(p.remaining) == 0 {
		return "", false
	}
	i := rng.Intn(len(p.remaining))
	label := p.remaining[i]
	p.remaining = append(p.remaining[:i], p.remaining[i+1:]...)
	return label, true
}
