// Package numbo wires the Rack, Slipnet, Cytoplasm, and driver loop behind
// the single public entry point spec.md §6 describes: Solve(Input) ->
// Result. This is the facade cmd/numbo, cmd/numboserver and
// internal/schedule call into, the way the teacher's own cmd/ binaries call
// into its workflow engine rather than constructing engine internals
// themselves.
package numbo

import (
	"context"
	"math/rand"
	"time"

	"github.com/smilemakc/numbo/internal/infrastructure/logger"
	"github.com/smilemakc/numbo/internal/numbo/animation"
	"github.com/smilemakc/numbo/internal/numbo/codelet"
	"github.com/smilemakc/numbo/internal/numbo/cytoplasm"
	"github.com/smilemakc/numbo/internal/numbo/driver"
	"github.com/smilemakc/numbo/internal/numboerr"
	"github.com/smilemakc/numbo/internal/numbo/rack"
	"github.com/smilemakc/numbo/internal/numbo/slipnet"
)

// Input is the problem instance spec.md §6 describes: a target integer
// (as a string) and a non-empty ordered multiset of brick strings.
type Input struct {
	Target string
	Bricks []string
}

// Result is spec.md §6's output: whether a solution was found, its
// rendered block tree, the step count consumed, and (when unsolved) which
// taxonomy entry (spec.md §7) ended the run.
type Result struct {
	Solved bool
	Tree   string
	Steps  int
	Reason numboerr.Reason
}

// Options configures one Solve call. A zero-value Options is valid and
// uses spec.md's defaults (step cap 150, a time-seeded RNG, no animation
// sink).
type Options struct {
	StepCap int
	// DecayInterval overrides the slipnet decay cadence (spec.md §4.5 step
	// 2's "every 10 steps"); zero uses the spec default.
	DecayInterval int
	Seed          int64
	// SeedSet distinguishes "Seed: 0 supplied explicitly" from "Seed not
	// supplied": the zero value of int64 is itself a valid seed.
	SeedSet bool
	Sink    animation.Sink
	Logger  *logger.Logger
}

// Solve runs one Numbo problem instance to completion. Each call
// constructs its own Rack, Slipnet, and Cytoplasm — no state is shared
// across calls, so concurrent Solve invocations (from the HTTP server or
// the scheduled self-test) never interfere with one another (SPEC_FULL.md
// §5).
func Solve(ctx context.Context, input Input, opts Options) Result {
	seed := opts.Seed
	if !opts.SeedSet {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	sn := slipnet.Seed()
	cy := cytoplasm.New(opts.Sink)

	cctx := &codelet.Context{
		Slipnet:   sn,
		Cytoplasm: cy,
		Rack:      rack.New(),
		RNG:       rng,
		Bricks:    codelet.NewBrickPool(input.Bricks),
	}

	cfg := driver.DefaultConfig()
	if opts.StepCap > 0 {
		cfg.StepCap = opts.StepCap
	}
	if opts.DecayInterval > 0 {
		cfg.DecayInterval = opts.DecayInterval
	}

	log := opts.Logger
	if log == nil {
		log = logger.Default()
	}

	outcome := driver.Run(ctx, cctx, input.Target, input.Bricks, cfg, log)

	result := Result{
		Solved: cy.Done(),
		Steps:  outcome.Steps,
		Reason: outcome.Reason,
	}
	if result.Solved {
		if block := solutionBlock(cy, input.Target); block != nil {
			result.Tree = block.Tree()
		}
	}
	return result
}

// solutionBlock finds the live BLOCK whose label equals the target —
// the node that flipped Cytoplasm.Done(), located after the fact since
// match_target does not itself hand back a stable reference to its caller.
func solutionBlock(cy *cytoplasm.Cytoplasm, target string) *cytoplasm.Node {
	var found *cytoplasm.Node
	for _, n := range cy.Nodes() {
		if n.Kind() == cytoplasm.KindBlock && n.Label() == target && n.Status() != cytoplasm.StatusDestroyed {
			found = n
		}
	}
	return found
}
