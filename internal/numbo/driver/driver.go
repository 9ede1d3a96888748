// Package driver implements the Coderack driver loop of spec.md §4.5: the
// 2%-of-source glue that steps the Rack to termination, grounded on the
// teacher's DAG wave-executor (internal/application/engine/engine.go) for
// its overall shape — draw unit of work, run it, fold follow-ups back in,
// log one structured event per step — generalized from a topologically
// ordered executor to a stochastic, unordered one.
package driver

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/smilemakc/numbo/internal/infrastructure/logger"
	"github.com/smilemakc/numbo/internal/infrastructure/tracing"
	"github.com/smilemakc/numbo/internal/numbo/codelet"
	"github.com/smilemakc/numbo/internal/numbo/cytoplasm"
	"github.com/smilemakc/numbo/internal/numboerr"
	"github.com/smilemakc/numbo/internal/numbo/rack"
	"github.com/smilemakc/numbo/internal/numbo/slipnet"
)

// defaultDecayInterval is the "every 10 steps" cadence of spec.md §4.5
// step 2.
const defaultDecayInterval = 10

// overheatWatchStep is the step after which the late-game pressure rules
// of spec.md §4.5 step 5's third bullet engage.
const overheatWatchStep = 20

// Config bounds a single driver run.
type Config struct {
	// StepCap terminates the loop once reached, unsolved (default 150,
	// per spec.md §4.5).
	StepCap int
	// DecayInterval is the step cadence of slipnet decay (default 10, per
	// spec.md §4.5 step 2). Exposed as a tuning knob (NUMBO_DECAY_INTERVAL)
	// for self-test/experimentation; the spec's own behavior corresponds
	// to the default.
	DecayInterval int
}

// DefaultConfig returns the spec-mandated defaults.
func DefaultConfig() Config {
	return Config{StepCap: 150, DecayInterval: defaultDecayInterval}
}

// Outcome reports how a run ended.
type Outcome struct {
	Steps  int
	Reason numboerr.Reason
}

// Run drives ctx.Rack to termination: it seeds the initial population
// (one read_target at HIGH, one read_brick at MID per brick), then loops
// drawing and running codelets until the rack empties, the step cap is
// hit, or the cytoplasm reports done. It returns the step count and a
// Reason identifying why the run ended (empty string on success).
func Run(parentCtx context.Context, ctx *codelet.Context, target string, bricks []string, cfg Config, log *logger.Logger) Outcome {
	if cfg.StepCap <= 0 {
		cfg = DefaultConfig()
	}
	if cfg.DecayInterval <= 0 {
		cfg.DecayInterval = defaultDecayInterval
	}
	if log == nil {
		log = logger.Default()
	}

	runCtx, runSpan := tracing.StartSpan(parentCtx, "driver.run", trace.WithAttributes(
		attribute.String("numbo.target", target),
		attribute.Int("numbo.brick_count", len(bricks)),
	))
	defer runSpan.End()

	ctx.Rack.Add(codelet.ReadTarget(target), rack.High)
	for range bricks {
		ctx.Rack.Add(codelet.ReadBrick(), rack.Mid)
	}

	steps := 0
	for ctx.Rack.Len() > 0 && steps < cfg.StepCap && !ctx.Cytoplasm.Done() {
		select {
		case <-parentCtx.Done():
			return Outcome{Steps: steps, Reason: numboerr.ReasonCancelled}
		default:
		}

		drawn := ctx.Rack.Take(ctx.RNG)
		cd, ok := drawn.(codelet.Codelet)
		if !ok {
			continue
		}

		_, stepSpan := tracing.StartSpan(runCtx, "driver.codelet", trace.WithAttributes(
			attribute.Int("numbo.step", steps),
		))
		followups := cd(ctx)
		stepSpan.SetAttributes(attribute.Int("numbo.followups", len(followups)))
		stepSpan.End()
		log.Debug("codelet run", "step", steps, "followups", len(followups))

		if steps > 0 && steps%cfg.DecayInterval == 0 {
			ctx.Slipnet.StepDecay()
			reactivateFree(ctx)
		}

		for _, f := range followups {
			ctx.Rack.Add(f.Codelet, f.Urgency)
		}

		ctx.Cytoplasm.StepAttractiveness()

		applyPressureRules(ctx, steps, len(bricks))

		steps++
	}

	outcome := Outcome{Steps: steps}
	switch {
	case ctx.Cytoplasm.Done():
		outcome.Reason = numboerr.ReasonSolved
	case ctx.Rack.Len() == 0:
		outcome.Reason = numboerr.ReasonExhaustedPool
	default:
		outcome.Reason = numboerr.ReasonStepCapExceeded
	}

	log.Info("run finished", "steps", outcome.Steps, "reason", string(outcome.Reason), "solved", ctx.Cytoplasm.Done())
	return outcome
}

// reactivateFree activates every free TARGET/BRICK's slipnet
// back-reference at MID, per spec.md §4.5 step 2's "additionally activate
// every free TARGET/BRICK's back-reference at MID".
func reactivateFree(ctx *codelet.Context) {
	nodes := ctx.Cytoplasm.FindByKind(
		[]cytoplasm.Kind{cytoplasm.KindTarget, cytoplasm.KindBrick},
		[]cytoplasm.Status{cytoplasm.StatusFree},
	)
	for _, n := range nodes {
		concept := n.Concept()
		if concept == nil {
			continue
		}
		fired, ok := ctx.Slipnet.Activate(concept.Label(), slipnet.Mid)
		if !ok {
			continue
		}
		for _, f := range codelet.InstantiateFired(fired) {
			ctx.Rack.Add(f.Codelet, f.Urgency)
		}
	}
}

// applyPressureRules implements spec.md §4.5 step 5's three pressure
// rules, evaluated once per step after attractiveness decay.
func applyPressureRules(ctx *codelet.Context, step, brickCount int) {
	freeItems := ctx.Cytoplasm.FindByKind(
		[]cytoplasm.Kind{cytoplasm.KindBrick, cytoplasm.KindBlock},
		[]cytoplasm.Status{cytoplasm.StatusFree},
	)
	if len(freeItems) < 2 {
		ctx.Rack.Add(codelet.ProposeDestruction(), rack.Low)
	}

	if ctx.Rack.Len() < 2 && step >= brickCount {
		blocks := ctx.Cytoplasm.FindByKind([]cytoplasm.Kind{cytoplasm.KindBlock}, nil)
		if len(blocks) == 0 {
			ctx.Rack.Add(codelet.ProposeRandomOperation(), rack.Low)
		}
	}

	if step > overheatWatchStep && ctx.Rack.Len() < 2 {
		temp := ctx.Cytoplasm.Temperature()
		switch {
		case temp < 10:
			ctx.Rack.Add(codelet.ProposeDestruction(), rack.Mid)
		case temp >= 30:
			ctx.Rack.Add(codelet.ProposeRandomOperation(), rack.Mid)
		}
	}
}

