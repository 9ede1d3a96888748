package codelet

import (
	"strconv"

	"github.com/smilemakc/numbo/internal/numbo/cytoplasm"
	"github.com/smilemakc/numbo/internal/numbo/rack"
	"github.com/smilemakc/numbo/internal/numbo/slipnet"
)

// ReadTarget appends a TARGET cyto node for input.target and activates its
// slipnet concept, or falls back to find_syntactically_similar when no
// concept exists for that exact label. Activates "multiplication" when the
// target exceeds 20, otherwise "addition" and "subtraction".
func ReadTarget(target string) Codelet {
	return func(ctx *Context) []Followup {
		concept := ctx.Slipnet.Get(target)
		n := ctx.Cytoplasm.NewNode(target, cytoplasm.KindTarget, concept)
		ctx.Cytoplasm.Append(n)

		var follow []Followup
		if concept == nil {
			follow = append(follow, Followup{Codelet: FindSyntacticallySimilar(n), Urgency: rack.Low})
		} else if fired, ok := ctx.Slipnet.Activate(target, slipnet.High); ok {
			follow = append(follow, instantiateFired(fired)...)
		}

		if v, err := strconv.Atoi(target); err == nil {
			if v > 20 {
				if fired, ok := ctx.Slipnet.Activate(slipnet.ConceptMultiplication, slipnet.High); ok {
					follow = append(follow, instantiateFired(fired)...)
				}
			} else {
				if fired, ok := ctx.Slipnet.Activate(slipnet.ConceptAddition, slipnet.High); ok {
					follow = append(follow, instantiateFired(fired)...)
				}
				if fired, ok := ctx.Slipnet.Activate(slipnet.ConceptSubtraction, slipnet.High); ok {
					follow = append(follow, instantiateFired(fired)...)
				}
			}
		}
		return follow
	}
}

// ReadBrick pops one brick uniformly at random from the remaining input
// list, appends a BRICK cyto node whose attractiveness equals its integer
// value, and activates its slipnet concept (or enqueues a similarity
// search).
func ReadBrick() Codelet {
	return func(ctx *Context) []Followup {
		label, ok := ctx.Bricks.PopRandom(ctx.RNG)
		if !ok {
			return nil
		}
		concept := ctx.Slipnet.Get(label)
		n := ctx.Cytoplasm.NewNode(label, cytoplasm.KindBrick, concept)
		if v, err := strconv.Atoi(label); err == nil {
			n.SetAttractiveness(v)
		}
		ctx.Cytoplasm.Append(n)

		if concept == nil {
			return []Followup{{Codelet: FindSyntacticallySimilar(n), Urgency: rack.Low}}
		}
		fired, _ := ctx.Slipnet.Activate(label, slipnet.Mid)
		return instantiateFired(fired)
	}
}

// FindSyntacticallySimilar computes the rounded label (keep the leading
// digit, zero-fill the rest) and activates that concept at LOW if present,
// rebinding node's slipnet back-reference to it.
func FindSyntacticallySimilar(node *cytoplasm.Node) Codelet {
	return func(ctx *Context) []Followup {
		v, err := strconv.Atoi(node.Label())
		if err != nil {
			return nil
		}
		label := strconv.Itoa(slipnet.RoundedLabel(v))
		fired, ok := ctx.Slipnet.Activate(label, slipnet.Low)
		if !ok {
			return nil
		}
		node.SetConcept(ctx.Slipnet.Lookup(label))
		return instantiateFired(fired)
	}
}

// ProposeOperation inspects the firing concept instance's "requires" links
// to collect the labels required as operands (falling back to a weighted
// draw over free workspace items when the firing node carries none, i.e.
// when a bare operation concept fired directly rather than a specific
// arithmetic-fact instance) and enqueues seek_reasonable_facsimile seeded
// with those labels and the bound operation.
func ProposeOperation(operation string, conceptInstance *slipnet.Node) Codelet {
	return func(ctx *Context) []Followup {
		var desired []string
		for _, link := range conceptInstance.Links() {
			if link.Relationship() != nil && link.Relationship().Label() == slipnet.RelRequires {
				desired = append(desired, link.To().Label())
			}
		}

		if len(desired) < 2 {
			candidates := ctx.Cytoplasm.FindByKind(
				[]cytoplasm.Kind{cytoplasm.KindBrick, cytoplasm.KindBlock},
				[]cytoplasm.Status{cytoplasm.StatusFree},
			)
			if len(candidates) < 2 {
				return nil
			}
			picks := rack.New()
			for _, n := range candidates {
				picks.Add(n.Label(), n.Attractiveness())
			}
			a := picks.Take(ctx.RNG).(string)
			b := picks.Take(ctx.RNG).(string)
			desired = []string{a, b}
		}

		return []Followup{{Codelet: SeekReasonableFacsimile(desired[:2], operation, 0), Urgency: rack.Mid}}
	}
}

// SeekReasonableFacsimile tries find_exact then find_near for each desired
// label, marking found nodes pending to avoid double-selection. On a full
// match it frees them, cools the workspace, and enqueues the arithmetic
// operation bound to the found operands. On a partial match it frees
// whatever it pended, heats the workspace, and enqueues one retry while
// attempt < 2, so a search started at attempt 0 runs at most three times.
//
// The source's version of this codelet has a dead break after an
// unreachable flag set (spec.md §9); this reimplementation keeps the
// observable behavior the dead code gestures at — stop collecting as soon
// as one desired label cannot be satisfied.
func SeekReasonableFacsimile(desiredLabels []string, operation string, attempt int) Codelet {
	return func(ctx *Context) []Followup {
		var found []*cytoplasm.Node
		complete := true
		for _, label := range desiredLabels {
			n := ctx.Cytoplasm.FindExact(label, cytoplasm.KindBrick, cytoplasm.KindBlock)
			if n == nil {
				n = ctx.Cytoplasm.FindNear(label, cytoplasm.KindBrick, cytoplasm.KindBlock)
			}
			if n == nil {
				complete = false
				break
			}
			n.MarkPending()
			found = append(found, n)
		}

		if complete {
			for _, n := range found {
				n.MarkFree()
			}
			ctx.Cytoplasm.AdjustTemp(-5)
			if len(found) >= 2 {
				var op Codelet
				switch operation {
				case "+":
					op = OperationAdd(found[0], found[1])
				case "-":
					op = OperationSubtract(found[0], found[1])
				case "*":
					op = OperationMultiply(found[0], found[1])
				}
				if op != nil {
					return []Followup{{Codelet: op, Urgency: rack.Mid}}
				}
			}
			return nil
		}

		for _, n := range found {
			n.MarkFree()
		}
		result := instantiateSpecs(ctx.Cytoplasm.AdjustTemp(10))
		if attempt < 2 {
			result = append(result, Followup{
				Codelet: SeekReasonableFacsimile(desiredLabels, operation, attempt+1),
				Urgency: rack.Low,
			})
		}
		return result
	}
}

// urgencyForResult computes the urgency spec.md §4.4 assigns to a proposed
// arithmetic result based on its distance to the nearest live TARGET or
// SECONDARY label.
func urgencyForResult(c *cytoplasm.Cytoplasm, result int) int {
	minDist := -1
	for _, t := range c.FindByKind([]cytoplasm.Kind{cytoplasm.KindTarget, cytoplasm.KindSecondary}, nil) {
		if t.Status() == cytoplasm.StatusDestroyed {
			continue
		}
		v, err := strconv.Atoi(t.Label())
		if err != nil {
			continue
		}
		d := v - result
		if d < 0 {
			d = -d
		}
		if minDist == -1 || d < minDist {
			minDist = d
		}
	}
	switch {
	case minDist < 0:
		return 1
	case minDist <= 10:
		return rack.High
	case minDist <= 20:
		return rack.Low
	case minDist <= 100:
		return rack.Micro
	default:
		return 1
	}
}

// OperationAdd computes left + right if both operands are still free.
func OperationAdd(left, right *cytoplasm.Node) Codelet {
	return func(ctx *Context) []Followup {
		if !left.IsFree() || !right.IsFree() {
			return nil
		}
		l, errl := strconv.Atoi(left.Label())
		r, errr := strconv.Atoi(right.Label())
		if errl != nil || errr != nil {
			return nil
		}
		result := l + r
		return []Followup{{Codelet: CreateBlockCodelet("+", result, left, right), Urgency: urgencyForResult(ctx.Cytoplasm, result)}}
	}
}

// OperationSubtract computes left - right if both operands are free and
// left > right; otherwise aborts (Underflow).
func OperationSubtract(left, right *cytoplasm.Node) Codelet {
	return func(ctx *Context) []Followup {
		if !left.IsFree() || !right.IsFree() {
			return nil
		}
		l, errl := strconv.Atoi(left.Label())
		r, errr := strconv.Atoi(right.Label())
		if errl != nil || errr != nil || l <= r {
			return nil
		}
		result := l - r
		return []Followup{{Codelet: CreateBlockCodelet("-", result, left, right), Urgency: urgencyForResult(ctx.Cytoplasm, result)}}
	}
}

// OperationMultiply computes left * right if both operands are free and
// neither is 1; otherwise aborts (Degenerate).
func OperationMultiply(left, right *cytoplasm.Node) Codelet {
	return func(ctx *Context) []Followup {
		if !left.IsFree() || !right.IsFree() {
			return nil
		}
		if left.Label() == "1" || right.Label() == "1" {
			return nil
		}
		l, errl := strconv.Atoi(left.Label())
		r, errr := strconv.Atoi(right.Label())
		if errl != nil || errr != nil {
			return nil
		}
		result := l * r
		return []Followup{{Codelet: CreateBlockCodelet("*", result, left, right), Urgency: urgencyForResult(ctx.Cytoplasm, result)}}
	}
}

// CreateBlockCodelet builds the BLOCK/OPERATION pair if both operands are
// still free; otherwise no-ops (StaleOperand).
func CreateBlockCodelet(symbol string, result int, left, right *cytoplasm.Node) Codelet {
	return func(ctx *Context) []Followup {
		if !left.IsFree() || !right.IsFree() {
			return nil
		}
		_, specs := ctx.Cytoplasm.CreateBlock(symbol, result, left, right, ctx.Slipnet)
		return instantiateSpecs(specs)
	}
}

// MatchTarget searches free TARGET/SECONDARY cyto nodes with block's
// label. A TARGET hit marks the run done; a SECONDARY hit rewards the
// block's attractiveness and destroys the secondary (its bookkeeping role
// is served); otherwise enqueues create_secondary_target.
func MatchTarget(block *cytoplasm.Node) Codelet {
	return func(ctx *Context) []Followup {
		if block.Status() == cytoplasm.StatusDestroyed {
			return nil
		}
		if target := ctx.Cytoplasm.FindExact(block.Label(), cytoplasm.KindTarget); target != nil {
			ctx.Cytoplasm.SetDone()
			return nil
		}
		if secondary := ctx.Cytoplasm.FindExact(block.Label(), cytoplasm.KindSecondary); secondary != nil {
			block.AddAttractiveness(10)
			var follow []Followup
			if concept := secondary.Concept(); concept != nil {
				if fired, ok := ctx.Slipnet.Activate(concept.Label(), slipnet.Mid); ok {
					follow = instantiateFired(fired)
				}
			}
			secondary.MarkDestroyed()
			return follow
		}
		return []Followup{{Codelet: CreateSecondaryTarget(block), Urgency: rack.High}}
	}
}

// CreateSecondaryTarget computes delta = |block.value - target.value| and
// appends a SECONDARY cyto node for it (and, when block and target are
// multiples of one another, a second SECONDARY for their integer ratio),
// linking them as the block's secondaries and activating matching slipnet
// concepts at MID.
func CreateSecondaryTarget(block *cytoplasm.Node) Codelet {
	return func(ctx *Context) []Followup {
		if !block.IsFree() {
			return nil
		}
		target := ctx.Cytoplasm.Target()
		if target == nil {
			return nil
		}
		bv, errb := strconv.Atoi(block.Label())
		tv, errt := strconv.Atoi(target.Label())
		if errb != nil || errt != nil {
			return nil
		}

		var follow []Followup
		follow = append(follow, appendSecondary(ctx, block, absInt(tv-bv))...)

		if bv != 0 && tv != 0 {
			if tv%bv == 0 && tv/bv > 1 {
				follow = append(follow, appendSecondary(ctx, block, tv/bv)...)
			} else if bv%tv == 0 && bv/tv > 1 {
				follow = append(follow, appendSecondary(ctx, block, bv/tv)...)
			}
		}
		return follow
	}
}

func appendSecondary(ctx *Context, block *cytoplasm.Node, value int) []Followup {
	label := strconv.Itoa(value)
	concept := ctx.Slipnet.Lookup(label)
	sec := ctx.Cytoplasm.NewNode(label, cytoplasm.KindSecondary, concept)
	ctx.Cytoplasm.Append(sec)
	ctx.Cytoplasm.AddSecondary(block, sec)
	ctx.Cytoplasm.Link(block, sec, "secondary")
	if concept == nil {
		return nil
	}
	fired, ok := ctx.Slipnet.Activate(label, slipnet.Mid)
	if !ok {
		return nil
	}
	return instantiateFired(fired)
}

// ProposeRandomOperation samples two free BRICK/BLOCK cyto nodes via a
// fresh, attractiveness-weighted Rack, samples one of {+, -, *} weighted
// by the operation concepts' current slipnet activation (skipping * when
// either operand is 1), and enqueues the corresponding arithmetic codelet
// at LOW. With 30% probability it re-enqueues itself at MICRO.
func ProposeRandomOperation() Codelet {
	return func(ctx *Context) []Followup {
		candidates := ctx.Cytoplasm.FindByKind(
			[]cytoplasm.Kind{cytoplasm.KindBrick, cytoplasm.KindBlock},
			[]cytoplasm.Status{cytoplasm.StatusFree},
		)
		if len(candidates) < 2 {
			return nil
		}

		picks := rack.New()
		for _, n := range candidates {
			picks.Add(n, n.Attractiveness())
		}
		a := picks.Take(ctx.RNG).(*cytoplasm.Node)
		b := picks.Take(ctx.RNG).(*cytoplasm.Node)

		ops := rack.New()
		ops.Add("+", conceptActivation(ctx, slipnet.ConceptAddition))
		ops.Add("-", conceptActivation(ctx, slipnet.ConceptSubtraction))
		if a.Label() != "1" && b.Label() != "1" {
			ops.Add("*", conceptActivation(ctx, slipnet.ConceptMultiplication))
		}
		op := ops.Take(ctx.RNG).(string)

		var chosen Codelet
		switch op {
		case "+":
			chosen = OperationAdd(a, b)
		case "-":
			chosen = OperationSubtract(a, b)
		case "*":
			chosen = OperationMultiply(a, b)
		}

		result := []Followup{{Codelet: chosen, Urgency: rack.Low}}
		if ctx.RNG.Float64() < 0.3 {
			result = append(result, Followup{Codelet: ProposeRandomOperation(), Urgency: rack.Micro})
		}
		return result
	}
}

func conceptActivation(ctx *Context, label string) int {
	n := ctx.Slipnet.Get(label)
	if n == nil {
		return rack.Micro
	}
	return n.Activation()
}

// ProposeDestruction scans free BLOCKs and selects the one with maximum
// attractiveness, enqueuing destroy_block against it.
func ProposeDestruction() Codelet {
	return func(ctx *Context) []Followup {
		blocks := ctx.Cytoplasm.FindByKind([]cytoplasm.Kind{cytoplasm.KindBlock}, []cytoplasm.Status{cytoplasm.StatusFree})
		if len(blocks) == 0 {
			return nil
		}
		best := blocks[0]
		for _, b := range blocks[1:] {
			if b.Attractiveness() > best.Attractiveness() {
				best = b
			}
		}
		return []Followup{{Codelet: DestroyBlockCodelet(best), Urgency: rack.Low}}
	}
}

// DestroyBlockCodelet delegates to Cytoplasm.DestroyBlock if the block is
// still free.
func DestroyBlockCodelet(block *cytoplasm.Node) Codelet {
	return func(ctx *Context) []Followup {
		if !block.IsFree() {
			return nil
		}
		return instantiateSpecs(ctx.Cytoplasm.DestroyBlock(block, ctx.Slipnet))
	}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
