package cytoplasm

import (
	"strconv"

	"github.com/smilemakc/numbo/internal/numbo/animation"
	"github.com/smilemakc/numbo/internal/numbo/slipnet"
)

func parseInt(s string) (int, error) { return strconv.Atoi(s) }

// Named urgency bands mirrored from the rack package to avoid a dependency
// cycle (cytoplasm must not import the codelet package, which is the
// eventual consumer of these FollowupSpec values).
const (
	urgencyLow     = 10
	urgencyMid     = 30
	urgencyHigh    = 70
	urgencyHighest = 100
)

// FollowupSpec is plain data describing a codelet to enqueue, produced by
// Cytoplasm operations that the spec requires to "return follow-up
// (codelet, urgency) pairs" (create_block, destroy_block, adjust_temp).
// Cytoplasm cannot return executable Codelet closures directly without
// importing the codelet package, which itself must import cytoplasm to
// operate on it — so, following spec.md §9's tagged-variant guidance, it
// returns a tagged description instead; the codelet package's catalog
// translates each Kind into a concrete closure, the same way the teacher's
// NodeExecutor registry dispatches a NodeType to its handler.
type FollowupSpec struct {
	Kind    string
	Urgency int
	Block   *Node
	Node    *Node
	Label   string
	// Fired carries slipnet templates produced by an internal Activate
	// call, so the caller's catalog can instantiate them uniformly with
	// any other fired template.
	Fired []slipnet.FiredTemplate
}

// Cytoplasm is the workspace of problem-instance nodes.
type Cytoplasm struct {
	nodes       []*Node
	temperature int
	target      *Node
	done        bool
	sink        animation.Sink
}

// New returns an empty Cytoplasm bound to the given animation sink. A nil
// sink is replaced with animation.NoopSink{}.
func New(sink animation.Sink) *Cytoplasm {
	if sink == nil {
		sink = animation.NoopSink{}
	}
	return &Cytoplasm{sink: sink}
}

// Done reports whether a block matching the target has been found.
func (c *Cytoplasm) Done() bool { return c.done }

// SetDone marks the workspace solved.
func (c *Cytoplasm) SetDone() { c.done = true }

// Target returns the single TARGET node for this run, or nil before
// read_target has run.
func (c *Cytoplasm) Target() *Node { return c.target }

// Temperature returns the current workspace temperature in [0, 100].
func (c *Cytoplasm) Temperature() int { return c.temperature }

// Nodes returns every node ever appended, including destroyed ones.
func (c *Cytoplasm) Nodes() []*Node { return c.nodes }

// NewNode constructs a cyto node without appending it, so callers can link
// it to other nodes before the append's animation event fires.
func (c *Cytoplasm) NewNode(label string, kind Kind, concept *slipnet.Node) *Node {
	return newNode(label, kind, concept)
}

// Append adds a cyto node to the workspace and emits an add_node animation
// event, per spec.md §4.3.
func (c *Cytoplasm) Append(n *Node) {
	c.nodes = append(c.nodes, n)
	if n.kind == KindTarget {
		c.target = n
	}
	c.sink.AddNode(n.id, string(n.kind), n.label)
}

// FindExact returns the first matching free cyto node whose label equals
// label and whose kind is in allowedKinds. If a node with that label
// exists but is not free, the search fails outright rather than falling
// back to a different node (spec.md §4.3).
func (c *Cytoplasm) FindExact(label string, allowedKinds ...Kind) *Node {
	for _, n := range c.nodes {
		if n.label != label || !kindAllowed(n.kind, allowedKinds) {
			continue
		}
		if n.status != StatusFree {
			return nil
		}
		return n
	}
	return nil
}

// FindNear returns the first free cyto node whose slipnet back-reference
// has a "similar" link to a node of the given label.
func (c *Cytoplasm) FindNear(label string, allowedKinds ...Kind) *Node {
	for _, n := range c.nodes {
		if n.status != StatusFree || !kindAllowed(n.kind, allowedKinds) || n.concept == nil {
			continue
		}
		for _, link := range n.concept.Links() {
			if link.Relationship() != nil && link.Relationship().Label() == slipnet.RelSimilar && link.To().Label() == label {
				return n
			}
		}
	}
	return nil
}

// FindByKind returns every node whose kind and status are both allowed.
func (c *Cytoplasm) FindByKind(allowedKinds []Kind, allowedStatuses []Status) []*Node {
	var out []*Node
	for _, n := range c.nodes {
		if kindAllowed(n.kind, allowedKinds) && statusAllowed(n.status, allowedStatuses) {
			out = append(out, n)
		}
	}
	return out
}

func kindAllowed(k Kind, allowed []Kind) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, a := range allowed {
		if a == k {
			return true
		}
	}
	return false
}

func statusAllowed(s Status, allowed []Status) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, a := range allowed {
		if a == s {
			return true
		}
	}
	return false
}

// CreateBlock marks left and right taken, builds the OPERATION/BLOCK pair,
// and returns the follow-up codelet specs spec.md §4.3 mandates.
func (c *Cytoplasm) CreateBlock(opSymbol string, result int, left, right *Node, sn *slipnet.Slipnet) (*Node, []FollowupSpec) {
	left.MarkTaken()
	right.MarkTaken()

	op := newNode(opSymbol, KindOperation, nil)
	op.addLink(left)
	op.addLink(right)
	c.Append(op)
	c.sink.AddEdge(op.id, left.id, "operand")
	c.sink.AddEdge(op.id, right.id, "operand")

	resultLabel := strconv.Itoa(result)
	concept := sn.Get(resultLabel)
	block := newNode(resultLabel, KindBlock, concept)
	block.addLink(op)
	block.attractiveness = result
	c.Append(block)
	c.sink.AddEdge(block.id, op.id, "operation")

	c.adjustTempNoFollowups(-20)

	if c.target != nil && block.label == c.target.label {
		c.done = true
	}

	followups := []FollowupSpec{{Kind: "match_target", Urgency: urgencyHighest, Block: block}}

	if concept == nil {
		followups = append(followups, FollowupSpec{Kind: "find_syntactically_similar", Urgency: urgencyLow, Node: block})
	} else {
		fired, _ := sn.Activate(resultLabel, slipnet.Mid)
		if len(fired) > 0 {
			followups = append(followups, FollowupSpec{Kind: "slipnet_fired", Fired: fired})
		}
	}

	return block, followups
}

// DestroyBlock frees the block's operands, reactivates their slipnet
// concepts, destroys the block/operation pair and its secondaries, and
// returns the spreading-activation follow-ups produced.
func (c *Cytoplasm) DestroyBlock(block *Node, sn *slipnet.Slipnet) []FollowupSpec {
	if block.status == StatusDestroyed {
		return nil
	}

	var followups []FollowupSpec
	if len(block.links) == 1 {
		op := block.links[0]
		for _, operand := range op.links {
			operand.MarkFree()
			fired, ok := sn.Activate(operand.label, slipnet.Low)
			if ok && len(fired) > 0 {
				followups = append(followups, FollowupSpec{Kind: "slipnet_fired", Fired: fired})
			}
		}
		op.MarkDestroyed()
		c.sink.RemoveNode(op.id)
	}

	for _, sec := range block.secondaries {
		sec.MarkDestroyed()
		c.sink.RemoveNode(sec.id)
	}

	block.MarkDestroyed()
	c.sink.RemoveNode(block.id)

	c.adjustTempNoFollowups(-20)

	return followups
}

// StepAttractiveness decrements every free BLOCK's attractiveness by 1,
// floored at 0.
func (c *Cytoplasm) StepAttractiveness() {
	for _, n := range c.nodes {
		if n.kind == KindBlock && n.status == StatusFree && n.attractiveness > 0 {
			n.attractiveness--
		}
	}
}

// AdjustTemp adds delta to the temperature, clamps the result to [0, 100] and, if the
// unclamped value would exceed 100, enqueues a propose_destruction
// follow-up at HIGH urgency (temperature is a pressure-release valve).
func (c *Cytoplasm) AdjustTemp(delta int) []FollowupSpec {
	raw := c.temperature + delta
	c.temperature = clampTemp(raw)
	if raw > 100 {
		return []FollowupSpec{{Kind: "propose_destruction", Urgency: urgencyHigh}}
	}
	return nil
}

// adjustTempNoFollowups is AdjustTemp without the overheat follow-up, used
// internally by CreateBlock/DestroyBlock whose own return value already
// carries a more specific follow-up list. Both callers only lower the
// temperature, so no overheat follow-up is lost by skipping it here.
func (c *Cytoplasm) adjustTempNoFollowups(delta int) {
	c.temperature = clampTemp(c.temperature + delta)
}

func clampTemp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// Link adds a structural link from one cyto node to another, emitting an
// add_edge animation event.
func (c *Cytoplasm) Link(from, to *Node, relationship string) {
	from.addLink(to)
	c.sink.AddEdge(from.id, to.id, relationship)
}

// AddSecondary links sec as a secondary of block.
func (c *Cytoplasm) AddSecondary(block, sec *Node) {
	block.addSecondary(sec)
}

// LabelNode overwrites an existing node's workspace label and emits a
// label_node animation event.
func (c *Cytoplasm) LabelNode(n *Node, label string) {
	n.label = label
	c.sink.LabelNode(n.id, label)
}

// Sink exposes the bound animation sink so the driver can call NextStep
// directly between steps.
func (c *Cytoplasm) Sink() animation.Sink { return c.sink }
