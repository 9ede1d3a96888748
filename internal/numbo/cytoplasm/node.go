// Package cytoplasm implements the Numbo workspace (spec.md §4.3): a
// mutable set of problem-instance nodes (bricks, blocks, targets) with a
// temperature that modulates creative vs. destructive behavior. Node is
// modeled on the teacher's domain.NodeExecutionState
// (internal/domain/node_state.go) — a private-fields-plus-constructor value
// object whose status transitions through named methods — generalized
// here from workflow-execution lifecycle to Numbo's free/pending/taken/
// destroyed states.
package cytoplasm

import (
	"github.com/google/uuid"

	"github.com/smilemakc/numbo/internal/numbo/slipnet"
)

// Kind identifies a cyto node's role in the workspace.
type Kind string

const (
	KindTarget    Kind = "TARGET"
	KindSecondary Kind = "SECONDARY"
	KindBrick     Kind = "BRICK"
	KindBlock     Kind = "BLOCK"
	KindOperation Kind = "OPERATION"
)

// Status is a cyto node's position in the free/pending/taken/destroyed
// state machine (spec.md §4.3).
type Status string

const (
	StatusFree      Status = "free"
	StatusPending   Status = "pending"
	StatusTaken     Status = "taken"
	StatusDestroyed Status = "destroyed"
)

// Node is one workspace element: a brick, a constructed block, the
// operation inside a block, a target, or a secondary target.
type Node struct {
	id             uuid.UUID
	label          string
	kind           Kind
	concept        *slipnet.Node
	status         Status
	attractiveness int
	links          []*Node
	secondaries    []*Node
}

func newNode(label string, kind Kind, concept *slipnet.Node) *Node {
	return &Node{
		id:             uuid.New(),
		label:          label,
		kind:           kind,
		concept:        concept,
		status:         StatusFree,
		attractiveness: 0,
	}
}

// ID returns the node's stable handle.
func (n *Node) ID() uuid.UUID { return n.id }

// Label returns the node's label.
func (n *Node) Label() string { return n.label }

// Kind returns the node's workspace role.
func (n *Node) Kind() Kind { return n.kind }

// Concept returns the corresponding slipnet concept node, or nil if no
// concept exists for this exact label.
func (n *Node) Concept() *slipnet.Node { return n.concept }

// SetConcept rebinds the node's slipnet back-reference, used by
// find_syntactically_similar when an unknown label acquires a rounded
// conceptual anchor after the fact.
func (n *Node) SetConcept(c *slipnet.Node) { n.concept = c }

// Status returns the node's current lifecycle status.
func (n *Node) Status() Status { return n.status }

// Attractiveness returns the node's current attractiveness counter.
func (n *Node) Attractiveness() int { return n.attractiveness }

// SetAttractiveness overwrites the attractiveness counter.
func (n *Node) SetAttractiveness(v int) { n.attractiveness = v }

// AddAttractiveness adds delta to the attractiveness counter (may be
// negative). There is no upper bound, since attractiveness has no named
// upper bound in spec.md §3; the result is floored at 0, matching
// step_attractiveness never decrementing past 0.
func (n *Node) AddAttractiveness(delta int) {
	n.attractiveness += delta
	if n.attractiveness < 0 {
		n.attractiveness = 0
	}
}

// Links returns the node's outbound structural links.
func (n *Node) Links() []*Node { return n.links }

// Secondaries returns the secondary cyto nodes created from this block.
func (n *Node) Secondaries() []*Node { return n.secondaries }

func (n *Node) addLink(to *Node) { n.links = append(n.links, to) }

func (n *Node) addSecondary(s *Node) { n.secondaries = append(n.secondaries, s) }

// MarkPending transitions free -> pending, on selection as a candidate
// operand.
func (n *Node) MarkPending() { n.status = StatusPending }

// MarkFree transitions pending -> free (creation aborted) or
// taken -> free (owning block destroyed).
func (n *Node) MarkFree() { n.status = StatusFree }

// MarkTaken transitions pending -> taken, on block creation.
func (n *Node) MarkTaken() { n.status = StatusTaken }

// MarkDestroyed transitions free|taken -> destroyed. Terminal.
func (n *Node) MarkDestroyed() { n.status = StatusDestroyed }

// IsFree reports whether the node is currently selectable as an operand.
func (n *Node) IsFree() bool { return n.status == StatusFree }

// evaluate recursively computes the integer value of a block's subtree,
// used by property tests (spec.md §8) to check that a block's label always
// equals the value of applying its operation to its operands.
func (n *Node) evaluate() (int, bool) {
	switch n.kind {
	case KindBrick, KindTarget, KindSecondary:
		v, err := parseInt(n.label)
		return v, err == nil
	case KindBlock:
		if len(n.links) != 1 || n.links[0].kind != KindOperation {
			return 0, false
		}
		return n.links[0].evaluate()
	case KindOperation:
		if len(n.links) != 2 {
			return 0, false
		}
		left, ok := n.links[0].evaluate()
		if !ok {
			return 0, false
		}
		right, ok := n.links[1].evaluate()
		if !ok {
			return 0, false
		}
		switch n.label {
		case "+":
			return left + right, true
		case "-":
			return left - right, true
		case "*":
			return left * right, true
		default:
			return 0, false
		}
	default:
		return 0, false
	}
}

// Tree renders a block's structure the way spec.md §6 requires: operator
// nodes render as (opLEFTopRIGHT) recursively, leaf bricks render as their
// label.
func (n *Node) Tree() string {
	switch n.kind {
	case KindBlock:
		if len(n.links) != 1 {
			return n.label
		}
		return n.links[0].Tree()
	case KindOperation:
		if len(n.links) != 2 {
			return n.label
		}
		return "(" + n.label + n.links[0].Tree() + n.label + n.links[1].Tree() + ")"
	default:
		return n.label
	}
}
