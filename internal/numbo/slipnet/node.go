// Package slipnet implements the spreading-activation semantic network of
// arithmetic concepts described in spec.md §4.2. Nodes are DDD-style value
// objects — private fields behind an explicit constructor and accessor
// methods — generalized from the teacher's domain.Node/domain.Edge pattern
// to carry activation, firing, and link-weight behavior instead of
// workflow configuration.
package slipnet

import "github.com/google/uuid"

// Named activation bands, per spec.md §3.
const (
	Low     = 20
	Mid     = 50
	High    = 80
	Highest = 100

	decayStep = 3
)

// CodeletTemplate is a partial codelet specification carried by a concept
// node. When the node fires, each template becomes a concrete follow-up
// bound to that node (spec.md §4.2). Templates never reference executable
// code directly — that would force this package to depend on the codelet
// package that in turn depends on this one. Instead a template is plain
// data; the codelet package's catalog translates a FiredTemplate into a
// real Codelet closure, the same way the teacher's NodeExecutor registry
// maps a NodeType to a handler.
type CodeletTemplate struct {
	// Kind names the codelet the template instantiates, e.g.
	// "propose_operation", "find_syntactically_similar".
	Kind string
	// Operation carries the arithmetic operation symbol for
	// "propose_operation" templates: "+", "-", or "*".
	Operation string
	// Urgency is the urgency the instantiated follow-up carries.
	Urgency int
	// ChildrenOnly marks a template that is only collected when this
	// node's parent concept fires, never when this node fires on its own.
	ChildrenOnly bool
}

// Link is a directed edge from a Node to another Node, carrying a
// relationship (itself a Node — relationships are first-class per
// spec.md §4.2) and a weight in [0,1].
type Link struct {
	to           *Node
	relationship *Node
	weight       float64
	inverse      *Node
}

// To returns the link's destination node.
func (l Link) To() *Node { return l.to }

// Relationship returns the node representing this link's relationship kind.
func (l Link) Relationship() *Node { return l.relationship }

// Weight returns the link's spreading-activation weight in [0,1].
func (l Link) Weight() float64 { return l.weight }

// Inverse returns the relationship node used when this link is the
// reflection of a bidirectional edge, or nil.
func (l Link) Inverse() *Node { return l.inverse }

// Node is a slipnet concept or concept instance.
type Node struct {
	id          uuid.UUID
	label       string
	activation  int
	fixed       bool
	top         bool
	parentType  *Node
	description string
	links       []Link
	codelets    []CodeletTemplate
}

// NodeConfig bundles the optional attributes accepted by Add/AddInstance.
type NodeConfig struct {
	Top         bool
	Fixed       bool
	Activation  int
	ParentType  *Node
	Description string
	Codelets    []CodeletTemplate
}

func newNode(label string, cfg NodeConfig) *Node {
	return &Node{
		id:          uuid.New(),
		label:       label,
		activation:  clamp(cfg.Activation),
		fixed:       cfg.Fixed,
		top:         cfg.Top,
		parentType:  cfg.ParentType,
		description: cfg.Description,
		codelets:    append([]CodeletTemplate(nil), cfg.Codelets...),
	}
}

// ID returns the node's stable handle, used by the animation sink to
// reference a node even across label collisions.
func (n *Node) ID() uuid.UUID { return n.id }

// Label returns the node's textual label.
func (n *Node) Label() string { return n.label }

// Activation returns the node's current activation level in [0, 100].
func (n *Node) Activation() int { return n.activation }

// Fixed reports whether this node is exempt from decay.
func (n *Node) Fixed() bool { return n.fixed }

// Top reports whether this node is a valid lookup root for Get.
func (n *Node) Top() bool { return n.top }

// ParentType returns the concept this instance specializes, or nil.
func (n *Node) ParentType() *Node { return n.parentType }

// Description returns the node's optional descriptive text.
func (n *Node) Description() string { return n.description }

// Links returns the node's outbound links.
func (n *Node) Links() []Link { return n.links }

// Codelets returns the node's codelet templates.
func (n *Node) Codelets() []CodeletTemplate { return n.codelets }

// AddLink appends an outbound link from n to to, with the given
// relationship and weight. If bidirectional is true, a paired unidirectional
// link is also appended to "to" pointing back at n, carrying inverse (or
// relationship itself if inverse is nil) as its relationship — this is how
// the reimplementation dissolves the source's bidirectional-edge notation
// into the handle-addressed, strictly-unidirectional link arena spec.md §9
// recommends.
func (n *Node) AddLink(to *Node, relationship *Node, weight float64, bidirectional bool, inverse *Node) {
	n.links = append(n.links, Link{to: to, relationship: relationship, weight: weight, inverse: inverse})
	if bidirectional {
		back := relationship
		if inverse != nil {
			back = inverse
		}
		to.links = append(to.links, Link{to: n, relationship: back, weight: weight, inverse: relationship})
	}
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > Highest {
		return Highest
	}
	return v
}
