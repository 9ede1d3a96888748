package slipnet

// FiredTemplate pairs a CodeletTemplate with the node that fired it, ready
// for the codelet package's catalog to translate into a concrete Codelet.
type FiredTemplate struct {
	Template CodeletTemplate
	Node     *Node
}

// Slipnet is the spreading-activation concept graph (spec.md §4.2). It is
// built once at startup by the seed builder and persists unchanged in
// structure for the run; only node activation mutates afterward.
type Slipnet struct {
	byLabel  map[string]*Node
	children map[*Node][]*Node
}

// New returns an empty Slipnet.
func New() *Slipnet {
	return &Slipnet{
		byLabel:  make(map[string]*Node),
		children: make(map[*Node][]*Node),
	}
}

// Get returns the unique top-level concept node by label, or nil.
func (s *Slipnet) Get(label string) *Node {
	n := s.byLabel[label]
	if n == nil || !n.top {
		return nil
	}
	return n
}

// Lookup returns any node (top-level or instance) by label, or nil. It
// exists alongside Get because activation targets include instance
// concepts (e.g. arithmetic facts) that are not valid lookup roots.
func (s *Slipnet) Lookup(label string) *Node {
	return s.byLabel[label]
}

// Add inserts a node and returns it. Labels of top-level nodes must be
// unique; Add panics on a duplicate top-level label since that indicates a
// seeding bug, never a runtime condition.
func (s *Slipnet) Add(label string, cfg NodeConfig) *Node {
	if cfg.Top {
		if existing, ok := s.byLabel[label]; ok && existing.top {
			panic("slipnet: duplicate top-level label " + label)
		}
	}
	n := newNode(label, cfg)
	s.byLabel[label] = n
	if cfg.ParentType != nil {
		s.children[cfg.ParentType] = append(s.children[cfg.ParentType], n)
	}
	return n
}

// Activate raises the node identified by label by level, clamps to 100,
// and fires it if the result crosses the HIGH threshold. It reports
// whether the label was found at all — callers treat ok == false as
// spec.md §7's MissingConcept condition and redirect to
// find_syntactically_similar instead of treating this as an error.
func (s *Slipnet) Activate(label string, level int) (fired []FiredTemplate, ok bool) {
	n := s.byLabel[label]
	if n == nil {
		return nil, false
	}
	return s.activateNode(n, level), true
}

// activateNode performs the activation, firing, and one-hop spreading for
// an already-resolved node.
func (s *Slipnet) activateNode(n *Node, level int) []FiredTemplate {
	n.activation = clamp(n.activation + level)

	var fired []FiredTemplate
	if n.activation >= High {
		for _, t := range n.codelets {
			if !t.ChildrenOnly {
				fired = append(fired, FiredTemplate{Template: t, Node: n})
			}
		}
		for _, child := range s.children[n] {
			for _, t := range child.codelets {
				if t.ChildrenOnly {
					fired = append(fired, FiredTemplate{Template: t, Node: child})
				}
			}
		}
	}

	// One-hop spreading: bump neighbours directly without re-checking
	// firing or recursing further, bounding work per invocation.
	for _, link := range n.links {
		bump := int(link.weight * float64(n.activation))
		link.to.activation = clamp(link.to.activation + bump)
	}

	return fired
}

// StepDecay decays every non-fixed node's activation toward zero by a
// small fixed amount, per spec.md §4.2.
func (s *Slipnet) StepDecay() {
	for _, n := range s.byLabel {
		if n.fixed {
			continue
		}
		if n.activation <= decayStep {
			n.activation = 0
			continue
		}
		n.activation -= decayStep
	}
}

// RoundedLabel computes the "rounded" label used by find_syntactically_similar:
// keep the leading digit and zero-fill the rest (37 -> 30, 114 -> 100).
// Single-digit labels round to themselves.
func RoundedLabel(n int) int {
	if n < 10 {
		return n
	}
	digits := 1
	for p := n; p >= 10; p /= 10 {
		digits++
	}
	scale := 1
	for i := 1; i < digits; i++ {
		scale *= 10
	}
	return (n / scale) * scale
}
