package slipnet

import "fmt"

// Relationship labels. Relationships are first-class slipnet nodes
// (spec.md §4.2) so codelets can treat link kinds uniformly via label
// lookup instead of a Go enum.
const (
	RelSimilar              = "similar"
	RelRequires             = "requires"
	RelProduces             = "produces"
	RelMultiplicativeOperand = "multiplicative operand"
	RelMultiplicativeResult  = "multiplicative result"
)

// Concept labels for the three arithmetic operations.
const (
	ConceptAddition       = "addition"
	ConceptSubtraction    = "subtraction"
	ConceptMultiplication = "multiplication"
)

// Seed builds the initial arithmetic-fact graph described in spec.md's
// Seeded Slipnet builder (component E): numbers 1-12, round numbers to
// 100, the three operation concepts, the relationship nodes they use, and
// a modest catalog of arithmetic-fact instances that let spreading
// activation surface useful shortcuts (the overview's "20 is near 100 via
// x5" example).
func Seed() *Slipnet {
	s := New()

	rel := func(label string) *Node {
		return s.Add(label, NodeConfig{Top: true, Fixed: true, Description: "relationship"})
	}
	relSimilar := rel(RelSimilar)
	relRequires := rel(RelRequires)
	relProduces := rel(RelProduces)
	relMulOperand := rel(RelMultiplicativeOperand)
	relMulResult := rel(RelMultiplicativeResult)

	numbers := make(map[int]*Node, 12)
	for n := 1; n <= 12; n++ {
		numbers[n] = s.Add(fmt.Sprintf("%d", n), NodeConfig{Top: true})
	}

	roundNumbers := make(map[int]*Node)
	for _, n := range []int{20, 30, 40, 50, 60, 70, 80, 90, 100} {
		roundNumbers[n] = s.Add(fmt.Sprintf("%d", n), NodeConfig{Top: true})
	}

	allNumbers := make(map[int]*Node, len(numbers)+len(roundNumbers))
	for k, v := range numbers {
		allNumbers[k] = v
	}
	for k, v := range roundNumbers {
		allNumbers[k] = v
	}

	// "Similar" links connect a round number to its leading-digit
	// counterpart: 20 is similar to 2, 30 to 3, and so on. Bidirectional,
	// so either direction's activation spreads to the other.
	for n, node := range roundNumbers {
		lead := RoundedLabel(n) / 10
		if d, ok := numbers[lead]; ok {
			node.AddLink(d, relSimilar, 0.5, true, relSimilar)
		}
	}

	// Multiplicative shortcuts among round numbers and small factors:
	// n -> n*10 ("multiplicative result", the operand being 10), plus a
	// hand-picked x5 shortcut that mirrors the overview's example.
	for n, node := range numbers {
		if target, ok := roundNumbers[n*10]; ok {
			node.AddLink(target, relMulResult, 0.6, true, relMulOperand)
		}
	}
	if n20, ok := roundNumbers[20]; ok {
		if n100, ok2 := roundNumbers[100]; ok2 {
			n20.AddLink(n100, relMulResult, 0.6, true, relMulOperand)
		}
	}

	addition := s.Add(ConceptAddition, NodeConfig{
		Top: true,
		Codelets: []CodeletTemplate{
			{Kind: "propose_operation", Operation: "+", Urgency: Low},
		},
	})
	subtraction := s.Add(ConceptSubtraction, NodeConfig{
		Top: true,
		Codelets: []CodeletTemplate{
			{Kind: "propose_operation", Operation: "-", Urgency: Low},
		},
	})
	multiplication := s.Add(ConceptMultiplication, NodeConfig{
		Top: true,
		Codelets: []CodeletTemplate{
			{Kind: "propose_operation", Operation: "*", Urgency: Low},
		},
	})

	// addFact seeds one arithmetic-fact instance (e.g. "3+4") as a child of
	// its operation concept, with "requires" links to its two operands and
	// a "produces" link to its result. Its propose_operation template is
	// children-only: it fires only when the parent concept fires, giving
	// propose_operation a concrete concept_instance to read operand labels
	// from (spec.md §4.4).
	addFact := func(a, b int, concept *Node, op string, resultVal int) {
		label := fmt.Sprintf("%d%s%d", a, op, b)
		left := allNumbers[a]
		right := allNumbers[b]
		if left == nil || right == nil {
			return
		}
		n := s.Add(label, NodeConfig{
			ParentType: concept,
			Codelets: []CodeletTemplate{
				{Kind: "propose_operation", Operation: op, ChildrenOnly: true, Urgency: Mid},
			},
		})
		n.AddLink(left, relRequires, 1, false, nil)
		n.AddLink(right, relRequires, 1, false, nil)
		if res, ok := allNumbers[resultVal]; ok {
			n.AddLink(res, relProduces, 1, false, nil)
		}
	}

	for a := 1; a <= 12; a++ {
		for b := a; b <= 12; b++ {
			if a+b <= 20 {
				addFact(a, b, addition, "+", a+b)
			}
			if a > b && a-b >= 1 {
				addFact(a, b, subtraction, "-", a-b)
			}
			if a*b <= 100 && a != 1 && b != 1 {
				addFact(a, b, multiplication, "*", a*b)
			}
		}
	}

	return s
}
