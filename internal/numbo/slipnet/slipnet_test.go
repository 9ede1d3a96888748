package slipnet

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivateClampsAndFires(t *testing.T) {
	s := New()
	parent := s.Add("parent", NodeConfig{
		Top:      true,
		Codelets: []CodeletTemplate{{Kind: "propose_operation", Operation: "+", Urgency: Low}},
	})
	s.Add("child", NodeConfig{
		ParentType: parent,
		Codelets:   []CodeletTemplate{{Kind: "noop", ChildrenOnly: true, Urgency: Low}},
	})

	fired, ok := s.Activate("parent", 200)
	require.True(t, ok)
	assert.Equal(t, Highest, s.Get("parent").Activation())
	assert.Len(t, fired, 2) // parent's own template + child's children-only template

	kinds := map[string]int{}
	for _, f := range fired {
		kinds[f.Template.Kind]++
	}
	assert.Equal(t, 1, kinds["propose_operation"])
	assert.Equal(t, 1, kinds["noop"])
}

func TestActivateUnknownLabel(t *testing.T) {
	s := New()
	fired, ok := s.Activate("nope", 10)
	assert.False(t, ok)
	assert.Nil(t, fired)
}

func TestActivationNeverExceedsBounds(t *testing.T) {
	s := New()
	s.Add("n", NodeConfig{Top: true, Activation: 95})
	s.Activate("n", 1000)
	assert.Equal(t, Highest, s.Get("n").Activation())

	s2 := New()
	s2.Add("m", NodeConfig{Top: true, Activation: 0})
	for i := 0; i < 5; i++ {
		s2.StepDecay()
	}
	assert.Equal(t, 0, s2.Get("m").Activation())
}

func TestFixedNodeNeverDecays(t *testing.T) {
	s := New()
	s.Add("fixed", NodeConfig{Top: true, Fixed: true, Activation: 50})
	for i := 0; i < 10; i++ {
		s.StepDecay()
	}
	assert.Equal(t, 50, s.Get("fixed").Activation())
}

func TestDecayTowardZero(t *testing.T) {
	s := New()
	s.Add("n", NodeConfig{Top: true, Activation: 10})
	s.StepDecay()
	assert.Equal(t, 7, s.Get("n").Activation())
	s.StepDecay()
	s.StepDecay()
	s.StepDecay()
	assert.Equal(t, 0, s.Get("n").Activation())
}

func TestGetOnlyReturnsTopLevel(t *testing.T) {
	s := New()
	parent := s.Add("parent", NodeConfig{Top: true})
	s.Add("instance", NodeConfig{ParentType: parent})
	assert.NotNil(t, s.Get("parent"))
	assert.Nil(t, s.Get("instance"))
	assert.NotNil(t, s.Lookup("instance"))
}

func TestOneHopSpreadingDoesNotCascade(t *testing.T) {
	s := New()
	a := s.Add("a", NodeConfig{Top: true})
	b := s.Add("b", NodeConfig{Top: true})
	c := s.Add("c", NodeConfig{Top: true})
	rel := s.Add("rel", NodeConfig{Top: true, Fixed: true})
	a.AddLink(b, rel, 1.0, false, nil)
	b.AddLink(c, rel, 1.0, false, nil)

	s.Activate("a", 90)
	assert.Equal(t, 90, s.Get("b").Activation())
	// c must not receive any spread in this same invocation (no transitive fan-out).
	assert.Equal(t, 0, s.Get("c").Activation())
}

func TestRoundedLabel(t *testing.T) {
	assert.Equal(t, 30, RoundedLabel(37))
	assert.Equal(t, 100, RoundedLabel(114))
	assert.Equal(t, 7, RoundedLabel(7))
	assert.Equal(t, 20, RoundedLabel(20))
}

func TestSeedBuildsExpectedConcepts(t *testing.T) {
	s := Seed()
	require.NotNil(t, s.Get(ConceptAddition))
	require.NotNil(t, s.Get(ConceptSubtraction))
	require.NotNil(t, s.Get(ConceptMultiplication))
	for n := 1; n <= 12; n++ {
		assert.NotNil(t, s.Get(strconv.Itoa(n)))
	}
	for _, n := range []int{20, 30, 100} {
		assert.NotNil(t, s.Get(strconv.Itoa(n)))
	}
	assert.NotNil(t, s.Lookup("3+4"))
}
