package rack

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddLen(t *testing.T) {
	r := New()
	assert.Equal(t, 0, r.Len())
	r.Add("a", Low)
	r.Add("b", High)
	assert.Equal(t, 2, r.Len())
}

func TestTakeRemovesItem(t *testing.T) {
	r := New()
	r.Add("only", Mid)
	rng := rand.New(rand.NewSource(1))
	got := r.Take(rng)
	assert.Equal(t, "only", got)
	assert.Equal(t, 0, r.Len())
}

func TestTakePanicsOnEmpty(t *testing.T) {
	r := New()
	rng := rand.New(rand.NewSource(1))
	assert.Panics(t, func() { r.Take(rng) })
}

// TestTakeProportionalToUrgency is the Rack's chi-square test from
// spec.md §8: Take must sample items with frequency proportional to
// urgency across many draws on a fixed pool.
func TestTakeProportionalToUrgency(t *testing.T) {
	const trials = 10000
	items := []struct {
		name    string
		urgency int
	}{
		{"micro", Micro},
		{"low", Low},
		{"mid", Mid},
		{"high", High},
		{"highest", Highest},
	}
	total := 0
	for _, it := range items {
		total += it.urgency
	}

	counts := make(map[string]int, len(items))
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < trials; i++ {
		r := New()
		for _, it := range items {
			r.Add(it.name, it.urgency)
		}
		counts[r.Take(rng).(string)]++
	}

	chiSquare := 0.0
	for _, it := range items {
		expected := float64(trials) * float64(it.urgency) / float64(total)
		observed := float64(counts[it.name])
		diff := observed - expected
		chiSquare += diff * diff / expected
	}

	// Critical value for 4 degrees of freedom at p=0.001 is ~18.47; this
	// bounds false-positive failure while still catching a badly biased
	// sampler.
	require.Less(t, chiSquare, 18.47, "chi-square statistic too high: sampling is not proportional to urgency")
}

func TestTakeDrawsEveryItemEventually(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		r := New()
		r.Add("first", Low)
		r.Add("second", Low)
		seen[r.Take(rng).(string)] = true
	}
	assert.True(t, seen["first"])
	assert.True(t, seen["second"])
}
