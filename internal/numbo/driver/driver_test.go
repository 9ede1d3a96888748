package driver

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smilemakc/numbo/internal/infrastructure/logger"
	"github.com/smilemakc/numbo/internal/numbo/animation"
	"github.com/smilemakc/numbo/internal/numbo/codelet"
	"github.com/smilemakc/numbo/internal/numbo/cytoplasm"
	"github.com/smilemakc/numbo/internal/numboerr"
	"github.com/smilemakc/numbo/internal/numbo/rack"
	"github.com/smilemakc/numbo/internal/numbo/slipnet"
)

func newRun(seed int64, target string, bricks []string) (*codelet.Context, Outcome) {
	sn := slipnet.Seed()
	cy := cytoplasm.New(animation.NoopSink{})
	ctx := &codelet.Context{
		Slipnet:   sn,
		Cytoplasm: cy,
		Rack:      rack.New(),
		RNG:       rand.New(rand.NewSource(seed)),
		Bricks:    codelet.NewBrickPool(bricks),
	}
	outcome := Run(context.Background(), ctx, target, bricks, DefaultConfig(), logger.Default())
	return ctx, outcome
}

// spec.md §8's scenario 1: target=11 from {2,3,5,6} must be found with high
// probability across seeds.
func TestScenarioElevenFromFourBricksSolvesAcrossSeeds(t *testing.T) {
	solved := 0
	const trials = 40
	for seed := int64(0); seed < trials; seed++ {
		ctx, outcome := newRun(seed, "11", []string{"2", "3", "5", "6"})
		if ctx.Cytoplasm.Done() {
			solved++
			target := ctx.Cytoplasm.Target()
			require.NotNil(t, target)
			block := ctx.Cytoplasm.FindExact("11", cytoplasm.KindBlock)
			if block == nil {
				for _, n := range ctx.Cytoplasm.Nodes() {
					if n.Kind() == cytoplasm.KindBlock && n.Label() == "11" {
						block = n
						break
					}
				}
			}
			require.NotNil(t, block)
			assert.Equal(t, numboerr.ReasonSolved, outcome.Reason)
		}
	}
	assert.GreaterOrEqual(t, solved, trials*7/10, "expected most seeds to solve target 11 from {2,3,5,6}")
}

// spec.md §8's scenario 2: target=10 from {5,2,3} must yield a root block
// labeled "10" whose leaves are exactly the multiset {5,2,3}.
func TestScenarioTenFromThreeBricksLeavesMatchInput(t *testing.T) {
	for seed := int64(0); seed < 40; seed++ {
		ctx, _ := newRun(seed, "10", []string{"5", "2", "3"})
		if !ctx.Cytoplasm.Done() {
			continue
		}
		var root *cytoplasm.Node
		for _, n := range ctx.Cytoplasm.Nodes() {
			if n.Kind() == cytoplasm.KindBlock && n.Label() == "10" && n.Status() != cytoplasm.StatusDestroyed {
				root = n
			}
		}
		require.NotNil(t, root)

		var leaves []string
		var walk func(n *cytoplasm.Node)
		walk = func(n *cytoplasm.Node) {
			switch n.Kind() {
			case cytoplasm.KindBrick:
				leaves = append(leaves, n.Label())
			case cytoplasm.KindBlock, cytoplasm.KindOperation:
				for _, l := range n.Links() {
					walk(l)
				}
			}
		}
		walk(root)
		assert.ElementsMatch(t, []string{"5", "2", "3"}, leaves)
		return
	}
	t.Skip("no seed in range solved target 10 from {5,2,3}; acceptable per spec's documented-not-asserted solved rate")
}

func TestRunTerminatesOnStepCap(t *testing.T) {
	sn := slipnet.Seed()
	cy := cytoplasm.New(animation.NoopSink{})
	ctx := &codelet.Context{
		Slipnet:   sn,
		Cytoplasm: cy,
		Rack:      rack.New(),
		RNG:       rand.New(rand.NewSource(1)),
		Bricks:    codelet.NewBrickPool([]string{"2", "3", "5", "6"}),
	}
	outcome := Run(context.Background(), ctx, "114", []string{"12", "20", "7", "1", "6", "11"}, Config{StepCap: 5}, logger.Default())
	assert.LessOrEqual(t, outcome.Steps, 5)
}

func TestRunHonorsContextCancellation(t *testing.T) {
	sn := slipnet.Seed()
	cy := cytoplasm.New(animation.NoopSink{})
	ctx := &codelet.Context{
		Slipnet:   sn,
		Cytoplasm: cy,
		Rack:      rack.New(),
		RNG:       rand.New(rand.NewSource(1)),
		Bricks:    codelet.NewBrickPool([]string{"2", "3"}),
	}
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	outcome := Run(cancelled, ctx, "11", []string{"2", "3"}, DefaultConfig(), logger.Default())
	assert.Equal(t, numboerr.ReasonCancelled, outcome.Reason)
}
