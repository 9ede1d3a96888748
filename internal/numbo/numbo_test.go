package numbo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/smilemakc/numbo/internal/numbo/animation"
)

func TestSolveFindsSolutionWithinStepCap(t *testing.T) {
	solved := 0
	const trials = 30
	for seed := int64(0); seed < trials; seed++ {
		result := Solve(context.Background(), Input{Target: "11", Bricks: []string{"2", "3", "5", "6"}}, Options{Seed: seed, SeedSet: true})
		if result.Solved {
			solved++
			assert.NotEmpty(t, result.Tree)
			assert.LessOrEqual(t, result.Steps, 150)
		}
	}
	assert.GreaterOrEqual(t, solved, trials*7/10)
}

func TestSolveReportsStepCapExceeded(t *testing.T) {
	result := Solve(context.Background(), Input{Target: "114", Bricks: []string{"12", "20", "7", "1", "6", "11"}}, Options{Seed: 1, SeedSet: true, StepCap: 3})
	assert.False(t, result.Solved)
	assert.LessOrEqual(t, result.Steps, 3)
}

func TestSolveRecordsAnimationEvents(t *testing.T) {
	sink := animation.NewMemorySink()
	Solve(context.Background(), Input{Target: "7", Bricks: []string{"3", "4"}}, Options{Seed: 2, SeedSet: true, Sink: sink})
	assert.NotEmpty(t, sink.Events())
}
