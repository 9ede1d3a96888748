// Package schedule runs the canonical Numbo scenarios (spec.md §8) on a
// cron interval against the live build, grounded on the teacher's
// internal/application/trigger/cron_scheduler.go (robfig/cron/v3, second
// precision, UTC) but trimmed from user-defined workflow triggers down to
// one fixed job: a regression smoke test, not part of the solving
// algorithm itself.
package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/smilemakc/numbo/internal/infrastructure/logger"
	"github.com/smilemakc/numbo/internal/infrastructure/storage"
	"github.com/smilemakc/numbo/internal/infrastructure/storage/models"
	"github.com/smilemakc/numbo/internal/numbo"
)

// scenario is one of spec.md §8's concrete scenarios.
type scenario struct {
	name    string
	target  string
	bricks  []string
	minRate float64 // expected solved-rate over seeds, 0 to just observe
	seeds   int
}

// scenarios mirrors spec.md §8's "Concrete scenarios" list. Scenario 6
// ("2", ["2"]) is excluded: spec.md §9 documents it as an open question
// the reference implementation may not solve trivially, so asserting a
// rate against it would be asserting the open question's resolution.
var scenarios = []scenario{
	{name: "sum-of-two-or-three", target: "11", bricks: []string{"2", "3", "5", "6"}, minRate: 0.90, seeds: 20},
	{name: "exact-pair", target: "10", bricks: []string{"5", "2", "3"}, minRate: 0.90, seeds: 20},
	{name: "hard-six-brick", target: "114", bricks: []string{"12", "20", "7", "1", "6", "11"}, minRate: 0, seeds: 20},
	{name: "multiply", target: "100", bricks: []string{"5", "20"}, minRate: 0.90, seeds: 20},
	{name: "subtract", target: "7", bricks: []string{"10", "3"}, minRate: 0.90, seeds: 20},
}

// SelfTest periodically re-solves spec.md §8's scenarios and logs
// solved-rate drift, archiving each individual run when an archive store
// is configured.
type SelfTest struct {
	cron    *cron.Cron
	logger  *logger.Logger
	runRepo *storage.RunRepository // nil disables archiving
	stepCap int
}

// NewSelfTest parses cronSpec (second-precision, e.g. "0 0 * * * *" for
// hourly) and builds a scheduler that has not yet started. runRepo may be
// nil.
func NewSelfTest(cronSpec string, log *logger.Logger, runRepo *storage.RunRepository) (*SelfTest, error) {
	c := cron.New(cron.WithSeconds(), cron.WithLocation(time.UTC))
	st := &SelfTest{cron: c, logger: log, runRepo: runRepo, stepCap: 150}

	if _, err := c.AddFunc(cronSpec, st.runAll); err != nil {
		return nil, fmt.Errorf("parse self-test schedule %q: %w", cronSpec, err)
	}
	return st, nil
}

// Start begins running scenarios on the configured schedule.
func (st *SelfTest) Start() { st.cron.Start() }

// Stop halts the scheduler, waiting for any in-flight run to finish.
func (st *SelfTest) Stop() {
	ctx := st.cron.Stop()
	<-ctx.Done()
}

// runAll re-solves every scenario and logs each one's observed solved-rate
// against its expected rate.
func (st *SelfTest) runAll() {
	for _, sc := range scenarios {
		solved := 0
		for seed := int64(0); seed < int64(sc.seeds); seed++ {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			result := numbo.Solve(ctx, numbo.Input{Target: sc.target, Bricks: sc.bricks}, numbo.Options{
				StepCap: st.stepCap,
				Seed:    seed,
				SeedSet: true,
			})
			cancel()

			if result.Solved {
				solved++
			}
			st.archive(sc, seed, result)
		}

		rate := float64(solved) / float64(sc.seeds)
		if sc.minRate > 0 && rate < sc.minRate {
			st.logger.Warn("self-test solved-rate below expectation",
				"scenario", sc.name, "target", sc.target, "observed_rate", rate, "expected_rate", sc.minRate)
			continue
		}
		st.logger.Info("self-test scenario complete",
			"scenario", sc.name, "target", sc.target, "observed_rate", rate)
	}
}

func (st *SelfTest) archive(sc scenario, seed int64, result numbo.Result) {
	if st.runRepo == nil {
		return
	}
	run := &models.RunModel{
		Target: sc.target,
		Bricks: models.StringArray(sc.bricks),
		Solved: result.Solved,
		Tree:   result.Tree,
		Steps:  result.Steps,
		Reason: string(result.Reason),
		Seed:   seed,
	}
	if err := st.runRepo.Create(context.Background(), run); err != nil {
		st.logger.Error("failed to archive self-test run", "scenario", sc.name, "error", err)
	}
}
