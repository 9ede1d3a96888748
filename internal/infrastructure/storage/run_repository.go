package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/smilemakc/numbo/internal/infrastructure/storage/models"
)

// RunRepository persists archived Solve outcomes (SPEC_FULL.md's archive
// sink), modeled after the teacher's repository-per-aggregate convention.
// It accepts bun.IDB rather than *bun.DB so tests can hand it a
// per-test transaction or a cloned database.
type RunRepository struct {
	db bun.IDB
}

// NewRunRepository returns a repository bound to db.
func NewRunRepository(db bun.IDB) *RunRepository {
	return &RunRepository{db: db}
}

// Create inserts a new run record and assigns its ID.
func (r *RunRepository) Create(ctx context.Context, run *models.RunModel) error {
	if _, err := r.db.NewInsert().Model(run).Exec(ctx); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// Get fetches one run by ID.
func (r *RunRepository) Get(ctx context.Context, id uuid.UUID) (*models.RunModel, error) {
	run := new(models.RunModel)
	if err := r.db.NewSelect().Model(run).Where("id = ?", id).Scan(ctx); err != nil {
		return nil, fmt.Errorf("get run %s: %w", id, err)
	}
	return run, nil
}

// List returns the most recent runs, newest first, bounded by limit.
func (r *RunRepository) List(ctx context.Context, limit int) ([]*models.RunModel, error) {
	if limit <= 0 {
		limit = 50
	}
	var runs []*models.RunModel
	if err := r.db.NewSelect().Model(&runs).OrderExpr("created_at DESC").Limit(limit).Scan(ctx); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// SolvedRate returns the fraction of the most recent `window` runs that
// solved, used by the scheduled self-test (internal/schedule) to report a
// running health signal.
func (r *RunRepository) SolvedRate(ctx context.Context, window int) (float64, error) {
	runs, err := r.List(ctx, window)
	if err != nil {
		return 0, err
	}
	if len(runs) == 0 {
		return 0, nil
	}
	solved := 0
	for _, run := range runs {
		if run.Solved {
			solved++
		}
	}
	return float64(solved) / float64(len(runs)), nil
}
