package storage

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"

	"github.com/smilemakc/numbo/internal/infrastructure/storage/models"
)

// newBunDBWithMock wires a bun.DB backed by go-sqlmock, the same harness
// the teacher uses for repository unit tests that don't need a real
// database.
func newBunDBWithMock(t *testing.T) (*bun.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return bun.NewDB(db, pgdialect.New()), mock
}

func TestRunRepositoryCreate(t *testing.T) {
	bunDB, mock := newBunDBWithMock(t)
	repo := NewRunRepository(bunDB)

	mock.ExpectExec(`INSERT INTO "runs"`).WillReturnResult(sqlmock.NewResult(1, 1))

	run := &models.RunModel{
		Target: "11",
		Bricks: models.StringArray{"2", "3", "5", "6"},
		Solved: true,
		Tree:   "(11 (+ 5 6))",
		Steps:  12,
		Reason: "solved",
		Seed:   7,
	}
	err := repo.Create(context.Background(), run)
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, run.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunRepositoryGet(t *testing.T) {
	bunDB, mock := newBunDBWithMock(t)
	repo := NewRunRepository(bunDB)

	id := uuid.New()
	rows := sqlmock.NewRows([]string{"id", "target", "bricks", "solved", "tree", "steps", "reason", "seed", "created_at"}).
		AddRow(id, "11", "{2,3,5,6}", true, "(11 (+ 5 6))", 12, "solved", 7, "2026-01-01T00:00:00Z")
	mock.ExpectQuery(`SELECT .* FROM "runs"`).WillReturnRows(rows)

	run, err := repo.Get(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, "11", run.Target)
	require.True(t, run.Solved)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunRepositorySolvedRateEmpty(t *testing.T) {
	bunDB, mock := newBunDBWithMock(t)
	repo := NewRunRepository(bunDB)

	rows := sqlmock.NewRows([]string{"id", "target", "bricks", "solved", "tree", "steps", "reason", "seed", "created_at"})
	mock.ExpectQuery(`SELECT .* FROM "runs"`).WillReturnRows(rows)

	rate, err := repo.SolvedRate(context.Background(), 10)
	require.NoError(t, err)
	require.Zero(t, rate)
}
