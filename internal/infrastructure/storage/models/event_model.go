package models

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// RunModel archives one completed Solve invocation (spec.md §6): the
// problem instance, whether it was solved, the rendered solution tree when
// it was, and which taxonomy reason (spec.md §7) ended the run. Numbo's
// archive store keeps a row per run rather than the teacher's per-event
// log, since a run either ends or it doesn't — there's no intermediate
// state worth persisting once the in-memory animation sink has carried it.
type RunModel struct {
	bun.BaseModel `bun:"table:runs,alias:r"`

	ID        uuid.UUID   `bun:"id,pk,type:uuid,default:uuid_generate_v4()" json:"id"`
	Target    string      `bun:"target,notnull" json:"target" validate:"required"`
	Bricks    StringArray `bun:"bricks,type:text[],notnull" json:"bricks" validate:"required"`
	Solved    bool        `bun:"solved,notnull" json:"solved"`
	Tree      string      `bun:"tree,notnull,default:''" json:"tree,omitempty"`
	Steps     int         `bun:"steps,notnull" json:"steps"`
	Reason    string      `bun:"reason,notnull" json:"reason"`
	Seed      int64       `bun:"seed,notnull" json:"seed"`
	CreatedAt time.Time   `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}

func (RunModel) TableName() string {
	return "runs"
}

// BeforeAppendModel assigns an ID on insert, mirroring the teacher's
// BeforeInsert hook convention for generated primary keys.
func (r *RunModel) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	if _, ok := query.(*bun.InsertQuery); ok && r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
