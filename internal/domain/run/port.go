package run

import (
	"context"

	"github.com/google/uuid"
)

type Repo interface {
	Insert(ctx context.Context, r *Run) error
	InsertLogs(ctx context.Context, logs []*ResultLog) error
	ListByGroup(ctx context.Context, groupID uuid.UUID, page, limit int) (*Page, error)
}
