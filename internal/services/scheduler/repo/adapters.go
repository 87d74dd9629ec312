package repo

import (
	"context"

	"github.com/NordCoder/CloudCorrect/internal/domain/group"
	"github.com/NordCoder/CloudCorrect/internal/domain/kafka"
	"github.com/google/uuid"
)

// DueGroup is the slice of a group the scheduler needs to publish a request.
type DueGroup struct {
	ID   uuid.UUID
	Name string
}

type GroupRepo struct{ R group.Repo }
type Events struct{ P kafka.GroupEvents }

func (a GroupRepo) FetchDue(ctx context.Context, limit int) ([]DueGroup, error) {
	list, err := a.R.FetchDue(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]DueGroup, 0, len(list))
	for _, g := range list {
		out = append(out, DueGroup{ID: g.ID, Name: g.Name})
	}
	return out, nil
}

func (e Events) PublishEvaluationRequested(ctx context.Context, groupID uuid.UUID) error {
	return e.P.PublishEvaluationRequested(ctx, groupID)
}
