package group

import (
	"context"
	"time"

	"github.com/NordCoder/CloudCorrect/internal/domain/check"
	"github.com/google/uuid"
)

type Repo interface {
	Create(ctx context.Context, g *Group) error
	GetByID(ctx context.Context, id uuid.UUID) (*Group, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status check.Status, evaluatedAt time.Time) error
	// FetchDue claims enabled groups whose next_run has passed and moves
	// next_run forward by the group interval.
	FetchDue(ctx context.Context, limit int) ([]*Group, error)
}
