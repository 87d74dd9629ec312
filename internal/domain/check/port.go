package check

import (
	"context"

	"github.com/google/uuid"
)

type Repo interface {
	Create(ctx context.Context, c *Check) error
	GetByID(ctx context.Context, id uuid.UUID) (*Check, error)
	// ListActiveByGroup returns live checks in creation order.
	ListActiveByGroup(ctx context.Context, groupID uuid.UUID) ([]*Check, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
}
