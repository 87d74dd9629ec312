package notification

import (
	"context"

	"github.com/google/uuid"
)

type Repo interface {
	// CreateBatch stores one row per delivered recipient in a single round trip.
	CreateBatch(ctx context.Context, ns []*Notification) error
	// SentForRun reports whether an alert for runID was already delivered.
	SentForRun(ctx context.Context, runID uuid.UUID) (bool, error)
}
