package kafka

import (
	"context"

	"github.com/NordCoder/CloudCorrect/internal/domain/alert"
	"github.com/google/uuid"
)

type GroupEvents interface {
	PublishEvaluationRequested(ctx context.Context, groupID uuid.UUID) error
	PublishGroupFailed(ctx context.Context, a alert.Alert) error
}
