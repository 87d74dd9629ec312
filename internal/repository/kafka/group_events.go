package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/NordCoder/CloudCorrect/internal/domain/alert"
	"github.com/NordCoder/CloudCorrect/internal/domain/kafka"
	"github.com/google/uuid"
)

// EvaluationRequested asks a worker to evaluate one group.
type EvaluationRequested struct {
	GroupID     uuid.UUID `json:"groupId"`
	RequestedAt time.Time `json:"requestedAt"`
}

// GroupEventsKafka publishes group events to two topics; either producer may be
// nil when a binary only emits one kind.
type GroupEventsKafka struct {
	requests *Producer
	alerts   *Producer
}

func NewGroupEventsKafka(requests, alerts *Producer) *GroupEventsKafka {
	return &GroupEventsKafka{requests: requests, alerts: alerts}
}

var _ kafka.GroupEvents = (*GroupEventsKafka)(nil)

func (e *GroupEventsKafka) PublishEvaluationRequested(ctx context.Context, groupID uuid.UUID) error {
	if e.requests == nil {
		return fmt.Errorf("evaluation requests producer is not configured")
	}
	return e.requests.PublishJSON(ctx, KeyFromUUID(groupID), EvaluationRequested{
		GroupID:     groupID,
		RequestedAt: time.Now().UTC(),
	})
}

func (e *GroupEventsKafka) PublishGroupFailed(ctx context.Context, a alert.Alert) error {
	if e.alerts == nil {
		return fmt.Errorf("alerts producer is not configured")
	}
	return e.alerts.PublishJSON(ctx, KeyFromUUID(a.GroupID), a)
}

func DecodeJSON[T any](raw []byte, out *T) error { return json.Unmarshal(raw, out) }
