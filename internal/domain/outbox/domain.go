package outbox

import (
	"context"
	"time"
)

type Status string

const (
	StatusCreated    Status = "CREATED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusSuccess    Status = "SUCCESS"
	// StatusDead is terminal: the message is kept for inspection and never
	// picked again.
	StatusDead Status = "DEAD"
)

type Kind int

const (
	KindGroupFailed Kind = 1
)

func (k Kind) String() string {
	switch k {
	case KindGroupFailed:
		return "group_failed"
	}
	return "unknown"
}

type Message struct {
	IdempotencyKey string
	Kind           Kind
	Data           []byte
	Status         Status
	Attempts       int
	LastError      string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Tracestate     string
	Traceparent    string
	Baggage        string
}

type Repository interface {
	Enqueue(ctx context.Context, key string, kind Kind, data []byte) error

	PickBatch(ctx context.Context, batch int, inProgressTTL time.Duration) ([]Message, error)

	MarkSuccess(ctx context.Context, keys []string) error

	// MarkFailed records a failed delivery. The message goes back to CREATED
	// for the next pick, or to DEAD when dead is set.
	MarkFailed(ctx context.Context, key string, reason string, dead bool) error
}

type KindHandler func(ctx context.Context, data []byte) error

type GlobalHandler func(kind Kind) (KindHandler, error)
