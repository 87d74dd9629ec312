package notification

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Notification struct {
	ID        int64     `json:"id"`
	GroupID   uuid.UUID `json:"group_id"`
	RunID     uuid.UUID `json:"run_id"`
	Recipient string    `json:"recipient"`
	Type      string    `json:"type"`
	SentAt    time.Time `json:"sent_at"`
	Payload   string    `json:"payload"`
}

type Email struct {
	To      []string
	Subject string
	HTML    string
	Text    string
}

type EmailSender interface {
	Send(ctx context.Context, e Email) error
}

type Clock interface {
	Now() time.Time
}
