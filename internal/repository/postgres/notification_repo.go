package postgres

import (
	"context"
	"fmt"

	"github.com/NordCoder/CloudCorrect/internal/domain/notification"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var _ notification.Repo = (*NotificationRepo)(nil)

type NotificationRepo struct{ db *DB }

func NewNotificationRepo(db *DB) *NotificationRepo { return &NotificationRepo{db: db} }

const (
	qNotifInsert = `
INSERT INTO notifications (group_id, run_id, recipient, type, sent_at, payload)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id;`

	qNotifSentForRun = `
SELECT EXISTS (SELECT 1 FROM notifications WHERE run_id = $1);`
)

func (r *NotificationRepo) CreateBatch(ctx context.Context, ns []*notification.Notification) error {
	if len(ns) == 0 {
		return nil
	}
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	b := &pgx.Batch{}
	for _, n := range ns {
		b.Queue(qNotifInsert, n.GroupID, nullUUID(n.RunID), n.Recipient, n.Type, n.SentAt, n.Payload)
	}
	br := r.db.execQueryer(ctx).SendBatch(ctx, b)
	defer br.Close()

	for _, n := range ns {
		if err := br.QueryRow().Scan(&n.ID); err != nil {
			return mapErr(fmt.Sprintf("insert notification for %s", n.Recipient), err)
		}
	}
	return nil
}

func (r *NotificationRepo) SentForRun(ctx context.Context, runID uuid.UUID) (bool, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	var sent bool
	if err := r.db.execQueryer(ctx).QueryRow(ctx, qNotifSentForRun, runID).Scan(&sent); err != nil {
		return false, fmt.Errorf("notification lookup: %w", err)
	}
	return sent, nil
}

func nullUUID(id uuid.UUID) *uuid.UUID {
	if id == uuid.Nil {
		return nil
	}
	return &id
}
