package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/NordCoder/CloudCorrect/internal/domain/outbox"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

var _ outbox.Repository = (*OutboxRepo)(nil)

type OutboxRepo struct{ db *DB }

func NewOutboxRepo(db *DB) *OutboxRepo { return &OutboxRepo{db: db} }

const (
	qOutboxEnqueue = `
INSERT INTO outbox (idempotency_key, kind, data, traceparent, tracestate, baggage)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (idempotency_key) DO NOTHING;`

	// stale IN_PROGRESS rows belong to a worker that died mid-batch
	qOutboxPick = `
WITH cand AS (
    SELECT idempotency_key
    FROM outbox
    WHERE status = 'CREATED'
       OR (status = 'IN_PROGRESS' AND updated_at < now() - make_interval(secs => $2))
    ORDER BY created_at
    LIMIT $1
    FOR UPDATE SKIP LOCKED
)
UPDATE outbox o
SET status = 'IN_PROGRESS', updated_at = now()
FROM cand
WHERE o.idempotency_key = cand.idempotency_key
RETURNING o.idempotency_key, o.kind, o.data, o.status, o.attempts, o.last_error,
          o.created_at, o.updated_at, o.traceparent, o.tracestate, o.baggage;`

	qOutboxMarkSuccess = `
UPDATE outbox
SET status = 'SUCCESS', last_error = '', updated_at = now()
WHERE idempotency_key = ANY($1);`

	qOutboxMarkFailed = `
UPDATE outbox
SET status = $2, attempts = attempts + 1, last_error = $3, updated_at = now()
WHERE idempotency_key = $1;`
)

// Enqueue stores the caller's trace context next to the message so the relay
// can continue the same trace. It joins the caller's transaction when ctx
// carries one.
func (r *OutboxRepo) Enqueue(ctx context.Context, key string, kind outbox.Kind, data []byte) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)

	_, err := r.db.execQueryer(ctx).Exec(ctx, qOutboxEnqueue, key, int(kind), data,
		carrier.Get("traceparent"), carrier.Get("tracestate"), carrier.Get("baggage"))
	return mapErr("outbox enqueue", err)
}

func (r *OutboxRepo) PickBatch(ctx context.Context, batch int, inProgressTTL time.Duration) ([]outbox.Message, error) {
	if batch <= 0 {
		return nil, errors.New("batch must be > 0")
	}
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.execQueryer(ctx).Query(ctx, qOutboxPick, batch, inProgressTTL.Seconds())
	if err != nil {
		return nil, fmt.Errorf("outbox pick: %w", err)
	}
	defer rows.Close()

	out := make([]outbox.Message, 0, batch)
	for rows.Next() {
		var (
			m      outbox.Message
			status string
			kind   int
		)
		if err := rows.Scan(&m.IdempotencyKey, &kind, &m.Data, &status, &m.Attempts, &m.LastError,
			&m.CreatedAt, &m.UpdatedAt, &m.Traceparent, &m.Tracestate, &m.Baggage); err != nil {
			return nil, fmt.Errorf("outbox scan: %w", err)
		}
		m.Kind = outbox.Kind(kind)
		m.Status = outbox.Status(status)
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *OutboxRepo) MarkSuccess(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()
	if _, err := r.db.execQueryer(ctx).Exec(ctx, qOutboxMarkSuccess, keys); err != nil {
		return fmt.Errorf("outbox mark success: %w", err)
	}
	return nil
}

func (r *OutboxRepo) MarkFailed(ctx context.Context, key, reason string, dead bool) error {
	status := outbox.StatusCreated
	if dead {
		status = outbox.StatusDead
	}
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()
	if _, err := r.db.execQueryer(ctx).Exec(ctx, qOutboxMarkFailed, key, string(status), reason); err != nil {
		return fmt.Errorf("outbox mark failed: %w", err)
	}
	return nil
}
