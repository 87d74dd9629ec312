package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	qTryAdvisoryLock = `SELECT pg_try_advisory_lock(hashtextextended($1, 0));`
	qAdvisoryUnlock  = `SELECT pg_advisory_unlock(hashtextextended($1, 0));`
)

// AdvisoryLocker holds a session-level advisory lock per group on a
// dedicated pooled connection, so it works across processes.
type AdvisoryLocker struct {
	db  *DB
	log *zap.Logger
}

func NewAdvisoryLocker(db *DB, log *zap.Logger) *AdvisoryLocker {
	return &AdvisoryLocker{db: db, log: log.With(zap.String("component", "postgres.locker"))}
}

func (l *AdvisoryLocker) TryLock(ctx context.Context, groupID uuid.UUID) (func(), bool, error) {
	conn, err := l.db.Pool.Acquire(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("acquire conn: %w", err)
	}

	key := groupID.String()
	var ok bool
	if err := conn.QueryRow(ctx, qTryAdvisoryLock, key).Scan(&ok); err != nil {
		conn.Release()
		return nil, false, fmt.Errorf("try advisory lock: %w", err)
	}
	if !ok {
		conn.Release()
		return nil, false, nil
	}

	return func() {
		uctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		var released bool
		if err := conn.QueryRow(uctx, qAdvisoryUnlock, key).Scan(&released); err != nil || !released {
			// closing the session drops every lock it still holds
			l.log.Warn("advisory unlock failed; dropping connection", zap.String("group_id", key), zap.Error(err))
			_ = conn.Conn().Close(uctx)
		}
		conn.Release()
	}, true, nil
}
