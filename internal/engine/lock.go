package engine

import (
	"context"
	"sync"

	"github.com/NordCoder/CloudCorrect/internal/repository/postgres"
	"github.com/google/uuid"
)

var (
	_ Locker = (*MemoryLocker)(nil)
	_ Locker = (*postgres.AdvisoryLocker)(nil)
)

// Locker guarantees at most one in-flight evaluation per group.
// TryLock never blocks waiting for the holder.
type Locker interface {
	TryLock(ctx context.Context, groupID uuid.UUID) (unlock func(), ok bool, err error)
}

type MemoryLocker struct {
	mu   sync.Mutex
	held map[uuid.UUID]struct{}
}

func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{held: make(map[uuid.UUID]struct{})}
}

func (l *MemoryLocker) TryLock(_ context.Context, groupID uuid.UUID) (func(), bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, busy := l.held[groupID]; busy {
		return nil, false, nil
	}
	l.held[groupID] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.held, groupID)
			l.mu.Unlock()
		})
	}, true, nil
}
