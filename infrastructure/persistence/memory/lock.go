package memory

import (
	"context"
	"sync"
	"time"

	"museum-backend/application/ports"
)

// Lock is a process-local ports.UserLock with expiry
type Lock struct {
	mu   sync.Mutex
	held map[string]lockEntry
	now  func() time.Time
}

type lockEntry struct {
	owner     string
	expiresAt time.Time
}

// NewLock creates an empty process-local lock table
func NewLock() *Lock {
	return &Lock{held: make(map[string]lockEntry), now: time.Now}
}

var _ ports.UserLock = (*Lock)(nil)

func (l *Lock) AcquireLock(_ context.Context, resource, owner string, duration time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	if e, ok := l.held[resource]; ok && now.Before(e.expiresAt) {
		return false, nil
	}
	l.held[resource] = lockEntry{owner: owner, expiresAt: now.Add(duration)}
	return true, nil
}

func (l *Lock) ReleaseLock(_ context.Context, resource, owner string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if e, ok := l.held[resource]; ok && e.owner == owner {
		delete(l.held, resource)
	}
	return nil
}
