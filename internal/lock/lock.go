// Package lock guards forecast runs so only one holder runs at a time.
package lock

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrLocked is returned when another holder owns the key.
var ErrLocked = errors.New("lock: already held")

// ReleaseFunc gives up a held lock. Releasing twice, or after expiry, is a no-op.
type ReleaseFunc func(ctx context.Context) error

// Locker acquires expiring, token-guarded locks.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (ReleaseFunc, error)
}

type entry struct {
	token   string
	expires time.Time
}

// Memory is an in-process Locker for single-replica deployments and tests.
type Memory struct {
	mu    sync.Mutex
	held  map[string]entry
	clock func() time.Time
}

// NewMemory returns an empty in-process locker.
func NewMemory() *Memory {
	return &Memory{held: make(map[string]entry), clock: time.Now}
}

// Acquire takes key for ttl or returns ErrLocked.
func (m *Memory) Acquire(_ context.Context, key string, ttl time.Duration) (ReleaseFunc, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock()
	if e, ok := m.held[key]; ok && now.Before(e.expires) {
		return nil, ErrLocked
	}
	token := uuid.NewString()
	m.held[key] = entry{token: token, expires: now.Add(ttl)}

	return func(context.Context) error {
		m.mu.Lock()
		defer m.mu.Unlock()
		if e, ok := m.held[key]; ok && e.token == token {
			delete(m.held, key)
		}
		return nil
	}, nil
}
