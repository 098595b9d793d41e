package memory

import (
	"context"
	"sync"
	"time"

	"github.com/BruksfildServices01/barber-queue/internal/httperr"
)

// lockManager hands out exclusive keyed locks. Each key is a one-slot
// semaphore, so a waiter can give up on timeout or context cancellation.
type lockManager struct {
	mu    sync.Mutex
	slots map[string]chan struct{}
}

func newLockManager() *lockManager {
	return &lockManager{slots: make(map[string]chan struct{})}
}

func (m *lockManager) slot(key string) chan struct{} {
	m.mu.Lock()
	defer m.mu.Unlock()

	ch, ok := m.slots[key]
	if !ok {
		ch = make(chan struct{}, 1)
		m.slots[key] = ch
	}
	return ch
}

func (m *lockManager) acquire(ctx context.Context, key string, timeout time.Duration) error {
	ch := m.slot(key)

	select {
	case ch <- struct{}{}:
		return nil
	default:
	}

	var expired <-chan time.Time
	if timeout > 0 {
		t := time.NewTimer(timeout)
		defer t.Stop()
		expired = t.C
	}

	select {
	case ch <- struct{}{}:
		return nil
	case <-expired:
		return httperr.ErrLockTimeout
	case <-ctx.Done():
		return httperr.ErrLockTimeout
	}
}

// tryAcquire takes key only if nobody holds it.
func (m *lockManager) tryAcquire(key string) bool {
	select {
	case m.slot(key) <- struct{}{}:
		return true
	default:
		return false
	}
}

func (m *lockManager) release(key string) {
	<-m.slot(key)
}
