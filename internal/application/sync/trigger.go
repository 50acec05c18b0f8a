package sync

import "sync"

// Trigger is a monotonically increasing refresh counter. Writers bump it
// after a confirmed mutation; readers either poll Count or wait on C.
// Bumps between reads coalesce into a single wakeup.
type Trigger struct {
	mu    sync.Mutex
	count uint64
	ch    chan struct{}
}

// NewTrigger returns a trigger at count zero.
func NewTrigger() *Trigger {
	return &Trigger{ch: make(chan struct{}, 1)}
}

// Bump increments the counter and wakes any waiter. Never blocks.
func (t *Trigger) Bump() {
	t.mu.Lock()
	t.count++
	t.mu.Unlock()

	select {
	case t.ch <- struct{}{}:
	default:
	}
}

// Count returns the number of bumps so far.
func (t *Trigger) Count() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.count
}

// C is the wakeup channel. A receive drains all bumps since the last
// receive; callers re-check Count to decide how stale they are.
func (t *Trigger) C() <-chan struct{} {
	return t.ch
}
