package eventsource

import (
	"context"
	"sync"
	"sync/atomic"
)

// reentrantMutex is a mutual exclusion lock whose ownership travels with a
// context.Context. A call chain holding a context returned by lock may lock
// again without blocking; every other caller waits for the holder to unlock.
// The zero value is an unlocked mutex.
type reentrantMutex struct {
	mu sync.Mutex
}

// lockKey identifies a particular reentrantMutex among a context's values.
type lockKey struct{ m *reentrantMutex }

// lockState marks a context as holding the mutex. It is stored under lockKey
// for as long as the owning call has not unlocked.
type lockState struct {
	released atomic.Bool
}

// lock acquires m unless ctx already holds it. It returns the context nested
// calls must use to re-enter, and a func releasing whatever this call
// acquired. The release func of a reentrant call is a no-op.
//
// A context that outlives its owner's unlock no longer holds m; using it locks
// normally.
func (m *reentrantMutex) lock(ctx context.Context) (context.Context, func()) {
	if ctx == nil {
		ctx = context.Background()
	}
	if m.heldBy(ctx) {
		return ctx, func() {}
	}
	m.mu.Lock()
	st := &lockState{}
	return context.WithValue(ctx, lockKey{m}, st), func() {
		st.released.Store(true)
		m.mu.Unlock()
	}
}

// heldBy reports whether ctx was returned by a still-active lock of m.
func (m *reentrantMutex) heldBy(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	st, ok := ctx.Value(lockKey{m}).(*lockState)
	return ok && !st.released.Load()
}
