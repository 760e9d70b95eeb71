// Package tracker counts outstanding work so a coordinator can block until a
// recursively growing set of tasks has fully drained.
//
// The protocol is reserve-before-submit, done-after-completion:
//
//	t := tracker.New(1)            // the root task is outstanding before it runs
//	...
//	// inside a task, for each child:
//	t.Reserve()                    // strictly before the child is submitted
//	pool.Submit(child)
//	...
//	t.Done()                       // exactly once per task, on every exit path
//
// Because a parent reserves for a child before submitting it, and a child can
// only call Done after it has run, the count cannot reach zero while any
// submitted or in-flight task exists.
package tracker

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	serrors "github.com/Aman-CERP/pfind/internal/errors"
)

// Tracker is an outstanding-work counter with a blocking wait for zero.
// The counter itself is lock-free; the mutex only guards the wake-up.
type Tracker struct {
	count atomic.Int64

	mu   sync.Mutex
	cond *sync.Cond
}

// New creates a Tracker with initial outstanding units.
func New(initial int64) *Tracker {
	t := &Tracker{}
	t.cond = sync.NewCond(&t.mu)
	t.count.Store(initial)
	return t
}

// Reserve records one more outstanding unit.
func (t *Tracker) Reserve() {
	t.count.Add(1)
}

// Done records the completion of one unit and wakes waiters when the count
// reaches zero. Going below zero breaks the protocol and panics.
func (t *Tracker) Done() {
	n := t.count.Add(-1)
	if n < 0 {
		panic(serrors.ProtocolViolation(fmt.Sprintf("outstanding work counter went negative (%d)", n)))
	}
	if n == 0 {
		// Taking the lock orders this broadcast after any waiter's predicate
		// check, so the wake-up cannot be lost.
		t.mu.Lock()
		t.cond.Broadcast()
		t.mu.Unlock()
	}
}

// Count returns the current number of outstanding units.
func (t *Tracker) Count() int64 {
	return t.count.Load()
}

// Wait blocks until the count is zero and drained reports true.
// drained may be nil. It is evaluated with the tracker's lock held and must
// not call back into the Tracker.
func (t *Tracker) Wait(drained func() bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for !t.settled(drained) {
		t.cond.Wait()
	}
}

// WaitContext is Wait that gives up when ctx is done, returning ctx.Err().
func (t *Tracker) WaitContext(ctx context.Context, drained func() bool) error {
	stop := context.AfterFunc(ctx, func() {
		t.mu.Lock()
		t.cond.Broadcast()
		t.mu.Unlock()
	})
	defer stop()

	t.mu.Lock()
	defer t.mu.Unlock()

	for !t.settled(drained) {
		if err := ctx.Err(); err != nil {
			return err
		}
		t.cond.Wait()
	}
	return nil
}

func (t *Tracker) settled(drained func() bool) bool {
	if t.count.Load() != 0 {
		return false
	}
	return drained == nil || drained()
}
