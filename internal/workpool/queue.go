// Package workpool provides a fixed-size pool of worker goroutines fed by an
// unbounded FIFO queue.
//
// Workers block on the queue while it is empty and run each item outside the
// queue's lock, so a slow item never delays other workers' Push or Pop. Items
// may submit further items from inside the handler.
package workpool

import (
	"sync"

	serrors "github.com/Aman-CERP/pfind/internal/errors"
)

// State is the lifecycle state of a Queue. Transitions are one-way.
type State int32

const (
	// StateRunning accepts pushes and hands out items.
	StateRunning State = iota
	// StateDraining rejects pushes; workers finish what is queued and exit.
	StateDraining
	// StateStopped means every worker has exited.
	StateStopped
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateDraining:
		return "draining"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// ErrQueueStopped is returned by Push after shutdown has been signaled.
var ErrQueueStopped = serrors.ProtocolViolation("push to a queue that is shutting down")

// Queue is an unbounded FIFO with a blocking Pop.
type Queue[T any] struct {
	mu    sync.Mutex
	cond  *sync.Cond
	items []T
	head  int
	state State
}

// NewQueue creates an empty running Queue.
func NewQueue[T any]() *Queue[T] {
	q := &Queue[T]{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Push appends item and wakes one waiting consumer.
// Returns ErrQueueStopped once the queue is no longer running.
func (q *Queue[T]) Push(item T) error {
	q.mu.Lock()
	if q.state != StateRunning {
		q.mu.Unlock()
		return ErrQueueStopped
	}
	q.items = append(q.items, item)
	q.mu.Unlock()

	q.cond.Signal()
	return nil
}

// Pop removes and returns the oldest item, blocking while the queue is empty
// and running. ok is false only when the queue is shut down and empty.
func (q *Queue[T]) Pop() (item T, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.len() == 0 && q.state == StateRunning {
		q.cond.Wait()
	}

	if q.len() == 0 {
		return item, false
	}

	var zero T
	item = q.items[q.head]
	q.items[q.head] = zero
	q.head++

	// Reclaim the consumed prefix once it dominates the slice.
	if q.head > 64 && q.head*2 >= len(q.items) {
		n := copy(q.items, q.items[q.head:])
		clear(q.items[n:])
		q.items = q.items[:n]
		q.head = 0
	}

	return item, true
}

// Len returns the number of queued items.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.len()
}

func (q *Queue[T]) len() int {
	return len(q.items) - q.head
}

// State returns the current lifecycle state.
func (q *Queue[T]) State() State {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.state
}

func (q *Queue[T]) markStopped() {
	q.mu.Lock()
	q.state = StateStopped
	q.mu.Unlock()
}

// drainIfEmpty performs drain only when no items are queued; the emptiness
// check and the state change happen under one lock hold.
func (q *Queue[T]) drainIfEmpty() (pending int, ok bool) {
	q.mu.Lock()
	if n := q.len(); n > 0 && q.state == StateRunning {
		q.mu.Unlock()
		return n, false
	}
	if q.state == StateRunning {
		q.state = StateDraining
	}
	q.mu.Unlock()

	q.cond.Broadcast()
	return 0, true
}
