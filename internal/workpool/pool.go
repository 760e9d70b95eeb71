package workpool

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"runtime/debug"
	"sync"

	"golang.org/x/sync/errgroup"

	serrors "github.com/Aman-CERP/pfind/internal/errors"
)

// Pool runs a fixed number of workers that pull items from a shared Queue.
type Pool[T any] struct {
	queue   *Queue[T]
	handler func(T)
	workers int

	group     errgroup.Group
	startOnce sync.Once
}

// New creates a Pool of workers goroutines that pass each item to handler.
// workers <= 0 means runtime.NumCPU(). The pool does nothing until Start.
func New[T any](workers int, handler func(T)) *Pool[T] {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Pool[T]{
		queue:   NewQueue[T](),
		handler: handler,
		workers: workers,
	}
}

// Start launches the workers. Calling it more than once has no effect.
func (p *Pool[T]) Start() {
	p.startOnce.Do(func() {
		for i := 0; i < p.workers; i++ {
			id := i
			p.group.Go(func() error {
				p.work(id)
				return nil
			})
		}
		slog.Debug("worker pool started", slog.Int("workers", p.workers))
	})
}

// Submit queues item for a worker.
// After Shutdown it returns ErrQueueStopped.
func (p *Pool[T]) Submit(item T) error {
	return p.queue.Push(item)
}

// Shutdown stops the pool and blocks until every worker has returned.
// The queue must be empty: with items still pending it returns a protocol
// violation and leaves the pool running. Repeated calls return nil.
func (p *Pool[T]) Shutdown() error {
	if pending, ok := p.queue.drainIfEmpty(); !ok {
		return serrors.ProtocolViolation(fmt.Sprintf("worker pool shutdown with %d items pending", pending))
	}

	_ = p.group.Wait()
	p.queue.markStopped()

	slog.Debug("worker pool stopped", slog.Int("workers", p.workers))
	return nil
}

// Workers returns the number of worker goroutines.
func (p *Pool[T]) Workers() int {
	return p.workers
}

// Pending returns the number of queued, not yet started items.
func (p *Pool[T]) Pending() int {
	return p.queue.Len()
}

// State returns the lifecycle state of the underlying queue.
func (p *Pool[T]) State() State {
	return p.queue.State()
}

func (p *Pool[T]) work(id int) {
	for {
		item, ok := p.queue.Pop()
		if !ok {
			return
		}
		p.run(id, item)
	}
}

// run executes one item. A panicking handler is logged and the worker keeps
// going, except for protocol violations, which are re-raised.
func (p *Pool[T]) run(id int, item T) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if err, ok := r.(error); ok {
			var se *serrors.SearchError
			if errors.As(err, &se) && se.Code == serrors.ErrCodeProtocolViolation {
				panic(r)
			}
		}
		slog.Error("work item panicked",
			slog.Int("worker", id),
			slog.Any("panic", r),
			slog.String("stack", string(debug.Stack())))
	}()

	p.handler(item)
}
