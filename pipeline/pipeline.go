// Package pipeline propagates primary-store mutations into the derived
// indexes. Writes enqueue tasks and return immediately; a single background
// worker drains the queue in order. Flush is the synchronization barrier
// that blocks a caller until every task enqueued before the call has been
// applied.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
)

// DefaultQueueSize is the default capacity of the task queue. Enqueue
// applies back-pressure once the queue is full.
const DefaultQueueSize = 1024

// ErrClosed is returned when the pipeline has been shut down.
var ErrClosed = errors.New("pipeline closed")

// Task applies one mutation to the derived indexes.
type Task func() error

type item struct {
	name    string
	run     Task
	barrier chan struct{} // non-nil marks a flush sentinel
}

// Pipeline is the ordered queue of pending index tasks plus its worker.
type Pipeline struct {
	logger *slog.Logger
	tasks  chan item

	mu     sync.RWMutex
	closed bool

	done chan struct{}
}

// New creates a Pipeline and starts its worker. queueSize <= 0 selects the
// default.
func New(queueSize int, logger *slog.Logger) *Pipeline {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	p := &Pipeline{
		logger: logger,
		tasks:  make(chan item, queueSize),
		done:   make(chan struct{}),
	}

	go p.run()

	return p
}

func (p *Pipeline) run() {
	defer close(p.done)

	for it := range p.tasks {
		if it.barrier != nil {
			close(it.barrier)
			continue
		}
		p.apply(it)
	}
}

// apply runs one task, recovering panics so a poisoned task can never kill
// the worker. A failed task is logged and dropped: the document stays
// unindexed until a later write corrects it, and the primary stores are
// never rolled back.
func (p *Pipeline) apply(it item) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("index task panicked",
				"task", it.name,
				"panic", fmt.Sprint(r),
				"stack", string(debug.Stack()),
			)
		}
	}()

	if err := it.run(); err != nil {
		p.logger.Warn("index task failed",
			"task", it.name,
			"error", err,
		)
		return
	}

	p.logger.Debug("index task applied", "task", it.name)
}

// Enqueue submits a task. It blocks when the queue is full and fails only
// after Close.
func (p *Pipeline) Enqueue(name string, task Task) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrClosed
	}

	p.tasks <- item{name: name, run: task}
	return nil
}

// Flush blocks until every task enqueued before the call has been applied.
// It never waits on tasks enqueued afterwards.
func (p *Pipeline) Flush(ctx context.Context) error {
	barrier := make(chan struct{})

	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		return ErrClosed
	}
	p.tasks <- item{name: "flush", barrier: barrier}
	p.mu.RUnlock()

	select {
	case <-barrier:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Pending returns the number of queued tasks.
func (p *Pipeline) Pending() int {
	return len(p.tasks)
}

// Close stops the worker after draining already queued tasks. Further
// Enqueue and Flush calls fail with ErrClosed.
func (p *Pipeline) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.tasks)
	p.mu.Unlock()

	<-p.done
	return nil
}
