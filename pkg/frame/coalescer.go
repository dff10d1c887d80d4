// Package frame coalesces high-frequency payloads to presentation rate. A
// single-slot buffer holds the latest pending payload and drops the ones in
// between; the flush always sees the newest state, and the last payload is
// always processed. The scheduling hook is injected so the coalescer stays
// decoupled from any particular UI event loop.
package frame

import "sync"

// Coalescer batches payloads of type T into at most one flush per scheduled
// frame.
type Coalescer[T any] struct {
	mu        sync.Mutex
	pending   T
	hasWork   bool
	scheduled bool

	flush    func(T)
	schedule func(func())
}

// NewCoalescer creates a coalescer that delivers payloads to flush. schedule
// arranges for the given function to run once at the next frame boundary
// (e.g. a window invalidate plus a frame callback); passing nil runs flushes
// immediately, which keeps tests and headless callers synchronous.
func NewCoalescer[T any](flush func(T), schedule func(func())) *Coalescer[T] {
	if schedule == nil {
		schedule = func(f func()) { f() }
	}
	return &Coalescer[T]{flush: flush, schedule: schedule}
}

// Push stores v as the latest pending payload, replacing any payload not yet
// flushed, and schedules a flush if none is in flight.
func (c *Coalescer[T]) Push(v T) {
	c.mu.Lock()
	c.pending = v
	c.hasWork = true
	if c.scheduled {
		c.mu.Unlock()
		return
	}
	c.scheduled = true
	c.mu.Unlock()

	c.schedule(c.run)
}

// Pending reports whether a payload is waiting to be flushed.
func (c *Coalescer[T]) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hasWork
}

func (c *Coalescer[T]) run() {
	c.mu.Lock()
	v := c.pending
	var zero T
	c.pending = zero
	c.hasWork = false
	c.mu.Unlock()

	c.flush(v)

	// A payload pushed while flushing needs its own frame; reschedule
	// rather than drop it so the last state is always processed.
	c.mu.Lock()
	if c.hasWork {
		c.mu.Unlock()
		c.schedule(c.run)
		return
	}
	c.scheduled = false
	c.mu.Unlock()
}
