package sink

import (
	"context"
	"sync"

	"github.com/MasterOfBinary/gochunk/chunk"
)

// Collect is a sink that keeps every batch it receives in memory. It is always
// ready.
//
// It is useful for capturing the output of a pipeline in tests and small
// jobs. Collect is safe for concurrent use.
type Collect[T any] struct {
	mu        sync.Mutex
	batches   [][]T
	completed bool
	err       error
	closed    bool
}

// NewCollect creates an empty Collect sink.
func NewCollect[T any]() *Collect[T] {
	return &Collect[T]{}
}

// Accept stores batch.
func (c *Collect[T]) Accept(_ context.Context, batch []T) (chunk.Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return chunk.Result{Outcome: chunk.Rejected}, ErrClosed
	}
	c.batches = append(c.batches, batch)
	return chunk.Result{Outcome: chunk.Buffered, BatchSize: len(batch), Continue: true}, nil
}

// Complete marks the sink as completed.
func (c *Collect[T]) Complete(context.Context) (chunk.Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return chunk.Result{Outcome: chunk.Rejected}, ErrClosed
	}
	c.closed = true
	c.completed = true
	return chunk.Result{Outcome: chunk.Ended}, nil
}

// Fail records err.
func (c *Collect[T]) Fail(_ context.Context, err error) (chunk.Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return chunk.Result{Outcome: chunk.Rejected}, ErrClosed
	}
	c.closed = true
	c.err = err
	return chunk.Result{Outcome: chunk.Failed}, nil
}

// Ready always returns true.
func (c *Collect[T]) Ready() bool { return true }

// Wait returns immediately.
func (c *Collect[T]) Wait(context.Context) error { return nil }

// Batches returns the batches received so far, in order.
func (c *Collect[T]) Batches() [][]T {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([][]T, len(c.batches))
	copy(out, c.batches)
	return out
}

// Records returns every record received so far, flattened in order.
func (c *Collect[T]) Records() []T {
	c.mu.Lock()
	defer c.mu.Unlock()

	var out []T
	for _, b := range c.batches {
		out = append(out, b...)
	}
	return out
}

// Completed reports whether Complete was called.
func (c *Collect[T]) Completed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.completed
}

// Err returns the error passed to Fail, if any.
func (c *Collect[T]) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

var _ chunk.Stage[[]int] = (*Collect[int])(nil)
