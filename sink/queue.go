package sink

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/MasterOfBinary/gochunk/chunk"
	"github.com/MasterOfBinary/gochunk/source"
)

// Queue is a bounded queue of batches. It is a sink on the write side and a
// source.Source on the read side, so the output of one chunk.Chunker can feed
// a further pipeline.
//
// A batch occupies one of the queue's slots until the reader has received
// it. Queue is ready while a slot is free.
//
// Accept, Complete and Fail must be called from a single producer goroutine;
// Read may run concurrently with them. Read may be called once.
type Queue[T any] struct {
	slots   chan struct{}
	out     chan []T
	err     error
	closed  bool
	reading atomic.Bool
}

// NewQueue creates a Queue holding at most capacity batches.
func NewQueue[T any](capacity int) (*Queue[T], error) {
	if capacity <= 0 {
		return nil, errors.New("sink: queue capacity must be positive")
	}
	return &Queue[T]{
		slots: make(chan struct{}, capacity),
		out:   make(chan []T, capacity),
	}, nil
}

// Accept enqueues batch, waiting for a free slot if necessary.
func (q *Queue[T]) Accept(ctx context.Context, batch []T) (chunk.Result, error) {
	if q.closed {
		return chunk.Result{Outcome: chunk.Rejected}, ErrClosed
	}

	select {
	case <-ctx.Done():
		return chunk.Result{Outcome: chunk.Rejected}, ctx.Err()
	case q.slots <- struct{}{}:
	}

	// Holding a slot guarantees room in out.
	q.out <- batch

	return chunk.Result{Outcome: chunk.Buffered, BatchSize: len(batch), Continue: q.Ready()}, nil
}

// Complete closes the queue. Batches already queued are still delivered.
func (q *Queue[T]) Complete(context.Context) (chunk.Result, error) {
	if q.closed {
		return chunk.Result{Outcome: chunk.Rejected}, ErrClosed
	}
	q.closed = true
	close(q.out)
	return chunk.Result{Outcome: chunk.Ended}, nil
}

// Fail closes the queue. The reader receives the queued batches first and
// then err.
func (q *Queue[T]) Fail(_ context.Context, err error) (chunk.Result, error) {
	if q.closed {
		return chunk.Result{Outcome: chunk.Rejected}, ErrClosed
	}
	q.closed = true
	q.err = err
	close(q.out)
	return chunk.Result{Outcome: chunk.Failed}, nil
}

// Ready reports whether a slot is free.
func (q *Queue[T]) Ready() bool {
	return !q.closed && len(q.slots) < cap(q.slots)
}

// Wait blocks until a slot is free or ctx is done.
func (q *Queue[T]) Wait(ctx context.Context) error {
	if q.closed {
		return ErrClosed
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case q.slots <- struct{}{}:
		<-q.slots
		return nil
	}
}

// Len returns the number of batches waiting to be read.
func (q *Queue[T]) Len() int {
	return len(q.slots)
}

// Read implements source.Source. The batch channel closes after the queue is
// completed or failed and every queued batch was delivered; a failure is then
// reported on the error channel.
//
// Only the first call reads the queue. Later calls return closed channels.
func (q *Queue[T]) Read(ctx context.Context) (<-chan []T, <-chan error) {
	out := make(chan []T)
	errs := make(chan error, 1)

	if !q.reading.CompareAndSwap(false, true) {
		close(out)
		close(errs)
		return out, errs
	}

	go func() {
		defer close(out)
		defer close(errs)

		for {
			select {
			case <-ctx.Done():
				return
			case batch, ok := <-q.out:
				if !ok {
					// close(q.out) happens after q.err is set.
					if q.err != nil {
						errs <- q.err
					}
					return
				}
				select {
				case <-ctx.Done():
					return
				case out <- batch:
				}
				<-q.slots
			}
		}
	}()

	return out, errs
}

var (
	_ chunk.Stage[[]int]   = (*Queue[int])(nil)
	_ source.Source[[]int] = (*Queue[int])(nil)
)
