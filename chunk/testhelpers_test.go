package chunk_test

import (
	"context"
	"sync"

	"github.com/MasterOfBinary/gochunk/chunk"
)

// recorder is a downstream Stage that keeps everything it receives. It can be
// blocked to simulate a consumer that is not ready.
type recorder[T any] struct {
	mu          sync.Mutex
	batches     []T
	completed   int
	errs        []error
	acceptErr   error
	completeErr error
	blocked     bool
	open        chan struct{}
}

func newRecorder[T any]() *recorder[T] {
	return &recorder[T]{open: make(chan struct{})}
}

func (r *recorder[T]) Accept(_ context.Context, v T) (chunk.Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.acceptErr != nil {
		return chunk.Result{Outcome: chunk.Rejected}, r.acceptErr
	}
	r.batches = append(r.batches, v)
	return chunk.Result{Outcome: chunk.Buffered, Continue: !r.blocked}, nil
}

func (r *recorder[T]) Complete(_ context.Context) (chunk.Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.completed++
	if r.completeErr != nil {
		return chunk.Result{Outcome: chunk.Failed}, r.completeErr
	}
	return chunk.Result{Outcome: chunk.Ended}, nil
}

func (r *recorder[T]) Fail(_ context.Context, err error) (chunk.Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, err)
	return chunk.Result{Outcome: chunk.Failed}, nil
}

func (r *recorder[T]) Ready() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return !r.blocked
}

func (r *recorder[T]) Wait(ctx context.Context) error {
	r.mu.Lock()
	if !r.blocked {
		r.mu.Unlock()
		return nil
	}
	open := r.open
	r.mu.Unlock()

	select {
	case <-open:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *recorder[T]) block() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.blocked {
		r.blocked = true
		r.open = make(chan struct{})
	}
}

func (r *recorder[T]) unblock() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.blocked {
		r.blocked = false
		close(r.open)
	}
}

func (r *recorder[T]) snapshot() []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]T(nil), r.batches...)
}

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

func feed(ctx context.Context, c *chunk.Chunker[int], items []int) error {
	for _, item := range items {
		if _, err := c.Accept(ctx, item); err != nil {
			return err
		}
	}
	return nil
}
