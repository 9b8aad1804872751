package sink

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/MasterOfBinary/gochunk/chunk"
)

// BulkWriter writes whole batches to an external system, such as a message
// broker or a database's bulk API.
type BulkWriter[T any] interface {
	// WriteBatch writes batch in one request. The slice must not be retained
	// after WriteBatch returns.
	WriteBatch(ctx context.Context, batch []T) error

	// Close releases the writer. It is called once, after the last write
	// returned.
	Close(ctx context.Context) error
}

// WriterConfig provides configuration options for creating a Writer sink.
type WriterConfig struct {
	// Concurrency is the maximum number of batches written at once. Values
	// below 1 mean 1.
	Concurrency int
}

// Writer is a sink that hands each batch to a BulkWriter in its own goroutine,
// with at most Concurrency writes in flight. It is ready while fewer writes
// are running.
//
// Writes run on a context that is independent of the Accept call and is
// canceled when any write fails. The first write error is returned by the next
// call to Accept, Wait or Complete, which also shuts the Writer down. The
// BulkWriter is closed once, after every in-flight write has returned, when
// the Writer is completed, failed or shut down by a write error.
//
// Writer serves a single producer.
type Writer[T any] struct {
	bw     BulkWriter[T]
	sem    *semaphore.Weighted
	group  *errgroup.Group
	gctx   context.Context
	closed bool

	mu  sync.Mutex
	err error
}

// NewWriter creates a Writer sink over bw.
func NewWriter[T any](bw BulkWriter[T], config WriterConfig) (*Writer[T], error) {
	if bw == nil {
		return nil, errors.New("sink: bulk writer cannot be nil")
	}

	group, gctx := errgroup.WithContext(context.Background())
	return &Writer[T]{
		bw:    bw,
		sem:   semaphore.NewWeighted(int64(max(config.Concurrency, 1))),
		group: group,
		gctx:  gctx,
	}, nil
}

// Accept starts writing batch once a write slot is free.
func (w *Writer[T]) Accept(ctx context.Context, batch []T) (chunk.Result, error) {
	if w.closed {
		return chunk.Result{Outcome: chunk.Rejected}, ErrClosed
	}
	if w.failure() != nil {
		return chunk.Result{Outcome: chunk.Failed}, w.shutdown(ctx)
	}

	if err := w.sem.Acquire(ctx, 1); err != nil {
		return chunk.Result{Outcome: chunk.Rejected}, err
	}

	w.group.Go(func() error {
		defer w.sem.Release(1)
		if err := w.bw.WriteBatch(w.gctx, batch); err != nil {
			w.setFailure(err)
			return err
		}
		return nil
	})

	return chunk.Result{Outcome: chunk.Buffered, BatchSize: len(batch), Continue: w.Ready()}, nil
}

// Complete waits for in-flight writes and closes the BulkWriter. It returns
// the first write error, if any, joined with the close error.
func (w *Writer[T]) Complete(ctx context.Context) (chunk.Result, error) {
	if w.closed {
		return chunk.Result{Outcome: chunk.Rejected}, ErrClosed
	}
	if err := w.shutdown(ctx); err != nil {
		return chunk.Result{Outcome: chunk.Failed}, err
	}
	return chunk.Result{Outcome: chunk.Ended}, nil
}

// Fail waits for in-flight writes and closes the BulkWriter. The upstream
// error is not returned; errors of the writer itself are.
func (w *Writer[T]) Fail(ctx context.Context, _ error) (chunk.Result, error) {
	if w.closed {
		return chunk.Result{Outcome: chunk.Rejected}, ErrClosed
	}
	return chunk.Result{Outcome: chunk.Failed}, w.shutdown(ctx)
}

// Ready reports whether a write slot is free.
func (w *Writer[T]) Ready() bool {
	if w.closed || !w.sem.TryAcquire(1) {
		return false
	}
	w.sem.Release(1)
	return true
}

// Wait blocks until a write slot is free or ctx is done. If a write has
// failed, Wait shuts the Writer down and returns the error.
func (w *Writer[T]) Wait(ctx context.Context) error {
	if w.closed {
		return ErrClosed
	}
	if w.failure() == nil {
		if err := w.sem.Acquire(ctx, 1); err != nil {
			return err
		}
		w.sem.Release(1)
	}
	if w.failure() != nil {
		return w.shutdown(ctx)
	}
	return nil
}

func (w *Writer[T]) shutdown(ctx context.Context) error {
	w.closed = true
	werr := w.group.Wait()
	cerr := w.bw.Close(ctx)
	return errors.Join(werr, cerr)
}

func (w *Writer[T]) failure() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.err
}

func (w *Writer[T]) setFailure(err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err == nil {
		w.err = err
	}
}

var _ chunk.Stage[[]int] = (*Writer[int])(nil)
