package sink

import (
	"context"

	"github.com/MasterOfBinary/gochunk/chunk"
)

// Func adapts an ordinary function to a batch sink. The function is called
// synchronously for every batch, so the producer is held for as long as it
// runs. Complete and Fail do nothing.
//
// Example:
//
//	c, _ := chunk.New[string](100, sink.Func[string](func(ctx context.Context, batch []string) error {
//	    return store.InsertMany(ctx, batch)
//	}))
type Func[T any] func(ctx context.Context, batch []T) error

// Accept calls f with batch.
func (f Func[T]) Accept(ctx context.Context, batch []T) (chunk.Result, error) {
	if err := f(ctx, batch); err != nil {
		return chunk.Result{Outcome: chunk.Failed, BatchSize: len(batch)}, err
	}
	return chunk.Result{Outcome: chunk.Buffered, BatchSize: len(batch), Continue: true}, nil
}

// Complete implements chunk.Stage.
func (f Func[T]) Complete(context.Context) (chunk.Result, error) {
	return chunk.Result{Outcome: chunk.Ended}, nil
}

// Fail implements chunk.Stage.
func (f Func[T]) Fail(context.Context, error) (chunk.Result, error) {
	return chunk.Result{Outcome: chunk.Failed}, nil
}

// Ready always returns true.
func (f Func[T]) Ready() bool { return true }

// Wait returns immediately.
func (f Func[T]) Wait(context.Context) error { return nil }

var _ chunk.Stage[[]int] = Func[int](nil)
