package chunk_test

import (
	"context"
	"errors"
	"fmt"

	"github.com/MasterOfBinary/gochunk/chunk"
)

// printer is a downstream Stage that prints what it receives.
type printer struct{}

func (printer) Accept(_ context.Context, b []int) (chunk.Result, error) {
	fmt.Println("batch", b)
	return chunk.Result{Outcome: chunk.Buffered, Continue: true}, nil
}

func (printer) Complete(context.Context) (chunk.Result, error) {
	fmt.Println("end")
	return chunk.Result{Outcome: chunk.Ended}, nil
}

func (printer) Fail(_ context.Context, err error) (chunk.Result, error) {
	fmt.Println("error:", err)
	return chunk.Result{Outcome: chunk.Failed}, nil
}

func (printer) Ready() bool                { return true }
func (printer) Wait(context.Context) error { return nil }

func Example() {
	ctx := context.Background()

	c, err := chunk.New[int](2, printer{})
	if err != nil {
		fmt.Println(err)
		return
	}

	for _, v := range []int{1, 2, 3, 4, 5} {
		if _, err := c.Accept(ctx, v); err != nil {
			fmt.Println(err)
			return
		}
	}

	res, _ := c.Complete(ctx)
	fmt.Println(res.Outcome, res.BatchSize)

	// Output:
	// batch [1 2]
	// batch [3 4]
	// batch [5]
	// end
	// flushed 1
}

func ExampleChunker_Fail() {
	ctx := context.Background()

	c, _ := chunk.New[int](300, printer{})
	_, _ = c.Accept(ctx, 1)
	_, _ = c.Accept(ctx, 2)

	res, _ := c.Fail(ctx, errors.New("cursor closed"))
	fmt.Println(res.Outcome, res.Discarded)

	_, err := c.Accept(ctx, 3)
	fmt.Println(errors.Is(err, chunk.ErrFailed))

	// Output:
	// error: cursor closed
	// failed 2
	// true
}

func ExampleNew_invalidSize() {
	_, err := chunk.New[int](0, printer{})
	fmt.Println(err)
	fmt.Println(errors.Is(err, chunk.ErrInvalidChunkSize))

	// Output:
	// configuration error: chunksize: chunk size must be a positive integer: got 0
	// true
}
