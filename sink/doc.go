// Package sink contains implementations of chunk.Stage that consume batches,
// including:
//
// - Collect: Records every batch in memory
// - Queue: A bounded batch queue that can be read as a source.Source
// - Writer: Hands batches to a BulkWriter with limited concurrency
// - Func: Adapts a plain function
// - Logging: Wraps any stage with structured logging
//
// Every sink reports readiness through Ready and Wait, so a chunk.Chunker in
// front of it suspends its producer instead of growing without bound.
//
// Basic usage of the Collect sink:
//
//	out := sink.NewCollect[int]()
//	c, _ := chunk.New[int](2, out)
//	for _, v := range []int{1, 2, 3} {
//	    c.Accept(ctx, v)
//	}
//	c.Complete(ctx)
//	fmt.Println(out.Batches())
//
// Output:
//
//	[[1 2] [3]]
package sink
