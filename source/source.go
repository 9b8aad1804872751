package source

import "context"

// Source reads records to be grouped into batches.
type Source[T any] interface {
	// Read returns a channel of records and a channel of errors.
	//
	// Read must create both channels (never return nil channels), and must
	// close them when reading is finished or when ctx is canceled. A Source
	// reports at most the errors it cannot recover from; the first one
	// received ends the pipeline.
	Read(ctx context.Context) (<-chan T, <-chan error)
}
