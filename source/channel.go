package source

import "context"

// Channel is a Source that forwards records from Input until Input is closed
// or the context is canceled. The Channel does not close Input.
type Channel[T any] struct {
	// Input is the channel this source reads from. A nil Input produces
	// nothing.
	Input <-chan T

	// BufferSize is the capacity of the returned record channel. Zero means
	// unbuffered.
	BufferSize int
}

// Read implements the Source interface.
func (s *Channel[T]) Read(ctx context.Context) (<-chan T, <-chan error) {
	out := make(chan T, max(s.BufferSize, 0))
	errs := make(chan error)

	go func() {
		defer close(out)
		defer close(errs)

		if s.Input == nil {
			return
		}

		for {
			select {
			case <-ctx.Done():
				return
			case item, ok := <-s.Input:
				if !ok {
					return
				}
				select {
				case <-ctx.Done():
					return
				case out <- item:
				}
			}
		}
	}()

	return out, errs
}
