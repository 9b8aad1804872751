package source

import "context"

// Error is a Source that emits Items and then reports Err. It is mostly
// useful for exercising failure paths of a pipeline.
type Error[T any] struct {
	Items []T

	// Err is sent after the last item. If nil, Error behaves like Slice.
	Err error
}

// Read implements the Source interface.
func (s *Error[T]) Read(ctx context.Context) (<-chan T, <-chan error) {
	out := make(chan T)
	errs := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errs)

		for _, item := range s.Items {
			select {
			case <-ctx.Done():
				return
			case out <- item:
			}
		}

		if s.Err != nil {
			errs <- s.Err
		}
	}()

	return out, errs
}
