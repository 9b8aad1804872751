package source

import "context"

// Slice is a Source that emits Items in order and then finishes.
type Slice[T any] struct {
	Items []T
}

// FromSlice returns a Slice source over items.
func FromSlice[T any](items ...T) *Slice[T] {
	return &Slice[T]{Items: items}
}

// Read implements the Source interface.
func (s *Slice[T]) Read(ctx context.Context) (<-chan T, <-chan error) {
	out := make(chan T)
	errs := make(chan error)

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
	}()

	return out, errs
}
