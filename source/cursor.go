package source

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
)

// Iterator is a database cursor. Its method set matches *mongo.Cursor, so a
// query result can be read directly:
//
//	cur, err := coll.Find(ctx, bson.D{})
//	if err != nil {
//		return err
//	}
//	src, err := source.NewCursor[bson.M](cur)
type Iterator interface {
	Next(ctx context.Context) bool
	Decode(val interface{}) error
	Err() error
	Close(ctx context.Context) error
}

var _ Iterator = (*mongo.Cursor)(nil)

// Cursor is a Source that decodes each document of Iter into a T.
//
// The iterator is closed when reading ends, whether it finished, failed or the
// context was canceled. A decode error ends the read; the records decoded
// before it have already been delivered.
type Cursor[T any] struct {
	Iter Iterator
}

// Read implements the Source interface.
func (s *Cursor[T]) Read(ctx context.Context) (<-chan T, <-chan error) {
	out := make(chan T)
	errs := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errs)

		if s.Iter == nil {
			return
		}

		err := s.drain(ctx, out)
		if cerr := s.Iter.Close(context.WithoutCancel(ctx)); err == nil {
			err = cerr
		}
		if err != nil && ctx.Err() == nil {
			errs <- err
		}
	}()

	return out, errs
}

func (s *Cursor[T]) drain(ctx context.Context, out chan<- T) error {
	for s.Iter.Next(ctx) {
		var v T
		if err := s.Iter.Decode(&v); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return nil
		case out <- v:
		}
	}
	return s.Iter.Err()
}
