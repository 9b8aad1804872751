package sink

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/MasterOfBinary/gochunk/chunk"
)

// Logging wraps another stage and logs every call made to it, along with its
// outcome and how long it took.
//
// Accepts are logged at debug level, completion at info level and errors at
// error level. Logging is a chunk.Stage[T] for any T, so it can decorate a
// sink (T is a batch) or a chunk.Chunker (T is a record).
type Logging[T any] struct {
	// Next is the wrapped stage that does the actual work.
	Next chunk.Stage[T]

	// Logger is used to log stage events. The zero value logs nothing.
	Logger zerolog.Logger

	// Name is an optional name for the wrapped stage used in log messages.
	// If empty, the stage's type is used.
	Name string
}

// WrapWithLogging wraps next with logging. This is a convenience function for
// creating a Logging stage.
//
// Example:
//
//	logger := zerolog.New(os.Stderr).Level(zerolog.DebugLevel)
//	out := sink.WrapWithLogging[[]Doc](writer, logger, "couchdb")
func WrapWithLogging[T any](next chunk.Stage[T], logger zerolog.Logger, name string) *Logging[T] {
	return &Logging[T]{
		Next:   next,
		Logger: logger,
		Name:   name,
	}
}

// Accept delegates to Next and logs the call.
func (l *Logging[T]) Accept(ctx context.Context, v T) (chunk.Result, error) {
	start := time.Now()
	res, err := l.Next.Accept(ctx, v)
	l.log(err, "accept", res, time.Since(start))
	return res, err
}

// Complete delegates to Next and logs the call.
func (l *Logging[T]) Complete(ctx context.Context) (chunk.Result, error) {
	start := time.Now()
	res, err := l.Next.Complete(ctx)
	l.log(err, "complete", res, time.Since(start))
	return res, err
}

// Fail delegates to Next and logs both the forwarded error and any error
// returned by Next.
func (l *Logging[T]) Fail(ctx context.Context, cause error) (chunk.Result, error) {
	start := time.Now()
	res, err := l.Next.Fail(ctx, cause)

	l.Logger.Error().
		Str("stage", l.name()).
		AnErr("cause", cause).
		Err(err).
		Stringer("outcome", res.Outcome).
		Int("discarded", res.Discarded).
		Dur("duration", time.Since(start)).
		Msg("stage failed")

	return res, err
}

// Ready delegates to Next.
func (l *Logging[T]) Ready() bool {
	return l.Next.Ready()
}

// Wait delegates to Next and logs how long the caller was held.
func (l *Logging[T]) Wait(ctx context.Context) error {
	start := time.Now()
	err := l.Next.Wait(ctx)
	l.Logger.Debug().
		Str("stage", l.name()).
		Err(err).
		Dur("duration", time.Since(start)).
		Msg("wait returned")
	return err
}

func (l *Logging[T]) log(err error, op string, res chunk.Result, d time.Duration) {
	var ev *zerolog.Event
	switch {
	case err != nil:
		ev = l.Logger.Error().Err(err)
	case op == "complete":
		ev = l.Logger.Info()
	default:
		ev = l.Logger.Debug()
	}

	ev.Str("stage", l.name()).
		Str("op", op).
		Stringer("outcome", res.Outcome).
		Int("batch_size", res.BatchSize).
		Bool("continue", res.Continue).
		Dur("duration", d).
		Msg("stage call")
}

func (l *Logging[T]) name() string {
	if l.Name != "" {
		return l.Name
	}
	return fmt.Sprintf("%T", l.Next)
}

var _ chunk.Stage[[]int] = (*Logging[[]int])(nil)
