package chunk

import "context"

// Stage is one link of a push pipeline. A producer calls Accept for each
// value, then exactly one of Complete or Fail.
//
// Chunker[T] is a Stage[T] that feeds a Stage[[]T], so stages can be chained:
// a Chunker[[]T] placed after a Chunker[T] groups batches of batches.
type Stage[T any] interface {
	// Accept delivers one value. Result.Continue reports whether the caller
	// may deliver the next value without calling Wait first.
	Accept(ctx context.Context, v T) (Result, error)

	// Complete signals that no more values will arrive.
	Complete(ctx context.Context) (Result, error)

	// Fail signals an unrecoverable producer error. The error is passed on
	// unchanged.
	Fail(ctx context.Context, err error) (Result, error)

	// Ready reports, without blocking, whether the stage can take another
	// value right now.
	Ready() bool

	// Wait blocks until the stage is ready or ctx is done.
	Wait(ctx context.Context) error
}

// Outcome is the kind of event a Stage operation produced.
type Outcome uint8

const (
	// Rejected means the call returned an error and changed nothing.
	Rejected Outcome = iota
	// Buffered means the value was held and nothing was emitted.
	Buffered
	// Emitted means a full batch was forwarded downstream.
	Emitted
	// Flushed means a final, possibly undersized, batch was forwarded on
	// completion.
	Flushed
	// Ended means completion with nothing left to flush.
	Ended
	// Failed means an error travelled through the stage.
	Failed
)

// String returns the name of the outcome.
func (o Outcome) String() string {
	switch o {
	case Rejected:
		return "rejected"
	case Buffered:
		return "buffered"
	case Emitted:
		return "emitted"
	case Flushed:
		return "flushed"
	case Ended:
		return "ended"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result describes the effect of a single Stage operation.
type Result struct {
	// Outcome is what the call did.
	Outcome Outcome

	// BatchSize is the length of the batch forwarded by this call, if any.
	BatchSize int

	// Discarded is the number of buffered values dropped by Fail.
	Discarded int

	// Continue is the backpressure signal. If false, the producer should call
	// Wait before the next Accept.
	Continue bool
}

// State is the lifecycle state of a Chunker.
type State uint8

const (
	// StateAccepting is the initial state.
	StateAccepting State = iota
	// StateEnded is entered by Complete. It is terminal.
	StateEnded
	// StateErrored is entered by Fail or by a downstream error. It is terminal.
	StateErrored
)

// String returns the name of the state.
func (s State) String() string {
	switch s {
	case StateAccepting:
		return "accepting"
	case StateEnded:
		return "ended"
	case StateErrored:
		return "errored"
	default:
		return "unknown"
	}
}
