package chunk

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
)

// maxPrealloc caps the buffer capacity reserved up front, so a very large
// chunk size does not allocate its whole batch before the first record.
const maxPrealloc = 4096

// Chunker groups records into batches of a fixed size and forwards each batch
// to a downstream Stage. It implements Stage[T] itself, so it can be placed
// anywhere a Stage is expected.
//
// Create one with New or NewWithConfig. A Chunker serves a single producer
// and must not be used from several goroutines at once.
type Chunker[T any] struct {
	size int
	next Stage[[]T]

	logger  zerolog.Logger
	stats   StatsCollector
	started bool

	// buf never aliases a batch that was already handed downstream.
	buf     []T
	state   State
	batches uint64
	records uint64
}

// New creates a Chunker that emits batches of size records to next.
//
// It returns a *ConfigurationError if size is not positive or next is nil.
func New[T any](size int, next Stage[[]T]) (*Chunker[T], error) {
	return NewWithConfig[T](Config{ChunkSize: size}, next)
}

// NewWithConfig creates a Chunker from cfg. See New.
func NewWithConfig[T any](cfg Config, next Stage[[]T]) (*Chunker[T], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if next == nil {
		return nil, &ConfigurationError{Field: "next", Err: ErrNilStage}
	}

	return &Chunker[T]{
		size:   cfg.ChunkSize,
		next:   next,
		logger: zerolog.Nop(),
		stats:  &NoOpStatsCollector{},
		buf:    make([]T, 0, min(cfg.ChunkSize, maxPrealloc)),
		state:  StateAccepting,
	}, nil
}

// WithLogger sets the logger used for emission and lifecycle events. Without
// one, nothing is logged.
//
// Panics if called after the first operation on the Chunker.
func (c *Chunker[T]) WithLogger(logger zerolog.Logger) *Chunker[T] {
	if c.started {
		panic("chunk: WithLogger cannot be called after the Chunker has started")
	}
	c.logger = logger.With().Str("component", "chunker").Int("chunk_size", c.size).Logger()
	return c
}

// WithStats sets the stats collector. Without one, nothing is recorded.
//
// Panics if called after the first operation on the Chunker.
func (c *Chunker[T]) WithStats(stats StatsCollector) *Chunker[T] {
	if c.started {
		panic("chunk: WithStats cannot be called after the Chunker has started")
	}
	if stats == nil {
		stats = &NoOpStatsCollector{}
	}
	c.stats = stats
	return c
}

// Size returns the configured chunk size.
func (c *Chunker[T]) Size() int {
	return c.size
}

// Buffered returns the number of records waiting for the next batch.
func (c *Chunker[T]) Buffered() int {
	return len(c.buf)
}

// State returns the lifecycle state.
func (c *Chunker[T]) State() State {
	return c.state
}

// Accept appends v to the buffer. When the buffer reaches the chunk size it is
// forwarded downstream as one batch and a new, empty buffer takes its place.
//
// If the record would complete a batch while the downstream is not ready,
// Accept first waits for the downstream. Should that wait, or the downstream
// Accept, end with a context error, the record is not buffered and the state
// is unchanged.
//
// A downstream error during emission moves the Chunker to StateErrored and is
// returned as-is.
func (c *Chunker[T]) Accept(ctx context.Context, v T) (Result, error) {
	c.started = true
	if err := c.checkState("Accept"); err != nil {
		return Result{Outcome: Rejected}, err
	}

	if !c.completesBatch() {
		c.buf = append(c.buf, v)
		c.records++
		c.stats.RecordAccepted()
		return c.result(Buffered, 0), nil
	}

	if err := c.awaitNext(ctx); err != nil {
		return Result{Outcome: Rejected}, err
	}

	c.buf = append(c.buf, v)
	n, err := c.emit(ctx, false)
	if err != nil && c.state == StateAccepting {
		return Result{Outcome: Rejected}, err
	}

	c.records++
	c.stats.RecordAccepted()
	if err != nil {
		return Result{Outcome: Failed, BatchSize: n}, err
	}
	return c.result(Emitted, n), nil
}

// Complete flushes any buffered records as a final batch, completes the
// downstream and moves to StateEnded. The Outcome is Flushed if a batch was
// forwarded and Ended otherwise.
func (c *Chunker[T]) Complete(ctx context.Context) (Result, error) {
	c.started = true
	if err := c.checkState("Complete"); err != nil {
		return Result{Outcome: Rejected}, err
	}

	outcome, n := Ended, 0
	if len(c.buf) > 0 {
		if err := c.awaitNext(ctx); err != nil {
			return Result{Outcome: Rejected}, err
		}

		var err error
		if n, err = c.emit(ctx, true); err != nil {
			if c.state == StateAccepting {
				return Result{Outcome: Rejected}, err
			}
			return Result{Outcome: Failed, BatchSize: n}, err
		}
		outcome = Flushed
	}

	c.state = StateEnded
	if _, err := c.next.Complete(ctx); err != nil {
		c.state = StateErrored
		c.logger.Error().Err(err).Msg("downstream failed to complete")
		return Result{Outcome: Failed, BatchSize: n}, err
	}

	c.logger.Info().
		Uint64("records", c.records).
		Uint64("batches", c.batches).
		Msg("chunking complete")

	return Result{Outcome: outcome, BatchSize: n}, nil
}

// Fail forwards err downstream unchanged and moves to StateErrored. Buffered
// records are discarded, not flushed; Result.Discarded tells how many.
//
// Fail returns ErrNilFailure, without changing state, if err is nil.
func (c *Chunker[T]) Fail(ctx context.Context, err error) (Result, error) {
	if err == nil {
		return Result{Outcome: Rejected}, ErrNilFailure
	}

	c.started = true
	if serr := c.checkState("Fail"); serr != nil {
		return Result{Outcome: Rejected}, serr
	}

	discarded := len(c.buf)
	c.buf = nil
	c.state = StateErrored
	c.stats.RecordFailure(discarded)

	c.logger.Error().
		Err(err).
		Int("discarded", discarded).
		Uint64("batches", c.batches).
		Msg("upstream failure forwarded")

	res := Result{Outcome: Failed, Discarded: discarded}
	if _, ferr := c.next.Fail(ctx, err); ferr != nil {
		return res, ferr
	}
	return res, nil
}

// Ready reports whether the next Accept can proceed without blocking: either
// it will not complete a batch, or the downstream is ready for one.
func (c *Chunker[T]) Ready() bool {
	if c.state != StateAccepting {
		return false
	}
	return !c.completesBatch() || c.next.Ready()
}

// Wait blocks until Ready would return true or ctx is done.
func (c *Chunker[T]) Wait(ctx context.Context) error {
	if err := c.checkState("Wait"); err != nil {
		return err
	}
	if !c.completesBatch() {
		return nil
	}
	return c.next.Wait(ctx)
}

// completesBatch reports whether one more record fills the buffer.
func (c *Chunker[T]) completesBatch() bool {
	return len(c.buf)+1 >= c.size
}

func (c *Chunker[T]) checkState(op string) error {
	if c.state != StateAccepting {
		return &StateError{Op: op, State: c.state}
	}
	return nil
}

func (c *Chunker[T]) awaitNext(ctx context.Context) error {
	if c.next.Ready() {
		return nil
	}
	c.logger.Debug().Int("buffered", len(c.buf)).Msg("waiting for downstream")
	return c.next.Wait(ctx)
}

// emit hands the whole buffer downstream as one batch. If the downstream
// gives up because ctx is done, the buffer is restored without the record
// that triggered the emission and the state stays StateAccepting.
func (c *Chunker[T]) emit(ctx context.Context, final bool) (int, error) {
	batch := c.buf
	if final {
		c.buf = nil
	} else {
		c.buf = make([]T, 0, cap(batch))
	}

	if _, err := c.next.Accept(ctx, batch); err != nil {
		if cerr := ctx.Err(); cerr != nil && errors.Is(err, cerr) {
			if final {
				c.buf = batch
			} else {
				c.buf = batch[:len(batch)-1]
			}
			return 0, err
		}
		c.state = StateErrored
		c.logger.Error().Err(err).Int("batch_size", len(batch)).Msg("downstream rejected batch")
		return len(batch), err
	}

	c.batches++
	c.stats.RecordBatch(len(batch), final)
	c.logger.Debug().
		Int("batch_size", len(batch)).
		Uint64("batch", c.batches).
		Bool("final", final).
		Msg("batch emitted")

	return len(batch), nil
}

// result builds the Result of a successful Accept. A Continue of false is the
// only place a pause is counted.
func (c *Chunker[T]) result(outcome Outcome, n int) Result {
	res := Result{Outcome: outcome, BatchSize: n, Continue: c.Ready()}
	if !res.Continue {
		c.stats.RecordBackpressure()
	}
	return res
}

var _ Stage[int] = (*Chunker[int])(nil)
