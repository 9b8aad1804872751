package pipeline

import (
	"context"
	"errors"

	"github.com/MasterOfBinary/gochunk/chunk"
	"github.com/MasterOfBinary/gochunk/source"
)

// ErrInvalidSource is returned when a source returns nil channels from Read.
var ErrInvalidSource = errors.New("pipeline: invalid source implementation: returned nil channel(s)")

// Report summarizes a pumped run.
type Report struct {
	// Records is the number of records the stage accepted, including those
	// of a batch whose emission failed.
	Records uint64

	// Batches is the number of batches the stage reported as emitted or
	// flushed.
	Batches uint64

	// Discarded is the number of buffered records dropped by a failure.
	Discarded int

	// Outcome is the outcome of the final Complete or Fail call, or of the
	// Accept that ended the run.
	Outcome chunk.Outcome
}

func (r *Report) observe(res chunk.Result) {
	switch res.Outcome {
	case chunk.Emitted, chunk.Flushed:
		r.Batches++
	}
	r.Discarded += res.Discarded
	r.Outcome = res.Outcome
}

// Pump reads src and pushes every record into stage, then completes it.
//
// The first error reported by src is passed to stage.Fail unchanged and
// returned. If ctx is canceled the stage is failed with ctx.Err(). Either way
// the source is canceled and drained so its goroutine can exit, and Fail runs
// on a context that is no longer canceled, so sinks can still release their
// resources.
//
// An error returned by the stage itself ends the run without a Fail call; the
// stage has already seen the failure.
func Pump[T any](ctx context.Context, src source.Source[T], stage chunk.Stage[T]) (Report, error) {
	var rep Report

	readCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	out, errs := src.Read(readCtx)
	if out == nil || errs == nil {
		return rep, ErrInvalidSource
	}

	stop := func() {
		cancel()
		drain(out, errs)
	}

	fail := func(cause error) (Report, error) {
		stop()
		res, err := stage.Fail(context.WithoutCancel(ctx), cause)
		rep.observe(res)
		if err != nil && !errors.Is(err, cause) {
			return rep, errors.Join(cause, err)
		}
		return rep, cause
	}

	for out != nil || errs != nil {
		select {
		case <-ctx.Done():
			return fail(ctx.Err())

		case v, ok := <-out:
			if !ok {
				out = nil
				continue
			}

			res, err := stage.Accept(ctx, v)
			if err != nil {
				if ctx.Err() != nil {
					return fail(ctx.Err())
				}
				// The record was taken into the batch whose emission failed.
				if res.Outcome == chunk.Failed && res.BatchSize > 0 {
					rep.Records++
				}
				rep.observe(res)
				stop()
				return rep, err
			}
			rep.Records++
			rep.observe(res)

			if !res.Continue {
				if err := stage.Wait(ctx); err != nil {
					if ctx.Err() != nil {
						return fail(ctx.Err())
					}
					stop()
					return rep, err
				}
			}

		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			return fail(err)
		}
	}

	res, err := stage.Complete(ctx)
	rep.observe(res)
	return rep, err
}

// drain discards whatever the source still produces until it closes both
// channels.
func drain[T any](out <-chan T, errs <-chan error) {
	for out != nil || errs != nil {
		select {
		case _, ok := <-out:
			if !ok {
				out = nil
			}
		case _, ok := <-errs:
			if !ok {
				errs = nil
			}
		}
	}
}
