package pipeline

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/MasterOfBinary/gochunk/chunk"
	"github.com/MasterOfBinary/gochunk/source"
)

// Option configures Run.
type Option func(*options)

type options struct {
	logger zerolog.Logger
	stats  chunk.StatsCollector
}

// WithLogger sets the logger used by Run and by the Chunker it creates.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithStats sets the stats collector of the Chunker Run creates.
func WithStats(stats chunk.StatsCollector) Option {
	return func(o *options) {
		o.stats = stats
	}
}

// Run groups the records of src into batches of cfg.ChunkSize and writes them
// to sink. It returns once sink has been completed or failed.
//
// A configuration error is returned before src is read.
func Run[T any](ctx context.Context, src source.Source[T], sink chunk.Stage[[]T], cfg chunk.Config, opts ...Option) (Report, error) {
	o := options{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}

	c, err := chunk.NewWithConfig[T](cfg, sink)
	if err != nil {
		return Report{}, err
	}
	c.WithLogger(o.logger).WithStats(o.stats)

	logger := o.logger.With().Str("component", "pipeline").Logger()
	logger.Debug().Int("chunk_size", cfg.ChunkSize).Msg("pipeline started")

	start := time.Now()
	rep, err := Pump[T](ctx, src, c)

	var ev *zerolog.Event
	if err != nil {
		ev = logger.Error().Err(err)
	} else {
		ev = logger.Info()
	}
	ev.Uint64("records", rep.Records).
		Uint64("batches", rep.Batches).
		Int("discarded", rep.Discarded).
		Stringer("outcome", rep.Outcome).
		Dur("duration", time.Since(start)).
		Msg("pipeline finished")

	return rep, err
}
