package chunk

import "sync/atomic"

// StatsCollector receives counters from a Chunker. Implementations can keep
// them in memory or export them to a monitoring system. The collector is
// optional; without one nothing is recorded.
type StatsCollector interface {
	// RecordAccepted is called for every record taken into the buffer.
	RecordAccepted()

	// RecordBatch is called after a batch was forwarded downstream. final is
	// true for the batch flushed by Complete.
	RecordBatch(size int, final bool)

	// RecordBackpressure is called whenever the producer is told to pause.
	RecordBackpressure()

	// RecordFailure is called when an upstream error is forwarded, with the
	// number of buffered records that were dropped.
	RecordFailure(discarded int)
}

// NoOpStatsCollector discards everything. It is the default collector.
type NoOpStatsCollector struct{}

// RecordAccepted implements the StatsCollector interface.
func (n *NoOpStatsCollector) RecordAccepted() {}

// RecordBatch implements the StatsCollector interface.
func (n *NoOpStatsCollector) RecordBatch(size int, final bool) {}

// RecordBackpressure implements the StatsCollector interface.
func (n *NoOpStatsCollector) RecordBackpressure() {}

// RecordFailure implements the StatsCollector interface.
func (n *NoOpStatsCollector) RecordFailure(discarded int) {}

// Stats is a snapshot of the counters kept by BasicStatsCollector.
type Stats struct {
	// RecordsAccepted is the number of records taken into the buffer.
	RecordsAccepted uint64

	// RecordsEmitted is the number of records forwarded inside batches.
	RecordsEmitted uint64

	// FullBatches is the number of batches that reached the chunk size.
	FullBatches uint64

	// FinalBatches is the number of batches flushed by Complete. It is at
	// most one per Chunker.
	FinalBatches uint64

	// RecordsDiscarded is the number of buffered records dropped by Fail.
	RecordsDiscarded uint64

	// Failures is the number of forwarded upstream errors.
	Failures uint64

	// Backpressure is the number of times the producer was told to pause.
	Backpressure uint64
}

// Batches returns the total number of emitted batches.
func (s Stats) Batches() uint64 {
	return s.FullBatches + s.FinalBatches
}

// AverageBatchSize returns the mean number of records per emitted batch, or 0
// if nothing was emitted.
func (s Stats) AverageBatchSize() float64 {
	if s.Batches() == 0 {
		return 0
	}
	return float64(s.RecordsEmitted) / float64(s.Batches())
}

// BasicStatsCollector is an in-memory StatsCollector. All methods are safe for
// concurrent use, so one collector may be shared by several Chunkers.
type BasicStatsCollector struct {
	recordsAccepted  atomic.Uint64
	recordsEmitted   atomic.Uint64
	fullBatches      atomic.Uint64
	finalBatches     atomic.Uint64
	recordsDiscarded atomic.Uint64
	failures         atomic.Uint64
	backpressure     atomic.Uint64
}

// NewBasicStatsCollector creates an empty BasicStatsCollector.
func NewBasicStatsCollector() *BasicStatsCollector {
	return &BasicStatsCollector{}
}

// RecordAccepted implements the StatsCollector interface.
func (b *BasicStatsCollector) RecordAccepted() {
	b.recordsAccepted.Add(1)
}

// RecordBatch implements the StatsCollector interface.
func (b *BasicStatsCollector) RecordBatch(size int, final bool) {
	b.recordsEmitted.Add(uint64(size))
	if final {
		b.finalBatches.Add(1)
	} else {
		b.fullBatches.Add(1)
	}
}

// RecordBackpressure implements the StatsCollector interface.
func (b *BasicStatsCollector) RecordBackpressure() {
	b.backpressure.Add(1)
}

// RecordFailure implements the StatsCollector interface.
func (b *BasicStatsCollector) RecordFailure(discarded int) {
	b.failures.Add(1)
	b.recordsDiscarded.Add(uint64(discarded))
}

// GetStats returns a snapshot of the current counters.
func (b *BasicStatsCollector) GetStats() Stats {
	return Stats{
		RecordsAccepted:  b.recordsAccepted.Load(),
		RecordsEmitted:   b.recordsEmitted.Load(),
		FullBatches:      b.fullBatches.Load(),
		FinalBatches:     b.finalBatches.Load(),
		RecordsDiscarded: b.recordsDiscarded.Load(),
		Failures:         b.failures.Load(),
		Backpressure:     b.backpressure.Load(),
	}
}
