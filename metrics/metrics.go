// Package metrics exports chunking statistics to Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/MasterOfBinary/gochunk/chunk"
)

const namespace = "gochunk"

// Batch kinds used for the "kind" label.
const (
	KindFull  = "full"
	KindFinal = "final"
)

// Collector is a chunk.StatsCollector backed by Prometheus metrics.
type Collector struct {
	records      prometheus.Counter
	batches      *prometheus.CounterVec
	batchSize    prometheus.Histogram
	discarded    prometheus.Counter
	failures     prometheus.Counter
	backpressure prometheus.Counter
}

// New creates a Collector and registers its metrics with reg. The pipeline
// label distinguishes collectors sharing a registry.
func New(reg prometheus.Registerer, pipeline string) (*Collector, error) {
	labels := prometheus.Labels{"pipeline": pipeline}

	c := &Collector{
		records: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "records_accepted_total",
			Help:        "Total records accepted into a batch.",
			ConstLabels: labels,
		}),
		batches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   namespace,
				Name:        "batches_total",
				Help:        "Total batches emitted downstream by kind.",
				ConstLabels: labels,
			},
			[]string{"kind"},
		),
		batchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   namespace,
			Name:        "batch_size_records",
			Help:        "Number of records per emitted batch.",
			Buckets:     prometheus.ExponentialBuckets(1, 2, 12),
			ConstLabels: labels,
		}),
		discarded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "records_discarded_total",
			Help:        "Total buffered records dropped on upstream failure.",
			ConstLabels: labels,
		}),
		failures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "failures_total",
			Help:        "Total upstream failures forwarded downstream.",
			ConstLabels: labels,
		}),
		backpressure: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "backpressure_total",
			Help:        "Total times the producer was asked to wait for the downstream.",
			ConstLabels: labels,
		}),
	}

	for _, m := range []prometheus.Collector{c.records, c.batches, c.batchSize, c.discarded, c.failures, c.backpressure} {
		if err := reg.Register(m); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// MustNew is like New but panics if a metric cannot be registered.
func MustNew(reg prometheus.Registerer, pipeline string) *Collector {
	c, err := New(reg, pipeline)
	if err != nil {
		panic(err)
	}
	return c
}

// RecordAccepted implements chunk.StatsCollector.
func (c *Collector) RecordAccepted() {
	c.records.Inc()
}

// RecordBatch implements chunk.StatsCollector.
func (c *Collector) RecordBatch(size int, final bool) {
	kind := KindFull
	if final {
		kind = KindFinal
	}
	c.batches.WithLabelValues(kind).Inc()
	c.batchSize.Observe(float64(size))
}

// RecordBackpressure implements chunk.StatsCollector.
func (c *Collector) RecordBackpressure() {
	c.backpressure.Inc()
}

// RecordFailure implements chunk.StatsCollector.
func (c *Collector) RecordFailure(discarded int) {
	c.failures.Inc()
	c.discarded.Add(float64(discarded))
}

var _ chunk.StatsCollector = (*Collector)(nil)
