package iterthreads

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/zoobzio/capitan"

	"github.com/ivalmian/iterator-threads/metrics"
)

// Metric instrument names.
const (
	MetricItemsProduced   = "iterthreads_items_produced_total"
	MetricItemsConsumed   = "iterthreads_items_consumed_total"
	MetricItemsDiscarded  = "iterthreads_items_discarded_total"
	MetricGetTimeouts     = "iterthreads_get_timeouts_total"
	MetricWorkerFailures  = "iterthreads_worker_failures_total"
	MetricBufferDepth     = "iterthreads_buffer_depth"
	MetricPutWaitDuration = "iterthreads_put_wait_seconds"
)

// observer bundles logging, metrics and signals for one iterator.
// It is shared by the worker and consumer goroutines; every sink is concurrency-safe.
type observer struct {
	name string
	log  zerolog.Logger

	produced    metrics.Counter
	consumed    metrics.Counter
	discarded   metrics.Counter
	getTimeouts metrics.Counter
	failures    metrics.Counter
	depth       metrics.UpDownCounter
	putWait     metrics.Histogram
}

func newObserver(cfg *config) *observer {
	p := cfg.Metrics
	if p == nil {
		p = metrics.NewNoopProvider()
	}
	attrs := metrics.WithAttributes(map[string]string{"iterator": cfg.Name})

	log := cfg.Logger
	if cfg.Name != "" {
		log = log.With().Str("iterator", cfg.Name).Logger()
	}

	return &observer{
		name: cfg.Name,
		log:  log,
		produced: p.Counter(MetricItemsProduced, attrs,
			metrics.WithDescription("Values pushed into the buffer by the worker"), metrics.WithUnit("1")),
		consumed: p.Counter(MetricItemsConsumed, attrs,
			metrics.WithDescription("Values returned to the consumer"), metrics.WithUnit("1")),
		discarded: p.Counter(MetricItemsDiscarded, attrs,
			metrics.WithDescription("Buffered values dropped by Stop"), metrics.WithUnit("1")),
		getTimeouts: p.Counter(MetricGetTimeouts, attrs,
			metrics.WithDescription("Next calls that timed out"), metrics.WithUnit("1")),
		failures: p.Counter(MetricWorkerFailures, attrs,
			metrics.WithDescription("Worker runs that ended with a captured failure"), metrics.WithUnit("1")),
		depth: p.UpDownCounter(MetricBufferDepth, attrs,
			metrics.WithDescription("Values currently buffered"), metrics.WithUnit("1")),
		putWait: p.Histogram(MetricPutWaitDuration, attrs,
			metrics.WithDescription("Time the worker spent pushing a value"), metrics.WithUnit("seconds")),
	}
}

func (o *observer) workerStarted(ctx context.Context) {
	o.log.Debug().Msg("worker started")
	capitan.Emit(ctx, WorkerStarted, KeyName.Field(o.name))
}

func (o *observer) valueProduced(wait time.Duration) {
	o.produced.Add(1)
	o.depth.Add(1)
	o.putWait.Record(wait.Seconds())
}

func (o *observer) workerFinished(ctx context.Context, produced int, terminated bool) {
	outcome := "exhausted"
	if terminated {
		outcome = "terminated"
	}
	o.log.Debug().Int("produced", produced).Str("outcome", outcome).Msg("worker finished")
	capitan.Emit(ctx, WorkerFinished,
		KeyName.Field(o.name),
		KeyProduced.Field(produced),
		KeyOutcome.Field(outcome),
	)
}

func (o *observer) workerFailed(ctx context.Context, err error, produced int) {
	o.failures.Add(1)
	o.log.Warn().Err(err).Int("produced", produced).Msg("worker failed")
	capitan.Emit(ctx, WorkerFailed,
		KeyName.Field(o.name),
		KeyProduced.Field(produced),
		KeyError.Field(err.Error()),
	)
}

func (o *observer) valueConsumed() {
	o.consumed.Add(1)
	o.depth.Add(-1)
}

func (o *observer) getTimedOut() { o.getTimeouts.Add(1) }

// valuesDiscarded accounts for values dropped by a Stop drain.
func (o *observer) valuesDiscarded(n int) {
	o.discarded.Add(int64(n))
	o.depth.Add(-int64(n))
}

func (o *observer) stopped(joined bool, discarded int) {
	outcome := "joined"
	if !joined {
		outcome = "detached"
	}
	o.log.Debug().Int("discarded", discarded).Str("outcome", outcome).Msg("iterator stopped")
	capitan.Emit(context.Background(), IteratorStopped,
		KeyName.Field(o.name),
		KeyDiscarded.Field(discarded),
		KeyOutcome.Field(outcome),
	)
}
