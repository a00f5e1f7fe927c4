package iterthreads

import (
	"context"
	"errors"
	"iter"
	"runtime/pprof"
	"sync"
	"sync/atomic"

	"github.com/ygrebnov/errorc"
)

// Iterator runs a source sequence on a dedicated worker goroutine and hands its
// values to a single consumer through a buffer.
//
// Next, NextContext and All must be called from one consumer goroutine at a time.
// Start, Stop, State and Len are safe for concurrent use.
type Iterator[T any] struct {
	// noCopy prevents accidental copying of the iterator.
	//go:nocopy
	nc noCopy

	config *config
	buf    *buffer[T]
	worker *worker[T]
	obs    *observer

	mu       sync.Mutex
	started  atomic.Bool
	stopping atomic.Bool
	quit     chan struct{}
	quitOnce sync.Once

	lc *lifecycleCoordinator

	// consumer-side sticky outcome
	ended   bool
	failure error
}

// noCopy is a vet-recognized marker to discourage copying types with this field embedded.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// New creates an Iterator over src. The source yields (value, nil) per value;
// a non-nil error ends the run with a *WorkerError.
func New[T any](src iter.Seq2[T, error], opts ...Option) (*Iterator[T], error) {
	if src == nil {
		return nil, errorc.With(ErrInvalidConfig, errorc.String("", "source must not be nil"))
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	it := &Iterator[T]{
		config: &cfg,
		buf:    newBuffer[T](cfg.Capacity),
		obs:    newObserver(&cfg),
		quit:   make(chan struct{}),
	}
	it.worker = newWorker(src, it.buf, cfg.PutTimeout, &it.stopping, it.quit, it.obs)
	it.lc = newLifecycleCoordinator(it.requestStop, it.join, it.buf.drain, it.obs.valuesDiscarded, it.obs.stopped)

	if cfg.StartImmediately {
		if err := it.Start(context.Background()); err != nil {
			return nil, err
		}
	}
	return it, nil
}

// Start launches the worker goroutine. Cancelling ctx has the same effect on the
// worker as Stop's early-termination request, but does not drain the buffer.
func (it *Iterator[T]) Start(ctx context.Context) error {
	it.mu.Lock()
	defer it.mu.Unlock()

	if it.stopping.Load() {
		return ErrStopped
	}
	if !it.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}

	release := context.AfterFunc(ctx, it.requestStop)
	go func() {
		defer release()
		if it.config.Name == "" {
			it.worker.run(ctx)
			return
		}
		pprof.Do(ctx, pprof.Labels("iterthreads", it.config.Name), it.worker.run)
	}()
	return nil
}

// requestStop sets the early-termination flag and wakes a worker blocked in push.
// It cannot interrupt a blocking call inside the source itself.
func (it *Iterator[T]) requestStop() {
	it.stopping.Store(true)
	it.quitOnce.Do(func() { close(it.quit) })
}

// join waits for the worker to exit, bounded by the join timeout.
// It reports false when the deadline passed first.
func (it *Iterator[T]) join() bool {
	if !it.started.Load() {
		return true
	}

	expired, release := deadline(it.config.joinTimeout())
	defer release()
	select {
	case <-it.worker.done:
		return true
	case <-expired:
		return false
	}
}

// Stop requests early termination, waits for the worker (bounded by the join
// timeout) and discards anything left in the buffer. It never reports the
// captured failure and is safe to call any number of times.
func (it *Iterator[T]) Stop() {
	it.mu.Lock()
	it.requestStop()
	it.mu.Unlock()
	it.lc.Close()
}

// Next returns the next value in source order. See NextContext.
func (it *Iterator[T]) Next() (T, error) {
	return it.NextContext(context.Background())
}

// NextContext returns the next value in source order, waiting up to the get
// timeout or until ctx is done.
//
// The error is ErrEndOfSequence once the source is exhausted, ErrTimeout when
// nothing arrived in time (retryable), or a *WorkerError once the worker failed
// and every value it buffered has been returned. End and failure are sticky:
// later calls return the same error.
func (it *Iterator[T]) NextContext(ctx context.Context) (T, error) {
	var zero T

	switch {
	case it.failure != nil:
		return zero, it.failure
	case it.ended:
		return zero, ErrEndOfSequence
	case !it.started.Load():
		if it.stopping.Load() {
			it.ended = true
			return zero, ErrEndOfSequence
		}
		return zero, ErrNotStarted
	}

	v, err := it.buf.pop(ctx, it.config.GetTimeout, it.worker.done)
	switch {
	case err == nil:
		if v.end {
			it.ended = true
			return zero, ErrEndOfSequence
		}
		it.obs.valueConsumed()
		return v.value, nil
	case errors.Is(err, errWorkerExited):
		return zero, it.exited()
	case errors.Is(err, ErrTimeout):
		it.obs.getTimedOut()
		return zero, ErrTimeout
	default:
		return zero, err
	}
}

// exited resolves Next once the worker is gone and the buffer is empty.
func (it *Iterator[T]) exited() error {
	if it.worker.failure != nil {
		it.failure = it.worker.failure
		return it.failure
	}
	// a stop may have drained the end marker
	if it.worker.terminated || it.stopping.Load() {
		it.ended = true
		return ErrEndOfSequence
	}
	return ErrInvariantViolation
}

// All returns a single-pass sequence over the remaining values. It yields each
// value with a nil error; on the first error other than ErrEndOfSequence it
// yields the zero value with that error and stops. Breaking out of the loop
// does not stop the worker; use Run or Stop for that.
func (it *Iterator[T]) All() iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for {
			v, err := it.Next()
			if errors.Is(err, ErrEndOfSequence) {
				return
			}
			if err != nil {
				var zero T
				yield(zero, err)
				return
			}
			if !yield(v, nil) {
				return
			}
		}
	}
}

// State reports the worker lifecycle state.
func (it *Iterator[T]) State() State {
	if !it.started.Load() {
		return NotStarted
	}
	select {
	case <-it.worker.done:
	default:
		return Running
	}
	if it.worker.failure != nil {
		return Failed
	}
	return Finished
}

// Len returns the number of items currently buffered, including the end marker.
func (it *Iterator[T]) Len() int { return it.buf.len() }

// Name returns the name configured with WithName.
func (it *Iterator[T]) Name() string { return it.config.Name }
