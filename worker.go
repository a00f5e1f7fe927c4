package iterthreads

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"sync/atomic"
	"time"
)

// worker pulls from the source on its own goroutine and feeds the buffer.
//
// failure, terminated and produced are written only by run and must be read
// only after done is closed.
type worker[T any] struct {
	src        iter.Seq2[T, error]
	buf        *buffer[T]
	putTimeout time.Duration

	stopping *atomic.Bool
	quit     <-chan struct{}
	done     chan struct{}

	failure    error
	terminated bool
	produced   int

	obs *observer
}

func newWorker[T any](
	src iter.Seq2[T, error], buf *buffer[T], putTimeout time.Duration,
	stopping *atomic.Bool, quit <-chan struct{}, obs *observer,
) *worker[T] {
	return &worker[T]{
		src:        src,
		buf:        buf,
		putTimeout: putTimeout,
		stopping:   stopping,
		quit:       quit,
		done:       make(chan struct{}),
		obs:        obs,
	}
}

// run is the worker state machine: Running until the source is exhausted,
// early termination is observed or an error occurs.
func (w *worker[T]) run(ctx context.Context) {
	defer close(w.done)

	w.obs.workerStarted(ctx)

	if err := w.pull(); err != nil {
		w.fail(ctx, err)
		return
	}

	// On early termination the marker is best-effort: a full buffer is not waited on.
	err := w.buf.push(item[T]{end: true}, w.putTimeout, w.quit)
	switch {
	case err == nil:
	case errors.Is(err, errAborted):
		w.terminated = true
	default:
		w.fail(ctx, err)
		return
	}

	w.obs.workerFinished(ctx, w.produced, w.terminated)
}

// pull drains the source into the buffer. It returns nil on exhaustion and on
// early termination, and the failure cause otherwise.
func (w *worker[T]) pull() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrSourcePanicked, r)
		}
	}()

	for v, srcErr := range w.src {
		if w.stopping.Load() {
			w.terminated = true
			return nil
		}
		if srcErr != nil {
			return srcErr
		}

		started := time.Now()
		if pushErr := w.buf.push(item[T]{value: v}, w.putTimeout, w.quit); pushErr != nil {
			if errors.Is(pushErr, errAborted) {
				w.terminated = true
				return nil
			}
			return pushErr
		}
		w.produced++
		w.obs.valueProduced(time.Since(started))
	}
	return nil
}

func (w *worker[T]) fail(ctx context.Context, cause error) {
	w.failure = newWorkerError(cause, w.obs.name, w.produced)
	w.obs.workerFailed(ctx, w.failure, w.produced)
}
