package iterthreads

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gammazero/deque"
)

var (
	// errAborted is returned by push when the abort channel closes while waiting for space.
	errAborted = errors.New(Namespace + ": push aborted")
	// errWorkerExited is returned by pop when the worker is gone and nothing is left to read.
	errWorkerExited = errors.New(Namespace + ": worker exited")
)

// item is a buffer entry: either a value or the end-of-stream marker.
type item[T any] struct {
	value T
	end   bool
}

// buffer is a FIFO queue shared by exactly one producer and one consumer.
// Capacity 0 means unbounded. Wakeups are delivered through one-token channels,
// so waiters always re-check the queue under the lock after waking.
type buffer[T any] struct {
	mu       sync.Mutex
	items    *deque.Deque[item[T]]
	capacity int

	readable chan struct{}
	writable chan struct{}
}

func newBuffer[T any](capacity uint) *buffer[T] {
	return &buffer[T]{
		items:    new(deque.Deque[item[T]]),
		capacity: int(capacity),
		readable: make(chan struct{}, 1),
		writable: make(chan struct{}, 1),
	}
}

// push appends it, waiting up to timeout for space (0 waits forever).
// It returns ErrPutTimeout when the deadline passes and errAborted when abort closes first.
func (b *buffer[T]) push(it item[T], timeout time.Duration, abort <-chan struct{}) error {
	expired, release := deadline(timeout)
	defer release()

	for {
		b.mu.Lock()
		if b.capacity == 0 || b.items.Len() < b.capacity {
			b.items.PushBack(it)
			b.mu.Unlock()
			notify(b.readable)
			return nil
		}
		b.mu.Unlock()

		select {
		case <-b.writable:
		case <-expired:
			return ErrPutTimeout
		case <-abort:
			return errAborted
		}
	}
}

// pop removes the oldest item, waiting up to timeout (0 waits forever).
// Once exited is closed and the queue is empty, it returns errWorkerExited.
func (b *buffer[T]) pop(ctx context.Context, timeout time.Duration, exited <-chan struct{}) (item[T], error) {
	expired, release := deadline(timeout)
	defer release()

	for {
		if it, ok := b.tryPop(); ok {
			return it, nil
		}

		select {
		case <-b.readable:
		case <-exited:
			// the worker closes exited only after its last push
			if it, ok := b.tryPop(); ok {
				return it, nil
			}
			return item[T]{}, errWorkerExited
		case <-expired:
			return item[T]{}, ErrTimeout
		case <-ctx.Done():
			return item[T]{}, ctx.Err()
		}
	}
}

func (b *buffer[T]) tryPop() (item[T], bool) {
	b.mu.Lock()
	if b.items.Len() == 0 {
		b.mu.Unlock()
		return item[T]{}, false
	}
	it := b.items.PopFront()
	b.mu.Unlock()
	notify(b.writable)
	return it, true
}

// drain discards everything currently buffered and returns the number of values
// dropped. The end marker is not counted.
func (b *buffer[T]) drain() int {
	b.mu.Lock()
	values := 0
	for b.items.Len() > 0 {
		if it := b.items.PopFront(); !it.end {
			values++
		}
	}
	b.mu.Unlock()
	notify(b.writable)
	return values
}

func (b *buffer[T]) len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.items.Len()
}

// notify leaves a wakeup token without blocking.
func notify(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}

// deadline returns a channel that fires after d, or a nil channel when d is 0.
func deadline(d time.Duration) (<-chan time.Time, func()) {
	if d <= 0 {
		return nil, func() {}
	}
	t := time.NewTimer(d)
	return t.C, func() { t.Stop() }
}
