package iterthreads

import (
	"errors"
	"io"
	"iter"
)

// FromSeq adapts an infallible sequence into a source.
func FromSeq[T any](seq iter.Seq[T]) iter.Seq2[T, error] {
	if seq == nil {
		return nil
	}
	return func(yield func(T, error) bool) {
		for v := range seq {
			if !yield(v, nil) {
				return
			}
		}
	}
}

// FromSlice yields the elements of s in order.
func FromSlice[T any](s []T) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for _, v := range s {
			if !yield(v, nil) {
				return
			}
		}
	}
}

// FromChannel yields values received from ch until it is closed. The worker
// blocks in the receive, so Stop cannot interrupt it until the next value arrives.
func FromChannel[T any](ch <-chan T) iter.Seq2[T, error] {
	if ch == nil {
		return nil
	}
	return func(yield func(T, error) bool) {
		for v := range ch {
			if !yield(v, nil) {
				return
			}
		}
	}
}

// FromFunc calls next until it returns ErrEndOfSequence or io.EOF. Any other
// error is yielded once and ends the source.
func FromFunc[T any](next func() (T, error)) iter.Seq2[T, error] {
	if next == nil {
		return nil
	}
	return func(yield func(T, error) bool) {
		for {
			v, err := next()
			if errors.Is(err, ErrEndOfSequence) || errors.Is(err, io.EOF) {
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
