package iterthreads

import (
	"context"
	"errors"
	"iter"
)

// Run starts the iterator, calls fn and stops the iterator on every exit path,
// including a panic in fn. An iterator already started with WithStartImmediately
// is accepted as is.
func (it *Iterator[T]) Run(ctx context.Context, fn func(*Iterator[T]) error) error {
	if err := it.Start(ctx); err != nil && !errors.Is(err, ErrAlreadyStarted) {
		return err
	}
	defer it.Stop()
	return fn(it)
}

// ForEach runs src on a worker goroutine configured by opts and calls fn for each
// value in order. It returns the first error from fn, the worker failure, or a
// Next timeout; reaching the end of src is not an error.
func ForEach[T any](ctx context.Context, src iter.Seq2[T, error], fn func(T) error, opts ...Option) error {
	it, err := New[T](src, opts...)
	if err != nil {
		return err
	}
	return it.Run(ctx, func(it *Iterator[T]) error {
		for v, err := range it.All() {
			if err != nil {
				return err
			}
			if err := fn(v); err != nil {
				return err
			}
		}
		return nil
	})
}

// Collect runs src on a worker goroutine configured by opts and returns every
// value in order. On error it returns the values received so far.
func Collect[T any](ctx context.Context, src iter.Seq2[T, error], opts ...Option) ([]T, error) {
	var out []T
	err := ForEach(ctx, src, func(v T) error {
		out = append(out, v)
		return nil
	}, opts...)
	return out, err
}
