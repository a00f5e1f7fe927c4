package iterthreads

import (
	"errors"
	"fmt"
)

// WorkerError is the failure captured by the worker goroutine and replayed to
// the consumer. errors.Is(err, ErrWorkerFailed) reports true for it, and Unwrap
// returns the original cause.
type WorkerError struct {
	cause    error
	name     string
	produced int
}

func newWorkerError(cause error, name string, produced int) *WorkerError {
	return &WorkerError{cause: cause, name: name, produced: produced}
}

func (e *WorkerError) Error() string { return ErrWorkerFailed.Error() + ": " + e.cause.Error() }
func (e *WorkerError) Unwrap() error { return e.cause }

func (e *WorkerError) Is(target error) bool { return target == ErrWorkerFailed }

// Produced returns how many values the worker pushed before it failed.
func (e *WorkerError) Produced() int { return e.produced }

// Name returns the name of the iterator whose worker failed. It may be empty.
func (e *WorkerError) Name() string { return e.name }

func (e *WorkerError) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			_, _ = fmt.Fprintf(s, "worker(name=%q,produced=%d): %+v", e.name, e.produced, e.cause)
			return
		}
		fallthrough
	case 's':
		_, _ = fmt.Fprint(s, e.Error())
	case 'q':
		_, _ = fmt.Fprintf(s, "%q", e.Error())
	}
}

// Cause returns the underlying cause if err is a *WorkerError, and nil otherwise.
func Cause(err error) error {
	var we *WorkerError
	if errors.As(err, &we) {
		return we.cause
	}
	return nil
}
