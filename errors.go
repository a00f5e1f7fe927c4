package iterthreads

import "errors"

const Namespace = "iterthreads"

var (
	// ErrEndOfSequence is returned by Next once the source is exhausted.
	// It is returned again on every later call.
	ErrEndOfSequence = errors.New(Namespace + ": end of sequence")

	// ErrTimeout is returned by Next when nothing arrived within the get timeout.
	// It is retryable.
	ErrTimeout = errors.New(Namespace + ": timed out waiting for the next value")

	// ErrWorkerFailed matches every *WorkerError via errors.Is.
	ErrWorkerFailed = errors.New(Namespace + ": worker failed")

	// ErrInvariantViolation signals a bug in the coordination logic: the worker
	// exited without a failure, without an end marker and without being stopped.
	ErrInvariantViolation = errors.New(Namespace + ": worker is not running and the buffer is empty")

	ErrNotStarted     = errors.New(Namespace + ": iterator is not started")
	ErrAlreadyStarted = errors.New(Namespace + ": iterator is already started")
	ErrStopped        = errors.New(Namespace + ": iterator is stopped")

	ErrPutTimeout     = errors.New(Namespace + ": timed out pushing a value into the buffer")
	ErrSourcePanicked = errors.New(Namespace + ": source panicked")
	ErrInvalidConfig  = errors.New(Namespace + ": invalid configuration")
)
