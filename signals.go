package iterthreads

import "github.com/zoobzio/capitan"

// Worker lifecycle signals.
var (
	// WorkerStarted is emitted when the worker goroutine begins pulling from the source.
	WorkerStarted = capitan.NewSignal(
		"iterthreads.worker.started",
		"Worker started pulling from the source",
	)

	// WorkerFinished is emitted when the worker exits without a failure.
	WorkerFinished = capitan.NewSignal(
		"iterthreads.worker.finished",
		"Worker finished",
	)

	// WorkerFailed is emitted when the worker captures a failure.
	WorkerFailed = capitan.NewSignal(
		"iterthreads.worker.failed",
		"Worker failed",
	)
)

// IteratorStopped is emitted once, when Stop completes for the first time.
var IteratorStopped = capitan.NewSignal(
	"iterthreads.stopped",
	"Iterator stopped and buffer drained",
)

// Field keys for iterator events.
var (
	// KeyName is the iterator name configured with WithName.
	KeyName = capitan.NewStringKey("name")

	// KeyProduced is the number of values the worker pushed into the buffer.
	KeyProduced = capitan.NewIntKey("produced")

	// KeyDiscarded is the number of buffered values dropped by Stop.
	KeyDiscarded = capitan.NewIntKey("discarded")

	// KeyError is the failure message.
	KeyError = capitan.NewStringKey("error")

	// KeyOutcome is "exhausted" or "terminated" for finished workers and "joined" or "detached" for Stop.
	KeyOutcome = capitan.NewStringKey("outcome")
)
