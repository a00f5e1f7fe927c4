// Package iterthreads runs a sequence generator on a dedicated worker goroutine
// and lets a single consumer pull its values through a buffer.
//
// Constructors
//   - New(src, opts ...Option): src is an iter.Seq2[T, error]; a yielded error
//     fails the worker.
//   - FromSeq, FromSlice, FromChannel, FromFunc adapt common sources.
//
// Defaults
// Unless overridden, the following defaults apply to a newly created instance:
//   - Capacity: 0 (unbounded buffer)
//   - GetTimeout: 0 (Next waits forever)
//   - PutTimeout: 0 (the worker waits forever for buffer space)
//   - JoinTimeout: unset (Stop waits for the worker up to GetTimeout)
//   - StartImmediately: false (explicit Start is required)
//   - Logger: zerolog.Nop(); Metrics: metrics.NoopProvider
//
// Lifecycle
// Start launches the worker. Next returns values in source order, then
// ErrEndOfSequence. If the worker fails, Next first returns every value the
// worker buffered and then a *WorkerError, on that call and on every later call.
// ErrTimeout from Next is retryable. Stop requests early termination, waits for
// the worker and discards whatever is left in the buffer; it never reports the
// worker failure. Run, ForEach and Collect wrap Start and Stop around a block so
// Stop runs on every exit path.
//
// Cancellation
// Early termination is cooperative. The worker checks the flag before pushing
// each value, and a push blocked on a full buffer is woken. A source blocked
// inside its own call cannot be interrupted; Stop then returns after the join
// timeout and the worker exits once the source yields again.
package iterthreads
