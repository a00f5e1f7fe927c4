package iterthreads

import (
	"sync"
)

// lifecycleCoordinator runs the Stop sequence in a fixed order:
// 1) request early termination
// 2) join the worker, bounded by the join timeout
// 3) drain and discard the buffer, passing the count to discard
// 4) report (first call only)
//
// Only the first call requests termination and reports. Every call joins and
// drains, so a Stop after a detached join still empties the buffer.
type lifecycleCoordinator struct {
	requestStop func()
	join        func() bool
	drain       func() int
	discard     func(n int)
	report      func(joined bool, discarded int)

	once sync.Once
}

func newLifecycleCoordinator(
	requestStop func(),
	join func() bool,
	drain func() int,
	discard func(n int),
	report func(joined bool, discarded int),
) *lifecycleCoordinator {
	return &lifecycleCoordinator{
		requestStop: requestStop,
		join:        join,
		drain:       drain,
		discard:     discard,
		report:      report,
	}
}

func (lc *lifecycleCoordinator) Close() {
	first := false
	lc.once.Do(func() {
		first = true
		if lc.requestStop != nil {
			lc.requestStop()
		}
	})

	joined := true
	if lc.join != nil {
		joined = lc.join()
	}
	discarded := 0
	if lc.drain != nil {
		discarded = lc.drain()
	}
	if discarded > 0 && lc.discard != nil {
		lc.discard(discarded)
	}

	if first && lc.report != nil {
		lc.report(joined, discarded)
	}
}
