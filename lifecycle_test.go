package iterthreads

import (
	"sync"
	"testing"
)

func TestLifecycle_Order(t *testing.T) {
	var steps []string
	lc := newLifecycleCoordinator(
		func() { steps = append(steps, "requestStop") },
		func() bool { steps = append(steps, "join"); return true },
		func() int { steps = append(steps, "drain"); return 4 },
		func(int) { steps = append(steps, "discard") },
		func(joined bool, discarded int) {
			if !joined || discarded != 4 {
				t.Fatalf("report(joined=%v, discarded=%d); want (true, 4)", joined, discarded)
			}
			steps = append(steps, "report")
		},
	)

	lc.Close()

	want := []string{"requestStop", "join", "drain", "discard", "report"}
	if len(steps) != len(want) {
		t.Fatalf("steps = %v; want %v", steps, want)
	}
	for i := range want {
		if steps[i] != want[i] {
			t.Fatalf("step %d = %q; want %q", i+1, steps[i], want[i])
		}
	}
}

func TestLifecycle_RepeatedClose_JoinsAndDrainsOnly(t *testing.T) {
	var mu sync.Mutex
	counts := map[string]int{}
	inc := func(k string) {
		mu.Lock()
		counts[k]++
		mu.Unlock()
	}

	lc := newLifecycleCoordinator(
		func() { inc("requestStop") },
		func() bool { inc("join"); return true },
		func() int { inc("drain"); return 0 },
		func(int) { inc("discard") },
		func(bool, int) { inc("report") },
	)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() { defer wg.Done(); lc.Close() }()
	}
	wg.Wait()

	want := map[string]int{"requestStop": 1, "report": 1, "join": 10, "drain": 10, "discard": 0}
	for k, v := range want {
		if counts[k] != v {
			t.Fatalf("step %q ran %d times; want %d", k, counts[k], v)
		}
	}
}

func TestLifecycle_NilSteps(t *testing.T) {
	lc := newLifecycleCoordinator(nil, nil, nil, nil, nil)
	lc.Close()
	lc.Close()
}

func TestLifecycle_LaterDrainIsDiscarded(t *testing.T) {
	drains := []int{3, 2, 0}
	var discarded []int
	reports := 0

	lc := newLifecycleCoordinator(
		nil,
		func() bool { return false },
		func() int { n := drains[0]; drains = drains[1:]; return n },
		func(n int) { discarded = append(discarded, n) },
		func(joined bool, n int) {
			reports++
			if joined || n != 3 {
				t.Fatalf("report(joined=%v, discarded=%d); want (false, 3)", joined, n)
			}
		},
	)

	lc.Close()
	lc.Close()
	lc.Close()

	if reports != 1 {
		t.Fatalf("report ran %d times; want 1", reports)
	}
	if len(discarded) != 2 || discarded[0] != 3 || discarded[1] != 2 {
		t.Fatalf("discarded = %v; want [3 2]", discarded)
	}
}
