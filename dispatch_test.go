package jobsys

import (
	"sync"
	"sync/atomic"
	"testing"
)

// ============================================================================
// Range Coverage Tests
// ============================================================================

// Dispatch(10, 3) must produce 4 groups of sizes 3,3,3,1: every index in
// [0,10) seen exactly once with groupIndex = index/3.
func TestSystem_Dispatch_GroupDecomposition(t *testing.T) {
	sys, err := New(WithNumWorkers(4))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer sys.Shutdown(false)

	const (
		jobCount  = 10
		groupSize = 3
	)

	var mu sync.Mutex
	seen := make(map[int]int)       // index -> times seen
	groupOf := make(map[int]int)    // index -> group ordinal
	groupSizes := make(map[int]int) // group ordinal -> index count

	err = sys.Dispatch(jobCount, groupSize, func(args JobDispatchArgs) {
		mu.Lock()
		seen[args.JobIndex]++
		groupOf[args.JobIndex] = args.GroupIndex
		groupSizes[args.GroupIndex]++
		mu.Unlock()
	})
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}

	sys.Wait()

	for i := 0; i < jobCount; i++ {
		if seen[i] != 1 {
			t.Errorf("Index %d seen %d times, want exactly once", i, seen[i])
		}
		if groupOf[i] != i/groupSize {
			t.Errorf("Index %d has group %d, want %d", i, groupOf[i], i/groupSize)
		}
	}

	wantSizes := map[int]int{0: 3, 1: 3, 2: 3, 3: 1}
	if len(groupSizes) != len(wantSizes) {
		t.Fatalf("Expected %d groups, got %d", len(wantSizes), len(groupSizes))
	}
	for g, n := range wantSizes {
		if groupSizes[g] != n {
			t.Errorf("Group %d has %d indices, want %d", g, groupSizes[g], n)
		}
	}
}

func TestSystem_Dispatch_CoversLargeRange(t *testing.T) {
	sys, err := New(WithNumWorkers(4), WithQueueCapacity(32))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer sys.Shutdown(false)

	const (
		jobCount  = 10000
		groupSize = 7
	)

	hits := make([]atomic.Int32, jobCount)
	err = sys.Dispatch(jobCount, groupSize, func(args JobDispatchArgs) {
		hits[args.JobIndex].Add(1)
	})
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}

	sys.Wait()

	for i := range hits {
		if n := hits[i].Load(); n != 1 {
			t.Fatalf("Index %d executed %d times, want exactly once", i, n)
		}
	}
}

// ============================================================================
// Edge Case Tests
// ============================================================================

func TestSystem_Dispatch_ZeroArgsAreNoOps(t *testing.T) {
	sys, err := New(WithNumWorkers(2))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer sys.Shutdown(false)

	var invoked atomic.Int32
	job := func(JobDispatchArgs) { invoked.Add(1) }

	if err := sys.Dispatch(0, 3, job); err != nil {
		t.Errorf("Dispatch(0, 3) error = %v", err)
	}
	if err := sys.Dispatch(5, 0, job); err != nil {
		t.Errorf("Dispatch(5, 0) error = %v", err)
	}

	sys.Wait()

	if invoked.Load() != 0 {
		t.Errorf("Expected no invocations, got %d", invoked.Load())
	}

	st := sys.Stats()
	if st.Submitted != 0 || st.Completed != 0 {
		t.Errorf("Expected counters unchanged, got submitted=%d completed=%d",
			st.Submitted, st.Completed)
	}
}

func TestSystem_Dispatch_NilJob(t *testing.T) {
	sys, err := New(WithNumWorkers(1))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer sys.Shutdown(false)

	if err := sys.Dispatch(10, 3, nil); err != ErrNilJob {
		t.Errorf("Expected ErrNilJob, got %v", err)
	}
}

func TestSystem_Dispatch_GroupLargerThanRange(t *testing.T) {
	sys, err := New(WithNumWorkers(2))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer sys.Shutdown(false)

	var invoked atomic.Int32
	err = sys.Dispatch(5, 100, func(args JobDispatchArgs) {
		if args.GroupIndex != 0 {
			t.Errorf("Expected single group 0, got %d", args.GroupIndex)
		}
		invoked.Add(1)
	})
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}

	sys.Wait()

	if invoked.Load() != 5 {
		t.Errorf("Expected 5 invocations, got %d", invoked.Load())
	}

	if st := sys.Stats(); st.Submitted != 1 {
		t.Errorf("Expected 1 submitted group, got %d", st.Submitted)
	}
}

// ============================================================================
// Ordering & Granularity Tests
// ============================================================================

// Indices inside one group must execute in strictly increasing order on the
// single worker that claimed the group.
func TestSystem_Dispatch_InGroupOrdering(t *testing.T) {
	sys, err := New(WithNumWorkers(4))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer sys.Shutdown(false)

	const (
		jobCount  = 1000
		groupSize = 25
	)
	groupCount := (jobCount + groupSize - 1) / groupSize

	var mu sync.Mutex
	orders := make([][]int, groupCount)

	err = sys.Dispatch(jobCount, groupSize, func(args JobDispatchArgs) {
		mu.Lock()
		orders[args.GroupIndex] = append(orders[args.GroupIndex], args.JobIndex)
		mu.Unlock()
	})
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}

	sys.Wait()

	for g, order := range orders {
		for i := 1; i < len(order); i++ {
			if order[i] <= order[i-1] {
				t.Fatalf("Group %d executed index %d after %d", g, order[i], order[i-1])
			}
		}
	}
}

// Completion is tracked per group: the submitted counter advances by the
// group count, not the index count.
func TestSystem_Dispatch_PerGroupCompletion(t *testing.T) {
	sys, err := New(WithNumWorkers(2))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer sys.Shutdown(false)

	if err := sys.Dispatch(100, 10, func(JobDispatchArgs) {}); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}

	sys.Wait()

	st := sys.Stats()
	if st.Submitted != 10 || st.Completed != 10 {
		t.Errorf("Expected 10 group completions, got submitted=%d completed=%d",
			st.Submitted, st.Completed)
	}
}

func TestSystem_Dispatch_AfterShutdown(t *testing.T) {
	sys, err := New(WithNumWorkers(1))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	sys.Shutdown(true)

	if err := sys.Dispatch(10, 3, func(JobDispatchArgs) {}); err != ErrShutdown {
		t.Errorf("Expected ErrShutdown, got %v", err)
	}
}
