// Package jobsys provides a fixed-capacity parallel job dispatcher for Go.
//
// Jobsys is built around a single bounded ring buffer of jobs drained by a
// fixed set of long-lived worker goroutines. It is designed for frame-loop
// style workloads (rendering, simulation, batch transforms) where work is
// CPU-bound, submission bursts are frequent, and a full queue should throttle
// the submitter instead of growing without bound.
//
// # Key Features
//
//   - Bounded FIFO job queue with deterministic backpressure
//   - Fixed worker pool sized to hardware concurrency
//   - Ranged parallel-for dispatch with per-group completion tracking
//   - Spin-based Wait that keeps the pool draining even when called
//     from a worker goroutine
//   - Panic recovery with a customizable handler
//   - Structured logging via logrus and a per-system pool ID
//   - Graceful and immediate shutdown modes
//
// # Quick Start
//
//	sys, err := jobsys.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer sys.Shutdown(true)
//
//	for i := 0; i < 100; i++ {
//	    i := i
//	    err := sys.Execute(func() {
//	        fmt.Printf("job %d executed\n", i)
//	    })
//	    if err != nil {
//	        log.Printf("submit failed: %v", err)
//	    }
//	}
//
//	sys.Wait()
//
// # Parallel For
//
// Dispatch splits a contiguous index range into groups, each enqueued as a
// single job. Completion is tracked per group, not per index:
//
//	sys.Dispatch(len(items), 64, func(args jobsys.JobDispatchArgs) {
//	    process(items[args.JobIndex], args.GroupIndex)
//	})
//	sys.Wait()
//
// Indices inside one group run in increasing order on whichever worker claims
// that group. There is no ordering guarantee between groups.
//
// # Configuration
//
// Customize the system using functional options:
//
//	sys, err := jobsys.New(
//	    jobsys.WithNumWorkers(8),
//	    jobsys.WithQueueCapacity(512),
//	    jobsys.WithLogger(logrus.StandardLogger()),
//	    jobsys.WithSubmitRateLimit(10000, 256),
//	)
//
// Configuration can also be loaded from a YAML or JSON file with LoadConfig
// and applied with WithConfig.
//
// # Backpressure
//
// The queue holds at most capacity-1 jobs. When it is full, Execute and
// Dispatch spin: each attempt signals one worker and yields the submitting
// goroutine, so the queue drains while the submitter is throttled. Submission
// never fails because the queue is full.
//
// # Waiting
//
// Wait blocks until every job submitted so far has finished. It spins with a
// signal-and-yield loop rather than sleeping on a condition variable, so
// queued jobs keep draining even while every worker is busy or a waiter runs
// on a worker goroutine. The cost is CPU spin during long waits; size groups
// so that waits are short. Wait includes the caller's own unit when invoked
// from inside a job, so jobs should track their sub-jobs directly instead of
// calling Wait on the system.
//
// # Error Handling
//
// Jobs are plain func() values and cannot return errors. A panic inside a
// job is recovered by the worker, counted in Stats, and reported to the
// configured PanicHandler (by default it is logged with a stack trace).
// For jobs that produce errors, use the group subpackage, which collects or
// fail-fasts errors across a batch.
//
// # Monitoring
//
// Stats returns a lock-free snapshot of the system's counters:
//
//	st := sys.Stats()
//	fmt.Printf("submitted=%d completed=%d in-flight=%d\n",
//	    st.Submitted, st.Completed, st.InFlight)
//
// The statshttp subpackage serves the same snapshot over HTTP for
// dashboards.
//
// # Thread Safety
//
// All exported methods are safe for concurrent use. Any number of
// goroutines may submit jobs and call Wait simultaneously.
package jobsys
