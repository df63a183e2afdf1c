package jobsys

// Stats is a snapshot of the system's counters. All values are read without
// locks, so they may be slightly inconsistent with each other while jobs are
// in flight.
type Stats struct {
	// Submitted is the total number of completion units ever enqueued:
	// one per Execute call and one per dispatched group.
	Submitted uint64 `json:"submitted"`

	// Completed is the total number of units whose execution has finished,
	// including jobs that panicked.
	Completed uint64 `json:"completed"`

	// Dropped is the number of queued jobs discarded by a non-graceful
	// Shutdown.
	Dropped uint64 `json:"dropped"`

	// Failed is the number of jobs that panicked during execution.
	// These jobs are still counted in Completed.
	Failed uint64 `json:"failed"`

	// InFlight is the number of units currently queued or executing,
	// computed as Submitted - Completed - Dropped.
	InFlight uint64 `json:"in_flight"`

	// QueueDepth is the number of jobs resident in the queue right now.
	QueueDepth int `json:"queue_depth"`

	// QueueCapacity is the maximum number of jobs the queue can hold.
	QueueCapacity int `json:"queue_capacity"`

	// NumWorkers is the fixed worker count chosen at construction.
	NumWorkers int `json:"num_workers"`

	// WorkerStats has one entry per worker.
	WorkerStats []WorkerStats `json:"worker_stats"`
}

// WorkerStats are per-worker execution counters.
type WorkerStats struct {
	// WorkerID is the worker's zero-based ordinal.
	WorkerID int `json:"worker_id"`

	// JobsExecuted is the number of jobs this worker has run.
	JobsExecuted uint64 `json:"jobs_executed"`

	// JobsFailed is the number of those jobs that panicked.
	JobsFailed uint64 `json:"jobs_failed"`
}

// Stats returns a snapshot of the system's counters.
//
// Example:
//
//	st := sys.Stats()
//	fmt.Printf("completed %d/%d\n", st.Completed, st.Submitted)
func (s *System) Stats() Stats {
	submitted := s.submitted.Load()
	completed := s.completed.Load()
	dropped := s.dropped.Load()

	inFlight := uint64(0)
	if submitted > completed+dropped {
		inFlight = submitted - completed - dropped
	}

	workerStats := make([]WorkerStats, len(s.workers))
	for i, w := range s.workers {
		workerStats[i] = WorkerStats{
			WorkerID:     i,
			JobsExecuted: w.executed.Load(),
			JobsFailed:   w.failed.Load(),
		}
	}

	return Stats{
		Submitted:     submitted,
		Completed:     completed,
		Dropped:       dropped,
		Failed:        s.failed.Load(),
		InFlight:      inFlight,
		QueueDepth:    s.queue.len(),
		QueueCapacity: s.queue.cap(),
		NumWorkers:    len(s.workers),
		WorkerStats:   workerStats,
	}
}
