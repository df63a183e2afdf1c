package jobsys

import (
	"context"
	"io"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Job is one unit of work: an opaque, zero-argument closure capturing all
// data it needs. A job is consumed exactly once by exactly one worker.
type Job func()

// JobDispatchArgs is passed to a ranged job once per index.
type JobDispatchArgs struct {
	// JobIndex is the current index within [0, jobCount).
	JobIndex int

	// GroupIndex is the ordinal of the group this index belongs to,
	// equal to JobIndex / groupSize.
	GroupIndex int
}

// systemState represents system lifecycle states.
type systemState int32

const (
	stateRunning systemState = iota
	stateDraining
	stateStopped
)

// System is a fixed-capacity parallel job dispatcher: a bounded FIFO queue
// of jobs drained by a fixed set of worker goroutines. All methods are safe
// for concurrent use from any number of goroutines.
type System struct {
	config  Config
	id      uuid.UUID
	logger  logrus.FieldLogger
	queue   *ringBuffer
	workers []*worker
	limiter *rate.Limiter

	// Completion tracking. submitted counts units of completion ever
	// enqueued (one per Execute call, one per dispatched group);
	// completed counts finished units. submitted >= completed always,
	// equality means idle.
	submitted atomic.Uint64
	completed atomic.Uint64
	dropped   atomic.Uint64
	failed    atomic.Uint64

	state atomic.Int32
	wg    sync.WaitGroup

	// Workers sleep on wake when the queue is observed empty. Producers
	// signal after every successful push; signals are taken under wakeMu
	// and workers recheck the queue under the same lock, so a push cannot
	// slip between a worker's empty check and its wait.
	wakeMu sync.Mutex
	wake   *sync.Cond
}

// New creates a job system and immediately starts its workers.
// It returns an error if the configuration is invalid.
//
// Example:
//
//	sys, err := jobsys.New(
//	    jobsys.WithNumWorkers(4),
//	    jobsys.WithQueueCapacity(256),
//	)
func New(opts ...Option) (*System, error) {
	cfg := DefaultConfig()

	for _, opt := range opts {
		opt(&cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	numWorkers := cfg.NumWorkers
	if numWorkers == 0 {
		numWorkers = runtime.NumCPU()
	}
	if numWorkers < 1 {
		numWorkers = 1
	}

	capacity := cfg.QueueCapacity
	if capacity == 0 {
		capacity = DefaultConfig().QueueCapacity
	}

	logger := cfg.Logger
	if logger == nil {
		silent := logrus.New()
		silent.SetOutput(io.Discard)
		logger = silent
	}

	s := &System{
		config:  cfg,
		id:      uuid.New(),
		queue:   newRingBuffer(capacity),
		workers: make([]*worker, numWorkers),
	}
	s.logger = logger.WithField("pool_id", s.id.String())
	s.wake = sync.NewCond(&s.wakeMu)
	s.state.Store(int32(stateRunning))

	if cfg.SubmitRate > 0 {
		burst := cfg.SubmitBurst
		if burst <= 0 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(cfg.SubmitRate), burst)
	}

	s.logger.WithFields(logrus.Fields{
		"workers":        numWorkers,
		"queue_capacity": capacity,
	}).Info("job system starting")

	for i := 0; i < numWorkers; i++ {
		s.workers[i] = newWorker(i, s)
	}

	for _, w := range s.workers {
		s.wg.Add(1)
		go func(wk *worker) {
			defer s.wg.Done()
			wk.run()
		}(w)
	}

	return s, nil
}

// ID returns the system's unique instance identifier, also attached to
// every log entry as pool_id.
func (s *System) ID() uuid.UUID { return s.id }

// NumWorkers returns the number of workers in the system.
func (s *System) NumWorkers() int { return len(s.workers) }

// QueueCapacity returns the number of jobs the shared queue can hold.
func (s *System) QueueCapacity() int { return s.queue.cap() }

// Execute enqueues one fire-and-forget job and signals a worker.
//
// A full queue never causes an error: Execute spins, signaling a worker and
// yielding between attempts, until space exists. This backpressure throttles
// the submitter instead of growing the queue without bound.
//
// Returns ErrNilJob if job is nil and ErrShutdown if the system has been
// shut down.
func (s *System) Execute(job Job) error {
	if job == nil {
		return ErrNilJob
	}

	if systemState(s.state.Load()) != stateRunning {
		return ErrShutdown
	}

	if s.limiter != nil {
		_ = s.limiter.Wait(context.Background())
	}

	s.submitted.Add(1)

	for !s.queue.pushBack(job) {
		if systemState(s.state.Load()) == stateStopped {
			// The pool stopped while we were throttled; the unit can
			// never run, so account for it as dropped.
			s.dropped.Add(1)
			return ErrShutdown
		}
		s.poll()
	}
	s.signalOne()

	return nil
}

// Dispatch splits the index range [0, jobCount) into ceil(jobCount/groupSize)
// groups and enqueues each group as one job. The ranged job is invoked once
// per index with the current index and the group's ordinal.
//
// Completion is tracked per group: Wait returns as soon as every group has
// finished, regardless of how many indices each contained. Groups may run in
// any order relative to each other; indices inside one group run in
// increasing order on the single worker that claimed the group.
//
// Dispatch is a no-op when jobCount or groupSize is not positive.
func (s *System) Dispatch(jobCount, groupSize int, job func(JobDispatchArgs)) error {
	if jobCount <= 0 || groupSize <= 0 {
		return nil
	}

	if job == nil {
		return ErrNilJob
	}

	if systemState(s.state.Load()) != stateRunning {
		return ErrShutdown
	}

	groupCount := (jobCount + groupSize - 1) / groupSize
	s.submitted.Add(uint64(groupCount))

	for groupIndex := 0; groupIndex < groupCount; groupIndex++ {
		if s.limiter != nil {
			_ = s.limiter.Wait(context.Background())
		}

		offset := groupIndex * groupSize
		end := offset + groupSize
		if end > jobCount {
			end = jobCount
		}

		groupIndex := groupIndex
		groupJob := func() {
			args := JobDispatchArgs{GroupIndex: groupIndex}
			for i := offset; i < end; i++ {
				args.JobIndex = i
				job(args)
			}
		}

		for !s.queue.pushBack(groupJob) {
			if systemState(s.state.Load()) == stateStopped {
				// This group and every group not yet enqueued are
				// abandoned; account for them as dropped.
				s.dropped.Add(uint64(groupCount - groupIndex))
				return ErrShutdown
			}
			s.poll()
		}
		s.signalOne()
	}

	return nil
}

// IsBusy reports whether any submitted unit of work is still outstanding.
// It is a lock-free read of the completion counters. Units dropped by a
// non-graceful shutdown can never complete and are counted as settled,
// otherwise the system would report busy forever afterwards.
func (s *System) IsBusy() bool {
	return s.completed.Load()+s.dropped.Load() < s.submitted.Load()
}

// Wait blocks until all work submitted so far has completed.
//
// Wait spins with a signal-and-yield loop instead of sleeping on a condition
// variable. This is deliberate: if Wait runs on a worker goroutine, a pure
// wait-for-notify design could sleep forever when no other worker happens to
// wake it, while the spin keeps signaling so queued work always drains.
//
// Wait covers every outstanding completion unit, including — when called
// from inside a job — the calling job's own unit, which cannot finish while
// Wait blocks. A job that needs to wait for sub-jobs it submitted should
// track them itself (or use the group subpackage); their completion is
// guaranteed, since the spin keeps the rest of the pool draining.
func (s *System) Wait() {
	for s.IsBusy() {
		s.poll()
	}
}

// Shutdown stops the system. If graceful is true, all queued jobs run to
// completion first. If false, workers stop after their current job and the
// queued remainder is discarded and counted as dropped.
//
// Repeated calls are safe and ignored after the first. Submissions after
// Shutdown fail with ErrShutdown.
func (s *System) Shutdown(graceful bool) {
	if graceful {
		if !s.state.CompareAndSwap(int32(stateRunning), int32(stateDraining)) {
			return
		}
		s.Wait()
		s.state.Store(int32(stateStopped))
	} else {
		if systemState(s.state.Swap(int32(stateStopped))) == stateStopped {
			return
		}
		for {
			if _, ok := s.queue.popFront(); !ok {
				break
			}
			s.dropped.Add(1)
		}
	}

	s.broadcast()
	s.wg.Wait()

	s.logger.WithFields(logrus.Fields{
		"completed": s.completed.Load(),
		"dropped":   s.dropped.Load(),
	}).Info("job system stopped")
}

// IsShutdown returns true if the system has been shut down.
func (s *System) IsShutdown() bool {
	return systemState(s.state.Load()) == stateStopped
}

// poll wakes one worker and yields the calling goroutine's timeslice.
// It is the forward-progress primitive behind queue-full backpressure and
// Wait: signaling keeps workers draining while the caller steps aside.
func (s *System) poll() {
	s.signalOne()
	runtime.Gosched()
}

func (s *System) signalOne() {
	s.wakeMu.Lock()
	s.wake.Signal()
	s.wakeMu.Unlock()
}

func (s *System) broadcast() {
	s.wakeMu.Lock()
	s.wake.Broadcast()
	s.wakeMu.Unlock()
}
