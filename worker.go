package jobsys

import (
	"runtime"
	"runtime/debug"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// worker is one long-lived goroutine of the pool. It runs a claim-execute-
// or-sleep loop against the system's shared queue for the system's lifetime.
type worker struct {
	id  int
	sys *System

	executed atomic.Uint64
	failed   atomic.Uint64
}

func newWorker(id int, sys *System) *worker {
	return &worker{id: id, sys: sys}
}

// run is the main worker loop: pop a job and execute it, or sleep until
// signaled. The loop exits only when the system has stopped and the queue
// is observed empty.
func (w *worker) run() {
	cfg := &w.sys.config

	if cfg.PinWorkerThreads {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
	}

	if cfg.OnWorkerStart != nil {
		cfg.OnWorkerStart(w.id)
	}

	for {
		job, ok := w.sys.queue.popFront()
		if ok {
			w.execute(job)
			continue
		}

		if systemState(w.sys.state.Load()) == stateStopped {
			break
		}

		w.sleep()
	}

	if cfg.OnWorkerStop != nil {
		cfg.OnWorkerStop(w.id)
	}
}

// sleep blocks until a producer signals. The queue is rechecked under the
// wake lock before every wait: producers signal under the same lock after
// pushing, so a job pushed between the failed pop and the wait is seen here
// and the worker does not sleep past it.
func (w *worker) sleep() {
	s := w.sys

	s.wakeMu.Lock()
	for systemState(s.state.Load()) != stateStopped && s.queue.len() == 0 {
		s.wake.Wait()
	}
	s.wakeMu.Unlock()
}

// execute runs one job with panic recovery. The completed counter is
// incremented on every path, including a panicking job, so Wait always
// terminates.
func (w *worker) execute(job Job) {
	s := w.sys

	defer func() {
		if r := recover(); r != nil {
			w.failed.Add(1)
			s.failed.Add(1)

			if s.config.PanicHandler != nil {
				s.config.PanicHandler(r)
			} else {
				s.logger.WithFields(logrus.Fields{
					"worker_id": w.id,
					"panic":     r,
					"stack":     string(debug.Stack()),
				}).Error("job panicked")
			}
		}

		w.executed.Add(1)
		s.completed.Add(1)
	}()

	job()
}
