// Package group layers structured error handling on top of a jobsys.System.
//
// The core job type is a plain func() and cannot report failure. A Group
// binds a batch of error-returning functions to a shared context and a
// configurable error policy: fail fast on the first error, collect every
// error, or ignore them all. Panics inside group jobs are captured as
// PanicError values instead of hitting the system's panic handler.
//
//	g := group.New(sys, group.WithErrorMode(group.FailFast))
//	g.Go(func(ctx context.Context) error { return loadChunk(ctx, 0) })
//	g.Go(func(ctx context.Context) error { return loadChunk(ctx, 1) })
//	if err := g.Wait(); err != nil {
//	    log.Fatal(err)
//	}
package group

import (
	"context"
	"runtime/debug"
	"sync"

	"github.com/tahsin716/jobsys"
)

// Group tracks a batch of jobs submitted to one System and aggregates their
// errors according to the configured ErrorMode. A Group waits only for its
// own jobs; other work on the same System is unaffected.
type Group struct {
	sys    *jobsys.System
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	config Config

	errorsMux sync.Mutex
	errors    []error
	firstErr  error
	failOnce  sync.Once
}

// New creates a Group bound to the given system.
func New(sys *jobsys.System, opts ...Option) *Group {
	return NewWithContext(context.Background(), sys, opts...)
}

// NewWithContext creates a Group whose context descends from parent.
// Cancelling the parent cancels the group's context; jobs that honor the
// context stop early, but queued jobs are still drained.
func NewWithContext(parent context.Context, sys *jobsys.System, opts ...Option) *Group {
	config := BuildConfig(opts)

	if parent == nil {
		parent = context.Background()
	}

	ctx, cancel := context.WithCancel(parent)

	return &Group{
		sys:    sys,
		ctx:    ctx,
		cancel: cancel,
		config: config,
	}
}

// Go submits fn as one job on the group's system. The error it returns is
// handled according to the group's ErrorMode; a panic is captured as a
// PanicError and handled the same way.
//
// Go returns an error only when submission itself fails (nil fn, or the
// system has been shut down). A submission failure does not become part of
// Wait's result.
func (g *Group) Go(fn func(context.Context) error) error {
	if fn == nil {
		return jobsys.ErrNilJob
	}

	return g.submit(func() {
		if err := fn(g.ctx); err != nil {
			g.handleError(err)
		}
	})
}

// ForEach runs fn once per index in [0, jobCount), split into groups of
// groupSize indices with each group submitted as one job. Indices inside a
// group run in increasing order on one worker; groups run in any order.
//
// Per-index errors follow the ErrorMode: FailFast cancels the group context
// and skips remaining indices, CollectAll records the error and continues.
// A panic skips the remaining indices of its own group only.
//
// ForEach is a no-op when jobCount or groupSize is not positive.
func (g *Group) ForEach(jobCount, groupSize int, fn func(context.Context, jobsys.JobDispatchArgs) error) error {
	if jobCount <= 0 || groupSize <= 0 {
		return nil
	}

	if fn == nil {
		return jobsys.ErrNilJob
	}

	groupCount := (jobCount + groupSize - 1) / groupSize

	for groupIndex := 0; groupIndex < groupCount; groupIndex++ {
		offset := groupIndex * groupSize
		end := offset + groupSize
		if end > jobCount {
			end = jobCount
		}

		groupIndex := groupIndex
		err := g.submit(func() {
			args := jobsys.JobDispatchArgs{GroupIndex: groupIndex}
			for i := offset; i < end; i++ {
				if g.ctx.Err() != nil {
					return
				}
				args.JobIndex = i
				if err := fn(g.ctx, args); err != nil {
					g.handleError(err)
					if g.config.errorMode == FailFast {
						return
					}
				}
			}
		})
		if err != nil {
			return err
		}
	}

	return nil
}

// Wait blocks until every job submitted through this group has finished,
// cancels the group context, and returns the accumulated error: the first
// error in FailFast mode, an AggregateError in CollectAll mode, nil in
// IgnoreErrors mode or when nothing failed.
func (g *Group) Wait() error {
	g.wg.Wait()
	g.Stop()

	switch g.config.errorMode {
	case IgnoreErrors:
		return nil

	case FailFast:
		g.errorsMux.Lock()
		first := g.firstErr
		g.errorsMux.Unlock()
		return first

	case CollectAll:
		g.errorsMux.Lock()
		collected := make([]error, len(g.errors))
		copy(collected, g.errors)
		g.errorsMux.Unlock()

		if len(collected) > 0 {
			return AggregateError{Errors: collected}
		}
		return nil

	default:
		return nil
	}
}

// Stop cancels the group context. Jobs that honor the context return early;
// jobs already queued still run.
func (g *Group) Stop() {
	g.cancel()
}

// submit wraps body with completion tracking and panic capture, then hands
// it to the system.
func (g *Group) submit(body func()) error {
	g.wg.Add(1)

	err := g.sys.Execute(func() {
		defer g.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				g.handleError(&PanicError{
					Value: r,
					Stack: string(debug.Stack()),
				})
			}
		}()

		body()
	})
	if err != nil {
		g.wg.Done()
		return err
	}

	return nil
}

// handleError records an error according to the error mode.
func (g *Group) handleError(err error) {
	switch g.config.errorMode {
	case IgnoreErrors:
		return

	case FailFast:
		g.errorsMux.Lock()
		won := g.firstErr == nil
		if won {
			g.firstErr = err
		}
		g.errorsMux.Unlock()
		if won {
			g.failOnce.Do(g.cancel)
		}

	case CollectAll:
		g.errorsMux.Lock()
		g.errors = append(g.errors, err)
		g.errorsMux.Unlock()
	}
}
