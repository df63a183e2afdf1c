package jobsys

import "github.com/sirupsen/logrus"

// Option configures a System.
type Option func(*Config)

// WithConfig replaces the whole configuration. Options applied after it
// override individual fields.
func WithConfig(cfg Config) Option {
	return func(c *Config) { *c = cfg }
}

// WithNumWorkers sets the number of worker goroutines.
// Zero selects runtime.NumCPU().
func WithNumWorkers(n int) Option {
	return func(c *Config) { c.NumWorkers = n }
}

// WithQueueCapacity sets the slot count of the shared job queue.
// The queue holds at most n-1 jobs at once.
func WithQueueCapacity(n int) Option {
	return func(c *Config) { c.QueueCapacity = n }
}

// WithSubmitRateLimit caps sustained submissions per second with the given
// token-bucket burst. A rate of zero disables limiting.
func WithSubmitRateLimit(rate float64, burst int) Option {
	return func(c *Config) {
		c.SubmitRate = rate
		c.SubmitBurst = burst
	}
}

// WithPinWorkerThreads locks each worker goroutine to an OS thread.
func WithPinWorkerThreads(pin bool) Option {
	return func(c *Config) { c.PinWorkerThreads = pin }
}

// WithLogger sets the structured logger for lifecycle and panic logs.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(c *Config) { c.Logger = logger }
}

// WithPanicHandler sets the handler invoked when a job panics.
func WithPanicHandler(handler func(recovered interface{})) Option {
	return func(c *Config) { c.PanicHandler = handler }
}

// WithWorkerHooks sets callbacks invoked on each worker goroutine when it
// starts and before it exits.
func WithWorkerHooks(onStart, onStop func(workerID int)) Option {
	return func(c *Config) {
		c.OnWorkerStart = onStart
		c.OnWorkerStop = onStop
	}
}
