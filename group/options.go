package group

// ErrorMode defines how a Group handles errors from its jobs.
type ErrorMode int

const (
	// FailFast cancels the group context on the first error and returns
	// that error from Wait.
	FailFast ErrorMode = iota
	// CollectAll records every error and returns them from Wait as an
	// AggregateError.
	CollectAll
	// IgnoreErrors discards all job errors; Wait always returns nil.
	IgnoreErrors
)

// Config holds configuration for a Group.
type Config struct {
	errorMode ErrorMode
}

// Option configures a Group.
type Option func(*Config)

// DefaultConfig returns the default configuration: CollectAll.
func DefaultConfig() Config {
	return Config{
		errorMode: CollectAll,
	}
}

// BuildConfig applies opts over the default configuration.
func BuildConfig(opts []Option) Config {
	config := DefaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	return config
}

// WithErrorMode sets how job errors are handled.
func WithErrorMode(mode ErrorMode) Option {
	return func(c *Config) {
		c.errorMode = mode
	}
}
