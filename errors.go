package jobsys

import "fmt"

// Common errors returned by the job system.
var (
	// ErrShutdown is returned when submitting a job to a system that has
	// been shut down. Once shut down, a system cannot accept new jobs.
	ErrShutdown = &SystemError{msg: "system is shut down"}

	// ErrNilJob is returned when attempting to submit a nil job function.
	// All submitted jobs must be non-nil function values.
	ErrNilJob = &SystemError{msg: "job is nil"}
)

// SystemError represents an error that occurred within the job system.
// It wraps underlying errors and provides context about system operations.
//
// SystemError implements the error interface and supports error unwrapping
// via errors.Unwrap for compatibility with errors.Is and errors.As.
type SystemError struct {
	msg string
	err error
}

// Error returns a formatted error message.
// If an underlying error exists, it is included in the output.
func (e *SystemError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("jobsys: %s: %v", e.msg, e.err)
	}
	return fmt.Sprintf("jobsys: %s", e.msg)
}

// Unwrap returns the underlying error, allowing use with errors.Is and errors.As.
func (e *SystemError) Unwrap() error {
	return e.err
}

// errInvalidConfig creates an error for invalid system configuration.
// This is returned during construction when validation fails.
func errInvalidConfig(msg string) error {
	return &SystemError{msg: "invalid config: " + msg}
}
