package group

import "fmt"

// PanicError wraps a panic recovered from a group job.
type PanicError struct {
	Value interface{}
	Stack string
}

func (p *PanicError) Error() string {
	return fmt.Sprintf("panic: %v\n%s", p.Value, p.Stack)
}

// AggregateError wraps every error a CollectAll group accumulated.
type AggregateError struct {
	Errors []error
}

func (a AggregateError) Error() string {
	if len(a.Errors) == 0 {
		return "no errors"
	}
	return fmt.Sprintf("%d errors: %v", len(a.Errors), a.Errors)
}

// Unwrap exposes the collected errors to errors.Is and errors.As.
func (a AggregateError) Unwrap() []error {
	return a.Errors
}
