package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidParameter indicates a physical constant or time step outside its valid range.
	ErrInvalidParameter = errors.New("dynamo: invalid parameter")

	// ErrIntegrationFailure indicates the solver could not resolve a requested step.
	ErrIntegrationFailure = errors.New("dynamo: integration failure")

	// ErrDimensionMismatch indicates a state vector of the wrong length.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch between state and system")
)

// ParameterError names the rejected parameter.
type ParameterError struct {
	Name    string
	Value   float64
	Reason  string
	Wrapped error
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("%s: %s=%g %s", e.Wrapped.Error(), e.Name, e.Value, e.Reason)
}

func (e *ParameterError) Unwrap() error {
	return e.Wrapped
}

// InvalidParameter builds a ParameterError wrapping ErrInvalidParameter.
func InvalidParameter(name string, value float64, reason string) error {
	return &ParameterError{Name: name, Value: value, Reason: reason, Wrapped: ErrInvalidParameter}
}

// StepError wraps an integration error with simulation context.
type StepError struct {
	Axis    string
	Step    int
	Time    float64
	State   State
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f, axis %s): %v", e.Step, e.Time, e.Axis, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
