package ode

import (
	"errors"
	"fmt"
)

// Domain errors for stepper construction and stepping.
var (
	// ErrNilFunc indicates a stepper was built without a right-hand side.
	ErrNilFunc = errors.New("ode: right-hand side function is nil")

	// ErrNonFiniteTime indicates t0 or t_bound is NaN or infinite.
	ErrNonFiniteTime = errors.New("ode: t0 and t_bound must be finite")

	// ErrInvalidStepSize indicates a step size that is NaN, infinite or
	// explicitly zero.
	ErrInvalidStepSize = errors.New("ode: step size must be finite and non-zero")

	// ErrNotRunning indicates Step was called on a finished or failed stepper.
	ErrNotRunning = errors.New("ode: attempt to step on a failed or finished solver")

	// ErrDimensionMismatch indicates the right-hand side returned a vector of the wrong length.
	ErrDimensionMismatch = errors.New("ode: dimension mismatch between state and derivative")
)

// StepErrorCode categorizes step failures.
type StepErrorCode string

const (
	CodeRHSError          StepErrorCode = "rhs_error"
	CodeRHSPanic          StepErrorCode = "rhs_panic"
	CodeDimensionMismatch StepErrorCode = "dimension_mismatch"
)

// StepError is the failure payload of a single step. Message is the
// human-readable text reported to callers.
type StepError struct {
	Code    StepErrorCode
	Message string
	Err     error
}

// NewStepError builds a StepError whose message embeds err's description.
func NewStepError(code StepErrorCode, err error) *StepError {
	return &StepError{
		Code:    code,
		Message: fmt.Sprintf("Step failed: %v", err),
		Err:     err,
	}
}

func (e *StepError) Error() string {
	return e.Message
}

func (e *StepError) Unwrap() error {
	return e.Err
}
