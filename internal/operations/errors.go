package operations

import (
	"errors"
	"fmt"
)

// ErrorKind classifies batch-level operation failures
type ErrorKind string

const (
	// ErrKindInput covers missing or unreadable input files
	ErrKindInput ErrorKind = "input"
	// ErrKindBatch covers structural failures outside any per-item boundary
	ErrKindBatch ErrorKind = "batch"
)

// OperationError is a batch-level failure attributed to a step
type OperationError struct {
	Kind ErrorKind
	Step string
	Err  error
}

// Error implements the error interface
func (e *OperationError) Error() string {
	return fmt.Sprintf("step %s failed (%s): %v", e.Step, e.Kind, e.Err)
}

// Unwrap returns the underlying error
func (e *OperationError) Unwrap() error {
	return e.Err
}

// NewInputError wraps an input failure
func NewInputError(step string, err error) *OperationError {
	return &OperationError{Kind: ErrKindInput, Step: step, Err: err}
}

// NewBatchError wraps a structural batch failure
func NewBatchError(step string, err error) *OperationError {
	return &OperationError{Kind: ErrKindBatch, Step: step, Err: err}
}

// IsInputError reports whether err is an input-kind operation error
func IsInputError(err error) bool {
	var oe *OperationError
	return errors.As(err, &oe) && oe.Kind == ErrKindInput
}
