package rxflow

import (
	"errors"
	"fmt"
)

// Sentinel errors for pipeline construction.
var (
	// ErrNilProducer indicates Defer was given a nil producer.
	ErrNilProducer = errors.New("producer cannot be nil")

	// ErrNilFunc indicates Map or Tap was given a nil function.
	ErrNilFunc = errors.New("stage function cannot be nil")
)

// StageError wraps a failure with the stage where it was caught.
type StageError struct {
	// Stage is the name of the pipeline stage that failed.
	Stage string
	// Op is the operation that failed ("map", "tap", "produce").
	Op string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s: %s: %v", e.Stage, e.Op, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *StageError) Unwrap() error {
	return e.Err
}

// PanicError captures a panic raised by a user function inside a stage.
// It includes the stack trace for debugging.
type PanicError struct {
	// Stage is the name of the stage that panicked.
	Stage string
	// Value is the value passed to panic().
	Value any
	// Stack is the full stack trace at the point of panic.
	Stack string
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("stage %s panicked: %v", e.Stage, e.Value)
}
