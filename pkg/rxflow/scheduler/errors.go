package scheduler

import (
	"errors"
	"fmt"
)

// ErrSchedulerClosed indicates the scheduler no longer accepts or runs work.
var ErrSchedulerClosed = errors.New("scheduler closed")

// ErrLoopRunning indicates Run was called while the loop was already running.
var ErrLoopRunning = errors.New("interactive loop already running")

// PanicError captures a panic raised inside scheduled work.
type PanicError struct {
	// Value is the value passed to panic().
	Value any
	// Stack is the stack trace at the point of panic.
	Stack string
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("scheduled work panicked: %v", e.Value)
}
