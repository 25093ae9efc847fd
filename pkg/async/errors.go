package async

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrTimeout = errors.New("async: operation timed out")
	ErrPanic   = errors.New("async: operation panicked")
)

// TimeoutError reports which guarded operation missed its deadline.
type TimeoutError struct {
	Label   string
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("async: %s did not complete within %s", e.Label, e.Timeout)
}

func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimeout
}

// PanicError wraps a value recovered from a panicking operation.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("async: operation panicked: %v", e.Value)
}

func (e *PanicError) Is(target error) bool {
	return target == ErrPanic
}
