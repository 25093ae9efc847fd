package session

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig indicates the manager could not be constructed from the given options
	ErrInvalidConfig = errors.New("session.invalid_config")

	// ErrSaveFailed wraps every failure returned by Session.Save
	ErrSaveFailed = errors.New("session.save_failed")

	// ErrNotLoaded indicates a Session that did not come from Manager.Load
	ErrNotLoaded = errors.New("session.not_loaded")

	// ErrSelfCheck indicates the encryption provider failed the startup round trip
	ErrSelfCheck = errors.New("session.self_check_failed")

	// ErrSelfCheckMismatch indicates the round trip returned different data
	ErrSelfCheckMismatch = errors.New("session.self_check_mismatch")
)

// SelfCheckError reports which stage of the provider round trip failed.
type SelfCheckError struct {
	Stage string
	Err   error
}

func (e *SelfCheckError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrSelfCheck, e.Stage, e.Err)
}

func (e *SelfCheckError) Is(target error) bool {
	return target == ErrSelfCheck
}

func (e *SelfCheckError) Unwrap() error {
	return e.Err
}

func invalidConfig(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...)
}
