package keyring

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoKeys is returned when a key set is empty
	ErrNoKeys = errors.New("keyring.no_keys")

	// ErrEmptyKey is returned when a key set contains an empty key
	ErrEmptyKey = errors.New("keyring.empty_key")

	// ErrEmptyToken is returned when there is nothing to open
	ErrEmptyToken = errors.New("keyring.empty_token")

	// ErrExhausted indicates no key produced a valid, unexpired envelope
	ErrExhausted = errors.New("keyring.exhausted")

	// ErrTooLarge indicates the encoded cookie value exceeds the size budget
	ErrTooLarge = errors.New("keyring.too_large")
)

// Attempt records why a single key was rejected.
type Attempt struct {
	KeyIndex int
	Err      error
}

// ExhaustedError lists every failed attempt, in key order.
type ExhaustedError struct {
	Attempts []Attempt
}

func (e *ExhaustedError) Error() string {
	if len(e.Attempts) == 0 {
		return ErrExhausted.Error()
	}
	parts := make([]string, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		parts = append(parts, fmt.Sprintf("key %d: %v", a.KeyIndex, a.Err))
	}
	return ErrExhausted.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ExhaustedError) Is(target error) bool {
	return target == ErrExhausted
}

// SizeError reports an oversized cookie value.
type SizeError struct {
	Actual int
	Max    int
}

func (e *SizeError) Error() string {
	return fmt.Sprintf("%s: %d bytes exceeds limit of %d", ErrTooLarge, e.Actual, e.Max)
}

func (e *SizeError) Is(target error) bool {
	return target == ErrTooLarge
}
