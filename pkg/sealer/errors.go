package sealer

import "errors"

var (
	// ErrEmptyKey is returned when a signing key is empty
	ErrEmptyKey = errors.New("sealer.empty_key")

	// ErrEncrypt indicates the provider failed to produce a ciphertext
	ErrEncrypt = errors.New("sealer.encryption_failed")

	// ErrDecrypt covers bad encoding, truncated input and failed authentication
	ErrDecrypt = errors.New("sealer.decryption_failed")

	// ErrIncompletePair is returned when only one half of an encrypt/decrypt pair is supplied
	ErrIncompletePair = errors.New("sealer.incomplete_pair")

	// ErrNoResult is returned when a future-style function closes its channel without a value
	ErrNoResult = errors.New("sealer.no_result")
)
