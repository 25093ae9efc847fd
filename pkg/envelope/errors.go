package envelope

import "errors"

var (
	// ErrMalformed indicates the payload is not a well-formed envelope
	ErrMalformed = errors.New("envelope.malformed")

	// ErrExpired indicates the envelope's expireAt has passed
	ErrExpired = errors.New("envelope.expired")

	// ErrEncode indicates session data could not be serialized
	ErrEncode = errors.New("envelope.encode_failed")
)
