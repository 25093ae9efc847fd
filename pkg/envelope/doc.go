// Package envelope encodes session data together with its absolute expiry.
//
// The wire shape is JSON:
//
//	{"data":{"role":"admin"},"expireAt":1735689600000}
//
// expireAt is Unix milliseconds. Parse is strict about shape: a payload that
// decrypted successfully but is not an envelope is reported as ErrMalformed,
// which callers treat exactly like a failed decryption.
package envelope
