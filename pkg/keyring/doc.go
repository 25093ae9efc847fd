// Package keyring implements signing-key rotation for sealed session cookies.
//
// A KeySet is an ordered list of secrets. The first key encrypts; all keys
// decrypt, newest first, so a deployment rotates by prepending a key and
// dropping the oldest one later. Cookies issued under an old key stay valid
// for as long as that key remains anywhere in the list.
//
// Resolver.Open walks the keys sequentially. Each attempt runs the provider
// under the async timeout guard, then parses the payload and checks expiry.
// A wrong key, a timeout, a provider error, a malformed payload and an
// expired envelope are all the same outcome to the caller: the attempt
// failed and the next key is tried. Only when every key fails does Open
// return an *ExhaustedError, which lists each attempt for diagnostics.
//
// CheckSize enforces the per-cookie byte budget on the encoded value.
//
// Spans named keyring.Open and keyring.Seal are recorded on the global
// OpenTelemetry tracer provider; they are no-ops unless one is installed.
package keyring
