// Package sealer provides the encryption capability used to protect session
// cookies.
//
// A Provider is an encrypt/decrypt pair keyed by a signing-key string. The
// package ships two implementations and adapters for caller-supplied
// functions.
//
// # Built-in providers
//
//   - AESGCM – the default. The key is SHA-256(signing key), a fresh 12 byte
//     IV is drawn for every token, and the output is
//     base64(IV[12] || TAG[16] || CIPHERTEXT).
//   - ChaCha20Poly1305 – same layout, keys derived with HKDF-SHA256.
//
// # Custom providers
//
// External code may use one of three calling conventions. Each adapter turns
// a pair of functions into a Provider and rejects a pair with a missing half:
//
//	p, err := sealer.Callbacks(
//	    func(data, key string, done func(string, error)) { done(myEncrypt(data, key)) },
//	    func(data, key string, done func(string, error)) { done(myDecrypt(data, key)) },
//	)
//
//	p, err := sealer.Futures(encryptAsync, decryptAsync) // func(data, key) <-chan sealer.Result
//	p, err := sealer.Funcs(encrypt, decrypt)             // func(ctx, data, key) (string, error)
//
// The session layer never inspects a provider's algorithm. It bounds every
// call with a timeout and checks the round trip.
//
// # Error Handling
//
//   - ErrDecrypt        – malformed base64, truncated token or failed tag check
//   - ErrEncrypt        – cipher setup or randomness failure
//   - ErrEmptyKey       – signing key is empty
//   - ErrIncompletePair – only one of encrypt/decrypt supplied
package sealer
