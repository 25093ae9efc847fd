package sealer

import "context"

// Provider encrypts and decrypts opaque session payloads.
// Implementations must be safe for concurrent use.
type Provider interface {
	// Encrypt turns plaintext into an opaque, cookie-safe token using key.
	Encrypt(ctx context.Context, plaintext, key string) (string, error)

	// Decrypt reverses Encrypt. It must fail when token was not produced
	// with key or has been modified.
	Decrypt(ctx context.Context, token, key string) (string, error)
}

// Func is a blocking encrypt or decrypt function.
type Func func(ctx context.Context, data, key string) (string, error)

// CallbackFunc is the callback calling convention: the function hands its
// outcome to done, possibly from another goroutine.
type CallbackFunc func(data, key string, done func(result string, err error))

// Result is the value delivered by a FutureFunc.
type Result struct {
	Value string
	Err   error
}

// FutureFunc is the future calling convention: the function returns a
// channel that later yields a single Result.
type FutureFunc func(data, key string) <-chan Result

type funcProvider struct {
	encrypt Func
	decrypt Func
}

func (p funcProvider) Encrypt(ctx context.Context, plaintext, key string) (string, error) {
	return p.encrypt(ctx, plaintext, key)
}

func (p funcProvider) Decrypt(ctx context.Context, token, key string) (string, error) {
	return p.decrypt(ctx, token, key)
}

// Funcs builds a Provider from a pair of blocking functions.
func Funcs(encrypt, decrypt Func) (Provider, error) {
	if encrypt == nil || decrypt == nil {
		return nil, ErrIncompletePair
	}
	return funcProvider{encrypt: encrypt, decrypt: decrypt}, nil
}

// Callbacks builds a Provider from a pair of callback-style functions.
func Callbacks(encrypt, decrypt CallbackFunc) (Provider, error) {
	if encrypt == nil || decrypt == nil {
		return nil, ErrIncompletePair
	}
	return funcProvider{encrypt: encrypt.blocking(), decrypt: decrypt.blocking()}, nil
}

// Futures builds a Provider from a pair of future-style functions.
func Futures(encrypt, decrypt FutureFunc) (Provider, error) {
	if encrypt == nil || decrypt == nil {
		return nil, ErrIncompletePair
	}
	return funcProvider{encrypt: encrypt.blocking(), decrypt: decrypt.blocking()}, nil
}

// blocking waits for the first callback invocation or ctx cancellation.
// Extra invocations are dropped.
func (f CallbackFunc) blocking() Func {
	return func(ctx context.Context, data, key string) (string, error) {
		ch := make(chan Result, 1)
		f(data, key, func(result string, err error) {
			select {
			case ch <- Result{Value: result, Err: err}:
			default:
			}
		})

		select {
		case r := <-ch:
			return r.Value, r.Err
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
}

func (f FutureFunc) blocking() Func {
	return func(ctx context.Context, data, key string) (string, error) {
		ch := f(data, key)
		if ch == nil {
			return "", ErrNoResult
		}

		select {
		case r, ok := <-ch:
			if !ok {
				return "", ErrNoResult
			}
			return r.Value, r.Err
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
}
