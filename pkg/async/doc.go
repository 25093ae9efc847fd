// Package async provides generic helpers for running pluggable, possibly
// misbehaving computations with a bounded wait.
//
// The package is centred around the generic type Future, the eventual result of
// an Operation. An Operation receives a single-shot Settle callback instead of
// returning a value, which lets callback-driven code (timers, foreign
// libraries, channels) complete it from any goroutine. The first settlement
// wins; every later call is ignored.
//
// Guard is the main entry point. It starts the operation, races it against a
// deadline and the parent context, and returns whichever outcome arrived
// first. When the deadline wins the result is a *TimeoutError that names the
// operation:
//
//	res, err := async.Guard(ctx, "decrypt", 3*time.Second,
//	    func(ctx context.Context, settle async.Settle[string]) {
//	        provider.Decrypt(value, key, func(out string, err error) {
//	            settle(out, err)
//	        })
//	    })
//	if errors.Is(err, async.ErrTimeout) {
//	    // provider never answered
//	}
//
// # Error Handling
//
//   - ErrTimeout   – matched by *TimeoutError, returned when the deadline fires
//   - ErrPanic     – matched by *PanicError, returned when the operation panics
//
// Context cancellation is returned as ctx.Err().
//
// # Limitations
//
// Go cannot stop a goroutine from the outside. An operation that never
// settles keeps its goroutine until it returns; its context is cancelled at
// settlement so well-behaved operations can exit early.
package async
