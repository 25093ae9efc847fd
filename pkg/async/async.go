package async

import (
	"context"
	"sync"
	"time"
)

// DefaultTimeout bounds a guarded operation when the caller passes a
// non-positive timeout.
const DefaultTimeout = 3 * time.Second

// Settle completes an operation. Only the first call has any effect.
type Settle[U any] func(result U, err error)

// Operation is a unit of asynchronous work. It must eventually call settle
// exactly once; ctx is cancelled as soon as the outcome is decided elsewhere.
type Operation[U any] func(ctx context.Context, settle Settle[U])

// Future represents the result of an asynchronous computation.
type Future[U any] struct {
	result U
	err    error
	once   sync.Once
	done   chan struct{}
	cancel context.CancelFunc
}

func newFuture[U any](cancel context.CancelFunc) *Future[U] {
	return &Future[U]{done: make(chan struct{}), cancel: cancel}
}

// settle records the outcome once and reports whether this call won.
func (f *Future[U]) settle(result U, err error) bool {
	won := false
	f.once.Do(func() {
		won = true
		f.result = result
		f.err = err
		close(f.done)
		if f.cancel != nil {
			f.cancel()
		}
	})
	return won
}

// Await waits for the asynchronous function to complete and returns its result and error.
func (f *Future[U]) Await() (U, error) {
	<-f.done
	return f.result, f.err
}

// AwaitWithTimeout waits for the asynchronous function to complete with a timeout.
// If the timeout fires first the future is settled with ErrTimeout, so a late
// completion of the underlying operation is discarded.
func (f *Future[U]) AwaitWithTimeout(timeout time.Duration) (U, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-f.done:
	case <-timer.C:
		var zero U
		f.settle(zero, ErrTimeout)
	}
	return f.result, f.err
}

// IsComplete checks if the asynchronous function is complete without blocking.
// Returns true if the function has completed, false otherwise.
func (f *Future[U]) IsComplete() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Go starts op in its own goroutine and returns a Future that is completed by
// the first call to the settle callback handed to op. A panic inside op
// settles the future with a *PanicError.
func Go[U any](ctx context.Context, op Operation[U]) *Future[U] {
	opCtx, cancel := context.WithCancel(ctx)
	f := newFuture[U](cancel)

	// Early exit prevents starting work when context is pre-canceled
	if err := ctx.Err(); err != nil {
		var zero U
		f.settle(zero, err)
		return f
	}

	go func() {
		defer func() {
			if r := recover(); r != nil {
				var zero U
				f.settle(zero, &PanicError{Value: r})
			}
		}()
		op(opCtx, func(result U, err error) { f.settle(result, err) })
	}()

	return f
}

// Guard runs op and waits for the first of three events: op settling, the
// timeout elapsing, or ctx being cancelled. The outcome is settled exactly
// once; whatever arrives later is dropped and the timer is stopped.
//
// On timeout the returned error is a *TimeoutError carrying label, which
// tells the caller which pluggable function misbehaved.
func Guard[U any](ctx context.Context, label string, timeout time.Duration, op Operation[U]) (U, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	f := Go(ctx, op)

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-f.done:
	case <-timer.C:
		var zero U
		f.settle(zero, &TimeoutError{Label: label, Timeout: timeout})
	case <-ctx.Done():
		var zero U
		f.settle(zero, ctx.Err())
	}

	return f.result, f.err
}

// Call adapts a blocking function to an Operation.
func Call[U any](fn func(ctx context.Context) (U, error)) Operation[U] {
	return func(ctx context.Context, settle Settle[U]) {
		settle(fn(ctx))
	}
}

// WaitAll waits for all futures to complete and returns a slice of their results and an error
// if any of the futures returned an error.
func WaitAll[U any](futures ...*Future[U]) ([]U, error) {
	results := make([]U, len(futures))

	for i, future := range futures {
		result, err := future.Await()
		results[i] = result
		if err != nil {
			return results, err
		}
	}

	return results, nil
}
