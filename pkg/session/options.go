package session

import (
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/dmitrymomot/cookiesession/pkg/cookie"
	"github.com/dmitrymomot/cookiesession/pkg/sealer"
)

// Option is a functional option for configuring the Manager
type Option func(*options)

// SelfCheckPolicy decides what New does when the provider self-check fails.
type SelfCheckPolicy int

const (
	// SelfCheckFail makes New return the self-check error.
	SelfCheckFail SelfCheckPolicy = iota
	// SelfCheckWarn logs the failure and lets New succeed.
	SelfCheckWarn
)

type options struct {
	name            string
	cookie          []cookie.Option
	unknownCookie   []string
	maxCookieSize   int
	timeout         time.Duration
	provider        sealer.Provider
	providerErr     error
	customProvider  bool
	checkEncryption bool
	selfCheckPolicy SelfCheckPolicy
	logger          *slog.Logger
	observer        Observer
	tracer          trace.Tracer
	now             func() time.Time
}

// WithName sets the session cookie name (default: "session")
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithCookieOptions sets cookie attributes. MaxAge is also the lifetime
// of the encrypted envelope.
func WithCookieOptions(opts ...cookie.Option) Option {
	return func(o *options) {
		o.cookie = append(o.cookie, opts...)
	}
}

// WithMaxAge is shorthand for WithCookieOptions(cookie.WithMaxAge(seconds)).
func WithMaxAge(seconds int) Option {
	return WithCookieOptions(cookie.WithMaxAge(seconds))
}

// WithMaxCookieSize sets the byte budget of the encoded cookie value (default: 4096)
func WithMaxCookieSize(n int) Option {
	return func(o *options) {
		o.maxCookieSize = n
	}
}

// WithTimeout bounds every encrypt and decrypt call (default: 3s)
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// WithProvider replaces the default AES-256-GCM provider.
func WithProvider(p sealer.Provider) Option {
	return func(o *options) {
		o.provider = p
		o.customProvider = true
		o.providerErr = nil
		if p == nil {
			o.providerErr = sealer.ErrIncompletePair
		}
	}
}

// WithFuncs installs a provider built from blocking functions.
func WithFuncs(encrypt, decrypt sealer.Func) Option {
	return func(o *options) {
		p, err := sealer.Funcs(encrypt, decrypt)
		WithProvider(p)(o)
		o.providerErr = err
	}
}

// WithCallbacks installs a provider built from callback-style functions.
func WithCallbacks(encrypt, decrypt sealer.CallbackFunc) Option {
	return func(o *options) {
		p, err := sealer.Callbacks(encrypt, decrypt)
		WithProvider(p)(o)
		o.providerErr = err
	}
}

// WithFutures installs a provider built from future-style functions.
func WithFutures(encrypt, decrypt sealer.FutureFunc) Option {
	return func(o *options) {
		p, err := sealer.Futures(encrypt, decrypt)
		WithProvider(p)(o)
		o.providerErr = err
	}
}

// WithCheckEncryption enables the construction-time provider round trip.
// It only runs when a custom provider is configured.
func WithCheckEncryption(enabled bool) Option {
	return func(o *options) {
		o.checkEncryption = enabled
	}
}

// WithSelfCheckPolicy chooses between failing and warning on self-check errors.
func WithSelfCheckPolicy(p SelfCheckPolicy) Option {
	return func(o *options) {
		o.selfCheckPolicy = p
	}
}

// WithLogger sets the logger used for diagnostics (default: discard)
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithObserver receives load and save outcomes, e.g. for metrics.
func WithObserver(obs Observer) Option {
	return func(o *options) {
		if obs != nil {
			o.observer = obs
		}
	}
}

// WithTracer overrides the tracer taken from the global otel provider.
func WithTracer(t trace.Tracer) Option {
	return func(o *options) {
		if t != nil {
			o.tracer = t
		}
	}
}

// WithClock overrides time.Now. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// withUnknownCookieOptions carries unrecognized config keys to New for reporting.
func withUnknownCookieOptions(keys []string) Option {
	return func(o *options) {
		o.unknownCookie = append(o.unknownCookie, keys...)
	}
}
