package keyring

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/dmitrymomot/cookiesession/pkg/async"
	"github.com/dmitrymomot/cookiesession/pkg/envelope"
	"github.com/dmitrymomot/cookiesession/pkg/sealer"
)

const (
	tracerName = "github.com/dmitrymomot/cookiesession/pkg/keyring"

	// LabelEncrypt and LabelDecrypt name the guarded provider calls in timeout errors.
	LabelEncrypt = "encrypt"
	LabelDecrypt = "decrypt"
)

// Resolver seals envelopes with the primary key and opens them by trying
// every key in order.
type Resolver struct {
	keys     KeySet
	provider sealer.Provider
	timeout  time.Duration
	now      func() time.Time
	tracer   trace.Tracer
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithProvider replaces the default AES-GCM provider.
func WithProvider(p sealer.Provider) Option {
	return func(r *Resolver) {
		if p != nil {
			r.provider = p
		}
	}
}

// WithTimeout bounds every provider call.
func WithTimeout(d time.Duration) Option {
	return func(r *Resolver) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithClock overrides time.Now for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(r *Resolver) {
		if now != nil {
			r.now = now
		}
	}
}

// WithTracer overrides the tracer taken from the global otel provider.
func WithTracer(t trace.Tracer) Option {
	return func(r *Resolver) {
		if t != nil {
			r.tracer = t
		}
	}
}

// NewResolver returns a Resolver over keys.
func NewResolver(keys KeySet, opts ...Option) *Resolver {
	r := &Resolver{
		keys:     keys,
		provider: sealer.NewAESGCM(),
		timeout:  async.DefaultTimeout,
		now:      time.Now,
		tracer:   otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Keys returns the resolver's key set.
func (r *Resolver) Keys() KeySet {
	return r.keys
}

// Timeout returns the per-call provider deadline.
func (r *Resolver) Timeout() time.Duration {
	return r.timeout
}

// Now returns the resolver's notion of the current time.
func (r *Resolver) Now() time.Time {
	return r.now()
}

// Encrypt runs the provider's Encrypt under the timeout guard.
func (r *Resolver) Encrypt(ctx context.Context, plaintext, key string) (string, error) {
	return async.Guard(ctx, LabelEncrypt, r.timeout, async.Call(func(ctx context.Context) (string, error) {
		return r.provider.Encrypt(ctx, plaintext, key)
	}))
}

// Decrypt runs the provider's Decrypt under the timeout guard.
func (r *Resolver) Decrypt(ctx context.Context, token, key string) (string, error) {
	return async.Guard(ctx, LabelDecrypt, r.timeout, async.Call(func(ctx context.Context) (string, error) {
		return r.provider.Decrypt(ctx, token, key)
	}))
}

// Seal serializes env and encrypts it with the primary key.
func (r *Resolver) Seal(ctx context.Context, env envelope.Envelope) (string, error) {
	ctx, span := r.tracer.Start(ctx, "keyring.Seal")
	defer span.End()

	plaintext, err := envelope.Marshal(env)
	if err != nil {
		recordError(span, err)
		return "", err
	}

	token, err := r.Encrypt(ctx, string(plaintext), r.keys.Primary())
	if err != nil {
		recordError(span, err)
		return "", err
	}
	span.SetAttributes(attribute.Int("cookiesession.token_bytes", len(token)))
	return token, nil
}

// Open tries each key in order and returns the first envelope that decrypts,
// parses and has not expired, together with the index of the key that
// opened it. Attempts are strictly sequential: key i+1 is tried only once
// key i has failed. When no key succeeds the error is an *ExhaustedError.
func (r *Resolver) Open(ctx context.Context, token string) (envelope.Envelope, int, error) {
	if token == "" {
		return envelope.Envelope{}, -1, ErrEmptyToken
	}

	ctx, span := r.tracer.Start(ctx, "keyring.Open",
		trace.WithAttributes(attribute.Int("cookiesession.keys", r.keys.Len())))
	defer span.End()

	failed := &ExhaustedError{Attempts: make([]Attempt, 0, r.keys.Len())}
	for i, key := range r.keys.keys {
		env, err := r.attempt(ctx, token, key)
		if err == nil {
			span.SetAttributes(attribute.Int("cookiesession.key_index", i))
			return env, i, nil
		}
		failed.Attempts = append(failed.Attempts, Attempt{KeyIndex: i, Err: err})

		// Remaining attempts cannot succeed once the request is gone.
		if ctx.Err() != nil {
			break
		}
	}

	span.SetStatus(codes.Error, ErrExhausted.Error())
	return envelope.Envelope{}, -1, failed
}

func (r *Resolver) attempt(ctx context.Context, token, key string) (envelope.Envelope, error) {
	plaintext, err := r.Decrypt(ctx, token, key)
	if err != nil {
		return envelope.Envelope{}, err
	}
	return envelope.Open([]byte(plaintext), r.now())
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
