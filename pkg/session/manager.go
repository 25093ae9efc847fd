package session

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/dmitrymomot/cookiesession/pkg/async"
	"github.com/dmitrymomot/cookiesession/pkg/cookie"
	"github.com/dmitrymomot/cookiesession/pkg/envelope"
	"github.com/dmitrymomot/cookiesession/pkg/keyring"
	"github.com/dmitrymomot/cookiesession/pkg/logger"
	"github.com/dmitrymomot/cookiesession/pkg/sealer"
)

const (
	// DefaultName is the cookie name used when none is configured.
	DefaultName = "session"

	// DefaultMaxAge is the session lifetime in seconds when none is configured.
	DefaultMaxAge = 86400

	tracerName = "github.com/dmitrymomot/cookiesession/pkg/session"
)

// Manager loads and saves encrypted session cookies. It holds no per-request
// state and is safe for concurrent use once constructed.
type Manager struct {
	name          string
	cookies       *cookie.Manager
	resolver      *keyring.Resolver
	maxCookieSize int
	logger        *slog.Logger
	observer      Observer
	tracer        trace.Tracer
}

// New creates a session manager. keys must hold at least one non-empty key;
// keys[0] encrypts and every key is tried on decrypt. Construction errors
// match ErrInvalidConfig or, with the self-check enabled, ErrSelfCheck.
func New(keys []string, opts ...Option) (*Manager, error) {
	o := options{
		name:          DefaultName,
		cookie:        []cookie.Option{cookie.WithMaxAge(DefaultMaxAge)},
		maxCookieSize: keyring.DefaultMaxSize,
		timeout:       async.DefaultTimeout,
		provider:      sealer.NewAESGCM(),
		logger:        logger.Discard(),
		observer:      NopObserver{},
		tracer:        otel.Tracer(tracerName),
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}

	if !cookie.ValidName(o.name) {
		return nil, invalidConfig("cookie name %q", o.name)
	}
	keySet, err := keyring.NewKeySet(keys...)
	if err != nil {
		return nil, errors.Join(ErrInvalidConfig, err)
	}
	if o.providerErr != nil {
		return nil, errors.Join(ErrInvalidConfig, o.providerErr)
	}
	if o.maxCookieSize <= 0 {
		return nil, invalidConfig("max cookie size must be positive, got %d", o.maxCookieSize)
	}
	if o.timeout <= 0 {
		return nil, invalidConfig("timeout must be positive, got %s", o.timeout)
	}
	cookies, err := cookie.New(o.cookie...)
	if err != nil {
		return nil, errors.Join(ErrInvalidConfig, err)
	}

	m := &Manager{
		name:    o.name,
		cookies: cookies,
		resolver: keyring.NewResolver(keySet,
			keyring.WithProvider(o.provider),
			keyring.WithTimeout(o.timeout),
			keyring.WithClock(o.now),
			keyring.WithTracer(o.tracer),
		),
		maxCookieSize: o.maxCookieSize,
		logger:        o.logger.With(logger.Component("session")),
		observer:      o.observer,
		tracer:        o.tracer,
	}

	for _, key := range o.unknownCookie {
		m.logger.Warn("unknown cookie option ignored", slog.String("option", key))
	}
	if d := cookies.Defaults(); d.SameSite == http.SameSiteNoneMode && !d.Secure {
		m.logger.Warn("SameSite=None without Secure is rejected by browsers", logger.Cookie(m.name))
	}

	if o.checkEncryption && o.customProvider {
		if err := m.SelfCheck(context.Background()); err != nil {
			if o.selfCheckPolicy == SelfCheckFail {
				return nil, err
			}
			m.logger.Warn("encryption self-check failed", logger.Error(err))
		}
	}

	return m, nil
}

// Name returns the cookie name.
func (m *Manager) Name() string {
	return m.name
}

// Resolver returns the key resolver used for sealing and opening cookies.
func (m *Manager) Resolver() *keyring.Resolver {
	return m.resolver
}

// Load reads the session cookie from r. It never fails: a missing, tampered,
// expired or undecryptable cookie yields an empty session in StateNew.
// The returned session writes to w when saved.
func (m *Manager) Load(ctx context.Context, w http.ResponseWriter, r *http.Request) *Session {
	start := time.Now()
	ctx, span := m.tracer.Start(ctx, "session.Load")
	defer span.End()

	s := &Session{
		manager: m,
		w:       w,
		data:    make(map[string]any),
		options: m.cookies.Defaults(),
		state:   StateNew,
	}

	outcome := m.load(ctx, r, s)
	elapsed := time.Since(start)

	span.SetAttributes(attribute.String("cookiesession.outcome", string(outcome)))
	m.observer.SessionLoaded(outcome, elapsed)
	m.logger.DebugContext(ctx, "session loaded",
		logger.Cookie(m.name), logger.Outcome(string(outcome)), logger.Duration(elapsed))
	return s
}

func (m *Manager) load(ctx context.Context, r *http.Request, s *Session) LoadOutcome {
	raw, err := m.cookies.Get(r, m.name)
	switch {
	case errors.Is(err, cookie.ErrCookieNotFound):
		return LoadMissing
	case err != nil:
		m.logger.DebugContext(ctx, "session cookie unreadable", logger.Error(err))
		return LoadInvalid
	case raw == "":
		return LoadMissing
	}

	env, idx, err := m.resolver.Open(ctx, raw)
	if err != nil {
		var exhausted *keyring.ExhaustedError
		if !errors.As(err, &exhausted) {
			return LoadInvalid
		}
		outcome := LoadRejected
		for _, a := range exhausted.Attempts {
			reason := attemptReason(a.Err)
			if reason == ReasonExpired {
				outcome = LoadExpired
			}
			m.observer.KeyAttemptFailed(a.KeyIndex, reason)
			m.logger.DebugContext(ctx, "session key attempt failed",
				logger.KeyIndex(a.KeyIndex), slog.String("reason", reason), logger.Error(a.Err))
		}
		return outcome
	}

	if idx > 0 {
		m.logger.DebugContext(ctx, "session opened with rotated key", logger.KeyIndex(idx))
	}
	s.data = env.Data
	s.expireAt = env.Expiry()
	s.state = StateRestored
	return LoadRestored
}

func (m *Manager) save(ctx context.Context, s *Session) error {
	ctx, span := m.tracer.Start(ctx, "session.Save")
	defer span.End()

	if len(s.data) == 0 {
		m.cookies.Expire(s.w, m.name, s.cookieOptions())
		m.saved(ctx, span, SaveDeleted, 0)
		return nil
	}

	now := m.resolver.Now()
	if s.expireAt.IsZero() {
		s.expireAt = now.Add(time.Duration(s.options.MaxAge) * time.Second)
	}
	remaining := s.expireAt.Sub(now)
	if remaining <= 0 {
		// The window has already closed; persisting would produce a cookie
		// no key can open.
		m.cookies.Expire(s.w, m.name, s.cookieOptions())
		m.saved(ctx, span, SaveExpired, 0)
		return nil
	}

	token, err := m.resolver.Seal(ctx, envelope.New(s.data, s.expireAt))
	if err != nil {
		outcome := SaveFailed
		if errors.Is(err, async.ErrTimeout) {
			outcome = SaveTimeout
		}
		return m.saveFailed(ctx, span, outcome, err)
	}

	encoded := cookie.Encode(token)
	if err := keyring.CheckSize(encoded, m.maxCookieSize); err != nil {
		return m.saveFailed(ctx, span, SaveTooLarge, err)
	}

	maxAge := int(math.Ceil(remaining.Seconds()))
	if err := m.cookies.Set(s.w, m.name, token,
		s.cookieOptions(), cookie.WithMaxAge(maxAge), cookie.WithExpires(s.expireAt),
	); err != nil {
		return m.saveFailed(ctx, span, SaveFailed, err)
	}

	m.saved(ctx, span, SaveWritten, len(encoded))
	return nil
}

func (m *Manager) saved(ctx context.Context, span trace.Span, outcome SaveOutcome, size int) {
	span.SetAttributes(attribute.String("cookiesession.outcome", string(outcome)))
	m.observer.SessionSaved(outcome, size)
	m.logger.DebugContext(ctx, "session saved",
		logger.Cookie(m.name), logger.Outcome(string(outcome)), logger.Size(size))
}

func (m *Manager) saveFailed(ctx context.Context, span trace.Span, outcome SaveOutcome, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	m.observer.SessionSaved(outcome, 0)
	m.logger.WarnContext(ctx, "session save failed",
		logger.Cookie(m.name), logger.Outcome(string(outcome)), logger.Error(err))
	return errors.Join(ErrSaveFailed, err)
}

func (m *Manager) attrs() []any {
	return []any{logger.Cookie(m.name)}
}

// cookieOptions pins the session's attributes over the manager defaults.
func (s *Session) cookieOptions() cookie.Option {
	opts := s.options
	return func(o *cookie.Options) {
		*o = opts
	}
}

func attemptReason(err error) string {
	switch {
	case errors.Is(err, async.ErrTimeout):
		return ReasonTimeout
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ReasonCanceled
	case errors.Is(err, envelope.ErrExpired):
		return ReasonExpired
	case errors.Is(err, envelope.ErrMalformed):
		return ReasonMalformed
	case errors.Is(err, sealer.ErrDecrypt):
		return ReasonDecrypt
	default:
		return ReasonError
	}
}
