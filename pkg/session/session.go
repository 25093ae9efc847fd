package session

import (
	"context"
	"maps"
	"net/http"
	"time"

	"github.com/dmitrymomot/cookiesession/pkg/cookie"
)

// State is the position of a Session in its request lifecycle.
type State int

const (
	// StateUnloaded is a Session that did not come from Manager.Load.
	StateUnloaded State = iota
	// StateNew is an empty session: no cookie, an unreadable cookie, or a regenerated session.
	StateNew
	// StateRestored carries data decrypted from the request cookie.
	StateRestored
)

func (s State) String() string {
	switch s {
	case StateNew:
		return "new"
	case StateRestored:
		return "restored"
	default:
		return "unloaded"
	}
}

// Session is the request-scoped view of the session cookie. It is owned by
// a single request and is not safe for concurrent use.
type Session struct {
	manager *Manager
	w       http.ResponseWriter
	data    map[string]any
	options cookie.Options
	state   State

	// expireAt is computed on the first save and reused by later saves so
	// the lifetime never drifts. Restored sessions inherit it from the envelope.
	expireAt time.Time
}

// Get retrieves a value from session data
func (s *Session) Get(key string) (any, bool) {
	if s == nil || s.data == nil {
		return nil, false
	}
	val, ok := s.data[key]
	return val, ok
}

// GetString retrieves a string value from session data
func (s *Session) GetString(key string) (string, bool) {
	val, ok := s.Get(key)
	if !ok {
		return "", false
	}
	str, ok := val.(string)
	return str, ok
}

// GetInt retrieves an int value. Restored numbers arrive as float64.
func (s *Session) GetInt(key string) (int, bool) {
	val, ok := s.Get(key)
	if !ok {
		return 0, false
	}
	switch v := val.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		if v != float64(int(v)) {
			return 0, false
		}
		return int(v), true
	default:
		return 0, false
	}
}

// GetBool retrieves a bool value from session data
func (s *Session) GetBool(key string) (bool, bool) {
	val, ok := s.Get(key)
	if !ok {
		return false, false
	}
	b, ok := val.(bool)
	return b, ok
}

// Set stores a value in session data. The value must be JSON-encodable and
// its strings valid UTF-8, or the next Save fails with envelope.ErrEncode.
func (s *Session) Set(key string, value any) {
	if s == nil {
		return
	}
	if s.data == nil {
		s.data = make(map[string]any)
	}
	s.data[key] = value
}

// Delete removes a value from session data
func (s *Session) Delete(key string) {
	if s == nil || s.data == nil {
		return
	}
	delete(s.data, key)
}

// Clear removes all data. Saving a cleared session deletes the cookie.
func (s *Session) Clear() {
	if s == nil {
		return
	}
	s.data = make(map[string]any)
}

// Values returns a copy of the session data.
func (s *Session) Values() map[string]any {
	if s == nil {
		return map[string]any{}
	}
	return maps.Clone(s.data)
}

// IsEmpty reports whether the session holds no data.
func (s *Session) IsEmpty() bool {
	return s == nil || len(s.data) == 0
}

// Len returns the number of stored keys.
func (s *Session) Len() int {
	if s == nil {
		return 0
	}
	return len(s.data)
}

// State returns the lifecycle state.
func (s *Session) State() State {
	if s == nil {
		return StateUnloaded
	}
	return s.state
}

// Cookie returns the cookie attributes used when saving. MaxAge is the
// configured lifetime, not the remaining one.
func (s *Session) Cookie() cookie.Options {
	if s == nil {
		return cookie.Options{}
	}
	return s.options
}

// Options overrides cookie attributes for this session only. MaxAge is
// clamped to [0, cookie.MaxAgeLimit]. Changing MaxAge drops the cached
// expiry so the next save uses the new lifetime.
func (s *Session) Options(opts ...cookie.Option) {
	if s == nil {
		return
	}
	prev := s.options.MaxAge
	for _, opt := range opts {
		opt(&s.options)
	}
	if s.options.MaxAge < 0 {
		s.options.MaxAge = 0
	}
	if limit := cookie.MaxAgeLimit; int64(s.options.MaxAge) > limit {
		s.options.MaxAge = int(limit)
	}
	if s.options.MaxAge != prev {
		s.expireAt = time.Time{}
	}
}

// ExpiresAt returns the envelope expiry. It is zero until the first save
// of a new session.
func (s *Session) ExpiresAt() time.Time {
	if s == nil {
		return time.Time{}
	}
	return s.expireAt
}

// Touch drops the cached expiry so the next save starts a fresh MaxAge
// window. Without it, saving a restored session keeps its original expiry.
func (s *Session) Touch() {
	if s == nil {
		return
	}
	s.expireAt = time.Time{}
}

// Save writes the session to the response as a Set-Cookie header. An empty
// session is written as a deletion cookie. Encryption, timeout and size
// failures are returned wrapped in ErrSaveFailed and no header is written.
// Every call re-encrypts and emits a new header.
func (s *Session) Save(ctx context.Context) error {
	if s == nil || s.manager == nil {
		return ErrNotLoaded
	}
	return s.manager.save(ctx, s)
}

// Regenerate discards all data and the cached expiry while keeping the cookie
// attributes. The session behaves as new until the next Save.
func (s *Session) Regenerate(ctx context.Context) error {
	if s == nil || s.manager == nil {
		return ErrNotLoaded
	}
	s.data = make(map[string]any)
	s.expireAt = time.Time{}
	s.state = StateNew
	s.manager.logger.DebugContext(ctx, "session regenerated", s.manager.attrs()...)
	return nil
}
