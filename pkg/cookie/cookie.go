package cookie

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Manager writes and reads cookies with a fixed set of default attributes.
type Manager struct {
	defaults Options
}

func New(opts ...Option) (*Manager, error) {
	defaults := Options{
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	defaults = applyOptions(defaults, opts)
	if err := ValidateMaxAge(defaults.MaxAge); err != nil {
		return nil, err
	}

	return &Manager{defaults: defaults}, nil
}

// Defaults returns a copy of the manager's default attributes.
func (m *Manager) Defaults() Options {
	return m.defaults
}

// Encode returns the transport form of value. The cookie size budget is
// measured on this form.
func Encode(value string) string {
	return url.QueryEscape(value)
}

// Decode reverses Encode.
func Decode(value string) (string, error) {
	v, err := url.QueryUnescape(value)
	if err != nil {
		return "", errors.Join(ErrInvalidFormat, err)
	}
	return v, nil
}

// Set writes a Set-Cookie header carrying the encoded value.
func (m *Manager) Set(w http.ResponseWriter, name, value string, opts ...Option) error {
	if !ValidName(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	options := applyOptions(m.defaults, opts)

	cookie := &http.Cookie{
		Name:     name,
		Value:    Encode(value),
		Path:     options.Path,
		Domain:   options.Domain,
		MaxAge:   options.MaxAge,
		Expires:  options.Expires,
		Secure:   options.Secure,
		HttpOnly: options.HttpOnly,
		SameSite: options.SameSite,
	}

	http.SetCookie(w, cookie)
	return nil
}

// Get returns the decoded value of the named request cookie.
func (m *Manager) Get(r *http.Request, name string) (string, error) {
	cookie, err := r.Cookie(name)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return "", ErrCookieNotFound
		}
		return "", err
	}
	return Decode(cookie.Value)
}

// Expire writes a cookie that the browser drops immediately: empty value,
// Max-Age=0 and an Expires date in 1970. Path and Domain match the defaults
// so the deletion targets the same cookie.
func (m *Manager) Expire(w http.ResponseWriter, name string, opts ...Option) {
	options := applyOptions(m.defaults, opts)

	cookie := &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     options.Path,
		Domain:   options.Domain,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: options.HttpOnly,
		SameSite: options.SameSite,
		Secure:   options.Secure,
	}
	http.SetCookie(w, cookie)
}

// ValidName reports whether name is a valid cookie token (RFC 6265).
func ValidName(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c <= ' ' || c >= 0x7f {
			return false
		}
		switch c {
		case '(', ')', '<', '>', '@', ',', ';', ':', '\\', '"', '/', '[', ']', '?', '=', '{', '}':
			return false
		}
	}
	return true
}
