package cookie

import (
	"fmt"
	"math"
	"net/http"
	"time"
)

// MaxAgeLimit is the largest Max-Age, in seconds, that still fits in a
// time.Duration.
const MaxAgeLimit int64 = math.MaxInt64 / int64(time.Second)

// Options are the transport attributes of a cookie. They never travel
// inside the encrypted payload.
type Options struct {
	Path     string
	Domain   string
	MaxAge   int
	Expires  time.Time
	Secure   bool
	HttpOnly bool
	SameSite http.SameSite
}

type Option func(*Options)

func WithPath(path string) Option {
	return func(o *Options) {
		o.Path = path
	}
}

func WithDomain(domain string) Option {
	return func(o *Options) {
		o.Domain = domain
	}
}

// WithMaxAge sets Max-Age in seconds. Zero omits the attribute, negative
// values emit Max-Age=0.
func WithMaxAge(seconds int) Option {
	return func(o *Options) {
		o.MaxAge = seconds
	}
}

func WithExpires(t time.Time) Option {
	return func(o *Options) {
		o.Expires = t
	}
}

func WithSecure(secure bool) Option {
	return func(o *Options) {
		o.Secure = secure
	}
}

func WithHTTPOnly(httpOnly bool) Option {
	return func(o *Options) {
		o.HttpOnly = httpOnly
	}
}

func WithSameSite(sameSite http.SameSite) Option {
	return func(o *Options) {
		o.SameSite = sameSite
	}
}

// ValidateMaxAge rejects negative values and values beyond MaxAgeLimit.
func ValidateMaxAge(seconds int) error {
	if seconds < 0 || int64(seconds) > MaxAgeLimit {
		return fmt.Errorf("%w: %d", ErrInvalidMaxAge, seconds)
	}
	return nil
}

// applyOptions creates a new Options struct by copying the base options
// and applying the provided option functions. The base options are not modified.
func applyOptions(base Options, opts []Option) Options {
	result := base
	for _, opt := range opts {
		opt(&result)
	}
	return result
}
