package session

import (
	"time"

	"github.com/dmitrymomot/cookiesession/pkg/cookie"
	"github.com/dmitrymomot/cookiesession/pkg/sealer"
)

// Provider names accepted by Config.Provider.
const (
	ProviderAESGCM           = "aes-gcm"
	ProviderChaCha20Poly1305 = "chacha20-poly1305"
)

// Config holds session configuration. Env variable names are relative to
// the prefix chosen by the embedding config, e.g. SESSION_.
type Config struct {
	// Name is the cookie name (default: "session")
	Name string `env:"NAME" envDefault:"session" yaml:"name"`

	// Keys are the signing keys, newest first. Only Keys[0] encrypts.
	Keys []string `env:"KEYS" envSeparator:"," yaml:"keys"`

	Cookie cookie.Config `envPrefix:"COOKIE_" yaml:"cookie"`

	MaxCookieSize int           `env:"MAX_COOKIE_SIZE" envDefault:"4096" yaml:"maxCookieSize"`
	Timeout       time.Duration `env:"TIMEOUT" envDefault:"3s" yaml:"timeout"`

	// CheckEncryption round-trips a probe through a custom provider at startup.
	CheckEncryption bool `env:"CHECK_ENCRYPTION" envDefault:"false" yaml:"checkEncryption"`

	// Provider selects a built-in provider: "aes-gcm" or "chacha20-poly1305".
	Provider string `env:"PROVIDER" envDefault:"aes-gcm" yaml:"provider"`
}

// DefaultConfig returns default session configuration. Keys must still be set.
func DefaultConfig() Config {
	return Config{
		Name:          DefaultName,
		Cookie:        cookie.DefaultConfig(),
		MaxCookieSize: 4096,
		Timeout:       3 * time.Second,
		Provider:      ProviderAESGCM,
	}
}

// NewFromConfig creates a new Manager from the provided Config. Options in
// opts are applied after the config and take precedence.
func NewFromConfig(cfg Config, opts ...Option) (*Manager, error) {
	cookieOpts, err := cfg.Cookie.Options()
	if err != nil {
		return nil, invalidConfig("cookie: %v", err)
	}

	configOpts := []Option{
		WithName(cfg.Name),
		WithCookieOptions(
			cookie.WithPath(cookieOpts.Path),
			cookie.WithDomain(cookieOpts.Domain),
			cookie.WithMaxAge(cookieOpts.MaxAge),
			cookie.WithSecure(cookieOpts.Secure),
			cookie.WithHTTPOnly(cookieOpts.HttpOnly),
			cookie.WithSameSite(cookieOpts.SameSite),
		),
		WithMaxCookieSize(cfg.MaxCookieSize),
		WithTimeout(cfg.Timeout),
		WithCheckEncryption(cfg.CheckEncryption),
		withUnknownCookieOptions(cfg.Cookie.Unknown),
	}

	switch cfg.Provider {
	case "", ProviderAESGCM:
	default:
		p, err := ProviderFor(cfg.Provider)
		if err != nil {
			return nil, err
		}
		configOpts = append(configOpts, WithProvider(p))
	}

	configOpts = append(configOpts, opts...)

	return New(cfg.Keys, configOpts...)
}

// ProviderFor returns the built-in provider registered under name.
func ProviderFor(name string) (sealer.Provider, error) {
	switch name {
	case "", ProviderAESGCM:
		return sealer.NewAESGCM(), nil
	case ProviderChaCha20Poly1305:
		return sealer.NewChaCha20Poly1305(), nil
	default:
		return nil, invalidConfig("unknown provider %q", name)
	}
}
