package cookie

import (
	"fmt"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds cookie attributes as they appear in env and YAML configuration.
type Config struct {
	Path     string `env:"PATH" envDefault:"/" yaml:"path"`
	Domain   string `env:"DOMAIN" envDefault:"" yaml:"domain"`
	MaxAge   int    `env:"MAX_AGE" envDefault:"86400" yaml:"maxAge"`
	Secure   bool   `env:"SECURE" envDefault:"false" yaml:"secure"`
	HttpOnly bool   `env:"HTTP_ONLY" envDefault:"true" yaml:"httpOnly"`
	SameSite string `env:"SAME_SITE" envDefault:"lax" yaml:"sameSite"`

	// Unknown lists YAML keys that are not cookie attributes. They are
	// accepted so a typo never stops a deployment; callers report them.
	Unknown []string `yaml:"-"`
}

// DefaultConfig returns default cookie configuration
func DefaultConfig() Config {
	return Config{
		Path:     "/",
		MaxAge:   86400,
		HttpOnly: true,
		SameSite: "lax",
	}
}

// knownKeys are the YAML keys Config understands.
var knownKeys = []string{"path", "domain", "maxAge", "secure", "httpOnly", "sameSite"}

// UnmarshalYAML decodes the known attributes and records any other key in Unknown.
func (c *Config) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("%w: cookie section must be a mapping", ErrInvalidFormat)
	}

	type plain Config
	p := plain(*c)
	if err := node.Decode(&p); err != nil {
		return err
	}
	*c = Config(p)

	c.Unknown = nil
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		if !slices.Contains(knownKeys, key) {
			c.Unknown = append(c.Unknown, key)
		}
	}
	return nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if err := ValidateMaxAge(c.MaxAge); err != nil {
		return err
	}
	if _, err := ParseSameSite(c.SameSite); err != nil {
		return err
	}
	return nil
}

// Options converts the config to Options.
func (c Config) Options() (Options, error) {
	if err := c.Validate(); err != nil {
		return Options{}, err
	}
	sameSite, _ := ParseSameSite(c.SameSite)
	return Options{
		Path:     c.Path,
		Domain:   strings.TrimSpace(c.Domain),
		MaxAge:   c.MaxAge,
		Secure:   c.Secure,
		HttpOnly: c.HttpOnly,
		SameSite: sameSite,
	}, nil
}

// NewFromConfig creates a new Manager from the provided Config.
func NewFromConfig(cfg Config, opts ...Option) (*Manager, error) {
	o, err := cfg.Options()
	if err != nil {
		return nil, err
	}

	configOpts := []Option{
		WithPath(o.Path),
		WithDomain(o.Domain),
		WithMaxAge(o.MaxAge),
		WithSecure(o.Secure),
		WithHTTPOnly(o.HttpOnly),
		WithSameSite(o.SameSite),
	}

	// Append any additional options provided
	configOpts = append(configOpts, opts...)

	return New(configOpts...)
}
