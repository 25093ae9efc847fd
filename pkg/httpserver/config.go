package httpserver

import "time"

// Config holds listener settings. Env names are relative to the embedding
// prefix, e.g. HTTP_.
type Config struct {
	Addr              string        `env:"ADDR" envDefault:":8080" yaml:"addr"`
	ReadHeaderTimeout time.Duration `env:"READ_HEADER_TIMEOUT" envDefault:"5s" yaml:"readHeaderTimeout"`
	ReadTimeout       time.Duration `env:"READ_TIMEOUT" envDefault:"30s" yaml:"readTimeout"`
	WriteTimeout      time.Duration `env:"WRITE_TIMEOUT" envDefault:"30s" yaml:"writeTimeout"`
	IdleTimeout       time.Duration `env:"IDLE_TIMEOUT" envDefault:"120s" yaml:"idleTimeout"`
	ShutdownTimeout   time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"5s" yaml:"shutdownTimeout"`
}

// NewFromConfig creates a new Server from the provided Config.
// Only non-zero values from the config are applied.
func NewFromConfig(cfg Config, opts ...Option) *Server {
	configOpts := make([]Option, 0, 6)

	if cfg.Addr != "" {
		configOpts = append(configOpts, WithAddr(cfg.Addr))
	}
	if cfg.ReadHeaderTimeout > 0 {
		configOpts = append(configOpts, WithReadHeaderTimeout(cfg.ReadHeaderTimeout))
	}
	if cfg.ReadTimeout > 0 {
		configOpts = append(configOpts, WithReadTimeout(cfg.ReadTimeout))
	}
	if cfg.WriteTimeout > 0 {
		configOpts = append(configOpts, WithWriteTimeout(cfg.WriteTimeout))
	}
	if cfg.IdleTimeout > 0 {
		configOpts = append(configOpts, WithIdleTimeout(cfg.IdleTimeout))
	}
	if cfg.ShutdownTimeout > 0 {
		configOpts = append(configOpts, WithShutdownTimeout(cfg.ShutdownTimeout))
	}

	configOpts = append(configOpts, opts...)

	return New(configOpts...)
}
