package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/dmitrymomot/cookiesession/pkg/config"
	"github.com/dmitrymomot/cookiesession/pkg/httpserver"
	"github.com/dmitrymomot/cookiesession/pkg/logger"
	"github.com/dmitrymomot/cookiesession/pkg/session"
)

type appConfig struct {
	Env string `env:"APP_ENV" envDefault:"development" yaml:"env"`

	Log struct {
		Level  string `env:"LEVEL" envDefault:"" yaml:"level"`
		Format string `env:"FORMAT" envDefault:"" yaml:"format"`
	} `envPrefix:"LOG_" yaml:"log"`

	HTTP    httpserver.Config `envPrefix:"HTTP_" yaml:"http"`
	Session session.Config    `envPrefix:"SESSION_" yaml:"session"`
}

func loadConfig(flags *globalFlags) (appConfig, error) {
	var cfg appConfig

	var opts []config.Option
	if len(flags.envFiles) > 0 {
		opts = append(opts, config.WithEnvFiles(flags.envFiles...))
	}
	if flags.configPath != "" {
		opts = append(opts, config.WithFile(flags.configPath))
	}

	err := config.Load(&cfg, opts...)
	return cfg, err
}

// newLogger starts from the environment preset and applies explicit overrides.
func newLogger(cfg appConfig, extra ...logger.Option) (*slog.Logger, error) {
	opts := []logger.Option{logger.WithEnvironment(cfg.Env, "cookiesession")}

	if cfg.Log.Level != "" {
		var level slog.Level
		if err := level.UnmarshalText([]byte(cfg.Log.Level)); err != nil {
			return nil, fmt.Errorf("log level: %w", err)
		}
		opts = append(opts, logger.WithLevel(level))
	}

	switch f := logger.Format(strings.ToLower(cfg.Log.Format)); f {
	case "":
	case logger.FormatJSON, logger.FormatText:
		opts = append(opts, logger.WithFormat(f))
	default:
		return nil, fmt.Errorf("log format %q: must be json or text", cfg.Log.Format)
	}

	return logger.New(append(opts, extra...)...), nil
}
