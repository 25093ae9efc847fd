package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Option configures a single Load call.
type Option func(*sources)

type sources struct {
	envFiles []string
	file     string
	prefix   string
}

// WithEnvFiles loads the given .env files into the process environment
// before parsing. Without it Load tries ./.env and ignores its absence.
func WithEnvFiles(paths ...string) Option {
	return func(s *sources) {
		s.envFiles = append(s.envFiles, paths...)
	}
}

// WithFile overlays the YAML file at path after the environment has been
// parsed. Keys present in the file win; omitted keys keep their env value.
func WithFile(path string) Option {
	return func(s *sources) {
		s.file = path
	}
}

// WithPrefix prepends prefix to every env variable name, e.g. "COOKIESESSION_".
func WithPrefix(prefix string) Option {
	return func(s *sources) {
		s.prefix = prefix
	}
}

// Load fills v in layers: envDefault tags, the process environment
// (including any .env files) and finally the optional YAML file.
//
// Example:
//
//	var cfg AppConfig
//	err := config.Load(&cfg,
//		config.WithEnvFiles(".env.local"),
//		config.WithFile("cookiesession.yaml"),
//	)
func Load[T any](v *T, opts ...Option) error {
	if v == nil {
		return ErrNilPointer
	}

	var src sources
	for _, opt := range opts {
		opt(&src)
	}

	if len(src.envFiles) > 0 {
		if err := godotenv.Load(src.envFiles...); err != nil {
			return errors.Join(ErrLoadingEnvFile, err)
		}
	} else {
		_ = godotenv.Load()
	}

	if err := env.ParseWithOptions(v, env.Options{Prefix: src.prefix}); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}

	if src.file == "" {
		return nil
	}
	b, err := os.ReadFile(src.file)
	if err != nil {
		return errors.Join(ErrReadingFile, err)
	}
	if err := yaml.Unmarshal(b, v); err != nil {
		return errors.Join(ErrDecodingFile, err)
	}
	return nil
}

// MustLoad works like Load but panics if configuration loading fails.
func MustLoad[T any](v *T, opts ...Option) {
	if err := Load(v, opts...); err != nil {
		panic(fmt.Sprintf("Failed to load required configuration: %v", err))
	}
}
