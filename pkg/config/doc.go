// Package config loads application configuration from environment variables,
// .env files and YAML files into tagged Go structs.
//
// Load applies its sources in a fixed order, each layer overriding the one
// before it:
//
//  1. envDefault tags
//  2. the process environment, after WithEnvFiles (or ./.env) is loaded
//  3. the YAML file given with WithFile
//
// Functional options passed to constructors such as session.NewFromConfig
// sit on top of all three.
//
// # Usage
//
//	type AppConfig struct {
//	    Addr    string         `env:"ADDR" envDefault:":8080" yaml:"addr"`
//	    Session session.Config `envPrefix:"SESSION_" yaml:"session"`
//	}
//
//	var cfg AppConfig
//	if err := config.Load(&cfg, config.WithFile("cookiesession.yaml")); err != nil {
//	    log.Fatalf("loading config: %v", err)
//	}
//
// # Error Handling
//
//   - ErrParsingConfig  – env vars could not be parsed into the struct
//   - ErrNilPointer     – nil pointer passed to Load
//   - ErrLoadingEnvFile – a .env file could not be read
//   - ErrReadingFile    – the YAML file could not be read
//   - ErrDecodingFile   – the YAML file does not match the struct
package config
