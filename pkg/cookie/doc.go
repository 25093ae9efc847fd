// Package cookie is the HTTP transport layer for session cookies.
//
// It wraps Go's net/http `http.Cookie` type with a Manager that carries a set
// of default attributes (Path, Domain, Max-Age, Secure, HttpOnly, SameSite)
// and helpers for writing, reading and expiring cookies. Values are
// percent-encoded on the way out and decoded on the way in, so opaque tokens
// with '+', '/' or '=' survive every user agent.
//
// # Usage
//
//	man, err := cookie.New(cookie.WithSecure(true), cookie.WithMaxAge(3600))
//	if err != nil { log.Fatal(err) }
//
//	_ = man.Set(w, "session", token)
//	token, err := man.Get(r, "session")
//	man.Expire(w, "session")
//
// Encode exposes the exact transport form, which is what cookie size limits
// apply to.
//
// # Configuration
//
// The `Config` struct can be filled from environment variables via
// github.com/caarlos0/env (combine with an envPrefix) or from YAML. Unknown
// YAML keys are collected in Config.Unknown instead of failing the decode.
//
//	cfg := cookie.DefaultConfig()
//	_ = env.ParseWithOptions(&cfg, env.Options{Prefix: "SESSION_COOKIE_"})
//	man, _ := cookie.NewFromConfig(cfg)
//
// # Error Handling
//
// Package-level sentinel errors such as `ErrCookieNotFound`,
// `ErrInvalidFormat` and `ErrInvalidSameSite` support `errors.Is`.
package cookie
