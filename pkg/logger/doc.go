// Package logger builds *slog.Logger instances with functional options and
// provides attribute helpers with stable keys.
//
//	log := logger.New(
//	    logger.WithEnvironment(os.Getenv("APP_ENV"), "cookiesession"),
//	    logger.WithContextValue("request_id", middleware.RequestIDKey),
//	)
//	log.WarnContext(ctx, "unknown cookie option", logger.Component("session"))
//
// Output is JSON at info level by default. WithContextValue registers an
// extractor that copies a context value into every record logged with that
// context. Discard returns a logger that drops everything and is the default
// for library types that accept an optional logger.
//
// Attribute helpers never log key material: KeyIndex records only the
// position of a signing key.
package logger
