// Package httpserver runs an http.Handler with graceful shutdown and exposes
// liveness and readiness handlers.
//
// Run binds the listener, logs the bound address, and blocks until the
// context is cancelled, the process receives SIGINT/SIGTERM, or Shutdown is
// called. Shutdown is bounded by WithShutdownTimeout.
//
//	srv := httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log))
//	r := chi.NewRouter()
//	r.Get("/healthz", httpserver.Liveness())
//	r.Get("/readyz", httpserver.Readiness(log, 2*time.Second,
//	    httpserver.Check{Name: "session", Fn: manager.SelfCheck}))
//	if err := srv.Run(ctx, r); err != nil {
//	    log.Error("server", logger.Error(err))
//	}
//
// # Error Handling
//
//   - ErrStart          – the listener could not be bound or Serve failed
//   - ErrShutdown       – graceful shutdown did not finish in time
//   - ErrAlreadyRunning – Run called twice on the same Server
package httpserver
