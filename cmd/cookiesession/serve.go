package main

import (
	"context"
	"fmt"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/cookiesession/pkg/httpserver"
	"github.com/dmitrymomot/cookiesession/pkg/logger"
	"github.com/dmitrymomot/cookiesession/pkg/metrics"
	"github.com/dmitrymomot/cookiesession/pkg/session"
)

func serveCmd(flags *globalFlags) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the demo session server",
		Long: `Run an HTTP server exposing the session over a small JSON API:

  GET    /session             current session
  POST   /session             store form fields and save
  DELETE /session             clear and save (deletion cookie)
  POST   /session/regenerate  drop all data, then save
  GET    /metrics /healthz /readyz`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.HTTP.Addr = addr
			}

			log, err := newLogger(cfg, logger.WithContextValue("request_id", middleware.RequestIDKey))
			if err != nil {
				return err
			}

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

			manager, err := session.NewFromConfig(cfg.Session,
				session.WithLogger(log),
				session.WithObserver(metrics.New(metrics.WithRegistry(reg))),
			)
			if err != nil {
				return err
			}

			// Run handles SIGINT and SIGTERM itself.
			srv := httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log))
			return srv.Run(cmd.Context(), newRouter(manager, reg, log))
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides HTTP_ADDR)")
	return cmd
}

func selfcheckCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "selfcheck",
		Short: "Round-trip a probe through the configured provider",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			manager, err := session.NewFromConfig(cfg.Session)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			if err := manager.SelfCheck(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		},
	}
}
