package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formbuilder/internal/server"
	"github.com/goliatone/go-formbuilder/pkg/session"
)

func newServeCmd(a *app) *cobra.Command {
	var addr, forms string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve definitions over HTTP with session errors and CSRF protection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			overrideString(&a.cfg.Server.Addr, addr)
			overrideString(&a.cfg.Server.Forms, forms)

			store, err := loadDefinitions(a.cfg.Server.Forms)
			if err != nil {
				return err
			}
			options, err := a.orchestratorOptions()
			if err != nil {
				return err
			}
			a.log.Info().Strs("forms", store.Names()).Msg("definitions loaded")

			srv := server.New(store,
				server.WithLogger(a.log),
				server.WithCookie(a.cfg.Server.CookieName, a.cfg.Server.SecureCookie),
				server.WithSessions(session.NewRegistry(
					session.WithTTL(a.cfg.Server.SessionTTL),
					session.WithMaxSessions(a.cfg.Server.MaxSessions),
				)),
				server.WithOrchestratorOptions(options...),
			)

			ctx, stop := signal.NotifyContext(cmdContext(cmd), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return srv.Run(ctx, a.cfg.Server.Addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().StringVar(&forms, "forms", "", "definition file or directory (default from config, ./forms)")
	return cmd
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
