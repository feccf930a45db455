package main

import (
	"os"
	"os/signal"
	"syscall"

	"booklog-backend/infrastructure/di"
	"booklog-backend/interfaces/http/server"

	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP and WebSocket API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return withContainer(ctx, func(c *di.Container) error {
				subtle.Fprintf(cmd.ErrOrStderr(), "listening on %s\n", c.Config.ServerAddress)
				return server.Run(ctx, c)
			})
		},
	}
}
