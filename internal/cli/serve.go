package cli

import (
	"context"

	"github.com/spf13/cobra"

	"portfolioapi/internal/app"
	"portfolioapi/internal/config"
	"portfolioapi/internal/otel"
)

func newServeCmd(cfg *config.AppConfig) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the portfolio HTTP service",
		Example: `  # Start on the port from PORT (default 8080)
  portfolioctl serve

  # Start on a custom port
  portfolioctl serve --port 3000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if port != "" {
				cfg.Port = port
			}
			ctx := cmd.Context()

			shutdown, err := otel.Init(ctx, app.ServiceName)
			if err != nil {
				return err
			}
			defer func() { _ = shutdown(context.WithoutCancel(ctx)) }()

			a, err := app.New(ctx, cfg)
			if err != nil {
				return err
			}
			defer a.Close()
			return a.Serve(ctx)
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "Port to listen on (overrides PORT)")
	return cmd
}
