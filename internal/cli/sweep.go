package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"portfolioapi/internal/app"
	"portfolioapi/internal/config"
)

func newSweepCmd(cfg *config.AppConfig) *cobra.Command {
	var maxAge time.Duration

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Delete staged uploads older than the retention window",
		Example: `  # Use STAGING_MAX_AGE_SEC (default one hour)
  portfolioctl sweep

  # Remove anything older than ten minutes
  portfolioctl sweep --max-age 10m`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if maxAge > 0 {
				cfg.Staging.MaxAgeSec = int(maxAge / time.Second)
			}

			a, err := app.New(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			n, err := a.Service.Sweep(cmd.Context())
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d stale file(s)\n", n)
			return err
		},
	}

	cmd.Flags().DurationVar(&maxAge, "max-age", 0, "Retention window (overrides STAGING_MAX_AGE_SEC)")
	return cmd
}
