// Package cli implements the portfolioctl command tree.
package cli

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"portfolioapi/internal/config"
	"portfolioapi/internal/logger"
)

// NewRootCmd returns the root command with every subcommand attached.
func NewRootCmd() *cobra.Command {
	cfg := &config.AppConfig{}

	cmd := &cobra.Command{
		Use:   "portfolioctl",
		Short: "Assemble image portfolios into PDF documents",
		Long: `portfolioctl stages images, lays them out one per A4 page with optional
titles, and writes the result as a single PDF.

It can also run the HTTP service, sweep stale uploads, and ask the writing
assistant for a title and description.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
			*cfg = *config.Load()

			opts := logger.FromConfig(cfg.Logging, cfg.Axiom)
			opts.Out = os.Stderr
			return logger.Init(opts)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logger.Close()
		},
	}

	cmd.AddCommand(newServeCmd(cfg))
	cmd.AddCommand(newSweepCmd(cfg))
	cmd.AddCommand(newComposeCmd(cfg))
	cmd.AddCommand(newSuggestCmd(cfg))

	return cmd
}
