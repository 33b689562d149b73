package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"portfolioapi/internal/assistant"
	"portfolioapi/internal/config"
	"portfolioapi/internal/textgen"
)

func newSuggestCmd(cfg *config.AppConfig) *cobra.Command {
	var provider, modelName string

	cmd := &cobra.Command{
		Use:   "suggest INSTRUCTION...",
		Short: "Ask the writing assistant for a title and description",
		Example: `  portfolioctl suggest "a foggy morning over the harbour"
  portfolioctl suggest --provider ollama --model llama3.2 "neon street at night"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if provider != "" {
				cfg.Assistant.Provider = provider
			}
			if modelName != "" {
				cfg.Assistant.Model = modelName
			}

			gen, err := textgen.New(cmd.Context(), cfg.Assistant)
			if err != nil {
				return err
			}
			s, err := assistant.New(gen, cfg.Assistant.Timeout()).Suggest(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "TITLE: %s\nDESCRIPTION: %s\n", s.Title, s.Description)
			return nil
		},
	}

	cmd.Flags().StringVar(&provider, "provider", "", "gemini, openai or ollama (overrides ASSISTANT_PROVIDER)")
	cmd.Flags().StringVar(&modelName, "model", "", "Model name (overrides ASSISTANT_MODEL)")
	return cmd
}
