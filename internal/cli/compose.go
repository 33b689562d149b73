package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"portfolioapi/internal/assets"
	"portfolioapi/internal/config"
	"portfolioapi/internal/imaging"
	"portfolioapi/internal/model"
	"portfolioapi/internal/pdf"
	"portfolioapi/internal/service"
	"portfolioapi/internal/session"
	"portfolioapi/internal/storage"
)

type composeOptions struct {
	titles     []string
	out        string
	reportPath string
}

func newComposeCmd(cfg *config.AppConfig) *cobra.Command {
	var opts composeOptions

	cmd := &cobra.Command{
		Use:   "compose IMAGE...",
		Short: "Compose local images into a portfolio PDF",
		Long: `Compose stages the given images in a scratch directory, renders one page per
image in argument order, and writes the PDF. Images that cannot be read or
decoded are skipped and listed in the report.`,
		Example: `  portfolioctl compose beach.png city.jpg \
    --title beach.png="Summer 2024" --out summer.pdf --report summer.yaml`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := runCompose(cmd.Context(), cfg, args, opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s: %d page(s), %d skipped\n", opts.out, len(doc.Report.Rendered), len(doc.Report.Skipped))
			for _, s := range doc.Report.Skipped {
				fmt.Fprintf(cmd.OutOrStdout(), "  skipped %s: %s\n", s.Name, s.Reason)
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&opts.titles, "title", "t", nil, "Page title as IMAGE=TITLE (repeatable)")
	cmd.Flags().StringVarP(&opts.out, "out", "o", service.DocumentFilename, "Output PDF path")
	cmd.Flags().StringVar(&opts.reportPath, "report", "", "Write the compose report as YAML to this path")
	return cmd
}

// runCompose drives the same pipeline as the HTTP service against a throwaway local staging area.
func runCompose(ctx context.Context, cfg *config.AppConfig, paths []string, opts composeOptions) (*model.Document, error) {
	titles, err := parseTitles(opts.titles)
	if err != nil {
		return nil, err
	}

	scratch, err := os.MkdirTemp("", "portfolio-compose-*")
	if err != nil {
		return nil, fmt.Errorf("create scratch dir: %w", err)
	}
	defer os.RemoveAll(scratch)

	backend, err := storage.NewLocal(scratch)
	if err != nil {
		return nil, err
	}
	store := assets.NewStore(backend, session.NewMemoryStore())
	svc := service.NewPortfolioService(store, imaging.NewDecoder(), pdf.NewWriter, nil, cfg.Staging.MaxAge())

	files := make([]model.UploadFile, 0, len(paths))
	selections := make([]model.Selection, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", p, err)
		}
		base := filepath.Base(p)
		name := assets.SecureFilename(base)
		files = append(files, model.UploadFile{Name: base, Data: data})
		selections = append(selections, model.Selection{Name: name, Title: titles[name]})
	}

	id := uuid.NewString()
	if _, err := svc.Upload(ctx, id, files); err != nil {
		return nil, err
	}
	doc, err := svc.Compose(ctx, id, selections)
	if err != nil {
		return nil, err
	}

	if err := os.WriteFile(opts.out, doc.Bytes, 0o644); err != nil {
		return nil, fmt.Errorf("write %s: %w", opts.out, err)
	}
	if opts.reportPath != "" {
		b, err := yaml.Marshal(doc.Report)
		if err != nil {
			return nil, fmt.Errorf("encode report: %w", err)
		}
		if err := os.WriteFile(opts.reportPath, b, 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", opts.reportPath, err)
		}
	}
	return doc, nil
}

// parseTitles reads IMAGE=TITLE pairs keyed by the staged name of IMAGE.
func parseTitles(pairs []string) (map[string]string, error) {
	titles := make(map[string]string, len(pairs))
	for _, p := range pairs {
		name, title, ok := strings.Cut(p, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --title %q, want IMAGE=TITLE", p)
		}
		titles[assets.SecureFilename(filepath.Base(name))] = title
	}
	return titles, nil
}
