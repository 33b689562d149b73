package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"portfolioapi/internal/assets"
	"portfolioapi/internal/imaging"
	"portfolioapi/internal/layout"
	"portfolioapi/internal/metrics"
	"portfolioapi/internal/model"
	"portfolioapi/internal/pdf"
)

var (
	ErrNoFiles        = errors.New("no files provided")
	ErrNoSelection    = errors.New("no images selected")
	ErrUnknownSession = errors.New("unknown session")
)

const (
	DocumentFilename    = "Portafolio_IA.pdf"
	DocumentContentType = "application/pdf"
)

var tracer = otel.Tracer("portfolioapi/service")

// AssetStore is the part of the asset store the service relies on.
type AssetStore interface {
	Stage(ctx context.Context, sessionID string, files []model.UploadFile) ([]model.LogicalImage, error)
	Resolve(ctx context.Context, sessionID, name string) (model.PhysicalAsset, error)
	Open(ctx context.Context, asset model.PhysicalAsset) (io.ReadCloser, error)
	Session(ctx context.Context, sessionID string) (*model.UploadSession, error)
	PurgeSession(ctx context.Context, sessionID string) error
	SweepStale(ctx context.Context, maxAge time.Duration) (int, error)
}

// PortfolioService defines the use cases of the portfolio pipeline.
type PortfolioService interface {
	// Upload stages a batch of files under the session and returns the accepted images.
	Upload(ctx context.Context, sessionID string, files []model.UploadFile) ([]model.LogicalImage, error)

	// Compose renders one page per selection, in order, and consumes the session.
	// Images that cannot be rendered are skipped and listed in the document report.
	Compose(ctx context.Context, sessionID string, selections []model.Selection) (*model.Document, error)

	// Preview opens a staged image of the session.
	Preview(ctx context.Context, sessionID, name string) (io.ReadCloser, model.PhysicalAsset, error)

	// Sweep removes stale staged files and returns how many were deleted.
	Sweep(ctx context.Context) (int, error)
}

type portfolioService struct {
	assets    AssetStore
	decoder   imaging.Decoder
	newWriter func() pdf.Writer
	metrics   *metrics.Metrics
	maxAge    time.Duration
}

// NewPortfolioService constructs a new PortfolioService.
func NewPortfolioService(store AssetStore, decoder imaging.Decoder, newWriter func() pdf.Writer, m *metrics.Metrics, maxAge time.Duration) PortfolioService {
	return &portfolioService{
		assets:    store,
		decoder:   decoder,
		newWriter: newWriter,
		metrics:   m,
		maxAge:    maxAge,
	}
}

func (s *portfolioService) Upload(ctx context.Context, sessionID string, files []model.UploadFile) ([]model.LogicalImage, error) {
	if len(files) == 0 {
		return nil, ErrNoFiles
	}
	images, err := s.assets.Stage(ctx, sessionID, files)
	if err != nil {
		return nil, err
	}
	log.Info().Str("session_id", sessionID).Int("received", len(files)).Int("accepted", len(images)).Msg("upload staged")
	return images, nil
}

func (s *portfolioService) Compose(ctx context.Context, sessionID string, selections []model.Selection) (*model.Document, error) {
	if sessionID == "" {
		return nil, ErrUnknownSession
	}
	if len(selections) == 0 {
		return nil, ErrNoSelection
	}
	if _, err := s.assets.Session(ctx, sessionID); err != nil {
		if errors.Is(err, assets.ErrUnknownSession) {
			return nil, ErrUnknownSession
		}
		return nil, err
	}

	ctx, span := tracer.Start(ctx, "portfolio.compose")
	defer span.End()
	span.SetAttributes(
		attribute.String("portfolio.session_id", sessionID),
		attribute.Int("portfolio.selections", len(selections)),
	)
	start := time.Now()

	w := s.newWriter()
	report := model.ComposeReport{Rendered: []model.RenderedPage{}, Skipped: []model.SkippedItem{}}
	for _, sel := range selections {
		plan, err := s.renderPage(ctx, w, sessionID, sel)
		if err != nil {
			log.Warn().Err(err).Str("session_id", sessionID).Str("image", sel.Name).Msg("image skipped")
			report.Skipped = append(report.Skipped, model.SkippedItem{Name: sel.Name, Reason: err.Error()})
			s.metrics.PageSkipped()
			continue
		}
		report.Rendered = append(report.Rendered, model.RenderedPage{Name: sel.Name, Page: len(report.Rendered) + 1, Plan: plan})
		s.metrics.PageRendered()
	}

	out, serr := w.Serialize()

	// staged images are single-use: purge even when serialization failed or the caller went away
	if err := s.assets.PurgeSession(context.WithoutCancel(ctx), sessionID); err != nil {
		log.Error().Err(err).Str("session_id", sessionID).Msg("purge session failed")
	} else {
		report.Purged = true
	}

	s.metrics.ObserveCompose(time.Since(start))
	span.SetAttributes(
		attribute.Int("portfolio.rendered", len(report.Rendered)),
		attribute.Int("portfolio.skipped", len(report.Skipped)),
	)

	if serr != nil {
		span.RecordError(serr)
		span.SetStatus(codes.Error, serr.Error())
		return nil, fmt.Errorf("serialize document: %w", serr)
	}

	pages, err := pdf.PageCount(out)
	if err != nil {
		log.Warn().Err(err).Str("session_id", sessionID).Msg("page count verification failed")
		pages = len(report.Rendered)
	}

	if len(report.Rendered) == 0 {
		log.Warn().Str("session_id", sessionID).Int("skipped", len(report.Skipped)).Msg("no image rendered, document is a single blank page")
	}
	log.Info().
		Str("session_id", sessionID).
		Int("pages", pages).
		Int("skipped", len(report.Skipped)).
		Dur("took", time.Since(start)).
		Msg("portfolio composed")

	return &model.Document{
		Filename:    DocumentFilename,
		ContentType: DocumentContentType,
		Bytes:       out,
		Pages:       pages,
		Report:      report,
	}, nil
}

// renderPage adds a single page. The image is registered before the page is opened
// so a bad image never leaves an empty page behind.
func (s *portfolioService) renderPage(ctx context.Context, w pdf.Writer, sessionID string, sel model.Selection) (model.PlacementPlan, error) {
	asset, err := s.assets.Resolve(ctx, sessionID, sel.Name)
	if err != nil {
		return model.PlacementPlan{}, fmt.Errorf("resolve: %w", err)
	}
	data, err := s.read(ctx, asset)
	if err != nil {
		return model.PlacementPlan{}, fmt.Errorf("read: %w", err)
	}
	info, err := s.decoder.Decode(bytes.NewReader(data))
	if err != nil {
		return model.PlacementPlan{}, fmt.Errorf("decode: %w", err)
	}

	title := strings.TrimSpace(sel.Title)
	plan, err := layout.Fit(float64(info.Width), float64(info.Height), layout.A4.Width, layout.A4.Height, title != "")
	if err != nil {
		return model.PlacementPlan{}, fmt.Errorf("layout: %w", err)
	}

	if err := w.RegisterImage(asset.Key, info.Format, bytes.NewReader(data)); err != nil {
		return model.PlacementPlan{}, err
	}
	if err := w.NewPage(); err != nil {
		return model.PlacementPlan{}, err
	}
	if plan.Title != nil {
		if err := w.PlaceText(*plan.Title, title, pdf.TitleStyle); err != nil {
			return model.PlacementPlan{}, err
		}
	}
	if err := w.PlaceImage(asset.Key, plan.Image); err != nil {
		return model.PlacementPlan{}, err
	}
	return plan, nil
}

func (s *portfolioService) read(ctx context.Context, asset model.PhysicalAsset) ([]byte, error) {
	rc, err := s.assets.Open(ctx, asset)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func (s *portfolioService) Preview(ctx context.Context, sessionID, name string) (io.ReadCloser, model.PhysicalAsset, error) {
	asset, err := s.assets.Resolve(ctx, sessionID, name)
	if err != nil {
		return nil, model.PhysicalAsset{}, err
	}
	rc, err := s.assets.Open(ctx, asset)
	if err != nil {
		return nil, model.PhysicalAsset{}, err
	}
	return rc, asset, nil
}

func (s *portfolioService) Sweep(ctx context.Context) (int, error) {
	n, err := s.assets.SweepStale(ctx, s.maxAge)
	if n > 0 {
		log.Info().Int("removed", n).Msg("stale uploads swept")
	}
	return n, err
}
