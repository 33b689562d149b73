// Package app wires configuration into a running portfolio service.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"

	"portfolioapi/internal/assets"
	"portfolioapi/internal/assistant"
	"portfolioapi/internal/config"
	handlers "portfolioapi/internal/http/handler"
	"portfolioapi/internal/http/middleware"
	"portfolioapi/internal/imaging"
	"portfolioapi/internal/metrics"
	"portfolioapi/internal/pdf"
	"portfolioapi/internal/service"
	"portfolioapi/internal/session"
	"portfolioapi/internal/storage"
	"portfolioapi/internal/textgen"
)

// ServiceName identifies the process in logs and traces.
const ServiceName = "portfolioapi"

const shutdownTimeout = 10 * time.Second

// App holds the long-lived collaborators built from configuration.
type App struct {
	Config    *config.AppConfig
	Assets    *assets.Store
	Service   service.PortfolioService
	Assistant *assistant.Assistant
	Registry  *prometheus.Registry

	backend  storage.Storage
	sessions session.Store
	closers  []func() error
}

// New builds every dependency. Callers must Close the returned App.
func New(ctx context.Context, cfg *config.AppConfig) (*App, error) {
	a := &App{Config: cfg, Registry: prometheus.NewRegistry()}
	a.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m, err := metrics.New(a.Registry)
	if err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}

	a.backend, err = newBackend(cfg)
	if err != nil {
		return nil, fmt.Errorf("init staging backend: %w", err)
	}

	a.sessions, err = a.newRegistry(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("init session registry: %w", err)
	}

	a.Assets = assets.NewStore(a.backend, a.sessions, assets.WithMetrics(m))
	a.Service = service.NewPortfolioService(a.Assets, imaging.NewDecoder(), pdf.NewWriter, m, cfg.Staging.MaxAge())
	a.Assistant = a.newAssistant(ctx, cfg.Assistant, m)
	return a, nil
}

func newBackend(cfg *config.AppConfig) (storage.Storage, error) {
	switch cfg.Staging.Backend {
	case "", "local":
		return storage.NewLocal(cfg.Staging.Dir)
	case "minio":
		return storage.NewMinIO(cfg.MinIO)
	default:
		return nil, fmt.Errorf("unknown staging backend %q", cfg.Staging.Backend)
	}
}

func (a *App) newRegistry(ctx context.Context, cfg *config.AppConfig) (session.Store, error) {
	if cfg.Redis.URL == "" {
		return session.NewMemoryStore(), nil
	}
	rs, err := session.NewRedisStore(ctx, cfg.Redis.URL, cfg.Staging.MaxAge())
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, rs.Close)
	return rs, nil
}

func (a *App) newAssistant(ctx context.Context, cfg config.AssistantConfig, m *metrics.Metrics) *assistant.Assistant {
	gen, err := textgen.New(ctx, cfg)
	if err != nil {
		log.Warn().Err(err).Str("provider", cfg.Provider).Msg("writing assistant disabled")
		return assistant.Unavailable(err.Error(), assistant.WithMetrics(m))
	}
	if c, ok := gen.(io.Closer); ok {
		a.closers = append(a.closers, c.Close)
	}
	return assistant.New(gen, cfg.Timeout(), assistant.WithMetrics(m))
}

// Health reports whether the staging backend and the session registry are reachable.
func (a *App) Health(ctx context.Context) error {
	if _, err := a.backend.Stat(ctx, "healthcheck"); err != nil && !errors.Is(err, storage.ErrObjectNotFound) {
		return fmt.Errorf("staging: %w", err)
	}
	if p, ok := a.sessions.(interface{ Ping(context.Context) error }); ok {
		if err := p.Ping(ctx); err != nil {
			return fmt.Errorf("sessions: %w", err)
		}
	}
	return nil
}

// HTTP builds the Fiber application with middleware and routes.
func (a *App) HTTP() (*fiber.App, error) {
	prom, err := middleware.NewPrometheusMiddleware(a.Registry)
	if err != nil {
		return nil, fmt.Errorf("register http metrics: %w", err)
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		BodyLimit:    a.Config.BodyLimitMB * 1024 * 1024,
	})

	app.Use(otelfiber.Middleware())
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger())
	app.Use(prom.Handler())

	handlers.RegisterRoutes(app, handlers.Dependencies{
		Service:    a.Service,
		Assistant:  a.Assistant,
		Health:     a.Health,
		Gatherer:   a.Registry,
		CookieName: a.Config.Session.CookieName,
	})
	return app, nil
}

// Serve listens on the configured port until ctx is cancelled, then shuts down gracefully.
// The background sweeper runs alongside when a sweep interval is configured.
func (a *App) Serve(ctx context.Context) error {
	app, err := a.HTTP()
	if err != nil {
		return err
	}

	go a.Assets.RunSweeper(ctx, a.Config.Staging.SweepInterval(), a.Config.Staging.MaxAge())

	errCh := make(chan error, 1)
	go func() {
		addr := ":" + a.Config.Port
		log.Info().Str("addr", addr).Str("staging", a.Config.Staging.Backend).
			Bool("assistant_available", a.Assistant.Available()).Msg("server starting")
		errCh <- app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Info().Msg("shutting down")
		return app.ShutdownWithTimeout(shutdownTimeout)
	}
}

// Close releases connections opened by New.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}
