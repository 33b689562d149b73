package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"portfolioapi/internal/service"
)

// Dependencies are the collaborators the routes need.
type Dependencies struct {
	Service    service.PortfolioService
	Assistant  Suggester
	Health     HealthFunc
	Gatherer   prometheus.Gatherer
	CookieName string
	// OpenAPIPath is the file served at /openapi.yaml.
	OpenAPIPath string
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, deps Dependencies) {
	if deps.OpenAPIPath == "" {
		deps.OpenAPIPath = "openapi.yaml"
	}
	if deps.Health == nil {
		deps.Health = func(context.Context) error { return nil }
	}
	if deps.Gatherer == nil {
		deps.Gatherer = prometheus.DefaultGatherer
	}

	app.Get("/openapi.yaml", func(c *fiber.Ctx) error {
		c.Type("yaml")
		return c.SendFile(deps.OpenAPIPath)
	})
	app.Get("/swagger/*", swagger.New(swagger.Config{URL: "/openapi.yaml"}))
	app.Get("/docs", func(c *fiber.Ctx) error {
		return c.Redirect("/swagger/index.html")
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))

	app.Get("/health", HealthCheck(deps.Health))
	app.Get("/healthz", LivenessProbe())

	app.Get("/", Landing(deps.Service, deps.Assistant))
	app.Post("/uploads", UploadImages(deps.Service, deps.CookieName))
	app.Get("/uploads/:name", PreviewImage(deps.Service, deps.CookieName))
	app.Post("/assistant/suggest", Suggest(deps.Assistant))
	app.Post("/portfolio", ComposePortfolio(deps.Service, deps.CookieName))
}
