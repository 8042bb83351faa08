package server

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/joseph-ayodele/submittal-review/constants"
	"github.com/joseph-ayodele/submittal-review/internal/common"
	"github.com/joseph-ayodele/submittal-review/internal/export"
	"github.com/joseph-ayodele/submittal-review/internal/llm"
	"github.com/joseph-ayodele/submittal-review/internal/pipeline"
	"github.com/joseph-ayodele/submittal-review/internal/server/middleware"
)

// Reviewer is the pipeline capability the HTTP layer needs.
type Reviewer interface {
	Analyze(ctx context.Context, in pipeline.AnalyzeInput) (pipeline.AnalyzeOutput, error)
	Chat(ctx context.Context, turn llm.ChatTurn) (string, error)
}

// Deps are the collaborators of the HTTP server.
type Deps struct {
	Config   common.ServerConfig
	Reviewer Reviewer
	Exporter *export.Service
	Registry *prometheus.Registry
	Logger   *slog.Logger
}

// New builds the fiber app with middleware and routes.
func New(d Deps) (*fiber.App, error) {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Registry == nil {
		d.Registry = prometheus.NewRegistry()
	}
	if d.Exporter == nil {
		d.Exporter = export.NewService(d.Logger)
	}
	if d.Config.MaxUploadBytes <= 0 {
		d.Config.MaxUploadBytes = constants.DefaultMaxUploadBytes
	}

	app := fiber.New(fiber.Config{
		AppName:               "submittal-review",
		ErrorHandler:          ErrorHandler(),
		BodyLimit:             d.Config.MaxUploadBytes,
		ReadTimeout:           d.Config.ReadTimeout,
		WriteTimeout:          d.Config.WriteTimeout,
		DisableStartupMessage: true,
	})

	prom, err := middleware.NewPrometheusMiddleware(d.Registry)
	if err != nil {
		return nil, fmt.Errorf("register http metrics: %w", err)
	}

	app.Use(middleware.RequestID())
	app.Use(otelfiber.Middleware())
	app.Use(middleware.Logger(d.Logger))
	app.Use(prom.Handler())

	RegisterRoutes(app, d)
	return app, nil
}
