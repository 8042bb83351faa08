package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/joseph-ayodele/submittal-review/constants"
)

// RegisterRoutes attaches every endpoint. Static files come last so the SPA
// fallback never shadows the API.
func RegisterRoutes(app *fiber.App, d Deps) {
	app.Get("/healthz", LivenessProbe())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{})))

	app.Post("/analyze", Analyze(d, constants.ProtocolSimple))
	app.Post("/chat", Chat(d))

	api := app.Group("/api")
	api.Get("/models", ListModels())
	api.Post("/analyze", Analyze(d, constants.ProtocolDetailed))
	api.Post("/chat", Chat(d))
	api.Post("/export", Export(d))
	api.All("/*", func(c *fiber.Ctx) error { return fiber.ErrNotFound })

	RegisterStatic(app, d.Config.StaticDir)
}

func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	}
}

func ListModels() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(constants.Models())
	}
}
