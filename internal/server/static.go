package server

import (
	"os"
	"path/filepath"

	"github.com/gofiber/fiber/v2"
)

// RegisterStatic serves dir and falls back to its index.html for any other
// GET so client-side routes resolve.
func RegisterStatic(app *fiber.App, dir string) {
	if dir == "" {
		return
	}
	app.Static("/", dir, fiber.Static{Index: "index.html"})

	index := filepath.Join(dir, "index.html")
	app.Get("/*", func(c *fiber.Ctx) error {
		if _, err := os.Stat(index); err != nil {
			return fiber.ErrNotFound
		}
		return c.SendFile(index)
	})
}
