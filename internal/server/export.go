package server

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/joseph-ayodele/submittal-review/internal/export"
)

// Export renders the posted review as an XLSX attachment. Optional query
// parameters submittal, spec and model label the summary sheet.
func Export(d Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		review, err := d.Exporter.Decode(c.Body())
		if err != nil {
			return writeAppError(c, err, "")
		}
		b, name, err := d.Exporter.ReviewXLSX(c.UserContext(), review, export.Meta{
			SubmittalName: c.Query("submittal"),
			SpecName:      c.Query("spec"),
			Model:         c.Query("model"),
		})
		if err != nil {
			return writeAppError(c, err, "Export failed: ")
		}
		c.Set(fiber.HeaderContentType, export.ContentType)
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
		return c.Send(b)
	}
}
