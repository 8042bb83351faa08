package middleware

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/joseph-ayodele/submittal-review/internal/common"
)

// Logger stores a request-scoped logger in the user context and writes one
// slog record per request after the handler has run. Query strings are left
// out since they may carry credentials.
func Logger(logger *slog.Logger) fiber.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(c *fiber.Ctx) error {
		start := time.Now()
		reqLogger := logger.With("req_id", RequestIDFrom(c))
		c.SetUserContext(common.WithLogger(c.UserContext(), reqLogger))

		err := c.Next()

		status := c.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		} else if err != nil {
			status = fiber.StatusInternalServerError
		}

		level := slog.LevelInfo
		switch {
		case status >= 500:
			level = slog.LevelError
		case status >= 400:
			level = slog.LevelWarn
		}
		reqLogger.LogAttrs(c.UserContext(), level, "http.request",
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.Int("status", status),
			slog.Int64("elapsed_ms", time.Since(start).Milliseconds()),
		)
		return err
	}
}
