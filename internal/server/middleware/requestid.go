package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/joseph-ayodele/submittal-review/internal/common"
)

const (
	// RequestIDHeader is the header used to propagate request IDs.
	RequestIDHeader = "X-Request-ID"
	// RequestIDLocalKey is the fiber locals key holding the request ID.
	RequestIDLocalKey = "request_id"
)

// RequestID reuses an incoming X-Request-ID or generates one, echoes it on
// the response and stores it in both the fiber locals and the user context.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(RequestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Locals(RequestIDLocalKey, id)
		c.Set(RequestIDHeader, id)
		c.SetUserContext(common.WithRequestID(c.UserContext(), id))
		return c.Next()
	}
}

// RequestIDFrom returns the ID stored by RequestID, or "".
func RequestIDFrom(c *fiber.Ctx) string {
	if s, ok := c.Locals(RequestIDLocalKey).(string); ok {
		return s
	}
	return ""
}
