package server

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/joseph-ayodele/submittal-review/internal/common"
	"github.com/joseph-ayodele/submittal-review/internal/server/middleware"
)

type errorPayload struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// writeError writes the {error: message} body used by every endpoint.
func writeError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(errorPayload{
		Error:     message,
		RequestID: middleware.RequestIDFrom(c),
	})
}

// writeAppError maps a pipeline error to its status. prefix is prepended to
// the message of server-side failures.
func writeAppError(c *fiber.Ctx, err error, prefix string) error {
	status := common.HTTPStatus(err)
	msg := err.Error()
	if status >= fiber.StatusInternalServerError && prefix != "" {
		msg = prefix + msg
	}
	return writeError(c, status, msg)
}

// ErrorHandler renders errors that escaped a handler, including body limit
// and routing failures raised by fiber itself.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			switch fe.Code {
			case fiber.StatusRequestEntityTooLarge:
				return writeError(c, fe.Code, "Uploaded files are too large")
			case fiber.StatusNotFound:
				return writeError(c, fe.Code, "Not found")
			case fiber.StatusMethodNotAllowed:
				return writeError(c, fe.Code, "Method not allowed")
			}
			if fe.Code < fiber.StatusInternalServerError {
				return writeError(c, fe.Code, fe.Message)
			}
		}
		var ve *common.ValidationError
		if errors.As(err, &ve) {
			return writeError(c, fiber.StatusBadRequest, ve.Error())
		}
		return writeError(c, fiber.StatusInternalServerError, "Internal server error")
	}
}
