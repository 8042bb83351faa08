package server

import (
	"github.com/gofiber/fiber/v2"

	"github.com/joseph-ayodele/submittal-review/internal/common"
	"github.com/joseph-ayodele/submittal-review/internal/llm"
)

type chatRequest struct {
	Message          string `json:"message" validate:"required"`
	APIKey           string `json:"api_key" validate:"required"`
	Model            string `json:"model"`
	SubmittalContext string `json:"submittal_context"`
	SpecContext      string `json:"spec_context"`
}

type chatResponse struct {
	Response string `json:"response"`
}

// Chat answers a follow-up question. The client resends both document
// contexts on every turn.
func Chat(d Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req chatRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "Missing required fields")
		}
		if req.APIKey == "" {
			req.APIKey = c.Get(headerAPIKey)
		}
		if err := common.ValidateStruct(req); err != nil {
			return writeAppError(c, err, "")
		}

		out, err := d.Reviewer.Chat(c.UserContext(), llm.ChatTurn{
			SubmittalContext: req.SubmittalContext,
			SpecContext:      req.SpecContext,
			Message:          req.Message,
			APIKey:           common.Secret(req.APIKey),
			ModelID:          firstNonEmpty(req.Model, c.Get(headerModelID)),
		})
		if err != nil {
			return writeAppError(c, err, "Chat failed: ")
		}
		return c.JSON(chatResponse{Response: out})
	}
}
