package llm

import (
	"strings"

	"github.com/joseph-ayodele/submittal-review/internal/common"
)

// ChatTurn is one stateless follow-up question. Callers resend context every turn.
type ChatTurn struct {
	SubmittalContext string
	SpecContext      string
	Message          string
	APIKey           common.Secret
	ModelID          string
}

// Validate returns a *common.MissingFieldError when the message or key is absent.
func (t ChatTurn) Validate() error {
	if strings.TrimSpace(t.Message) == "" {
		return common.MissingField("message", "Missing required fields: message")
	}
	if strings.TrimSpace(t.APIKey.Reveal()) == "" {
		return common.MissingField("api_key", "Missing required fields: api_key")
	}
	return nil
}

const chatSystemPrompt = "You are an experienced construction submittal reviewer helping with follow-up questions about a submittal review. " +
	"Answer questions based on the context provided."

// BuildChatMessages embeds the prior context verbatim. No truncation is
// applied on this path.
func BuildChatMessages(t ChatTurn) []Message {
	parts := []string{
		"Context from the submittal document:",
		t.SubmittalContext,
		"",
		"Context from the specification document:",
		t.SpecContext,
		"",
		"Previous review and recommendation were provided based on the above documents.",
		"",
		"Follow-up question: " + t.Message,
	}
	return []Message{
		{Role: RoleSystem, Content: chatSystemPrompt},
		{Role: RoleUser, Content: strings.Join(parts, "\n")},
	}
}
