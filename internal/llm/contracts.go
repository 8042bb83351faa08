package llm

import (
	"context"

	"github.com/joseph-ayodele/submittal-review/internal/common"
)

type Role string

const (
	RoleSystem Role = "system"
	RoleUser   Role = "user"
)

type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ResponseFormat is the completion mode requested from the provider.
type ResponseFormat string

const (
	FormatText       ResponseFormat = "text"
	FormatJSONObject ResponseFormat = "json_object"
)

// CompletionRequest is one chat-completions call.
type CompletionRequest struct {
	Model          string
	Messages       []Message
	ResponseFormat ResponseFormat
	MaxTokens      int
	APIKey         common.Secret
}

// Completer is the provider capability. Failures are *common.ProviderError.
// Decorators (retry, metrics) wrap a Completer without changing callers.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// CompleterFunc adapts a function to Completer.
type CompleterFunc func(ctx context.Context, req CompletionRequest) (string, error)

func (f CompleterFunc) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	return f(ctx, req)
}
