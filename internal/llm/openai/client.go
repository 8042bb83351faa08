package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"strings"
	"time"

	"github.com/joseph-ayodele/submittal-review/internal/common"
	"github.com/joseph-ayodele/submittal-review/internal/llm"
)

type chatRequest struct {
	Model          string            `json:"model"`
	Messages       []llm.Message     `json:"messages"`
	MaxTokens      int               `json:"max_tokens"`
	Temperature    *float32          `json:"temperature,omitempty"`
	ResponseFormat map[string]string `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    any    `json:"code"`
	} `json:"error"`
}

// Complete implements llm.Completer against /chat/completions. Every failure
// is a *common.ProviderError; the call is never retried here.
func (c *Client) Complete(ctx context.Context, req llm.CompletionRequest) (string, error) {
	logger := common.LoggerFromContext(ctx, c.logger)
	start := time.Now()

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = c.cfg.MaxTokens
	}
	body := chatRequest{
		Model:     req.Model,
		Messages:  req.Messages,
		MaxTokens: maxTokens,
	}
	if c.cfg.Temperature > 0 {
		t := c.cfg.Temperature
		body.Temperature = &t
	}
	if req.ResponseFormat == llm.FormatJSONObject {
		body.ResponseFormat = map[string]string{"type": string(llm.FormatJSONObject)}
	}

	logger.Info("llm.complete.start",
		"model", req.Model,
		"format", req.ResponseFormat,
		"messages", len(req.Messages),
		"max_tokens", maxTokens,
	)

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	headers := map[string]string{"Authorization": "Bearer " + req.APIKey.Reveal()}
	raw, status, err := llm.SendJSON(ctx, c.http, endpoint, body, headers, logger)
	if err != nil {
		perr := classify(ctx, raw, status, err)
		logger.Error("llm.complete.failed",
			"kind", perr.Kind,
			"status", perr.StatusCode,
			"error", perr.Message,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", perr
	}

	var cc chatResponse
	if err := json.Unmarshal(raw, &cc); err != nil {
		logger.Error("llm.complete.decode_error", "error", err, "raw_bytes", len(raw))
		return "", &common.ProviderError{Kind: common.ProviderDecode, Message: "decode openai response: " + err.Error(), Cause: err}
	}
	if len(cc.Choices) == 0 {
		logger.Error("llm.complete.no_choices", "raw_bytes", len(raw))
		return "", &common.ProviderError{Kind: common.ProviderEmpty, Message: "no choices in openai response"}
	}
	content := strings.TrimSpace(cc.Choices[0].Message.Content)

	logger.Info("llm.complete.ok",
		"model", req.Model,
		"finish_reason", cc.Choices[0].FinishReason,
		"chars", len(content),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return content, nil
}

func classify(ctx context.Context, raw []byte, status int, err error) *common.ProviderError {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) || isNetTimeout(err) {
		return &common.ProviderError{Kind: common.ProviderTimeout, Message: "request timed out", Cause: err}
	}
	if status == 0 || status/100 == 2 {
		return &common.ProviderError{Kind: common.ProviderTransport, Message: err.Error(), Cause: err}
	}
	msg := strings.TrimSpace(string(raw))
	var er errorResponse
	if json.Unmarshal(raw, &er) == nil && er.Error.Message != "" {
		msg = er.Error.Message
	}
	return &common.ProviderError{Kind: common.ProviderStatus, StatusCode: status, Message: msg, Cause: err}
}

func isNetTimeout(err error) bool {
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
