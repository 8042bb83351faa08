package openai

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/joseph-ayodele/submittal-review/constants"
)

// Config for the OpenAI client. API keys are supplied per request.
type Config struct {
	BaseURL     string        // default https://api.openai.com/v1
	MaxTokens   int           // default 4000, applied when a request sets none
	Temperature float32       // 0 = provider default, not sent
	Timeout     time.Duration // per-call deadline
}

type Client struct {
	cfg    Config
	http   *http.Client
	logger *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = constants.DefaultMaxTokens
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg: cfg,
		// the per-call context deadline is authoritative; this is a backstop
		http:   &http.Client{Timeout: cfg.Timeout + 5*time.Second},
		logger: logger,
	}
}
