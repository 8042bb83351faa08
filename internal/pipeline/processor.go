package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/joseph-ayodele/submittal-review/constants"
	"github.com/joseph-ayodele/submittal-review/internal/common"
	"github.com/joseph-ayodele/submittal-review/internal/extract"
	"github.com/joseph-ayodele/submittal-review/internal/llm"
)

// Config holds model selection and completion limits for the processor.
type Config struct {
	DefaultModel       string // detailed protocol, default "gpt-4o"
	LegacyDefaultModel string // simple protocol and chat, default "gpt-4"
	MaxTokens          int    // default 4000
}

// ConfigFrom maps the application LLM settings.
func ConfigFrom(c common.LLMConfig) Config {
	return Config{
		DefaultModel:       c.DefaultModel,
		LegacyDefaultModel: c.LegacyDefaultModel,
		MaxTokens:          c.MaxTokens,
	}
}

// AnalyzeInput names two PDFs already on local disk plus the per-request
// credentials. The key is used for this call only.
type AnalyzeInput struct {
	SubmittalPath string
	SubmittalName string
	SpecPath      string
	SpecName      string
	APIKey        common.Secret
	ModelID       string
	Protocol      constants.ProtocolVersion
}

// AnalyzeOutput is the normalized review plus the extracted texts, which
// callers hand back later as chat context.
type AnalyzeOutput struct {
	Result        llm.Normalized
	Model         string
	SubmittalText string
	SpecText      string
	Submittal     extract.TextExtractionResult
	Spec          extract.TextExtractionResult
}

// Processor coordinates extraction, prompting, the provider call and
// normalization for one review.
type Processor struct {
	cfg       Config
	extractor extract.TextExtractor
	completer llm.Completer
	metrics   *Metrics
	logger    *slog.Logger
}

// NewProcessor wires a Processor. The completer is wrapped with tracing and
// the given metrics; metrics may be nil.
func NewProcessor(cfg Config, extractor extract.TextExtractor, completer llm.Completer, metrics *Metrics, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.DefaultModel == "" {
		cfg.DefaultModel = constants.DefaultModel
	}
	if cfg.LegacyDefaultModel == "" {
		cfg.LegacyDefaultModel = constants.LegacyDefaultModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = constants.DefaultMaxTokens
	}
	return &Processor{
		cfg:       cfg,
		extractor: extractor,
		completer: Instrument(completer, metrics),
		metrics:   metrics,
		logger:    logger,
	}
}

// ModelFor returns the model used when a request does not name one.
func (p *Processor) ModelFor(protocol constants.ProtocolVersion) string {
	if protocol == constants.ProtocolDetailed {
		return p.cfg.DefaultModel
	}
	return p.cfg.LegacyDefaultModel
}

// Analyze reviews a submittal against a specification. Extraction and
// provider failures are returned as errors; unusable model output is not an
// error and is reported through Result.ParseFailed.
func (p *Processor) Analyze(ctx context.Context, in AnalyzeInput) (AnalyzeOutput, error) {
	if strings.TrimSpace(in.SubmittalPath) == "" || strings.TrimSpace(in.SpecPath) == "" {
		return AnalyzeOutput{}, common.MissingField("files", "Missing required files")
	}
	if strings.TrimSpace(in.APIKey.Reveal()) == "" {
		return AnalyzeOutput{}, common.MissingField("api_key", "Missing API key")
	}
	protocol := in.Protocol
	if protocol == "" {
		protocol = constants.ProtocolSimple
	}
	model := strings.TrimSpace(in.ModelID)
	if model == "" {
		model = p.ModelFor(protocol)
	}

	ctx, span := tracer().Start(ctx, "pipeline.Analyze", trace.WithAttributes(
		attribute.String("review.protocol", string(protocol)),
		attribute.String("llm.model", model),
	))
	defer span.End()

	logger := common.LoggerFromContext(ctx, p.logger)
	start := time.Now()
	logger.Info("review.analyze.start", "protocol", protocol, "model", model)

	docs, err := p.extractBoth(ctx, in.SubmittalPath, in.SpecPath, logger)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "extraction failed")
		return AnalyzeOutput{}, err
	}

	var warnings []string
	budget := protocol.TextBudget()
	for _, d := range []struct {
		name string
		text string
	}{{"specification", docs.Spec.Text}, {"submittal", docs.Submittal.Text}} {
		if utf8.RuneCountInString(d.text) > budget {
			warnings = append(warnings, fmt.Sprintf("%s text truncated to %d characters", d.name, budget))
		}
	}

	msgs := llm.BuildReviewMessages(llm.ReviewRequest{
		SubmittalText: docs.Submittal.Text,
		SpecText:      docs.Spec.Text,
		SubmittalName: in.SubmittalName,
		SpecName:      in.SpecName,
		APIKey:        in.APIKey,
		ModelID:       model,
		Protocol:      protocol,
	})
	format := llm.FormatText
	if protocol.WantsJSON() {
		format = llm.FormatJSONObject
	}

	raw, err := p.completer.Complete(ctx, llm.CompletionRequest{
		Model:          model,
		Messages:       msgs,
		ResponseFormat: format,
		MaxTokens:      p.cfg.MaxTokens,
		APIKey:         in.APIKey,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "provider call failed")
		logger.Error("review.analyze.provider_failed", "model", model, "error", err)
		return AnalyzeOutput{}, err
	}

	result := llm.Normalize(raw, protocol)
	result.Warnings = append(warnings, result.Warnings...)
	if result.ParseFailed {
		p.metrics.observeParseFailure(string(protocol))
		span.SetAttributes(attribute.Bool("review.parse_failed", true))
		logger.Warn("review.analyze.parse_failed", "protocol", protocol, "warnings", result.Warnings)
	}

	logger.Info("review.analyze.ok",
		"protocol", protocol,
		"model", model,
		"parse_failed", result.ParseFailed,
		"warnings", len(result.Warnings),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return AnalyzeOutput{
		Result:        result,
		Model:         model,
		SubmittalText: docs.Submittal.Text,
		SpecText:      docs.Spec.Text,
		Submittal:     docs.Submittal,
		Spec:          docs.Spec,
	}, nil
}

// Chat answers one follow-up question. The provider text is returned as is.
func (p *Processor) Chat(ctx context.Context, turn llm.ChatTurn) (string, error) {
	if err := turn.Validate(); err != nil {
		return "", err
	}
	model := strings.TrimSpace(turn.ModelID)
	if model == "" {
		model = p.cfg.LegacyDefaultModel
	}
	logger := common.LoggerFromContext(ctx, p.logger)
	start := time.Now()

	out, err := p.completer.Complete(ctx, llm.CompletionRequest{
		Model:          model,
		Messages:       llm.BuildChatMessages(turn),
		ResponseFormat: llm.FormatText,
		MaxTokens:      p.cfg.MaxTokens,
		APIKey:         turn.APIKey,
	})
	if err != nil {
		logger.Error("review.chat.failed", "model", model, "error", err)
		return "", err
	}
	logger.Info("review.chat.ok", "model", model, "chars", len(out), "elapsed_ms", time.Since(start).Milliseconds())
	return out, nil
}
