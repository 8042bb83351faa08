package pipeline

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/joseph-ayodele/submittal-review/internal/llm"
)

const tracerName = "github.com/joseph-ayodele/submittal-review/internal/pipeline"

func tracer() trace.Tracer { return otel.Tracer(tracerName) }

// Instrument wraps next with a span and provider call metrics.
func Instrument(next llm.Completer, m *Metrics) llm.Completer {
	return llm.CompleterFunc(func(ctx context.Context, req llm.CompletionRequest) (string, error) {
		ctx, span := tracer().Start(ctx, "llm.Complete", trace.WithAttributes(
			attribute.String("llm.model", req.Model),
			attribute.String("llm.response_format", string(req.ResponseFormat)),
			attribute.Int("llm.messages", len(req.Messages)),
		))
		defer span.End()

		start := time.Now()
		out, err := next.Complete(ctx, req)
		m.observeProviderCall(err, time.Since(start))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, providerOutcome(err))
			return "", err
		}
		span.SetAttributes(attribute.Int("llm.response_chars", len(out)))
		return out, nil
	})
}
