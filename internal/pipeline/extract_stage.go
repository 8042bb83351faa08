package pipeline

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/joseph-ayodele/submittal-review/internal/common"
	"github.com/joseph-ayodele/submittal-review/internal/extract"
)

// extracted holds the text of both documents of one review.
type extracted struct {
	Submittal extract.TextExtractionResult
	Spec      extract.TextExtractionResult
}

// extractBoth runs the two extractions concurrently. The first failure
// cancels the other one.
func (p *Processor) extractBoth(ctx context.Context, submittalPath, specPath string, logger *slog.Logger) (extracted, error) {
	var out extracted
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		res, err := p.extractOne(gctx, "submittal", submittalPath, logger)
		out.Submittal = res
		return err
	})
	g.Go(func() error {
		res, err := p.extractOne(gctx, "spec", specPath, logger)
		out.Spec = res
		return err
	})
	if err := g.Wait(); err != nil {
		return extracted{}, err
	}
	return out, nil
}

func (p *Processor) extractOne(ctx context.Context, field, path string, logger *slog.Logger) (extract.TextExtractionResult, error) {
	ctx, span := tracer().Start(ctx, "pipeline.extract", trace.WithAttributes(attribute.String("document", field)))
	defer span.End()

	res, err := p.extractor.Extract(ctx, path)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "extraction failed")
		logger.Error("review.extract.failed", "document", field, "error", err)
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return res, err
		}
		var xerr *common.ExtractionError
		if errors.As(err, &xerr) {
			return res, err
		}
		return res, common.NewExtractionError(path, err)
	}

	p.metrics.observeExtraction(res.Method)
	span.SetAttributes(
		attribute.String("extract.method", res.Method),
		attribute.Int("extract.pages", res.Pages),
		attribute.Int("extract.chars", len(res.Text)),
	)
	for _, w := range res.Warnings {
		logger.Warn("review.extract.warning", "document", field, "warning", w)
	}
	logger.Info("review.extract.ok",
		"document", field,
		"method", res.Method,
		"pages", res.Pages,
		"chars", len(res.Text),
		"elapsed_ms", res.Duration.Milliseconds(),
	)
	return res, nil
}
