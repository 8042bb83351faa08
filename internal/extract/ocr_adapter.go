package extract

import (
	"context"
	"log/slog"

	"github.com/joseph-ayodele/submittal-review/internal/common"
	"github.com/joseph-ayodele/submittal-review/internal/ocr"
)

type OCRAdapter struct {
	e      *ocr.Extractor
	logger *slog.Logger
}

func NewOCRAdapter(e *ocr.Extractor, logger *slog.Logger) *OCRAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &OCRAdapter{e: e, logger: logger}
}

func (a *OCRAdapter) Extract(ctx context.Context, path string) (TextExtractionResult, error) {
	r, err := a.e.Extract(ctx, path)
	res := TextExtractionResult{
		Text:     r.Text,
		Pages:    r.Pages,
		Method:   r.Method,
		Language: r.Language,
		Duration: r.Duration,
		Warnings: r.Warnings,
	}
	if err == nil && res.UsedOCR() {
		common.LoggerFromContext(ctx, a.logger).Info("extract.ocr_fallback",
			"pages", res.Pages,
			"chars", len(res.Text),
			"failed_pages", len(res.Warnings),
		)
	}
	return res, err
}
