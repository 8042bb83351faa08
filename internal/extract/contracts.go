package extract

import (
	"context"
	"time"

	"github.com/joseph-ayodele/submittal-review/internal/ocr"
)

// TextExtractor is Stage 1: PDF file -> text.
type TextExtractor interface {
	Extract(ctx context.Context, path string) (TextExtractionResult, error)
}

type TextExtractionResult struct {
	Text     string
	Pages    int
	Method   string // "pdf-text" | "pdf-ocr" | "none"
	Language string
	Duration time.Duration
	Warnings []string
}

// UsedOCR reports whether the text came from the OCR fallback.
func (r TextExtractionResult) UsedOCR() bool { return r.Method == ocr.MethodOCR }
