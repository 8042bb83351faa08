package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
)

func (e *Extractor) extractPDF(ctx context.Context, path string, pages int, logger *slog.Logger) (ExtractionResult, error) {
	res := ExtractionResult{Pages: pages, Method: MethodNone}

	text, warns, err := e.embeddedText(ctx, path, pages)
	res.Warnings = append(res.Warnings, warns...)
	if err != nil {
		return res, err
	}
	if trimmed := strings.TrimSpace(text); trimmed != "" {
		res.Text = trimmed
		res.Method = MethodText
		return res, nil
	}

	logger.Info("ocr.extract.fallback", "path", path, "pages", pages, "dpi", e.cfg.DPI)
	text, warns, err = e.ocrPages(ctx, path, pages)
	res.Warnings = append(res.Warnings, warns...)
	if err != nil {
		return res, err
	}
	res.Text = CleanOCRText(text)
	res.Language = e.cfg.TesseractLang
	if res.Text != "" {
		res.Method = MethodOCR
	} else {
		res.Warnings = append(res.Warnings, "no text could be extracted from the document")
	}
	return res, nil
}

// embeddedText concatenates each page's text layer in page order.
func (e *Extractor) embeddedText(ctx context.Context, path string, pages int) (string, []string, error) {
	var b strings.Builder
	var warns []string
	for p := 1; p <= pages; p++ {
		if err := ctx.Err(); err != nil {
			return "", warns, err
		}
		txt, err := e.text.PageText(ctx, path, p)
		if err != nil {
			warns = append(warns, err.Error())
			continue
		}
		b.WriteString(txt)
	}
	return b.String(), warns, nil
}

// ocrPages rasterizes and recognizes every page exactly once. A failing page
// adds a warning and the pass continues.
func (e *Extractor) ocrPages(ctx context.Context, path string, pages int) (string, []string, error) {
	tmpDir, err := os.MkdirTemp(e.cfg.TempDir, "sr-ocr-*")
	if err != nil {
		return "", nil, fmt.Errorf("create raster dir: %w", err)
	}
	defer func(dir string) {
		if err := os.RemoveAll(dir); err != nil {
			e.logger.Warn("ocr.tempdir.remove_failed", "dir", dir, "error", err)
		}
	}(tmpDir)

	limit := pages
	var warns []string
	if e.cfg.MaxPages > 0 && limit > e.cfg.MaxPages {
		limit = e.cfg.MaxPages
		warns = append(warns, fmt.Sprintf("OCR limited to first %d of %d pages", limit, pages))
	}

	var b strings.Builder
	for p := 1; p <= limit; p++ {
		if err := ctx.Err(); err != nil {
			return "", warns, err
		}
		img, err := e.raster.RenderPage(ctx, path, p, e.cfg.DPI, tmpDir)
		if err != nil {
			warns = append(warns, err.Error())
			continue
		}
		txt, err := e.recog.Recognize(ctx, img)
		_ = os.Remove(img)
		if err != nil {
			warns = append(warns, fmt.Sprintf("page %d: %v", p, err))
			continue
		}
		b.WriteString(txt)
		b.WriteString("\n")
	}
	return b.String(), warns, nil
}
