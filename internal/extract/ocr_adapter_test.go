package extract

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/submittal-review/internal/ocr"
)

type stubDoc struct{ pages int }

func (d stubDoc) Pages() int   { return d.pages }
func (d stubDoc) Close() error { return nil }

type stubOpener struct{ pages int }

func (o stubOpener) Open(context.Context, string) (ocr.Document, error) {
	return stubDoc{pages: o.pages}, nil
}

type stubTextLayer map[int]string

func (s stubTextLayer) PageText(_ context.Context, _ string, page int) (string, error) {
	return s[page], nil
}

type stubRasterizer struct{}

func (stubRasterizer) RenderPage(_ context.Context, _ string, _, _ int, dir string) (string, error) {
	img := filepath.Join(dir, "page.png")
	return img, os.WriteFile(img, []byte("png"), 0o600)
}

type stubRecognizer struct{}

func (stubRecognizer) Recognize(context.Context, string) (string, error) { return "scanned words", nil }

func newAdapter(t *testing.T, text stubTextLayer, logs *bytes.Buffer) *OCRAdapter {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(logs, nil))
	e := ocr.NewExtractor(ocr.Config{TempDir: t.TempDir()}, logger,
		ocr.WithOpener(stubOpener{pages: len(text)}),
		ocr.WithTextLayer(text),
		ocr.WithRasterizer(stubRasterizer{}),
		ocr.WithRecognizer(stubRecognizer{}))
	return NewOCRAdapter(e, logger)
}

func TestOCRAdapter_EmbeddedText(t *testing.T) {
	var logs bytes.Buffer
	res, err := newAdapter(t, stubTextLayer{1: "Section 09 91 00"}, &logs).Extract(context.Background(), "/docs/spec.pdf")

	require.NoError(t, err)
	assert.Equal(t, "Section 09 91 00", res.Text)
	assert.False(t, res.UsedOCR())
	assert.NotContains(t, logs.String(), "extract.ocr_fallback")
}

func TestOCRAdapter_OCRFallback(t *testing.T) {
	var logs bytes.Buffer
	res, err := newAdapter(t, stubTextLayer{1: ""}, &logs).Extract(context.Background(), "/docs/scan.pdf")

	require.NoError(t, err)
	assert.Equal(t, "scanned words", res.Text)
	assert.True(t, res.UsedOCR())
	assert.Equal(t, 1, res.Pages)
	assert.Contains(t, logs.String(), "extract.ocr_fallback")
}
