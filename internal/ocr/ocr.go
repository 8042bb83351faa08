package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/joseph-ayodele/submittal-review/constants"
	"github.com/joseph-ayodele/submittal-review/internal/common"
)

const (
	MethodText = "pdf-text"
	MethodOCR  = "pdf-ocr"
	MethodNone = "none"
)

type Config struct {
	Pdftotext string // binary name or absolute path; if empty -> "pdftotext"
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	Tesseract string // binary name or absolute path; if empty -> "tesseract"

	TesseractLang string // default "eng"
	TessdataDir   string
	DPI           int // rasterization DPI for scanned pages, default 72 (native PDF resolution)
	MaxPages      int // 0 = no limit on OCR'd pages

	TempDir string // parent for rasterized pages; "" = os.TempDir()
}

func (c Config) withDefaults() Config {
	if c.Pdftotext == "" {
		c.Pdftotext = "pdftotext"
	}
	if c.Pdftoppm == "" {
		c.Pdftoppm = "pdftoppm"
	}
	if c.Tesseract == "" {
		c.Tesseract = "tesseract"
	}
	if c.TesseractLang == "" {
		c.TesseractLang = "eng"
	}
	if c.DPI <= 0 {
		c.DPI = 72
	}
	return c
}

// ConfigFrom maps the application OCR settings onto an extractor Config.
func ConfigFrom(c common.OCRConfig, tempDir string) Config {
	return Config{
		Pdftotext:     c.Pdftotext,
		Pdftoppm:      c.Pdftoppm,
		Tesseract:     c.Tesseract,
		TesseractLang: c.TesseractLang,
		TessdataDir:   c.TessdataDir,
		DPI:           c.DPI,
		MaxPages:      c.MaxPages,
		TempDir:       tempDir,
	}
}

type ExtractionResult struct {
	Text     string
	Pages    int
	Method   string // "pdf-text" | "pdf-ocr" | "none"
	Language string
	Duration time.Duration
	Warnings []string
}

type Extractor struct {
	cfg    Config
	opener Opener
	text   TextLayer
	raster Rasterizer
	recog  Recognizer
	logger *slog.Logger
}

type Option func(*Extractor)

// WithRunner routes the default command-line tools through r.
func WithRunner(r Runner) Option {
	return func(e *Extractor) {
		tools := NewCLITools(e.cfg, r, e.logger)
		e.text, e.raster, e.recog = tools, tools, tools
	}
}

func WithOpener(o Opener) Option         { return func(e *Extractor) { e.opener = o } }
func WithTextLayer(t TextLayer) Option   { return func(e *Extractor) { e.text = t } }
func WithRasterizer(r Rasterizer) Option { return func(e *Extractor) { e.raster = r } }
func WithRecognizer(r Recognizer) Option { return func(e *Extractor) { e.recog = r } }

func NewExtractor(cfg Config, logger *slog.Logger, opts ...Option) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	cfg = cfg.withDefaults()
	tools := NewCLITools(cfg, ExecRunner{}, logger)
	e := &Extractor{
		cfg:    cfg,
		opener: NewPDFCPUOpener(),
		text:   tools,
		raster: tools,
		recog:  tools,
		logger: logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract returns the text of the PDF at path. Embedded text is read first;
// only when that yields nothing is each page rasterized and OCR'd.
// A file that cannot be opened as a PDF yields an *common.ExtractionError.
func (e *Extractor) Extract(ctx context.Context, path string) (ExtractionResult, error) {
	start := time.Now()
	logger := common.LoggerFromContext(ctx, e.logger)

	if ext := filepath.Ext(path); ext != "" && !constants.IsAllowedExt(ext) {
		logger.Warn("ocr.extract.unexpected_extension", "path", path, "ext", ext)
	}

	doc, err := e.opener.Open(ctx, path)
	if err != nil {
		logger.Error("ocr.extract.open_failed", "path", path, "error", err)
		return ExtractionResult{Method: MethodNone, Duration: time.Since(start)}, common.NewExtractionError(path, err)
	}
	defer func() {
		if cerr := doc.Close(); cerr != nil {
			logger.Warn("ocr.extract.close_failed", "path", path, "error", cerr)
		}
	}()

	res, err := e.extractPDF(ctx, path, doc.Pages(), logger)
	res.Duration = time.Since(start)
	if err != nil {
		return res, fmt.Errorf("extract %s: %w", filepath.Base(path), err)
	}
	logger.Info("ocr.extract.ok",
		"method", res.Method,
		"pages", res.Pages,
		"chars", len(res.Text),
		"warnings", len(res.Warnings),
		"elapsed_ms", res.Duration.Milliseconds(),
	)
	return res, nil
}
