package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// TextLayer reads the embedded text of one page (1-based).
type TextLayer interface {
	PageText(ctx context.Context, path string, page int) (string, error)
}

// Rasterizer renders one page (1-based) to an image file inside dir.
type Rasterizer interface {
	RenderPage(ctx context.Context, path string, page, dpi int, dir string) (string, error)
}

// Recognizer runs optical character recognition on an image file.
type Recognizer interface {
	Recognize(ctx context.Context, imagePath string) (string, error)
}

// CLITools implements TextLayer, Rasterizer and Recognizer with poppler-utils and tesseract.
type CLITools struct {
	Pdftotext     string
	Pdftoppm      string
	Tesseract     string
	TesseractLang string
	TessdataDir   string

	runner Runner
	logger *slog.Logger
}

func NewCLITools(cfg Config, runner Runner, logger *slog.Logger) *CLITools {
	if runner == nil {
		runner = ExecRunner{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	cfg = cfg.withDefaults()
	return &CLITools{
		Pdftotext:     cfg.Pdftotext,
		Pdftoppm:      cfg.Pdftoppm,
		Tesseract:     cfg.Tesseract,
		TesseractLang: cfg.TesseractLang,
		TessdataDir:   cfg.TessdataDir,
		runner:        runner,
		logger:        logger,
	}
}

func (t *CLITools) PageText(ctx context.Context, path string, page int) (string, error) {
	p := strconv.Itoa(page)
	// pdftotext -f N -l N -layout -enc UTF-8 -eol unix <path> -
	out, errb, err := t.runner.Run(ctx, t.Pdftotext, t.logger,
		"-f", p, "-l", p, "-layout", "-enc", "UTF-8", "-eol", "unix", path, "-")
	if err != nil {
		return "", fmt.Errorf("pdftotext page %d: %w: %s", page, err, strings.TrimSpace(string(errb)))
	}
	// pdftotext terminates every page with a form feed
	return strings.TrimSuffix(string(out), "\f"), nil
}

func (t *CLITools) RenderPage(ctx context.Context, path string, page, dpi int, dir string) (string, error) {
	p := strconv.Itoa(page)
	prefix := filepath.Join(dir, "page-"+p)
	// pdftoppm -f N -l N -r DPI -png -singlefile <in.pdf> <dir/page-N>
	_, errb, err := t.runner.Run(ctx, t.Pdftoppm, t.logger,
		"-f", p, "-l", p, "-r", strconv.Itoa(dpi), "-png", "-singlefile", path, prefix)
	if err != nil {
		return "", fmt.Errorf("pdftoppm page %d: %w: %s", page, err, strings.TrimSpace(string(errb)))
	}
	img := prefix + ".png"
	if _, statErr := os.Stat(img); statErr != nil {
		return "", fmt.Errorf("pdftoppm produced no image for page %d: %w", page, statErr)
	}
	return img, nil
}

func (t *CLITools) Recognize(ctx context.Context, imagePath string) (string, error) {
	args := []string{imagePath, "stdout", "-l", t.TesseractLang}
	if t.TessdataDir != "" {
		args = append(args, "--tessdata-dir", t.TessdataDir)
	}
	// tesseract <file> stdout -l <lang>
	out, errb, err := t.runner.Run(ctx, t.Tesseract, t.logger, args...)
	if err != nil {
		return "", fmt.Errorf("tesseract: %w: %s", err, strings.TrimSpace(string(errb)))
	}
	return string(out), nil
}
