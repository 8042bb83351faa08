package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/joseph-ayodele/submittal-review/internal/common"
	"github.com/joseph-ayodele/submittal-review/internal/extract"
	"github.com/joseph-ayodele/submittal-review/internal/ocr"
)

// runextract prints the text of one PDF along with how it was obtained.
func main() {
	cfg := common.LoadConfig()
	logger := cfg.Log.NewLogger(os.Stderr)
	slog.SetDefault(logger)

	if len(os.Args) != 2 {
		logger.Error("usage", "cmd", "runextract <file.pdf>")
		os.Exit(2)
	}
	path := os.Args[1]

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	ocrx := ocr.NewExtractor(ocr.ConfigFrom(cfg.OCR, ""), logger)
	textExtractor := extract.NewOCRAdapter(ocrx, logger)

	start := time.Now()
	res, err := textExtractor.Extract(ctx, path)
	dur := time.Since(start)
	if err != nil {
		logger.Error("text extraction failed", "path", path, "error", err, "duration_ms", dur.Milliseconds())
		os.Exit(1)
	}

	logger.Info("text extraction OK",
		"method", res.Method,
		"pages", res.Pages,
		"bytes", len(res.Text),
		"warnings", res.Warnings,
		"duration_ms", dur.Milliseconds(),
	)
	fmt.Println(res.Text)
}
