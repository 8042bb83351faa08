package pipeline

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/joseph-ayodele/submittal-review/internal/common"
	"github.com/joseph-ayodele/submittal-review/internal/extract"
	"github.com/joseph-ayodele/submittal-review/internal/llm/openai"
	"github.com/joseph-ayodele/submittal-review/internal/ocr"
)

// Build assembles a Processor backed by the local PDF tools and the OpenAI
// client. reg may be nil, in which case no pipeline metrics are recorded.
func Build(cfg *common.Config, reg prometheus.Registerer, logger *slog.Logger) (*Processor, error) {
	if logger == nil {
		logger = slog.Default()
	}
	var metrics *Metrics
	if reg != nil {
		m, err := NewMetrics(reg)
		if err != nil {
			return nil, err
		}
		metrics = m
	}

	ocrx := ocr.NewExtractor(ocr.ConfigFrom(cfg.OCR, cfg.Server.UploadDir), logger)
	client := openai.NewClient(openai.Config{
		BaseURL:     cfg.LLM.BaseURL,
		MaxTokens:   cfg.LLM.MaxTokens,
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLM.Timeout,
	}, logger)

	return NewProcessor(ConfigFrom(cfg.LLM), extract.NewOCRAdapter(ocrx, logger), client, metrics, logger), nil
}
