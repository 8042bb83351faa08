package main

import (
	"context"
	"encoding/json"
	"flag"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/joseph-ayodele/submittal-review/constants"
	"github.com/joseph-ayodele/submittal-review/internal/common"
	"github.com/joseph-ayodele/submittal-review/internal/export"
	"github.com/joseph-ayodele/submittal-review/internal/pipeline"
)

// review runs one submittal review from the command line and prints the
// normalized result as JSON.
func main() {
	var (
		protocol = flag.String("protocol", string(constants.ProtocolDetailed), "simple or detailed")
		model    = flag.String("model", "", "model id (defaults per protocol)")
		xlsxOut  = flag.String("xlsx", "", "also write the review to this .xlsx file")
		asTable  = flag.Bool("table", false, "print the compliance table instead of JSON (detailed protocol)")
		colours  = flag.Bool("color", true, "colourize the table output")
	)
	flag.Parse()

	cfg := common.LoadConfig()
	logger := cfg.Log.NewLogger(os.Stderr)
	slog.SetDefault(logger)

	if flag.NArg() != 2 {
		logger.Error("usage", "cmd", "review [-protocol simple|detailed] [-model id] [-xlsx out.xlsx] <submittal.pdf> <spec.pdf>")
		os.Exit(2)
	}
	proto, ok := constants.ParseProtocol(*protocol)
	if !ok {
		logger.Error("unknown protocol", "protocol", *protocol)
		os.Exit(2)
	}
	apiKey := common.Secret(os.Getenv("OPENAI_API_KEY"))
	if apiKey.Reveal() == "" {
		logger.Error("OPENAI_API_KEY env var is required")
		os.Exit(2)
	}

	proc, err := pipeline.Build(cfg, nil, logger)
	if err != nil {
		logger.Error("build pipeline", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.LLM.Timeout+5*time.Minute)
	defer cancel()

	submittal, spec := flag.Arg(0), flag.Arg(1)
	out, err := proc.Analyze(ctx, pipeline.AnalyzeInput{
		SubmittalPath: submittal,
		SubmittalName: filepath.Base(submittal),
		SpecPath:      spec,
		SpecName:      filepath.Base(spec),
		APIKey:        apiKey,
		ModelID:       *model,
		Protocol:      proto,
	})
	if err != nil {
		logger.Error("review failed", "error", err)
		os.Exit(1)
	}

	if *asTable && proto == constants.ProtocolDetailed {
		for _, w := range out.Result.Warnings {
			logger.Warn("review.warning", "warning", w)
		}
		printAssessment(os.Stdout, out.Result.Review, *colours)
	} else if err := printJSON(os.Stdout, out, proto); err != nil {
		logger.Error("encode", "error", err)
		os.Exit(1)
	}

	if *xlsxOut != "" {
		b, _, err := export.NewService(logger).ReviewXLSX(ctx, out.Result.Review, export.Meta{
			SubmittalName: filepath.Base(submittal),
			SpecName:      filepath.Base(spec),
			Model:         out.Model,
		})
		if err != nil {
			logger.Error("export", "error", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*xlsxOut, b, 0o644); err != nil {
			logger.Error("write xlsx", "path", *xlsxOut, "error", err)
			os.Exit(1)
		}
		logger.Info("xlsx written", "path", *xlsxOut, "bytes", len(b))
	}
}

func printJSON(w io.Writer, out pipeline.AnalyzeOutput, proto constants.ProtocolVersion) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	var doc any = out.Result.Review
	if proto == constants.ProtocolSimple {
		doc = out.Result.Legacy
	}
	return enc.Encode(map[string]any{
		"model":        out.Model,
		"parse_failed": out.Result.ParseFailed,
		"warnings":     out.Result.Warnings,
		"result":       doc,
	})
}
