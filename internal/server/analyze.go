package server

import (
	"encoding/json"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/joseph-ayodele/submittal-review/constants"
	"github.com/joseph-ayodele/submittal-review/internal/common"
	"github.com/joseph-ayodele/submittal-review/internal/ingest"
	"github.com/joseph-ayodele/submittal-review/internal/pipeline"
)

const (
	headerAPIKey  = "X-API-KEY"
	headerModelID = "X-MODEL-ID"
)

// legacyResponse is the shape returned by POST /analyze.
type legacyResponse struct {
	ContentType    string   `json:"content_type"`
	Review         string   `json:"review"`
	MissingItems   string   `json:"missing_items"`
	Recommendation string   `json:"recommendation"`
	SubmittalText  string   `json:"submittalText"`
	SpecText       string   `json:"specText"`
	ParseFailed    bool     `json:"parse_failed"`
	Warnings       []string `json:"warnings,omitempty"`
}

// detailedResponse is the shape returned by POST /api/analyze. Analysis is
// the review serialized as a JSON string.
type detailedResponse struct {
	Analysis    string   `json:"analysis"`
	Model       string   `json:"model"`
	ParseFailed bool     `json:"parse_failed"`
	Warnings    []string `json:"warnings"`
}

// messages differ per endpoint so existing clients keep matching on them.
type analyzeMessages struct {
	missingFiles string
	missingKey   string
	failure      string
}

func messagesFor(protocol constants.ProtocolVersion) analyzeMessages {
	if protocol == constants.ProtocolDetailed {
		return analyzeMessages{
			missingFiles: "Both submittal and specification files are required",
			missingKey:   "OpenAI API key is required",
		}
	}
	return analyzeMessages{
		missingFiles: "Missing required files",
		missingKey:   "Missing API key",
		failure:      "Analysis failed: ",
	}
}

// Analyze handles a multipart review request. Files are checked before the
// key, and both before any extraction or provider work.
func Analyze(d Deps, protocol constants.ProtocolVersion) fiber.Handler {
	msgs := messagesFor(protocol)
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		logger := common.LoggerFromContext(ctx, d.Logger)

		files, missing := formFiles(c, "submittal", "spec")
		if len(missing) > 0 {
			return writeError(c, fiber.StatusBadRequest, fmt.Sprintf("%s: %s", msgs.missingFiles, strings.Join(missing, ", ")))
		}
		apiKey := common.Secret(firstNonEmpty(c.FormValue("api_key"), c.Get(headerAPIKey)))
		if apiKey.Reveal() == "" {
			return writeError(c, fiber.StatusBadRequest, msgs.missingKey)
		}
		model := firstNonEmpty(c.FormValue("model"), c.Get(headerModelID))

		ws, err := ingest.NewWorkspace(d.Config.UploadDir, logger)
		if err != nil {
			logger.Error("review.workspace.failed", "error", err)
			return writeError(c, fiber.StatusInternalServerError, msgs.failure+"could not store uploads")
		}
		defer func() { _ = ws.Close() }()

		sub, err := saveUpload(ws, "submittal", files["submittal"])
		if err != nil {
			return writeAppError(c, err, msgs.failure)
		}
		spec, err := saveUpload(ws, "spec", files["spec"])
		if err != nil {
			return writeAppError(c, err, msgs.failure)
		}

		out, err := d.Reviewer.Analyze(ctx, pipeline.AnalyzeInput{
			SubmittalPath: sub.Path,
			SubmittalName: ingest.DisplayName(sub.Filename),
			SpecPath:      spec.Path,
			SpecName:      ingest.DisplayName(spec.Filename),
			APIKey:        apiKey,
			ModelID:       model,
			Protocol:      protocol,
		})
		if err != nil {
			return writeAppError(c, err, msgs.failure)
		}

		if protocol == constants.ProtocolDetailed {
			b, err := json.Marshal(out.Result.Review)
			if err != nil {
				return writeError(c, fiber.StatusInternalServerError, "encode review: "+err.Error())
			}
			warnings := out.Result.Warnings
			if warnings == nil {
				warnings = []string{}
			}
			return c.JSON(detailedResponse{
				Analysis:    string(b),
				Model:       out.Model,
				ParseFailed: out.Result.ParseFailed,
				Warnings:    warnings,
			})
		}

		legacy := out.Result.Legacy
		return c.JSON(legacyResponse{
			ContentType:    legacy.ContentType,
			Review:         legacy.Review,
			MissingItems:   legacy.MissingItems,
			Recommendation: legacy.Recommendation,
			SubmittalText:  out.SubmittalText,
			SpecText:       out.SpecText,
			ParseFailed:    out.Result.ParseFailed,
			Warnings:       out.Result.Warnings,
		})
	}
}

// formFiles returns the uploaded file headers by field and the names of the
// fields that are absent.
func formFiles(c *fiber.Ctx, fields ...string) (map[string]*multipart.FileHeader, []string) {
	found := make(map[string]*multipart.FileHeader, len(fields))
	var missing []string
	for _, f := range fields {
		fh, err := c.FormFile(f)
		if err != nil || fh == nil || fh.Size == 0 {
			missing = append(missing, f)
			continue
		}
		found[f] = fh
	}
	return found, missing
}

func saveUpload(ws *ingest.Workspace, field string, fh *multipart.FileHeader) (ingest.Upload, error) {
	f, err := fh.Open()
	if err != nil {
		return ingest.Upload{}, &common.ValidationError{Field: field, Message: fmt.Sprintf("Cannot read uploaded file %q", field)}
	}
	defer f.Close()
	return ws.Save(field, fh.Filename, f)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
