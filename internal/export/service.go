package export

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/submittal-review/constants"
	"github.com/joseph-ayodele/submittal-review/internal/common"
	"github.com/joseph-ayodele/submittal-review/internal/llm"
)

const (
	SummarySheet    = "Summary"
	ComplianceSheet = "Compliance"

	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var reviewSchema = llm.MustCompileSchema("review-export.json", llm.BuildStrictReviewJSONSchema())

// Meta is optional context printed on the summary sheet.
type Meta struct {
	SubmittalName string
	SpecName      string
	Model         string
}

// Service turns a review result into an XLSX workbook. It holds no state
// between calls.
type Service struct {
	logger *slog.Logger
	now    func() time.Time
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger, now: time.Now}
}

// Decode validates body as a review result. Shape problems are returned as a
// *common.ValidationError.
func (s *Service) Decode(body []byte) (llm.ReviewResult, error) {
	if len(strings.TrimSpace(string(body))) == 0 {
		return llm.ReviewResult{}, common.MissingField("body", "Missing required fields: review")
	}
	if err := reviewSchema.Validate(body); err != nil {
		return llm.ReviewResult{}, &common.ValidationError{Field: "body", Message: "Invalid review: " + firstLine(err.Error())}
	}
	var r llm.ReviewResult
	if err := json.Unmarshal(body, &r); err != nil {
		return llm.ReviewResult{}, &common.ValidationError{Field: "body", Message: "Invalid review: " + err.Error()}
	}
	return r, nil
}

// Filename is the attachment name for a workbook generated at t.
func Filename(t time.Time) string {
	return "submittal-review-" + t.UTC().Format("20060102-150405") + ".xlsx"
}

// ReviewXLSX returns a workbook with a Summary sheet and a Compliance sheet
// holding one row per requirement.
func (s *Service) ReviewXLSX(ctx context.Context, r llm.ReviewResult, meta Meta) ([]byte, string, error) {
	start := s.now()
	logger := common.LoggerFromContext(ctx, s.logger)

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return nil, "", fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(ComplianceSheet); err != nil {
		return nil, "", fmt.Errorf("new sheet: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, "", err
	}
	wrap, err := f.NewStyle(&excelize.Style{Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"}})
	if err != nil {
		return nil, "", err
	}

	if err := writeSummary(f, r, meta, start, bold, wrap); err != nil {
		return nil, "", err
	}
	if err := writeCompliance(f, r.ComplianceAssessment, bold, wrap); err != nil {
		return nil, "", err
	}
	if idx, _ := f.GetSheetIndex(SummarySheet); idx >= 0 {
		f.SetActiveSheet(idx)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("xlsx write: %w", err)
	}

	logger.Info("export.xlsx.ok",
		"rows", len(r.ComplianceAssessment),
		"bytes", buf.Len(),
		"elapsed_ms", s.now().Sub(start).Milliseconds(),
	)
	return buf.Bytes(), Filename(start), nil
}

func writeSummary(f *excelize.File, r llm.ReviewResult, meta Meta, at time.Time, bold, wrap int) error {
	counts := lo.CountValuesBy(r.ComplianceAssessment, func(it llm.ComplianceItem) constants.ComplianceStatus {
		return it.Status
	})

	rows := [][2]string{
		{"Submittal", meta.SubmittalName},
		{"Specification", meta.SpecName},
		{"Model", meta.Model},
		{"Generated", at.UTC().Format(time.RFC3339)},
		{"", ""},
		{"Submittal Summary", r.SubmittalSummary},
		{"Applicable Specs", r.ApplicableSpecs},
		{"Critical Issues", r.CriticalIssues},
		{"Decision", string(r.Recommendation.Decision)},
		{"Comments", r.Recommendation.Comments},
		{"", ""},
	}
	for _, st := range constants.StatusStrings() {
		rows = append(rows, [2]string{st, fmt.Sprint(counts[constants.ComplianceStatus(st)])})
	}

	for i, kv := range rows {
		row := i + 1
		if err := setRow(f, SummarySheet, row, kv[0], kv[1]); err != nil {
			return err
		}
	}
	last := len(rows)
	if err := f.SetCellStyle(SummarySheet, "A1", fmt.Sprintf("A%d", last), bold); err != nil {
		return err
	}
	if err := f.SetCellStyle(SummarySheet, "B1", fmt.Sprintf("B%d", last), wrap); err != nil {
		return err
	}
	_ = f.SetColWidth(SummarySheet, "A", "A", 24)
	_ = f.SetColWidth(SummarySheet, "B", "B", 90)
	return nil
}

func writeCompliance(f *excelize.File, items []llm.ComplianceItem, bold, wrap int) error {
	if err := setRow(f, ComplianceSheet, 1, "#", "Requirement", "Submittal Info", "Status"); err != nil {
		return err
	}
	if err := f.SetCellStyle(ComplianceSheet, "A1", "D1", bold); err != nil {
		return err
	}
	for i, it := range items {
		if err := setRow(f, ComplianceSheet, i+2, i+1, it.Requirement, it.SubmittalInfo, string(it.Status)); err != nil {
			return err
		}
	}
	if len(items) > 0 {
		if err := f.SetCellStyle(ComplianceSheet, "B2", fmt.Sprintf("C%d", len(items)+1), wrap); err != nil {
			return err
		}
	}
	_ = f.SetColWidth(ComplianceSheet, "A", "A", 6)
	_ = f.SetColWidth(ComplianceSheet, "B", "C", 60)
	_ = f.SetColWidth(ComplianceSheet, "D", "D", 24)
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values ...any) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return err
		}
	}
	return nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
