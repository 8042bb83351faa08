package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/joseph-ayodele/submittal-review/constants"
	"github.com/joseph-ayodele/submittal-review/internal/llm"
)

func TestPrintAssessment(t *testing.T) {
	var buf bytes.Buffer
	printAssessment(&buf, llm.ReviewResult{
		ComplianceAssessment: []llm.ComplianceItem{
			{Requirement: "Section 2.1: R-19", SubmittalInfo: "R-21", Status: constants.Compliant},
			{Requirement: "Section 2.4: Class A", SubmittalInfo: "not stated", Status: constants.InformationMissing},
		},
		CriticalIssues: "fire rating missing",
		Recommendation: llm.Recommendation{Decision: constants.ReviseAndResubmit, Comments: "Provide rating."},
	}, false)

	out := buf.String()
	assert.Contains(t, out, "Section 2.1: R-19")
	assert.Contains(t, out, "INFORMATION_MISSING")
	assert.Contains(t, out, "Decision: REVISE_AND_RESUBMIT")
	assert.Contains(t, out, "Provide rating.")
	assert.Contains(t, out, "Critical issues: fire rating missing")
	assert.NotContains(t, out, "\x1b[")
}
