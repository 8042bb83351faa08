package llm

import (
	"github.com/joseph-ayodele/submittal-review/constants"
)

// ReviewResult is the canonical compliance assessment.
type ReviewResult struct {
	SubmittalSummary     string           `json:"submittalSummary"`
	ApplicableSpecs      string           `json:"applicableSpecs"`
	ComplianceAssessment []ComplianceItem `json:"complianceAssessment"`
	CriticalIssues       string           `json:"criticalIssues"`
	Recommendation       Recommendation   `json:"recommendation"`
}

type ComplianceItem struct {
	Requirement   string                     `json:"requirement"`
	SubmittalInfo string                     `json:"submittalInfo"`
	Status        constants.ComplianceStatus `json:"status"`
}

type Recommendation struct {
	Decision constants.Decision `json:"decision"`
	Comments string             `json:"comments"`
}

// LegacySections are the four numbered sections of a simple-protocol answer.
type LegacySections struct {
	ContentType    string `json:"content_type"`
	Review         string `json:"review"`
	MissingItems   string `json:"missing_items"`
	Recommendation string `json:"recommendation"`
}

// Normalized is the outcome of Normalize. ParseFailed distinguishes
// unusable model output from a valid but unfavorable verdict.
type Normalized struct {
	Mode        constants.ProtocolVersion
	Review      ReviewResult
	Legacy      LegacySections
	ParseFailed bool
	Warnings    []string
}

func emptyReview() ReviewResult {
	return ReviewResult{ComplianceAssessment: []ComplianceItem{}}
}
