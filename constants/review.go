package constants

import (
	"strings"
)

// ComplianceStatus is the verdict for a single requirement.
type ComplianceStatus string

const (
	Compliant          ComplianceStatus = "COMPLIANT"
	NonCompliant       ComplianceStatus = "NON_COMPLIANT"
	PartiallyCompliant ComplianceStatus = "PARTIALLY_COMPLIANT"
	InformationMissing ComplianceStatus = "INFORMATION_MISSING"
)

var allStatuses = []ComplianceStatus{
	Compliant,
	NonCompliant,
	PartiallyCompliant,
	InformationMissing,
}

// Decision is the overall recommendation for a submittal.
type Decision string

const (
	Approve             Decision = "APPROVE"
	ApproveWithComments Decision = "APPROVE_WITH_COMMENTS"
	ReviseAndResubmit   Decision = "REVISE_AND_RESUBMIT"
	Rejected            Decision = "REJECTED"
)

var allDecisions = []Decision{
	Approve,
	ApproveWithComments,
	ReviseAndResubmit,
	Rejected,
}

func StatusStrings() []string {
	result := make([]string, len(allStatuses))
	for i, s := range allStatuses {
		result[i] = string(s)
	}
	return result
}

func DecisionStrings() []string {
	result := make([]string, len(allDecisions))
	for i, d := range allDecisions {
		result[i] = string(d)
	}
	return result
}

var statusSynonyms = map[string]ComplianceStatus{
	"COMPLIES":          Compliant,
	"COMPLIANCE":        Compliant,
	"MEETS":             Compliant,
	"NOT_COMPLIANT":     NonCompliant,
	"NONCOMPLIANT":      NonCompliant,
	"DOES_NOT_COMPLY":   NonCompliant,
	"PARTIAL":           PartiallyCompliant,
	"PARTIALLY":         PartiallyCompliant,
	"PARTIAL_COMPLIANT": PartiallyCompliant,
	"MISSING":           InformationMissing,
	"INFO_MISSING":      InformationMissing,
	"NOT_PROVIDED":      InformationMissing,
	"UNKNOWN":           InformationMissing,
}

var decisionSynonyms = map[string]Decision{
	"APPROVED":               Approve,
	"ACCEPT":                 Approve,
	"ACCEPTED":               Approve,
	"APPROVED_WITH_COMMENTS": ApproveWithComments,
	"APPROVED_AS_NOTED":      ApproveWithComments,
	"APPROVE_AS_NOTED":       ApproveWithComments,
	"REVISE_AND_RE_SUBMIT":   ReviseAndResubmit,
	"REVISE_RESUBMIT":        ReviseAndResubmit,
	"REVISE":                 ReviseAndResubmit,
	"RESUBMIT":               ReviseAndResubmit,
	"REJECT":                 Rejected,
	"REJECTION":              Rejected,
	"DENIED":                 Rejected,
	"NOT_APPROVED":           Rejected,
}

// enumKey folds case and treats spaces, hyphens and underscores as equivalent.
func enumKey(input string) string {
	s := strings.ToUpper(strings.TrimSpace(input))
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '\t':
			return '_'
		case '.', '"', '\'':
			return -1
		}
		return r
	}, s)
	for strings.Contains(s, "__") {
		s = strings.ReplaceAll(s, "__", "_")
	}
	return strings.Trim(s, "_")
}

// CanonicalizeStatus maps provider text onto a ComplianceStatus.
// The bool is false when nothing matched; the returned status is then InformationMissing.
func CanonicalizeStatus(input string) (ComplianceStatus, bool) {
	key := enumKey(input)
	if key == "" {
		return InformationMissing, false
	}
	for _, s := range allStatuses {
		if key == string(s) {
			return s, true
		}
	}
	if s, ok := statusSynonyms[key]; ok {
		return s, true
	}
	return InformationMissing, false
}

// CanonicalizeDecision maps provider text onto a Decision.
// The bool is false when nothing matched; callers keep the literal in that case.
func CanonicalizeDecision(input string) (Decision, bool) {
	key := enumKey(input)
	if key == "" {
		return "", false
	}
	for _, d := range allDecisions {
		if key == string(d) {
			return d, true
		}
	}
	if d, ok := decisionSynonyms[key]; ok {
		return d, true
	}
	return Decision(strings.TrimSpace(input)), false
}
