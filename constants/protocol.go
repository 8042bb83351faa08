package constants

import "strings"

// ProtocolVersion selects the prompt and output shape of a review.
type ProtocolVersion string

const (
	// ProtocolSimple asks for four numbered free-text sections.
	ProtocolSimple ProtocolVersion = "simple"
	// ProtocolDetailed asks for a JSON object with itemized findings.
	ProtocolDetailed ProtocolVersion = "detailed"
)

// Per-document character budgets applied before text is embedded in a prompt.
const (
	SimpleTextBudget   = 2000
	DetailedTextBudget = 15000
)

// TruncationNotice is appended to any document text cut to fit its budget.
const TruncationNotice = "... [content truncated due to length]"

// NoCriticalIssues fills criticalIssues when the model omits it.
const NoCriticalIssues = "No critical issues identified"

const DefaultMaxTokens = 4000

// TextBudget returns the per-document character budget for p.
func (p ProtocolVersion) TextBudget() int {
	if p == ProtocolDetailed {
		return DetailedTextBudget
	}
	return SimpleTextBudget
}

// WantsJSON reports whether the provider should be asked for a JSON object.
func (p ProtocolVersion) WantsJSON() bool {
	return p == ProtocolDetailed
}

func ParseProtocol(s string) (ProtocolVersion, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "simple", "legacy", "text":
		return ProtocolSimple, true
	case "detailed", "json", "structured":
		return ProtocolDetailed, true
	}
	return ProtocolSimple, false
}
