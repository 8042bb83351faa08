package llm

import (
	"strings"
	"unicode/utf8"

	"github.com/joseph-ayodele/submittal-review/constants"
	"github.com/joseph-ayodele/submittal-review/internal/common"
)

// ReviewRequest is the input to a single review.
type ReviewRequest struct {
	SubmittalText string
	SpecText      string
	SubmittalName string
	SpecName      string
	APIKey        common.Secret
	ModelID       string
	Protocol      constants.ProtocolVersion
}

// TruncateText cuts s to budget runes and appends the truncation notice.
// The bool reports whether anything was cut.
func TruncateText(s string, budget int) (string, bool) {
	if budget <= 0 || utf8.RuneCountInString(s) <= budget {
		return s, false
	}
	n := 0
	for i := range s {
		if n == budget {
			return s[:i] + constants.TruncationNotice, true
		}
		n++
	}
	return s, false
}

// BuildReviewMessages returns the system and user messages for req.Protocol.
// Output depends only on the text, names and protocol of req.
func BuildReviewMessages(req ReviewRequest) []Message {
	budget := req.Protocol.TextBudget()
	spec, _ := TruncateText(req.SpecText, budget)
	submittal, _ := TruncateText(req.SubmittalText, budget)

	if req.Protocol == constants.ProtocolDetailed {
		return []Message{
			{Role: RoleSystem, Content: detailedSystemPrompt()},
			{Role: RoleUser, Content: detailedUserPrompt(req.SpecName, spec, req.SubmittalName, submittal)},
		}
	}
	return []Message{
		{Role: RoleSystem, Content: simpleSystemPrompt},
		{Role: RoleUser, Content: simpleUserPrompt(req.SpecName, spec, req.SubmittalName, submittal)},
	}
}

const simpleSystemPrompt = "You are an experienced construction submittal reviewer who understands that submittals often come in phases. " +
	"Focus on reviewing what is submitted rather than what is still pending."

func simpleUserPrompt(specName, spec, submittalName, submittal string) string {
	parts := []string{
		"You are reviewing a construction submittal package against specification requirements.",
		"",
		"SPECIFICATION (" + displayName(specName) + "):",
		spec,
		"",
		"SUBMITTAL (" + displayName(submittalName) + "):",
		submittal,
		"",
		"Important Review Guidelines:",
		"1. First identify the specific product(s) actually submitted, then evaluate only the specification sections that apply to them",
		"2. Focus on evaluating the content that IS provided in the submittal, not what's missing",
		"3. Only recommend \"Revise and Resubmit\" if the submitted content itself fails to meet specifications",
		"4. If the submittal only contains product data but meets the product requirements, mark it \"Approved\" even if the spec calls for additional items like shop drawings",
		"5. Clearly indicate what type of submittal content was provided (e.g., product data, shop drawings, samples)",
		"6. Note any missing requirements as \"Additional Submittals Required\" rather than reasons for rejection",
		"",
		"Respond using exactly these four numbered headings, each at the start of its own line:",
		"1. Type of submittal content provided: (identify what was actually submitted)",
		"2. Compliance review of submitted content: (evaluate only the content that was provided)",
		"3. Missing requirements: (list as \"Additional Submittals Required\", not as deficiencies)",
		"4. Recommendation: (Approve/Reject/Revise and Resubmit)",
		"   - \"Approve\" if the submitted content meets specifications",
		"   - \"Revise and Resubmit\" only if the submitted content itself fails to meet specifications",
		"   - \"Reject\" if the submitted content is fundamentally incorrect or unsuitable",
	}
	return strings.Join(parts, "\n")
}

func detailedSystemPrompt() string {
	statuses := strings.Join(constants.StatusStrings(), " or ")
	decisions := strings.Join(constants.DecisionStrings(), " or ")
	parts := []string{
		"You are a construction specification reviewer assistant specialized in reviewing submittals against specifications.",
		"",
		"IMPORTANT - READ CAREFULLY:",
		"- The SPECIFICATION document covers requirements for multiple potential products/materials",
		"- The SUBMITTAL document is typically for a SPECIFIC PRODUCT or set of products, NOT everything in the spec",
		"- Your task is to:",
		"  1. Identify what specific product(s) are being submitted",
		"  2. Find requirements in the specification that specifically apply to those submitted products",
		"  3. Check if the submittal meets those specific requirements",
		"",
		"When reviewing:",
		"- DO NOT expect the submittal to meet ALL requirements in the specification",
		"- ONLY evaluate against requirements that apply to the product(s) being submitted",
		"- Judge only the content actually submitted; list requirements the submittal does not address as \"Additional Submittals Required\", not as deficiencies",
		"",
		"You MUST return a single JSON object and nothing else, with exactly these fields:",
		"{",
		`  "submittalSummary": "Clear identification of what specific product(s) are being submitted",`,
		`  "applicableSpecs": "Specification sections that SPECIFICALLY APPLY to the submitted product(s)",`,
		`  "complianceAssessment": [`,
		"    {",
		`      "requirement": "Section X.X: exact requirement FROM THE SPECIFICATION that applies to the submitted product",`,
		`      "submittalInfo": "What the submittal provides related to this requirement",`,
		`      "status": "` + statuses + `"`,
		"    }",
		"  ],",
		`  "criticalIssues": "Non-compliance issues requiring attention, or '` + constants.NoCriticalIssues + `' if none",`,
		`  "recommendation": {`,
		`    "decision": "` + decisions + `",`,
		`    "comments": "Explanation of the decision with specific items that need correction"`,
		"  }",
		"}",
		"",
		"RULES:",
		"- status MUST be exactly one of: " + strings.Join(constants.StatusStrings(), ", "),
		"- decision MUST be exactly one of: " + strings.Join(constants.DecisionStrings(), ", "),
		"- Only list requirements that specifically apply to the submitted products",
		"- Ensure section references are accurate from the specification document",
	}
	return strings.Join(parts, "\n")
}

func detailedUserPrompt(specName, spec, submittalName, submittal string) string {
	parts := []string{
		"Please review this submittal document against the specification document to determine compliance:",
		"",
		"SPECIFICATION DOCUMENT (" + displayName(specName) + "):",
		"This document contains requirements for various products/materials:",
		spec,
		"",
		"SUBMITTAL DOCUMENT (" + displayName(submittalName) + "):",
		"This document is submitting specific product(s) for approval:",
		submittal,
		"",
		"First identify what specific product(s) are being submitted, then check if they comply with the applicable requirements for those specific products in the specification.",
		"Judge only the content actually submitted. Classify missing requirements as \"Additional Submittals Required\" rather than as deficiencies.",
	}
	return strings.Join(parts, "\n")
}

func displayName(name string) string {
	if n := strings.TrimSpace(name); n != "" {
		return n
	}
	return "unnamed.pdf"
}
