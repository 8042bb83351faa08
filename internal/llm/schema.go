package llm

import "github.com/joseph-ayodele/submittal-review/constants"

// BuildReviewJSONSchema returns the JSON-Schema of a detailed review as a generic map.
// It is used locally to report where the model drifted from the contract; enum
// drift is tolerated here and coerced later.
func BuildReviewJSONSchema() map[string]any {
	item := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"requirement":   map[string]any{"type": "string"},
			"submittalInfo": map[string]any{"type": "string"},
			"status":        map[string]any{"type": "string"},
		},
		"required": []string{"requirement", "status"},
	}
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"submittalSummary": map[string]any{"type": "string"},
			"applicableSpecs":  map[string]any{"type": []string{"string", "array"}},
			"complianceAssessment": map[string]any{
				"type":  "array",
				"items": item,
			},
			"criticalIssues": map[string]any{"type": []string{"string", "array"}},
			"recommendation": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"decision": map[string]any{"type": "string"},
					"comments": map[string]any{"type": "string"},
				},
				"required": []string{"decision"},
			},
		},
		"required": []string{"submittalSummary", "complianceAssessment", "recommendation"},
	}
}

// BuildStrictReviewJSONSchema pins status to its enum and requires a
// non-empty decision. Decisions outside the enum are kept verbatim by the
// normalizer, so they are not rejected here.
func BuildStrictReviewJSONSchema() map[string]any {
	s := BuildReviewJSONSchema()
	props := s["properties"].(map[string]any)
	ca := props["complianceAssessment"].(map[string]any)
	itemProps := ca["items"].(map[string]any)["properties"].(map[string]any)
	itemProps["status"] = map[string]any{"type": "string", "enum": constants.StatusStrings()}
	recProps := props["recommendation"].(map[string]any)["properties"].(map[string]any)
	recProps["decision"] = map[string]any{"type": "string", "minLength": 1}
	return s
}
