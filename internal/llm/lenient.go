package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/joseph-ayodele/submittal-review/constants"
)

// key aliases seen in model output, mapped to canonical field names
var fieldSynonyms = map[string]string{
	"submittal_summary":     "submittalSummary",
	"summary":               "submittalSummary",
	"applicable_specs":      "applicableSpecs",
	"applicableSections":    "applicableSpecs",
	"compliance_assessment": "complianceAssessment",
	"compliance":            "complianceAssessment",
	"critical_issues":       "criticalIssues",
	"issues":                "criticalIssues",
	"submittal_info":        "submittalInfo",
	"submittalInformation":  "submittalInfo",
}

// stripFences removes a surrounding ```json ... ``` block and any prose
// outside the outermost braces.
func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		if nl := strings.IndexByte(s, '\n'); nl >= 0 {
			s = s[nl+1:]
		} else {
			s = strings.TrimPrefix(s, "```")
		}
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
		s = strings.TrimSpace(s)
	}
	if !strings.HasPrefix(s, "{") {
		start, end := strings.IndexByte(s, '{'), strings.LastIndexByte(s, '}')
		if start >= 0 && end > start {
			s = s[start : end+1]
		}
	}
	return s
}

// decodeObject parses raw into a JSON object with canonical key names.
func decodeObject(raw string) (map[string]any, []byte, error) {
	body := []byte(stripFences(raw))
	var m map[string]any
	if err := json.Unmarshal(body, &m); err != nil {
		return nil, nil, err
	}
	if m == nil {
		return nil, nil, fmt.Errorf("json is not an object")
	}
	return canonicalKeys(m), body, nil
}

func canonicalKeys(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if canon, ok := fieldSynonyms[k]; ok {
			if _, exists := m[canon]; !exists {
				out[canon] = v
				continue
			}
		}
		out[k] = v
	}
	return out
}

// asText flattens scalars and lists of scalars into a string.
// The bool is false when v had to be re-encoded from an unexpected shape.
func asText(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", true
	case string:
		return strings.TrimSpace(t), true
	case float64, bool:
		return fmt.Sprint(t), true
	case []any:
		parts := lo.FilterMap(t, func(item any, _ int) (string, bool) {
			s, _ := asText(item)
			return s, s != ""
		})
		return strings.Join(parts, "\n"), true
	default:
		b, _ := json.Marshal(t)
		return string(b), false
	}
}

// buildReview turns a decoded object into a ReviewResult, coercing enums and
// filling defaults. Every coercion that loses information yields a warning.
func buildReview(m map[string]any) (ReviewResult, []string) {
	var warns []string
	out := emptyReview()

	text := func(field string) string {
		s, ok := asText(m[field])
		if !ok {
			warns = append(warns, fmt.Sprintf("%s had an unexpected shape and was re-encoded", field))
		}
		return s
	}

	out.SubmittalSummary = text("submittalSummary")
	out.ApplicableSpecs = text("applicableSpecs")
	out.CriticalIssues = text("criticalIssues")
	if out.CriticalIssues == "" {
		out.CriticalIssues = constants.NoCriticalIssues
	}

	switch items := m["complianceAssessment"].(type) {
	case nil:
	case []any:
		for i, raw := range items {
			item, w := buildItem(i, raw)
			out.ComplianceAssessment = append(out.ComplianceAssessment, item)
			warns = append(warns, w...)
		}
	default:
		warns = append(warns, "complianceAssessment is not a list and was ignored")
	}

	rec, w := buildRecommendation(m["recommendation"])
	out.Recommendation = rec
	warns = append(warns, w...)
	return out, warns
}

func buildItem(i int, raw any) (ComplianceItem, []string) {
	obj, ok := raw.(map[string]any)
	if !ok {
		s, _ := asText(raw)
		return ComplianceItem{Requirement: s, Status: constants.InformationMissing},
			[]string{fmt.Sprintf("complianceAssessment[%d] is not an object; status set to %s", i, constants.InformationMissing)}
	}
	obj = canonicalKeys(obj)
	req, _ := asText(obj["requirement"])
	info, _ := asText(obj["submittalInfo"])
	rawStatus, _ := asText(obj["status"])

	item := ComplianceItem{Requirement: req, SubmittalInfo: info}
	status, ok := constants.CanonicalizeStatus(rawStatus)
	item.Status = status
	if !ok {
		return item, []string{fmt.Sprintf("complianceAssessment[%d].status %q not recognized; set to %s", i, rawStatus, status)}
	}
	return item, nil
}

func buildRecommendation(raw any) (Recommendation, []string) {
	var rec Recommendation
	var rawDecision string
	switch t := raw.(type) {
	case nil:
		return rec, []string{"recommendation missing"}
	case string:
		rawDecision = t
	case map[string]any:
		rawDecision, _ = asText(t["decision"])
		rec.Comments, _ = asText(t["comments"])
	default:
		return rec, []string{"recommendation has an unexpected shape"}
	}

	decision, ok := constants.CanonicalizeDecision(rawDecision)
	rec.Decision = decision
	if !ok {
		if rawDecision == "" {
			return rec, []string{"recommendation.decision missing"}
		}
		return rec, []string{fmt.Sprintf("recommendation.decision %q not recognized; kept as literal", rawDecision)}
	}
	return rec, nil
}
