package llm

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/submittal-review/constants"
)

const wellFormedReview = `{
  "submittalSummary": "Mirafi 140N nonwoven geotextile fabric",
  "applicableSpecs": "Section 31 05 19 - Geotextiles",
  "complianceAssessment": [
    {"requirement": "2.1.A Grab tensile strength 120 lb", "submittalInfo": "Grab tensile 120 lb", "status": "COMPLIANT"},
    {"requirement": "2.1.B UV resistance 70%", "submittalInfo": "Not stated", "status": "INFORMATION_MISSING"}
  ],
  "criticalIssues": "UV resistance not documented",
  "recommendation": {"decision": "APPROVE_WITH_COMMENTS", "comments": "Provide UV data."}
}`

func TestNormalize_LegacySections(t *testing.T) {
	raw := "1. Type of X\nfoo\n2. Compliance\nbar\n3. Missing\nbaz\n4. Recommendation\nqux"
	n := Normalize(raw, constants.ProtocolSimple)

	assert.False(t, n.ParseFailed)
	assert.Equal(t, LegacySections{
		ContentType:    "foo",
		Review:         "bar",
		MissingItems:   "baz",
		Recommendation: "qux",
	}, n.Legacy)
}

func TestParseLegacy(t *testing.T) {
	raw := "Here is my review.\n" +
		"**1. Type of submittal content provided:**\n" +
		"  Product data  \n\n" +
		"Shop drawings\n" +
		"2. Compliance review of submitted content:\n" +
		"Meets 2.1.A\n" +
		"4. Recommendation: Approve\n" +
		"Approve - product data meets spec\n"

	s, ok := ParseLegacy(raw)
	require.True(t, ok)
	assert.Equal(t, "Product data\nShop drawings", s.ContentType)
	assert.Equal(t, "Meets 2.1.A", s.Review)
	assert.Equal(t, "", s.MissingItems)
	assert.Equal(t, "Approve - product data meets spec", s.Recommendation)
}

func TestParseLegacy_RepeatedHeadingRestartsSection(t *testing.T) {
	s, ok := ParseLegacy("2. Compliance\nfirst\n2. Compliance again\nsecond")
	require.True(t, ok)
	assert.Equal(t, "second", s.Review)
}

func TestTransition(t *testing.T) {
	tests := []struct {
		state SectionState
		kind  LineKind
		next  SectionState
		keep  bool
	}{
		{StateNone, LineText, StateNone, false},
		{StateNone, LineBlank, StateNone, false},
		{StateNone, LineHeadingReview, StateReview, false},
		{StateReview, LineText, StateReview, true},
		{StateReview, LineBlank, StateReview, false},
		{StateReview, LineHeadingMissing, StateMissing, false},
		{StateMissing, LineHeadingContentType, StateContentType, false},
		{StateRecommendation, LineText, StateRecommendation, true},
	}
	for _, tt := range tests {
		t.Run(tt.state.String(), func(t *testing.T) {
			next, keep := Transition(tt.state, tt.kind)
			assert.Equal(t, tt.next, next)
			assert.Equal(t, tt.keep, keep)
		})
	}
}

func TestClassifyLine(t *testing.T) {
	assert.Equal(t, LineHeadingContentType, ClassifyLine("1. Type of submittal"))
	assert.Equal(t, LineHeadingContentType, ClassifyLine("### 1. Type of submittal"))
	assert.Equal(t, LineHeadingReview, ClassifyLine("2. Compliance review"))
	assert.Equal(t, LineHeadingMissing, ClassifyLine("3. Missing requirements"))
	assert.Equal(t, LineHeadingRecommendation, ClassifyLine("4. Recommendation:"))
	assert.Equal(t, LineText, ClassifyLine("5. Other notes"))
	assert.Equal(t, LineText, ClassifyLine("Type of product"))
	assert.Equal(t, LineBlank, ClassifyLine("   \t"))
}

func TestNormalize_LegacyDecision(t *testing.T) {
	n := Normalize("1. Type of content\nProduct data\n4. Recommendation\nRevise and Resubmit: wrong gauge", constants.ProtocolSimple)
	assert.Equal(t, constants.ReviseAndResubmit, n.Review.Recommendation.Decision)
	assert.Equal(t, "Product data", n.Review.SubmittalSummary)

	n = Normalize("1. Type of content\nProduct data", constants.ProtocolSimple)
	assert.Empty(t, n.Review.Recommendation.Decision)
	assert.NotEmpty(t, n.Warnings)
	assert.False(t, n.ParseFailed)
}

func TestNormalize_LegacyNegatedRecommendation(t *testing.T) {
	tests := []struct {
		name string
		text string
		want constants.Decision
	}{
		{"do not approve", "Do not approve; the product is not acceptable.", ""},
		{"cannot be approved", "Cannot be approved in its current form.", ""},
		{"don't accept", "We don't accept the substitution as submitted.", ""},
		{"unacceptable without verdict", "The gauge is unacceptable.", ""},
		{"not acceptable then reject", "Not acceptable. Reject the submittal.", constants.Rejected},
		{"unacceptable and rejected", "The submittal is unacceptable and should be rejected.", constants.Rejected},
		{"negated reject", "Do not reject; approve as submitted.", constants.Approve},
		{"revise wins", "Revise and resubmit, do not approve the anchors.", constants.ReviseAndResubmit},
		{"approved as noted", "Approved as noted.", constants.ApproveWithComments},
		{"plain approve", "Approve", constants.Approve},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := Normalize("1. Type of content\nProduct data\n4. Recommendation\n"+tt.text, constants.ProtocolSimple)
			assert.Equal(t, tt.want, n.Review.Recommendation.Decision)
			if tt.want == "" {
				assert.Contains(t, n.Warnings, "recommendation does not name a decision")
			} else {
				assert.NotContains(t, n.Warnings, "recommendation does not name a decision")
			}
		})
	}
}

func TestNormalize_LegacyWithoutSectionsFlagsParseFailure(t *testing.T) {
	n := Normalize("I cannot review these documents.", constants.ProtocolSimple)
	assert.True(t, n.ParseFailed)
	assert.Equal(t, LegacySections{}, n.Legacy)
}

func TestNormalize_StructuredWellFormed(t *testing.T) {
	n := Normalize(wellFormedReview, constants.ProtocolDetailed)

	require.False(t, n.ParseFailed)
	assert.Empty(t, n.Warnings)

	var want ReviewResult
	require.NoError(t, json.Unmarshal([]byte(wellFormedReview), &want))
	assert.Equal(t, want, n.Review)
}

func TestNormalize_StructuredMissingCriticalIssues(t *testing.T) {
	raw := `{"submittalSummary":"Pump","complianceAssessment":[],"recommendation":{"decision":"APPROVE","comments":""}}`
	n := Normalize(raw, constants.ProtocolDetailed)

	assert.False(t, n.ParseFailed)
	assert.Equal(t, constants.NoCriticalIssues, n.Review.CriticalIssues)
	assert.Equal(t, "", n.Review.ApplicableSpecs)
	assert.NotNil(t, n.Review.ComplianceAssessment)
	assert.Empty(t, n.Review.ComplianceAssessment)
}

func TestNormalize_StructuredCoercesEnums(t *testing.T) {
	raw := "```json\n" + `{
	  "submittalSummary": "Valve",
	  "complianceAssessment": [
	    {"requirement": "a", "submittalInfo": "x", "status": "NON-COMPLIANT"},
	    {"requirement": "b", "submittalInfo": "y", "status": "Partially Compliant"},
	    {"requirement": "c", "submittalInfo": "z", "status": "looks okay"}
	  ],
	  "recommendation": {"decision": "Revise and Resubmit", "comments": "fix a"}
	}` + "\n```"
	n := Normalize(raw, constants.ProtocolDetailed)

	require.False(t, n.ParseFailed)
	require.Len(t, n.Review.ComplianceAssessment, 3)
	assert.Equal(t, constants.NonCompliant, n.Review.ComplianceAssessment[0].Status)
	assert.Equal(t, constants.PartiallyCompliant, n.Review.ComplianceAssessment[1].Status)
	assert.Equal(t, constants.InformationMissing, n.Review.ComplianceAssessment[2].Status)
	assert.Equal(t, constants.ReviseAndResubmit, n.Review.Recommendation.Decision)
	assert.Len(t, n.Warnings, 1)
	assert.Contains(t, n.Warnings[0], "looks okay")
}

func TestNormalize_StructuredUnknownDecisionKeptLiteral(t *testing.T) {
	raw := `{"submittalSummary":"x","complianceAssessment":[],"recommendation":{"decision":"Hold","comments":""}}`
	n := Normalize(raw, constants.ProtocolDetailed)

	assert.Equal(t, constants.Decision("Hold"), n.Review.Recommendation.Decision)
	require.Len(t, n.Warnings, 1)
	assert.Contains(t, n.Warnings[0], "Hold")
}

func TestNormalize_StructuredLenientShapes(t *testing.T) {
	raw := `{
	  "submittal_summary": "Geogrid",
	  "applicableSpecs": ["31 05 19", "31 32 19"],
	  "complianceAssessment": [],
	  "critical_issues": ["none major"],
	  "recommendation": "APPROVED"
	}`
	n := Normalize(raw, constants.ProtocolDetailed)

	assert.False(t, n.ParseFailed)
	assert.Equal(t, "Geogrid", n.Review.SubmittalSummary)
	assert.Equal(t, "31 05 19\n31 32 19", n.Review.ApplicableSpecs)
	assert.Equal(t, "none major", n.Review.CriticalIssues)
	assert.Equal(t, constants.Approve, n.Review.Recommendation.Decision)
}

func TestNormalize_StructuredGarbageNeverPanics(t *testing.T) {
	inputs := []string{
		"",
		"not json at all",
		"{",
		"[1,2,3]",
		"null",
		`{"complianceAssessment": "everything is fine"}`,
		`{"complianceAssessment": [42, null, {"status": 7}]}`,
		"\x00\xff\xfe",
	}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			assert.NotPanics(t, func() {
				n := Normalize(in, constants.ProtocolDetailed)
				assert.NotNil(t, n.Review.ComplianceAssessment)
			})
		})
	}

	n := Normalize("The model refused.", constants.ProtocolDetailed)
	assert.True(t, n.ParseFailed)
	assert.NotEmpty(t, n.Warnings)

	n = Normalize(`{"complianceAssessment": [42, null, {"status": 7}]}`, constants.ProtocolDetailed)
	assert.False(t, n.ParseFailed)
	require.Len(t, n.Review.ComplianceAssessment, 3)
	for _, item := range n.Review.ComplianceAssessment {
		assert.Equal(t, constants.InformationMissing, item.Status)
	}
}
