package llm

import (
	"fmt"
	"strings"

	"github.com/joseph-ayodele/submittal-review/constants"
)

var reviewSchema = MustCompileSchema("review.json", BuildReviewJSONSchema())

// Normalize converts raw provider output into a Normalized result. It never
// panics and never returns an error; unusable input sets ParseFailed.
func Normalize(raw string, mode constants.ProtocolVersion) (out Normalized) {
	out = Normalized{Mode: mode, Review: emptyReview()}
	defer func() {
		if r := recover(); r != nil {
			out = Normalized{
				Mode:        mode,
				Review:      emptyReview(),
				ParseFailed: true,
				Warnings:    []string{fmt.Sprintf("normalizer recovered: %v", r)},
			}
		}
	}()

	if mode == constants.ProtocolDetailed {
		return normalizeStructured(raw, out)
	}
	return normalizeLegacy(raw, out)
}

func normalizeStructured(raw string, out Normalized) Normalized {
	if strings.TrimSpace(raw) == "" {
		out.ParseFailed = true
		out.Warnings = append(out.Warnings, "empty response from model")
		return out
	}
	m, body, err := decodeObject(raw)
	if err != nil {
		out.ParseFailed = true
		out.Warnings = append(out.Warnings, fmt.Sprintf("response is not a JSON object: %v", err))
		return out
	}
	if vErr := reviewSchema.Validate(body); vErr != nil {
		out.Warnings = append(out.Warnings, firstLine(vErr.Error()))
	}
	review, warns := buildReview(m)
	out.Review = review
	out.Warnings = append(out.Warnings, warns...)
	return out
}

func normalizeLegacy(raw string, out Normalized) Normalized {
	sections, ok := ParseLegacy(raw)
	out.Legacy = sections
	if !ok {
		out.ParseFailed = true
		out.Warnings = append(out.Warnings, "no numbered sections found in response")
		return out
	}
	out.Review.SubmittalSummary = sections.ContentType
	out.Review.Recommendation.Comments = sections.Recommendation
	if d, ok := decisionFromProse(sections.Recommendation); ok {
		out.Review.Recommendation.Decision = d
	} else {
		out.Warnings = append(out.Warnings, "recommendation does not name a decision")
	}
	return out
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
