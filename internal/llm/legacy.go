package llm

import (
	"regexp"
	"strings"

	"github.com/joseph-ayodele/submittal-review/constants"
)

// SectionState is the section the legacy parser is currently filling.
type SectionState int

const (
	StateNone SectionState = iota
	StateContentType
	StateReview
	StateMissing
	StateRecommendation
)

func (s SectionState) String() string {
	switch s {
	case StateContentType:
		return "CONTENT_TYPE"
	case StateReview:
		return "REVIEW"
	case StateMissing:
		return "MISSING"
	case StateRecommendation:
		return "RECOMMENDATION"
	}
	return "NONE"
}

// LineKind is the classification of one line of legacy output.
type LineKind int

const (
	LineBlank LineKind = iota
	LineText
	LineHeadingContentType
	LineHeadingReview
	LineHeadingMissing
	LineHeadingRecommendation
)

func (k LineKind) IsHeading() bool { return k >= LineHeadingContentType }

var headingPrefixes = []struct {
	prefix string
	kind   LineKind
}{
	{"1. Type of", LineHeadingContentType},
	{"2. Compliance", LineHeadingReview},
	{"3. Missing", LineHeadingMissing},
	{"4. Recommendation", LineHeadingRecommendation},
}

// ClassifyLine maps a raw line to its kind. Headings are matched on their
// literal prefix after leading whitespace and markdown emphasis are removed.
func ClassifyLine(line string) LineKind {
	if strings.TrimSpace(line) == "" {
		return LineBlank
	}
	s := strings.TrimLeft(line, " \t#*_")
	for _, h := range headingPrefixes {
		if strings.HasPrefix(s, h.prefix) {
			return h.kind
		}
	}
	return LineText
}

// Transition is the pure state function of the legacy parser. It returns the
// next state and whether the line's text belongs to that state's section.
func Transition(state SectionState, kind LineKind) (next SectionState, keep bool) {
	switch kind {
	case LineHeadingContentType:
		return StateContentType, false
	case LineHeadingReview:
		return StateReview, false
	case LineHeadingMissing:
		return StateMissing, false
	case LineHeadingRecommendation:
		return StateRecommendation, false
	case LineText:
		return state, state != StateNone
	}
	return state, false
}

// ParseLegacy splits simple-protocol output into its four sections. Lines
// before the first heading are dropped; a repeated heading restarts its section.
func ParseLegacy(raw string) (LegacySections, bool) {
	sections := map[SectionState]*strings.Builder{}
	state := StateNone
	seen := false

	for _, line := range strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n") {
		kind := ClassifyLine(line)
		next, keep := Transition(state, kind)
		if kind.IsHeading() {
			sections[next] = &strings.Builder{}
			seen = true
		}
		state = next
		if keep {
			b := sections[state]
			b.WriteString(strings.TrimSpace(line))
			b.WriteString("\n")
		}
	}

	get := func(s SectionState) string {
		if b, ok := sections[s]; ok {
			return strings.TrimSpace(b.String())
		}
		return ""
	}
	return LegacySections{
		ContentType:    get(StateContentType),
		Review:         get(StateReview),
		MissingItems:   get(StateMissing),
		Recommendation: get(StateRecommendation),
	}, seen
}

// reNegatedVerdict matches a negation shortly before an approve, accept or
// reject verb, e.g. "do not approve", "cannot be approved", "not acceptable".
var reNegatedVerdict = regexp.MustCompile(`\b(?:do not|don't|cannot|can't|not|never)\b[a-z ]{0,20}?\b(approv|accept|reject)`)

// decisionFromProse infers a Decision from free-text recommendation. The most
// specific phrases are checked first. A negated approval only yields a
// decision when the text also rejects outright; otherwise it is left for the
// caller to flag.
func decisionFromProse(text string) (constants.Decision, bool) {
	s := strings.ToLower(text)
	if s == "" {
		return "", false
	}
	if strings.Contains(s, "revise and resubmit") || strings.Contains(s, "revise & resubmit") {
		return constants.ReviseAndResubmit, true
	}

	negApprove := strings.Contains(s, "unacceptable") || strings.Contains(s, "disapprov")
	negReject := false
	for _, m := range reNegatedVerdict.FindAllStringSubmatch(s, -1) {
		if m[1] == "reject" {
			negReject = true
		} else {
			negApprove = true
		}
	}
	rejects := strings.Contains(s, "reject") && !negReject

	switch {
	case negApprove && rejects:
		return constants.Rejected, true
	case negApprove:
		return "", false
	case strings.Contains(s, "approve with comments"), strings.Contains(s, "approved with comments"),
		strings.Contains(s, "approved as noted"):
		return constants.ApproveWithComments, true
	case rejects:
		return constants.Rejected, true
	case strings.Contains(s, "approve"):
		return constants.Approve, true
	}
	return "", false
}
