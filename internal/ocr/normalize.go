package ocr

import (
	"regexp"
	"strings"
)

var (
	reCRLF       = regexp.MustCompile(`\r\n?|\f`)
	reHSpace     = regexp.MustCompile(`[ \t\x{00A0}]{2,}|\t`)
	reMultiBlank = regexp.MustCompile(`\n{3,}`)
	reRuleLine   = regexp.MustCompile(`(?m)^[ \t]*[_\-=]{3,}[ \t]*$`)
)

// CleanOCRText collapses the whitespace noise tesseract leaves behind and
// drops ruled form lines. Line breaks are kept; runs of blank lines become one.
func CleanOCRText(s string) string {
	if s == "" {
		return s
	}
	s = reCRLF.ReplaceAllString(s, "\n")
	s = reRuleLine.ReplaceAllString(s, "")
	s = reHSpace.ReplaceAllString(s, " ")

	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " ")
	}
	s = strings.Join(lines, "\n")
	s = reMultiBlank.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
