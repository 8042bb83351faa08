package ingest

import (
	"path/filepath"
	"regexp"
	"strings"
)

var reUnsafeName = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// DisplayName is the client's file name without any directory part, as
// shown to the model. It is never used to build a path.
func DisplayName(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if base == "." || base == "/" {
		return ""
	}
	return strings.TrimSpace(base)
}

// SanitizeFilename reduces a client-supplied name to a safe base name.
func SanitizeFilename(name string) string {
	base := reUnsafeName.ReplaceAllString(DisplayName(name), "_")
	base = strings.Trim(base, "._")
	if base == "" {
		return "upload.pdf"
	}
	if len(base) > 100 {
		ext := filepath.Ext(base)
		if len(ext) > 10 {
			ext = ""
		}
		base = base[:100-len(ext)] + ext
	}
	return base
}
