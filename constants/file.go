package constants

import "strings"

// PDFMimeType is the only accepted upload content type.
const PDFMimeType = "application/pdf"

// AllowedExtensions holds the file extensions accepted for review uploads.
var AllowedExtensions = map[string]struct{}{
	"pdf": {},
}

// DefaultMaxUploadBytes is the request body ceiling for analyze uploads.
const DefaultMaxUploadBytes = 10 * 1024 * 1024

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// IsAllowedExt reports whether ext (with or without a dot) is accepted.
func IsAllowedExt(ext string) bool {
	_, ok := AllowedExtensions[NormalizeExt(ext)]
	return ok
}
