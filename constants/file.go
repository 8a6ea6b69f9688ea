package constants

import "strings"

// AllowedExtensions holds the file extensions accepted for resume ingestion.
var AllowedExtensions = map[string]struct{}{
	"pdf":  {},
	"jpg":  {},
	"jpeg": {},
	"png":  {},
}

// DefaultMIMEType is used when a file's type cannot be determined.
// Resumes are overwhelmingly PDFs, so this matches the common case.
const DefaultMIMEType = "application/pdf"

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// IsAllowedExt reports whether a (possibly dotted, mixed-case) extension is
// within the documented ingestion contract.
func IsAllowedExt(ext string) bool {
	_, ok := AllowedExtensions[NormalizeExt(ext)]
	return ok
}

// MIMETypeForExt maps an extension to its MIME type, falling back to
// DefaultMIMEType for anything unknown.
func MIMETypeForExt(ext string) string {
	switch NormalizeExt(ext) {
	case "pdf":
		return "application/pdf"
	case "jpg", "jpeg":
		return "image/jpeg"
	case "png":
		return "image/png"
	default:
		return DefaultMIMEType
	}
}
