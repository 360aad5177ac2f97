package constants

import "strings"

// FileFormat is the broad payload shape sent to the extraction model.
type FileFormat string

const (
	PDF   FileFormat = "pdf"
	IMAGE FileFormat = "image"
)

// AllowedExtensions holds the default allowed file extensions for document
// uploads.
var AllowedExtensions = map[string]struct{}{
	"pdf":  {},
	"png":  {},
	"jpg":  {},
	"jpeg": {},
	"webp": {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MapExtToFormat returns the file format for an extension, or "" when the
// extension is not supported.
func MapExtToFormat(ext string) FileFormat {
	switch NormalizeExt(ext) {
	case "pdf":
		return PDF
	case "png", "jpg", "jpeg", "webp":
		return IMAGE
	default:
		return ""
	}
}
