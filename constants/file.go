package constants

import "strings"

// MaxUploadBytes is the default ceiling for a single uploaded document.
const MaxUploadBytes = 16 << 20 // 16 MiB

// PDFSignature is the magic prefix every well-formed PDF starts with.
const PDFSignature = "%PDF-"

// MediaTypePDF is the only media type the loader accepts.
const MediaTypePDF = "application/pdf"

// AllowedExtensions holds the file extensions accepted for upload.
var AllowedExtensions = map[string]struct{}{
	"pdf": {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
