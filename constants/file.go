package constants

import "strings"

// PDFContentType is the only upload type the pipeline accepts.
const PDFContentType = "application/pdf"

// AllowedExtensions holds the file extensions picked up by directory ingest.
var AllowedExtensions = map[string]struct{}{
	"pdf": {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// ImageBasedWordThreshold is the word count below which a PDF is assumed to
// be scanned images rather than selectable text.
const ImageBasedWordThreshold = 20
