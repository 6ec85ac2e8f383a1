package llm

import (
	"encoding/base64"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// ImageDataURL embeds image bytes as a data URI, sniffing the MIME type.
func ImageDataURL(image []byte) (dataURL, mimeType string) {
	mimeType = mimetype.Detect(image).String()
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = mimeType[:i]
	}
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(image), mimeType
}
