package content

import (
	"bytes"
	"encoding/base64"

	"github.com/medvault/medvault/constants"
)

// Payload is the canonical multimodal representation of a document sent to
// the extraction model: a self-describing data URI plus the broad kind.
type Payload struct {
	Kind     constants.FileFormat
	MimeType string
	DataURL  string
}

var (
	pngSignature  = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
	jpegSignature = []byte{0xFF, 0xD8}
	riffSignature = []byte("RIFF")
	webpSignature = []byte("WEBP")
)

// Adapt wraps raw file bytes into a Payload. Image bytes are sniffed by
// magic number (PNG, JPEG, WEBP) and default to image/jpeg when the
// signature is unrecognized; PDF bytes pass through as application/pdf.
// Adapt never fails: malformed bytes still produce a payload.
func Adapt(data []byte, format constants.FileFormat) Payload {
	if format == constants.PDF {
		return Payload{
			Kind:     constants.PDF,
			MimeType: "application/pdf",
			DataURL:  dataURL("application/pdf", data),
		}
	}
	mimeType := SniffImageMime(data)
	return Payload{
		Kind:     constants.IMAGE,
		MimeType: mimeType,
		DataURL:  dataURL(mimeType, data),
	}
}

// SniffImageMime inspects the leading bytes for a known image signature.
// Unrecognized content defaults to image/jpeg.
func SniffImageMime(data []byte) string {
	switch {
	case bytes.HasPrefix(data, pngSignature):
		return "image/png"
	case bytes.HasPrefix(data, jpegSignature):
		return "image/jpeg"
	case bytes.HasPrefix(data, riffSignature) && len(data) >= 12 && bytes.Equal(data[8:12], webpSignature):
		return "image/webp"
	default:
		return "image/jpeg"
	}
}

func dataURL(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
