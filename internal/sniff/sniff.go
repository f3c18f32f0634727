// Package sniff labels stored document blobs with a MIME type from their
// leading bytes. It never rejects a blob.
package sniff

import "bytes"

const (
	PDF         = "application/pdf"
	PNG         = "image/png"
	JPEG        = "image/jpeg"
	Text        = "text/plain"
	OctetStream = "application/octet-stream"
)

// asciiWindow is how many leading bytes the text check inspects.
const asciiWindow = 100

var (
	pdfMagic  = []byte{0x25, 0x50, 0x44, 0x46}
	pngMagic  = []byte{0x89, 0x50, 0x4E, 0x47}
	jpegMagic = []byte{0xFF, 0xD8, 0xFF}
)

// ContentType returns a best-effort MIME type for data. Checks run in a fixed
// priority order and the first match wins.
func ContentType(data []byte) string {
	switch {
	case len(data) > 4 && bytes.HasPrefix(data, pdfMagic):
		return PDF
	case bytes.HasPrefix(data, pngMagic):
		return PNG
	case bytes.HasPrefix(data, jpegMagic):
		return JPEG
	case isASCII(data):
		return Text
	default:
		return OctetStream
	}
}

func isASCII(data []byte) bool {
	if len(data) > asciiWindow {
		data = data[:asciiWindow]
	}
	for _, b := range data {
		if b > 0x7F {
			return false
		}
	}
	return true
}

// Extension returns the file extension used when naming a blob of the given
// sniffed type.
func Extension(contentType string) string {
	switch contentType {
	case PDF:
		return ".pdf"
	case PNG:
		return ".png"
	case JPEG:
		return ".jpg"
	case Text:
		return ".txt"
	default:
		return ".bin"
	}
}
