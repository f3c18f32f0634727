// validation.go - Upload allow-list and size ceiling for task-history documents.
package server

import (
	"fmt"
	"mime"
	"strings"

	"task-tracker/internal/errutil"
)

// maxUploadBytes is the largest document accepted with a task-history record.
const maxUploadBytes = 5 * 1024 * 1024

// maxFormBytes bounds the whole multipart body: the document plus room for
// the text fields and part headers.
const maxFormBytes = maxUploadBytes + 1024*1024

// allowedMimeTypes defines file types permitted for upload
var allowedMimeTypes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"image/jpeg": true,
	"image/png":  true,
	"text/plain": true,
}

// ValidateUploadMimeType checks the Content-Type the client declared for the
// document part. Parameters such as charset are ignored.
func ValidateUploadMimeType(clientContentType string) error {
	mediaType, _, err := mime.ParseMediaType(clientContentType)
	if err != nil {
		mediaType = strings.TrimSpace(clientContentType)
	}
	mediaType = strings.ToLower(mediaType)

	if !allowedMimeTypes[mediaType] {
		return errutil.FileType("Invalid file type. Only PDF, DOC, DOCX, JPEG, PNG and TXT files are allowed")
	}
	return nil
}

// ValidateUploadSize enforces maxUploadBytes.
func ValidateUploadSize(size int64) error {
	if size > maxUploadBytes {
		return errutil.FileSize(fmt.Sprintf("File too large. Maximum size is %dMB", maxUploadBytes/(1024*1024)))
	}
	return nil
}
