package domain

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/lorrc/it-helpdesk/internal/core/errors"
)

// MaxAttachmentSize is the upload cap in bytes (10 MiB).
const MaxAttachmentSize = 10 * 1024 * 1024

// allowedExtensions is the whitelist of file extensions accepted for upload,
// matched case-insensitively against the filename.
var allowedExtensions = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".txt":  true,
	".log":  true,
}

// Attachment holds the metadata of an uploaded file. The bytes themselves
// live in the blob store under StorageKey.
type Attachment struct {
	ID         int64
	TicketID   int64
	UploadedBy uuid.UUID
	FileName   string
	StorageKey string
	SizeBytes  int64
	CreatedAt  time.Time
}

// ValidateUpload checks the upload invariants before any bytes are written:
// the filename must carry an allowed extension and the size must not exceed
// MaxAttachmentSize.
func ValidateUpload(fileName string, sizeBytes int64) error {
	if fileName == "" {
		return apperrors.ErrFileRequired
	}
	if sizeBytes > MaxAttachmentSize {
		return apperrors.ErrFileTooLarge
	}

	ext := strings.ToLower(filepath.Ext(fileName))
	if !allowedExtensions[ext] {
		return apperrors.ErrUnsupportedFileType
	}
	return nil
}

// AttachmentParams holds the validated input for recording an attachment.
type AttachmentParams struct {
	TicketID   int64
	UploadedBy uuid.UUID
	FileName   string
	StorageKey string
	SizeBytes  int64
}

// NewAttachment is a factory function to create a valid attachment record.
func NewAttachment(params AttachmentParams) (*Attachment, error) {
	if err := ValidateUpload(params.FileName, params.SizeBytes); err != nil {
		return nil, err
	}

	return &Attachment{
		TicketID:   params.TicketID,
		UploadedBy: params.UploadedBy,
		FileName:   params.FileName,
		StorageKey: params.StorageKey,
		SizeBytes:  params.SizeBytes,
		CreatedAt:  time.Now().UTC(),
	}, nil
}
