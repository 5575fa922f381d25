package services

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/lorrc/it-helpdesk/internal/core/domain"
	"github.com/lorrc/it-helpdesk/internal/core/ports"
)

// AttachmentService implements the business logic for file attachments.
// Uploads are validated (size cap, extension whitelist) before any byte is
// written; the blob store holds the contents and the repository the metadata.
type AttachmentService struct {
	attachmentRepo ports.AttachmentRepository
	ticketSvc      ports.TicketService
	blobs          ports.BlobStore
}

// Ensure implementation matches the interface.
var _ ports.AttachmentService = (*AttachmentService)(nil)

// NewAttachmentService creates a new service for attachment logic.
func NewAttachmentService(
	attachmentRepo ports.AttachmentRepository,
	ticketSvc ports.TicketService,
	blobs ports.BlobStore,
) ports.AttachmentService {
	return &AttachmentService{
		attachmentRepo: attachmentRepo,
		ticketSvc:      ticketSvc,
		blobs:          blobs,
	}
}

// Upload validates and stores a new attachment on a ticket. Uploading
// requires the same visibility as viewing the ticket.
func (s *AttachmentService) Upload(ctx context.Context, params ports.UploadAttachmentParams) (*domain.Attachment, error) {
	if _, err := s.ticketSvc.GetTicket(ctx, params.TicketID, params.ActorID); err != nil {
		return nil, err
	}

	// Validate before anything touches the blob store.
	if err := domain.ValidateUpload(params.FileName, params.SizeBytes); err != nil {
		return nil, err
	}

	key := storageKey(params.TicketID, params.FileName)
	written, err := s.blobs.Save(ctx, key, params.Content)
	if err != nil {
		return nil, err
	}

	attachment, err := domain.NewAttachment(domain.AttachmentParams{
		TicketID:   params.TicketID,
		UploadedBy: params.ActorID,
		FileName:   params.FileName,
		StorageKey: key,
		SizeBytes:  written,
	})
	if err != nil {
		_ = s.blobs.Remove(ctx, key)
		return nil, err
	}

	created, err := s.attachmentRepo.Create(ctx, attachment)
	if err != nil {
		// Don't leave an orphaned blob behind.
		_ = s.blobs.Remove(ctx, key)
		return nil, err
	}

	return created, nil
}

// ListForTicket returns the attachments on a ticket the viewer may see.
func (s *AttachmentService) ListForTicket(ctx context.Context, ticketID int64, viewerID uuid.UUID) ([]*domain.Attachment, error) {
	if _, err := s.ticketSvc.GetTicket(ctx, ticketID, viewerID); err != nil {
		return nil, err
	}
	return s.attachmentRepo.ListByTicketID(ctx, ticketID)
}

// Open returns an attachment's metadata and a reader over its contents.
// The caller is responsible for closing the reader.
func (s *AttachmentService) Open(ctx context.Context, attachmentID int64, viewerID uuid.UUID) (*domain.Attachment, io.ReadCloser, error) {
	attachment, err := s.attachmentRepo.GetByID(ctx, attachmentID)
	if err != nil {
		return nil, nil, err
	}

	if _, err := s.ticketSvc.GetTicket(ctx, attachment.TicketID, viewerID); err != nil {
		return nil, nil, err
	}

	content, err := s.blobs.Open(ctx, attachment.StorageKey)
	if err != nil {
		return nil, nil, err
	}

	return attachment, content, nil
}

// storageKey builds a collision-free blob key, keeping the original
// extension for inspection tooling.
func storageKey(ticketID int64, fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	return fmt.Sprintf("tickets/%d/%s%s", ticketID, uuid.NewString(), ext)
}
