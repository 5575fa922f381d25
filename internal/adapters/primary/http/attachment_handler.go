package http

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	mw "github.com/lorrc/it-helpdesk/internal/adapters/primary/http/middleware"
	"github.com/lorrc/it-helpdesk/internal/adapters/primary/validation"
	"github.com/lorrc/it-helpdesk/internal/auth"
	"github.com/lorrc/it-helpdesk/internal/core/domain"
	apperrors "github.com/lorrc/it-helpdesk/internal/core/errors"
	"github.com/lorrc/it-helpdesk/internal/core/ports"
)

// multipartMemoryLimit bounds how much of an upload is buffered in memory;
// the rest spills to temp files.
const multipartMemoryLimit = 4 << 20

// AttachmentHandler handles HTTP requests for ticket attachments.
type AttachmentHandler struct {
	attachmentService ports.AttachmentService
	errorHandler      *ErrorHandler
	logger            *slog.Logger
}

// NewAttachmentHandler creates a new AttachmentHandler.
func NewAttachmentHandler(
	attachmentService ports.AttachmentService,
	errorHandler *ErrorHandler,
	logger *slog.Logger,
) *AttachmentHandler {
	return &AttachmentHandler{
		attachmentService: attachmentService,
		errorHandler:      errorHandler,
		logger:            logger.With("handler", "attachment"),
	}
}

// Router sets up a new chi Router for attachment routes.
func (h *AttachmentHandler) Router() http.Handler {
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

// RegisterRoutes registers the attachment endpoints.
// These routes are relative to /api/v1/tickets/{ticketID}/attachments
func (h *AttachmentHandler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.HandleUploadAttachment)
	r.Get("/", h.HandleListAttachments)
	r.Get("/{attachmentID}", h.HandleDownloadAttachment)
}

// AttachmentDTO defines the JSON response for attachments.
type AttachmentDTO struct {
	ID         int64  `json:"id"`
	TicketID   int64  `json:"ticketId"`
	UploadedBy string `json:"uploadedBy"`
	FileName   string `json:"fileName"`
	SizeBytes  int64  `json:"sizeBytes"`
	CreatedAt  string `json:"createdAt"`
}

func toAttachmentDTO(attachment *domain.Attachment) AttachmentDTO {
	return AttachmentDTO{
		ID:         attachment.ID,
		TicketID:   attachment.TicketID,
		UploadedBy: attachment.UploadedBy.String(),
		FileName:   attachment.FileName,
		SizeBytes:  attachment.SizeBytes,
		CreatedAt:  attachment.CreatedAt.Format(time.RFC3339),
	}
}

func toAttachmentDTOs(attachments []*domain.Attachment) []AttachmentDTO {
	response := make([]AttachmentDTO, 0, len(attachments))
	for _, attachment := range attachments {
		response = append(response, toAttachmentDTO(attachment))
	}
	return response
}

// HandleUploadAttachment handles POST /tickets/{ticketID}/attachments.
// Expects a multipart form with the file under the "file" field.
func (h *AttachmentHandler) HandleUploadAttachment(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	ticketID, err := h.parseTicketID(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	// Cap the request body just above the attachment limit so an oversized
	// upload fails fast instead of streaming to disk first.
	r.Body = http.MaxBytesReader(w, r.Body, domain.MaxAttachmentSize+multipartMemoryLimit)

	if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
		h.errorHandler.Handle(w, r, apperrors.ErrFileTooLarge)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.errorHandler.Handle(w, r, apperrors.ErrFileRequired)
		return
	}
	defer file.Close()

	params := ports.UploadAttachmentParams{
		TicketID:  ticketID,
		ActorID:   claims.UserID,
		FileName:  header.Filename,
		SizeBytes: header.Size,
		Content:   file,
	}

	attachment, err := h.attachmentService.Upload(r.Context(), params)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("attachment uploaded",
		"attachment_id", attachment.ID,
		"ticket_id", ticketID,
		"file_name", attachment.FileName,
		"size_bytes", attachment.SizeBytes,
		"user_id", claims.UserID,
	)

	WriteCreated(w, toAttachmentDTO(attachment))
}

// HandleListAttachments handles GET /tickets/{ticketID}/attachments
func (h *AttachmentHandler) HandleListAttachments(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	ticketID, err := h.parseTicketID(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	attachments, err := h.attachmentService.ListForTicket(r.Context(), ticketID, claims.UserID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteList(w, toAttachmentDTOs(attachments))
}

// HandleDownloadAttachment handles GET /tickets/{ticketID}/attachments/{attachmentID}.
// Streams the stored blob back with the original file name.
func (h *AttachmentHandler) HandleDownloadAttachment(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	if _, err := h.parseTicketID(r); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	attachmentIDStr := chi.URLParam(r, "attachmentID")
	attachmentID, err := strconv.ParseInt(attachmentIDStr, 10, 64)
	if err != nil || attachmentID <= 0 {
		v := validation.NewValidator()
		v.Custom("attachmentID", false, "Invalid attachment ID")
		h.errorHandler.Handle(w, r, v.Errors())
		return
	}

	attachment, content, err := h.attachmentService.Open(r.Context(), attachmentID, claims.UserID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}
	defer content.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", attachment.FileName))
	w.Header().Set("Content-Length", strconv.FormatInt(attachment.SizeBytes, 10))

	if _, err := io.Copy(w, content); err != nil {
		h.logger.Error("attachment stream interrupted",
			"attachment_id", attachmentID,
			"error", err,
		)
	}
}

// getClaims extracts and validates user claims from the request context
func (h *AttachmentHandler) getClaims(w http.ResponseWriter, r *http.Request) (*auth.Claims, bool) {
	claims, ok := mw.GetClaims(r.Context())
	if !ok {
		WriteJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error: "Not authorized",
			Code:  "UNAUTHORIZED",
		})
		return nil, false
	}
	return claims, true
}

// parseTicketID extracts and validates the ticket ID from the URL
func (h *AttachmentHandler) parseTicketID(r *http.Request) (int64, error) {
	ticketIDStr := chi.URLParam(r, "ticketID")
	ticketID, err := strconv.ParseInt(ticketIDStr, 10, 64)
	if err != nil || ticketID <= 0 {
		v := validation.NewValidator()
		v.Custom("ticketID", false, "Invalid ticket ID")
		return 0, v.Errors()
	}
	return ticketID, nil
}
