package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	mw "github.com/lorrc/it-helpdesk/internal/adapters/primary/http/middleware"
	"github.com/lorrc/it-helpdesk/internal/adapters/primary/validation"
	"github.com/lorrc/it-helpdesk/internal/auth"
	"github.com/lorrc/it-helpdesk/internal/core/domain"
	"github.com/lorrc/it-helpdesk/internal/core/ports"
)

// CommentHandler handles HTTP requests for comments.
type CommentHandler struct {
	commentService ports.CommentService
	errorHandler   *ErrorHandler
	logger         *slog.Logger
}

// NewCommentHandler creates a new CommentHandler.
func NewCommentHandler(
	commentService ports.CommentService,
	errorHandler *ErrorHandler,
	logger *slog.Logger,
) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
		errorHandler:   errorHandler,
		logger:         logger.With("handler", "comment"),
	}
}

// Router sets up a new chi Router for comment routes.
func (h *CommentHandler) Router() http.Handler {
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

// RegisterRoutes registers the comment-specific endpoints.
// These routes are relative to /api/v1/tickets/{ticketID}/comments
func (h *CommentHandler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.HandleCreateComment)
	r.Get("/", h.HandleListComments)
}

// --- Request DTOs ---

// CreateCommentRequest defines the expected JSON body for creating a comment.
// The isInternal flag is only honored for IT staff authors.
type CreateCommentRequest struct {
	Body       string `json:"body"`
	IsInternal bool   `json:"isInternal"`
}

// Validate validates the create comment request
func (r *CreateCommentRequest) Validate() error {
	v := validation.NewValidator()

	v.Required("body", r.Body)

	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

// CommentDTO defines the JSON response for comments.
type CommentDTO struct {
	ID         int64  `json:"id"`
	TicketID   int64  `json:"ticketId"`
	AuthorID   string `json:"authorId"`
	Body       string `json:"body"`
	IsInternal bool   `json:"isInternal"`
	CreatedAt  string `json:"createdAt"`
}

func toCommentDTO(comment *domain.Comment) CommentDTO {
	return CommentDTO{
		ID:         comment.ID,
		TicketID:   comment.TicketID,
		AuthorID:   comment.AuthorID.String(),
		Body:       comment.Body,
		IsInternal: comment.IsInternal,
		CreatedAt:  comment.CreatedAt.Format(time.RFC3339),
	}
}

func toCommentDTOs(comments []*domain.Comment) []CommentDTO {
	response := make([]CommentDTO, 0, len(comments))
	for _, comment := range comments {
		response = append(response, toCommentDTO(comment))
	}
	return response
}

// --- Handlers ---

// HandleCreateComment handles requests to create a new comment.
func (h *CommentHandler) HandleCreateComment(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	ticketID, err := h.parseTicketID(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	req, err := validation.DecodeAndValidate[CreateCommentRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	params := ports.AddCommentParams{
		TicketID:   ticketID,
		AuthorID:   claims.UserID,
		Body:       req.Body,
		IsInternal: req.IsInternal,
	}

	comment, err := h.commentService.AddComment(r.Context(), params)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("comment created",
		"comment_id", comment.ID,
		"ticket_id", ticketID,
		"user_id", claims.UserID,
	)

	WriteCreated(w, toCommentDTO(comment))
}

// HandleListComments handles requests to list comments for a ticket.
// Internal comments are filtered out for non-staff viewers by the service.
func (h *CommentHandler) HandleListComments(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	ticketID, err := h.parseTicketID(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	comments, err := h.commentService.ListComments(r.Context(), ticketID, claims.UserID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteList(w, toCommentDTOs(comments))
}

// --- Helper methods ---

// getClaims extracts and validates user claims from the request context
func (h *CommentHandler) getClaims(w http.ResponseWriter, r *http.Request) (*auth.Claims, bool) {
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
func (h *CommentHandler) parseTicketID(r *http.Request) (int64, error) {
	ticketIDStr := chi.URLParam(r, "ticketID")
	ticketID, err := strconv.ParseInt(ticketIDStr, 10, 64)
	if err != nil || ticketID <= 0 {
		v := validation.NewValidator()
		v.Custom("ticketID", false, "Invalid ticket ID")
		return 0, v.Errors()
	}
	return ticketID, nil
}
