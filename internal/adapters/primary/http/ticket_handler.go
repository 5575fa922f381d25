package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	mw "github.com/lorrc/it-helpdesk/internal/adapters/primary/http/middleware"
	"github.com/lorrc/it-helpdesk/internal/adapters/primary/validation"
	"github.com/lorrc/it-helpdesk/internal/auth"
	"github.com/lorrc/it-helpdesk/internal/core/domain"
	"github.com/lorrc/it-helpdesk/internal/core/ports"
)

const maxTicketsPerPage = 100

// TicketHandler handles HTTP requests for tickets
type TicketHandler struct {
	ticketService     ports.TicketService
	commentHandler    *CommentHandler
	attachmentHandler *AttachmentHandler
	errorHandler      *ErrorHandler
	logger            *slog.Logger
}

// NewTicketHandler creates a new ticket handler
func NewTicketHandler(
	ticketService ports.TicketService,
	commentHandler *CommentHandler,
	attachmentHandler *AttachmentHandler,
	errorHandler *ErrorHandler,
	logger *slog.Logger,
) *TicketHandler {
	return &TicketHandler{
		ticketService:     ticketService,
		commentHandler:    commentHandler,
		attachmentHandler: attachmentHandler,
		errorHandler:      errorHandler,
		logger:            logger.With("handler", "ticket"),
	}
}

// Router sets up a new chi Router for all ticket-related routes.
func (h *TicketHandler) Router() http.Handler {
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

// RegisterRoutes sets up the routing for all ticket endpoints.
func (h *TicketHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.HandleListTickets)
	r.Post("/", h.HandleCreateTicket)

	// Routes for a specific ticket
	r.Route("/{ticketID}", func(r chi.Router) {
		r.Get("/", h.HandleGetTicket)
		r.Patch("/", h.HandleUpdateTicket)
		r.Post("/assign-to-me", h.HandleAssignToMe)
		r.Delete("/", h.HandleArchiveTicket)

		// Comment and attachment routes nested under /tickets/{ticketID}
		if h.commentHandler != nil {
			r.Mount("/comments", h.commentHandler.Router())
		}
		if h.attachmentHandler != nil {
			r.Mount("/attachments", h.attachmentHandler.Router())
		}
	})
}

// --- Request/Response DTOs ---

// CreateTicketRequest defines the expected JSON body for creating a ticket
type CreateTicketRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Priority    string  `json:"priority"`
	AssigneeID  *string `json:"assigneeId"`
}

// Validate validates the create ticket request
func (r *CreateTicketRequest) Validate() error {
	v := validation.NewValidator()

	v.Required("title", r.Title).
		MaxLength("title", r.Title, domain.MaxTitleLength)

	v.Required("description", r.Description)

	v.Required("priority", r.Priority).
		OneOf("priority", r.Priority, []string{"LOW", "MEDIUM", "HIGH", "CRITICAL"})

	if r.AssigneeID != nil {
		v.UUID("assigneeId", *r.AssigneeID)
	}

	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

// UpdateTicketRequest defines the expected JSON body for a staff ticket edit.
// The full triage state is overwritten at once; a null assigneeId unassigns.
type UpdateTicketRequest struct {
	Status     string  `json:"status"`
	Priority   string  `json:"priority"`
	AssigneeID *string `json:"assigneeId"`
}

// Validate validates the update ticket request
func (r *UpdateTicketRequest) Validate() error {
	v := validation.NewValidator()

	v.Required("status", r.Status).
		OneOf("status", r.Status, []string{"OPEN", "IN_PROGRESS", "RESOLVED", "CLOSED"})

	v.Required("priority", r.Priority).
		OneOf("priority", r.Priority, []string{"LOW", "MEDIUM", "HIGH", "CRITICAL"})

	if r.AssigneeID != nil {
		v.UUID("assigneeId", *r.AssigneeID)
	}

	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

// TicketDTO defines the JSON response for tickets.
type TicketDTO struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Status      string  `json:"status"`
	Priority    string  `json:"priority"`
	CreatedBy   string  `json:"createdBy"`
	AssigneeID  *string `json:"assigneeId"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   *string `json:"updatedAt"`
	IsArchived  bool    `json:"isArchived"`
	ArchivedAt  *string `json:"archivedAt"`
}

func toTicketDTO(ticket *domain.Ticket) TicketDTO {
	var assigneeID *string
	if ticket.AssigneeID != nil {
		value := ticket.AssigneeID.String()
		assigneeID = &value
	}

	var updatedAt *string
	if ticket.UpdatedAt != nil {
		value := ticket.UpdatedAt.Format(time.RFC3339)
		updatedAt = &value
	}

	var archivedAt *string
	if ticket.DeletedAt != nil {
		value := ticket.DeletedAt.Format(time.RFC3339)
		archivedAt = &value
	}

	return TicketDTO{
		ID:          ticket.ID,
		Title:       ticket.Title,
		Description: ticket.Description,
		Status:      string(ticket.Status),
		Priority:    string(ticket.Priority),
		CreatedBy:   ticket.CreatedBy.String(),
		AssigneeID:  assigneeID,
		CreatedAt:   ticket.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   updatedAt,
		IsArchived:  ticket.IsDeleted,
		ArchivedAt:  archivedAt,
	}
}

func toTicketDTOs(tickets []*domain.Ticket) []TicketDTO {
	response := make([]TicketDTO, 0, len(tickets))
	for _, ticket := range tickets {
		response = append(response, toTicketDTO(ticket))
	}
	return response
}

// --- Handlers ---

// HandleListTickets handles GET /tickets
func (h *TicketHandler) HandleListTickets(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	pagination := validation.ParsePagination(r, maxTicketsPerPage)

	params := ports.ListTicketsParams{
		ViewerID: claims.UserID,
		Limit:    pagination.Limit + 1,
		Offset:   pagination.Offset,
	}

	tickets, err := h.ticketService.ListTickets(r.Context(), params)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	// Use simple pagination (without total count for performance)
	WritePaginatedSimple(w, toTicketDTOs(tickets), pagination.Limit, pagination.Offset)
}

// HandleCreateTicket handles POST /tickets
func (h *TicketHandler) HandleCreateTicket(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	req, err := validation.DecodeAndValidate[CreateTicketRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	var assigneeID *uuid.UUID
	if req.AssigneeID != nil {
		parsed, err := uuid.Parse(*req.AssigneeID)
		if err == nil {
			assigneeID = &parsed
		}
	}

	params := ports.CreateTicketParams{
		Title:       req.Title,
		Description: req.Description,
		Priority:    domain.TicketPriority(req.Priority),
		CreatedBy:   claims.UserID,
		AssigneeID:  assigneeID,
	}

	ticket, err := h.ticketService.CreateTicket(r.Context(), params)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("ticket created",
		"ticket_id", ticket.ID,
		"user_id", claims.UserID,
	)

	WriteCreated(w, toTicketDTO(ticket))
}

// HandleGetTicket handles GET /tickets/{ticketID}
func (h *TicketHandler) HandleGetTicket(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	ticketID, err := h.parseTicketID(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	ticket, err := h.ticketService.GetTicket(r.Context(), ticketID, claims.UserID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, toTicketDTO(ticket))
}

// HandleUpdateTicket handles PATCH /tickets/{ticketID}
func (h *TicketHandler) HandleUpdateTicket(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	ticketID, err := h.parseTicketID(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	req, err := validation.DecodeAndValidate[UpdateTicketRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	var assigneeID *uuid.UUID
	if req.AssigneeID != nil {
		parsed, err := uuid.Parse(*req.AssigneeID)
		if err == nil {
			assigneeID = &parsed
		}
	}

	params := ports.UpdateTicketParams{
		TicketID:   ticketID,
		ActorID:    claims.UserID,
		Status:     domain.TicketStatus(req.Status),
		Priority:   domain.TicketPriority(req.Priority),
		AssigneeID: assigneeID,
	}

	ticket, err := h.ticketService.UpdateTicket(r.Context(), params)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("ticket updated",
		"ticket_id", ticketID,
		"new_status", req.Status,
		"user_id", claims.UserID,
	)

	WriteJSON(w, http.StatusOK, toTicketDTO(ticket))
}

// HandleAssignToMe handles POST /tickets/{ticketID}/assign-to-me
func (h *TicketHandler) HandleAssignToMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	ticketID, err := h.parseTicketID(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	ticket, err := h.ticketService.AssignToMe(r.Context(), ticketID, claims.UserID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("ticket self-assigned",
		"ticket_id", ticketID,
		"user_id", claims.UserID,
	)

	WriteJSON(w, http.StatusOK, toTicketDTO(ticket))
}

// HandleArchiveTicket handles DELETE /tickets/{ticketID}.
// This is a soft delete: the ticket must be closed, and it stays in the
// database with the archive markers set.
func (h *TicketHandler) HandleArchiveTicket(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	ticketID, err := h.parseTicketID(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	ticket, err := h.ticketService.ArchiveTicket(r.Context(), ticketID, claims.UserID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("ticket archived",
		"ticket_id", ticketID,
		"user_id", claims.UserID,
	)

	WriteJSON(w, http.StatusOK, toTicketDTO(ticket))
}

// --- Helper methods ---

// getClaims extracts and validates user claims from the request context
func (h *TicketHandler) getClaims(w http.ResponseWriter, r *http.Request) (*auth.Claims, bool) {
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
func (h *TicketHandler) parseTicketID(r *http.Request) (int64, error) {
	ticketIDStr := chi.URLParam(r, "ticketID")
	ticketID, err := strconv.ParseInt(ticketIDStr, 10, 64)
	if err != nil || ticketID <= 0 {
		v := validation.NewValidator()
		v.Custom("ticketID", false, "Invalid ticket ID")
		return 0, v.Errors()
	}
	return ticketID, nil
}
