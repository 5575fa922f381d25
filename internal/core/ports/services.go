package ports

import (
	"context"
	"io"

	"github.com/google/uuid"

	"github.com/lorrc/it-helpdesk/internal/core/domain"
)

// AuthService defines the port for authentication business logic.
type AuthService interface {
	Register(ctx context.Context, fullName, email, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.User, error)
	GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error)
}

// AuthorizationService defines the port for the IT staff role check.
type AuthorizationService interface {
	// IsITStaff reports whether the user is a member of the IT staff role.
	IsITStaff(ctx context.Context, userID uuid.UUID) (bool, error)
	// ListStaff returns the current IT staff members. This is the valid
	// assignee set: any submitted assignee outside it is rejected.
	ListStaff(ctx context.Context) ([]*domain.User, error)
}

// CreateTicketParams defines the required input for creating a new ticket.
type CreateTicketParams struct {
	Title       string
	Description string
	Priority    domain.TicketPriority
	CreatedBy   uuid.UUID
	// AssigneeID is honored only when the creator is IT staff; for
	// everyone else it is silently discarded.
	AssigneeID *uuid.UUID
}

// ListTicketsParams defines the input for listing tickets.
type ListTicketsParams struct {
	ViewerID uuid.UUID
	Limit    int
	Offset   int
}

// UpdateTicketParams defines the input for a staff ticket edit. All three
// fields are overwritten atomically; last writer wins.
type UpdateTicketParams struct {
	TicketID   int64
	ActorID    uuid.UUID
	Status     domain.TicketStatus
	Priority   domain.TicketPriority
	AssigneeID *uuid.UUID
}

// AddCommentParams defines the input for adding a comment.
type AddCommentParams struct {
	TicketID   int64
	AuthorID   uuid.UUID
	Body       string
	IsInternal bool
}

// UploadAttachmentParams defines the input for uploading an attachment.
type UploadAttachmentParams struct {
	TicketID  int64
	ActorID   uuid.UUID
	FileName  string
	SizeBytes int64
	Content   io.Reader
}

// TicketService defines the core business operations for managing tickets.
type TicketService interface {
	CreateTicket(ctx context.Context, params CreateTicketParams) (*domain.Ticket, error)
	GetTicket(ctx context.Context, ticketID int64, viewerID uuid.UUID) (*domain.Ticket, error)
	ListTickets(ctx context.Context, params ListTicketsParams) ([]*domain.Ticket, error)
	UpdateTicket(ctx context.Context, params UpdateTicketParams) (*domain.Ticket, error)
	AssignToMe(ctx context.Context, ticketID int64, staffID uuid.UUID) (*domain.Ticket, error)
	ArchiveTicket(ctx context.Context, ticketID int64, staffID uuid.UUID) (*domain.Ticket, error)
}

// CommentService defines the port for comment-related business logic.
type CommentService interface {
	AddComment(ctx context.Context, params AddCommentParams) (*domain.Comment, error)
	ListComments(ctx context.Context, ticketID int64, viewerID uuid.UUID) ([]*domain.Comment, error)
}

// AttachmentService defines the port for attachment-related business logic.
type AttachmentService interface {
	Upload(ctx context.Context, params UploadAttachmentParams) (*domain.Attachment, error)
	ListForTicket(ctx context.Context, ticketID int64, viewerID uuid.UUID) ([]*domain.Attachment, error)
	Open(ctx context.Context, attachmentID int64, viewerID uuid.UUID) (*domain.Attachment, io.ReadCloser, error)
}

// AdminService defines the port for staff-only administrative operations.
type AdminService interface {
	Dashboard(ctx context.Context, actorID uuid.UUID) (*domain.DashboardSummary, error)
	// PurgeClosedTickets hard-deletes all closed tickets and returns the
	// count removed. Deliberately distinct from archiving: this is the
	// purge, not the soft delete.
	PurgeClosedTickets(ctx context.Context, actorID uuid.UUID) (int64, error)
	ListAssignees(ctx context.Context, actorID uuid.UUID) ([]*domain.User, error)
}

// EventBroadcaster defines the port for pushing live ticket events.
type EventBroadcaster interface {
	Broadcast(event domain.Event) error
}
