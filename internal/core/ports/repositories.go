package ports

import (
	"context"
	"io"

	"github.com/google/uuid"

	"github.com/lorrc/it-helpdesk/internal/core/domain"
)

// ListTicketsRepoParams carries pagination for ticket list queries.
// Results are always ordered by creation time, newest first.
type ListTicketsRepoParams struct {
	Limit  int32
	Offset int32
}

// UserRepository persists user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// TicketRepository persists tickets. Update writes status, priority,
// assignee and the soft-delete fields in a single statement.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) (*domain.Ticket, error)
	GetByID(ctx context.Context, id int64) (*domain.Ticket, error)
	Update(ctx context.Context, ticket *domain.Ticket) (*domain.Ticket, error)
	ListAll(ctx context.Context, params ListTicketsRepoParams) ([]*domain.Ticket, error)
	ListByCreator(ctx context.Context, creatorID uuid.UUID, params ListTicketsRepoParams) ([]*domain.Ticket, error)
	// DeleteClosed hard-deletes every ticket in the CLOSED state, archived
	// or not, and returns the number of rows removed.
	DeleteClosed(ctx context.Context) (int64, error)
}

// DashboardRepository serves the staff dashboard aggregates.
type DashboardRepository interface {
	Summary(ctx context.Context, recentLimit int32) (*domain.DashboardSummary, error)
}

// CommentRepository persists ticket comments.
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) (*domain.Comment, error)
	ListByTicketID(ctx context.Context, ticketID int64) ([]*domain.Comment, error)
}

// AttachmentRepository persists attachment metadata.
type AttachmentRepository interface {
	Create(ctx context.Context, attachment *domain.Attachment) (*domain.Attachment, error)
	GetByID(ctx context.Context, id int64) (*domain.Attachment, error)
	ListByTicketID(ctx context.Context, ticketID int64) ([]*domain.Attachment, error)
}

// AuthorizationRepository answers role membership queries against the
// identity store.
type AuthorizationRepository interface {
	IsMember(ctx context.Context, userID uuid.UUID, role string) (bool, error)
	ListMembers(ctx context.Context, role string) ([]*domain.User, error)
	AssignRole(ctx context.Context, userID uuid.UUID, role string) error
}

// BlobStore holds attachment file contents, keyed by storage key.
type BlobStore interface {
	Save(ctx context.Context, key string, content io.Reader) (int64, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Remove(ctx context.Context, key string) error
}
