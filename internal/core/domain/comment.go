package domain

import (
	"time"

	"github.com/google/uuid"

	apperrors "github.com/lorrc/it-helpdesk/internal/core/errors"
)

// Comment is a note left on a ticket. Internal comments are visible to
// IT staff only and are filtered out for the ticket's creator.
type Comment struct {
	ID         int64
	TicketID   int64
	AuthorID   uuid.UUID
	Body       string
	IsInternal bool
	CreatedAt  time.Time
}

// CommentParams holds the validated input for creating a comment.
type CommentParams struct {
	TicketID   int64
	AuthorID   uuid.UUID
	Body       string
	IsInternal bool
}

// NewComment is a factory function to create a valid new comment.
func NewComment(params CommentParams) (*Comment, error) {
	if params.Body == "" {
		return nil, apperrors.ErrCommentBodyRequired
	}

	return &Comment{
		TicketID:   params.TicketID,
		AuthorID:   params.AuthorID,
		Body:       params.Body,
		IsInternal: params.IsInternal,
		CreatedAt:  time.Now().UTC(),
	}, nil
}

// VisibleTo reports whether the comment may be shown to the given viewer.
func (c *Comment) VisibleTo(viewerID uuid.UUID, viewerIsStaff bool) bool {
	if !c.IsInternal {
		return true
	}
	return viewerIsStaff
}
