package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/lorrc/it-helpdesk/internal/core/domain"
	"github.com/lorrc/it-helpdesk/internal/core/ports"
)

// CommentService implements the business logic for comments.
type CommentService struct {
	commentRepo ports.CommentRepository
	ticketSvc   ports.TicketService
	authzSvc    ports.AuthorizationService
	broadcaster ports.EventBroadcaster
}

// Ensure implementation matches the interface.
var _ ports.CommentService = (*CommentService)(nil)

// NewCommentService creates a new service for comment logic.
func NewCommentService(
	commentRepo ports.CommentRepository,
	ticketSvc ports.TicketService,
	authzSvc ports.AuthorizationService,
	broadcaster ports.EventBroadcaster,
) ports.CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		ticketSvc:   ticketSvc,
		authzSvc:    authzSvc,
		broadcaster: broadcaster,
	}
}

// AddComment adds a new comment to a ticket. Commenting requires the same
// visibility as viewing the ticket: creator or IT staff. Only staff may
// mark a comment internal; the flag is forced off for everyone else.
func (s *CommentService) AddComment(ctx context.Context, params ports.AddCommentParams) (*domain.Comment, error) {
	// GetTicket carries the creator-or-staff visibility check.
	if _, err := s.ticketSvc.GetTicket(ctx, params.TicketID, params.AuthorID); err != nil {
		return nil, err
	}

	isInternal := params.IsInternal
	if isInternal {
		isStaff, err := s.authzSvc.IsITStaff(ctx, params.AuthorID)
		if err != nil {
			return nil, err
		}
		if !isStaff {
			isInternal = false
		}
	}

	comment, err := domain.NewComment(domain.CommentParams{
		TicketID:   params.TicketID,
		AuthorID:   params.AuthorID,
		Body:       params.Body,
		IsInternal: isInternal,
	})
	if err != nil {
		return nil, err // e.g. empty body
	}

	created, err := s.commentRepo.Create(ctx, comment)
	if err != nil {
		return nil, err
	}

	if s.broadcaster != nil {
		event := domain.Event{
			Type:      domain.EventCommentAdded,
			TicketID:  created.TicketID,
			StaffOnly: created.IsInternal,
			Payload:   created,
		}
		go func() {
			_ = s.broadcaster.Broadcast(event)
		}()
	}

	return created, nil
}

// ListComments retrieves the comments on a ticket the viewer is allowed to
// see. Internal comments are omitted for non-staff viewers.
func (s *CommentService) ListComments(ctx context.Context, ticketID int64, viewerID uuid.UUID) ([]*domain.Comment, error) {
	if _, err := s.ticketSvc.GetTicket(ctx, ticketID, viewerID); err != nil {
		return nil, err
	}

	comments, err := s.commentRepo.ListByTicketID(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	isStaff, err := s.authzSvc.IsITStaff(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	if isStaff {
		return comments, nil
	}

	visible := make([]*domain.Comment, 0, len(comments))
	for _, comment := range comments {
		if comment.VisibleTo(viewerID, false) {
			visible = append(visible, comment)
		}
	}
	return visible, nil
}
