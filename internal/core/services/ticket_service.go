package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/lorrc/it-helpdesk/internal/core/domain"
	apperrors "github.com/lorrc/it-helpdesk/internal/core/errors"
	"github.com/lorrc/it-helpdesk/internal/core/ports"
)

// TicketService implements business logic for ticket management
type TicketService struct {
	ticketRepo  ports.TicketRepository
	authzSvc    ports.AuthorizationService
	broadcaster ports.EventBroadcaster
}

var _ ports.TicketService = (*TicketService)(nil)

// NewTicketService creates a new ticket service
func NewTicketService(
	ticketRepo ports.TicketRepository,
	authzSvc ports.AuthorizationService,
	broadcaster ports.EventBroadcaster,
) ports.TicketService {
	return &TicketService{
		ticketRepo:  ticketRepo,
		authzSvc:    authzSvc,
		broadcaster: broadcaster,
	}
}

// CreateTicket handles the use case for submitting a new ticket.
// Any authenticated user can file one; only IT staff may pre-assign it,
// an assignee submitted by anyone else is discarded.
func (s *TicketService) CreateTicket(ctx context.Context, params ports.CreateTicketParams) (*domain.Ticket, error) {
	assigneeID := params.AssigneeID

	if assigneeID != nil {
		isStaff, err := s.authzSvc.IsITStaff(ctx, params.CreatedBy)
		if err != nil {
			return nil, err
		}
		if !isStaff {
			assigneeID = nil
		} else if err := s.requireStaffAssignee(ctx, *assigneeID); err != nil {
			return nil, err
		}
	}

	ticketParams := domain.TicketParams{
		Title:       params.Title,
		Description: params.Description,
		Priority:    params.Priority,
		CreatedBy:   params.CreatedBy,
		AssigneeID:  assigneeID,
	}

	ticket, err := domain.NewTicket(ticketParams)
	if err != nil {
		return nil, err // Validation errors are returned here
	}

	created, err := s.ticketRepo.Create(ctx, ticket)
	if err != nil {
		return nil, err
	}

	s.broadcast(domain.EventTicketCreated, created)
	return created, nil
}

// GetTicket retrieves a specific ticket. Only the creator and IT staff may
// view a ticket; everyone else gets Forbidden.
func (s *TicketService) GetTicket(ctx context.Context, ticketID int64, viewerID uuid.UUID) (*domain.Ticket, error) {
	ticket, err := s.ticketRepo.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	if !ticket.IsOwnedBy(viewerID) {
		isStaff, err := s.authzSvc.IsITStaff(ctx, viewerID)
		if err != nil {
			return nil, err
		}
		if !isStaff {
			return nil, apperrors.ErrForbidden
		}
	}

	return ticket, nil
}

// ListTickets returns tickets ordered by creation time, newest first.
// IT staff see every ticket; other users see only the ones they created.
// This scoping is the sole access-control boundary on list reads.
func (s *TicketService) ListTickets(ctx context.Context, params ports.ListTicketsParams) ([]*domain.Ticket, error) {
	isStaff, err := s.authzSvc.IsITStaff(ctx, params.ViewerID)
	if err != nil {
		return nil, err
	}

	repoParams := ports.ListTicketsRepoParams{
		Limit:  int32(params.Limit),
		Offset: int32(params.Offset),
	}

	if isStaff {
		return s.ticketRepo.ListAll(ctx, repoParams)
	}
	return s.ticketRepo.ListByCreator(ctx, params.ViewerID, repoParams)
}

// UpdateTicket overwrites status, priority and assignee in one atomic edit.
// IT staff only. No optimistic-concurrency check: last writer wins.
func (s *TicketService) UpdateTicket(ctx context.Context, params ports.UpdateTicketParams) (*domain.Ticket, error) {
	if err := s.requireStaff(ctx, params.ActorID); err != nil {
		return nil, err
	}

	ticket, err := s.ticketRepo.GetByID(ctx, params.TicketID)
	if err != nil {
		return nil, err
	}

	if params.AssigneeID != nil {
		if err := s.requireStaffAssignee(ctx, *params.AssigneeID); err != nil {
			return nil, err
		}
	}

	if err := ticket.ApplyUpdate(params.Status, params.Priority, params.AssigneeID); err != nil {
		return nil, err
	}

	updated, err := s.ticketRepo.Update(ctx, ticket)
	if err != nil {
		return nil, err
	}

	s.broadcast(domain.EventTicketUpdated, updated)
	return updated, nil
}

// AssignToMe hands the ticket to the acting staff member and moves it to
// IN_PROGRESS, unconditionally: a ticket that is closed or assigned to
// someone else is taken over all the same.
func (s *TicketService) AssignToMe(ctx context.Context, ticketID int64, staffID uuid.UUID) (*domain.Ticket, error) {
	if err := s.requireStaff(ctx, staffID); err != nil {
		return nil, err
	}

	ticket, err := s.ticketRepo.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	ticket.AssignTo(staffID)

	updated, err := s.ticketRepo.Update(ctx, ticket)
	if err != nil {
		return nil, err
	}

	s.broadcast(domain.EventTicketAssigned, updated)
	return updated, nil
}

// ArchiveTicket soft-deletes a single closed ticket. The row stays in
// storage with is_deleted set; purging is a separate admin operation.
func (s *TicketService) ArchiveTicket(ctx context.Context, ticketID int64, staffID uuid.UUID) (*domain.Ticket, error) {
	if err := s.requireStaff(ctx, staffID); err != nil {
		return nil, err
	}

	ticket, err := s.ticketRepo.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	if err := ticket.Archive(staffID); err != nil {
		return nil, err
	}

	archived, err := s.ticketRepo.Update(ctx, ticket)
	if err != nil {
		return nil, err
	}

	s.broadcast(domain.EventTicketArchived, archived)
	return archived, nil
}

// requireStaff rejects actors outside the IT staff role.
func (s *TicketService) requireStaff(ctx context.Context, actorID uuid.UUID) error {
	isStaff, err := s.authzSvc.IsITStaff(ctx, actorID)
	if err != nil {
		return err
	}
	if !isStaff {
		return apperrors.ErrForbidden
	}
	return nil
}

// requireStaffAssignee rejects assignees outside the valid staff set.
func (s *TicketService) requireStaffAssignee(ctx context.Context, assigneeID uuid.UUID) error {
	isStaff, err := s.authzSvc.IsITStaff(ctx, assigneeID)
	if err != nil {
		return err
	}
	if !isStaff {
		return apperrors.ErrInvalidAssignee
	}
	return nil
}

func (s *TicketService) broadcast(eventType domain.EventType, ticket *domain.Ticket) {
	if s.broadcaster == nil {
		return
	}
	event := domain.Event{
		Type:     eventType,
		TicketID: ticket.ID,
		Payload:  ticket,
	}
	go func() {
		_ = s.broadcaster.Broadcast(event)
	}()
}
