package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/lorrc/it-helpdesk/internal/core/domain"
	apperrors "github.com/lorrc/it-helpdesk/internal/core/errors"
	"github.com/lorrc/it-helpdesk/internal/core/ports"
)

// recentTicketsLimit is how many recently created tickets the dashboard shows.
const recentTicketsLimit = 10

// AdminService implements staff-only administrative operations: the
// dashboard aggregates, the bulk purge of closed tickets and the assignee
// picker.
type AdminService struct {
	ticketRepo    ports.TicketRepository
	dashboardRepo ports.DashboardRepository
	authzSvc      ports.AuthorizationService
}

var _ ports.AdminService = (*AdminService)(nil)

// NewAdminService creates a new admin service.
func NewAdminService(
	ticketRepo ports.TicketRepository,
	dashboardRepo ports.DashboardRepository,
	authzSvc ports.AuthorizationService,
) ports.AdminService {
	return &AdminService{
		ticketRepo:    ticketRepo,
		dashboardRepo: dashboardRepo,
		authzSvc:      authzSvc,
	}
}

// Dashboard returns the aggregate counts and the ten most recently created
// tickets. Archived tickets are included in every figure.
func (s *AdminService) Dashboard(ctx context.Context, actorID uuid.UUID) (*domain.DashboardSummary, error) {
	if err := s.requireStaff(ctx, actorID); err != nil {
		return nil, err
	}

	return s.dashboardRepo.Summary(ctx, recentTicketsLimit)
}

// PurgeClosedTickets hard-deletes every closed ticket, archived or not, and
// returns the number removed. Zero matches is a no-op, not an error. This
// is deliberately distinct from single-ticket archiving (archive vs purge).
func (s *AdminService) PurgeClosedTickets(ctx context.Context, actorID uuid.UUID) (int64, error) {
	if err := s.requireStaff(ctx, actorID); err != nil {
		return 0, err
	}

	return s.ticketRepo.DeleteClosed(ctx)
}

// ListAssignees returns the current IT staff members for the assignment
// picker.
func (s *AdminService) ListAssignees(ctx context.Context, actorID uuid.UUID) ([]*domain.User, error) {
	if err := s.requireStaff(ctx, actorID); err != nil {
		return nil, err
	}

	return s.authzSvc.ListStaff(ctx)
}

func (s *AdminService) requireStaff(ctx context.Context, actorID uuid.UUID) error {
	isStaff, err := s.authzSvc.IsITStaff(ctx, actorID)
	if err != nil {
		return err
	}
	if !isStaff {
		return apperrors.ErrForbidden
	}
	return nil
}
