package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/lorrc/it-helpdesk/internal/core/domain"
	"github.com/lorrc/it-helpdesk/internal/core/ports"
)

// AuthorizationService implements the IT staff role check as an explicit
// set-membership lookup against the identity store.
type AuthorizationService struct {
	authRepo ports.AuthorizationRepository
}

// Ensure implementation matches the interface.
var _ ports.AuthorizationService = (*AuthorizationService)(nil)

// NewAuthorizationService creates a new service for authorization logic.
func NewAuthorizationService(authRepo ports.AuthorizationRepository) ports.AuthorizationService {
	return &AuthorizationService{
		authRepo: authRepo,
	}
}

// IsITStaff reports whether the user belongs to the IT staff role.
// On lookup failure (e.g. db down) access is denied.
func (s *AuthorizationService) IsITStaff(ctx context.Context, userID uuid.UUID) (bool, error) {
	return s.authRepo.IsMember(ctx, userID, domain.RoleITStaff)
}

// ListStaff returns all members of the IT staff role. The result doubles as
// the valid assignee set for ticket assignment.
func (s *AuthorizationService) ListStaff(ctx context.Context) ([]*domain.User, error) {
	return s.authRepo.ListMembers(ctx, domain.RoleITStaff)
}
