package services

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/lorrc/it-helpdesk/internal/core/domain"
	apperrors "github.com/lorrc/it-helpdesk/internal/core/errors"
	"github.com/lorrc/it-helpdesk/internal/core/ports"
)

// AuthService implements authentication business logic
type AuthService struct {
	userRepo ports.UserRepository
}

var _ ports.AuthService = (*AuthService)(nil)

// NewAuthService creates a new authentication service
func NewAuthService(userRepo ports.UserRepository) ports.AuthService {
	return &AuthService{
		userRepo: userRepo,
	}
}

// Register creates a new user account with validated credentials.
// New accounts are ordinary users; IT staff membership is granted
// separately through the roles table.
func (s *AuthService) Register(ctx context.Context, fullName, email, password string) (*domain.User, error) {
	params := domain.UserRegistrationParams{
		FullName: fullName,
		Email:    email,
		Password: password,
	}

	if err := params.Validate(); err != nil {
		return nil, err
	}

	// Check if user already exists
	_, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil {
		return nil, apperrors.ErrUserExists
	}
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		return nil, err // An actual DB error occurred
	}

	user, err := domain.NewUser(params)
	if err != nil {
		return nil, err
	}

	return s.userRepo.Create(ctx, user)
}

// Login authenticates a user with email and password
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	if email == "" {
		return nil, apperrors.ErrEmailRequired
	}
	if password == "" {
		return nil, apperrors.ErrPasswordRequired
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			// Don't reveal whether email exists
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.CheckPassword(password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	return user, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}
