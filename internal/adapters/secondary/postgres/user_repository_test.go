package postgres

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lorrc/it-helpdesk/internal/core/domain"
	apperrors "github.com/lorrc/it-helpdesk/internal/core/errors"
)

func TestUserRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	userRepo := NewUserRepository(testPool)

	user, err := domain.NewUser(domain.UserRegistrationParams{
		FullName: "Dana Smith",
		Email:    uuid.NewString() + "@example.com",
		Password: "Sup3rSecret",
	})
	require.NoError(t, err)

	created, err := userRepo.Create(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, user.ID, created.ID)
	assert.Equal(t, "Dana Smith", created.FullName)
	assert.True(t, created.IsActive)

	byEmail, err := userRepo.GetByEmail(ctx, user.Email)
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	byID, err := userRepo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, byID.Email)
}

func TestUserRepository_GetByEmail_NotFound(t *testing.T) {
	userRepo := NewUserRepository(testPool)

	_, err := userRepo.GetByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestUserRepository_GetByID_NotFound(t *testing.T) {
	userRepo := NewUserRepository(testPool)

	_, err := userRepo.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}
