package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lorrc/it-helpdesk/internal/core/domain"
)

func TestAuthorizationRepository_Membership(t *testing.T) {
	ctx := context.Background()
	userRepo := NewUserRepository(testPool)
	authzRepo := NewAuthorizationRepository(testPool)

	member := createTestUser(t, ctx, userRepo)
	outsider := createTestUser(t, ctx, userRepo)

	require.NoError(t, authzRepo.AssignRole(ctx, member.ID, domain.RoleITStaff))

	isMember, err := authzRepo.IsMember(ctx, member.ID, domain.RoleITStaff)
	require.NoError(t, err)
	assert.True(t, isMember)

	isMember, err = authzRepo.IsMember(ctx, outsider.ID, domain.RoleITStaff)
	require.NoError(t, err)
	assert.False(t, isMember)
}

func TestAuthorizationRepository_AssignRoleIdempotent(t *testing.T) {
	ctx := context.Background()
	userRepo := NewUserRepository(testPool)
	authzRepo := NewAuthorizationRepository(testPool)

	member := createTestUser(t, ctx, userRepo)

	require.NoError(t, authzRepo.AssignRole(ctx, member.ID, domain.RoleITStaff))
	require.NoError(t, authzRepo.AssignRole(ctx, member.ID, domain.RoleITStaff))

	isMember, err := authzRepo.IsMember(ctx, member.ID, domain.RoleITStaff)
	require.NoError(t, err)
	assert.True(t, isMember)
}

func TestAuthorizationRepository_ListMembers(t *testing.T) {
	ctx := context.Background()
	userRepo := NewUserRepository(testPool)
	authzRepo := NewAuthorizationRepository(testPool)

	member := createTestUser(t, ctx, userRepo)
	require.NoError(t, authzRepo.AssignRole(ctx, member.ID, domain.RoleITStaff))

	members, err := authzRepo.ListMembers(ctx, domain.RoleITStaff)
	require.NoError(t, err)

	found := false
	for _, user := range members {
		if user.ID == member.ID {
			found = true
		}
		assert.True(t, user.IsActive)
	}
	assert.True(t, found, "expected the assigned member in the role listing")
}
