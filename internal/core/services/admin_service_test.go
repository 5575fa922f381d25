package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lorrc/it-helpdesk/internal/core/domain"
	apperrors "github.com/lorrc/it-helpdesk/internal/core/errors"
	"github.com/lorrc/it-helpdesk/internal/core/mocks"
)

func TestAdminService_Dashboard(t *testing.T) {
	ctx := context.Background()

	t.Run("staff get the summary", func(t *testing.T) {
		ticketRepo := mocks.NewMockTicketRepository()
		dashboardRepo := mocks.NewMockDashboardRepository()
		authzSvc := mocks.NewMockAuthorizationService()
		svc := NewAdminService(ticketRepo, dashboardRepo, authzSvc)

		staff := uuid.New()
		summary := &domain.DashboardSummary{
			TotalTickets: 12,
			StatusCounts: []domain.StatusCount{{Status: domain.StatusOpen, Count: 5}},
		}
		authzSvc.On("IsITStaff", ctx, staff).Return(true, nil)
		dashboardRepo.On("Summary", ctx, int32(10)).Return(summary, nil)

		got, err := svc.Dashboard(ctx, staff)
		require.NoError(t, err)
		assert.Equal(t, int64(12), got.TotalTickets)
		dashboardRepo.AssertExpectations(t)
	})

	t.Run("non-staff are forbidden", func(t *testing.T) {
		ticketRepo := mocks.NewMockTicketRepository()
		dashboardRepo := mocks.NewMockDashboardRepository()
		authzSvc := mocks.NewMockAuthorizationService()
		svc := NewAdminService(ticketRepo, dashboardRepo, authzSvc)

		user := uuid.New()
		authzSvc.On("IsITStaff", ctx, user).Return(false, nil)

		_, err := svc.Dashboard(ctx, user)
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
		dashboardRepo.AssertNotCalled(t, "Summary", mock.Anything, mock.Anything)
	})
}

func TestAdminService_PurgeClosedTickets(t *testing.T) {
	ctx := context.Background()

	t.Run("staff purge returns the count", func(t *testing.T) {
		ticketRepo := mocks.NewMockTicketRepository()
		dashboardRepo := mocks.NewMockDashboardRepository()
		authzSvc := mocks.NewMockAuthorizationService()
		svc := NewAdminService(ticketRepo, dashboardRepo, authzSvc)

		staff := uuid.New()
		authzSvc.On("IsITStaff", ctx, staff).Return(true, nil)
		ticketRepo.On("DeleteClosed", ctx).Return(int64(4), nil)

		count, err := svc.PurgeClosedTickets(ctx, staff)
		require.NoError(t, err)
		assert.Equal(t, int64(4), count)
	})

	t.Run("zero matches is not an error", func(t *testing.T) {
		ticketRepo := mocks.NewMockTicketRepository()
		dashboardRepo := mocks.NewMockDashboardRepository()
		authzSvc := mocks.NewMockAuthorizationService()
		svc := NewAdminService(ticketRepo, dashboardRepo, authzSvc)

		staff := uuid.New()
		authzSvc.On("IsITStaff", ctx, staff).Return(true, nil)
		ticketRepo.On("DeleteClosed", ctx).Return(int64(0), nil)

		count, err := svc.PurgeClosedTickets(ctx, staff)
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("non-staff are forbidden", func(t *testing.T) {
		ticketRepo := mocks.NewMockTicketRepository()
		dashboardRepo := mocks.NewMockDashboardRepository()
		authzSvc := mocks.NewMockAuthorizationService()
		svc := NewAdminService(ticketRepo, dashboardRepo, authzSvc)

		user := uuid.New()
		authzSvc.On("IsITStaff", ctx, user).Return(false, nil)

		_, err := svc.PurgeClosedTickets(ctx, user)
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
		ticketRepo.AssertNotCalled(t, "DeleteClosed", mock.Anything)
	})
}

func TestAdminService_ListAssignees(t *testing.T) {
	ctx := context.Background()

	t.Run("staff get the assignee picker list", func(t *testing.T) {
		ticketRepo := mocks.NewMockTicketRepository()
		dashboardRepo := mocks.NewMockDashboardRepository()
		authzSvc := mocks.NewMockAuthorizationService()
		svc := NewAdminService(ticketRepo, dashboardRepo, authzSvc)

		staff := uuid.New()
		authzSvc.On("IsITStaff", ctx, staff).Return(true, nil)
		authzSvc.On("ListStaff", ctx).Return([]*domain.User{{FullName: "Ops One"}}, nil)

		assignees, err := svc.ListAssignees(ctx, staff)
		require.NoError(t, err)
		require.Len(t, assignees, 1)
		assert.Equal(t, "Ops One", assignees[0].FullName)
	})

	t.Run("non-staff are forbidden", func(t *testing.T) {
		ticketRepo := mocks.NewMockTicketRepository()
		dashboardRepo := mocks.NewMockDashboardRepository()
		authzSvc := mocks.NewMockAuthorizationService()
		svc := NewAdminService(ticketRepo, dashboardRepo, authzSvc)

		user := uuid.New()
		authzSvc.On("IsITStaff", ctx, user).Return(false, nil)

		_, err := svc.ListAssignees(ctx, user)
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
		authzSvc.AssertNotCalled(t, "ListStaff", mock.Anything)
	})
}
