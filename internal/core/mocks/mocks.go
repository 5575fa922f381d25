package mocks

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/lorrc/it-helpdesk/internal/core/domain"
	"github.com/lorrc/it-helpdesk/internal/core/ports"
)

// MockUserRepository is a mock implementation of ports.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{}
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockTicketRepository is a mock implementation of ports.TicketRepository
type MockTicketRepository struct {
	mock.Mock
}

func NewMockTicketRepository() *MockTicketRepository {
	return &MockTicketRepository{}
}

func (m *MockTicketRepository) Create(ctx context.Context, ticket *domain.Ticket) (*domain.Ticket, error) {
	args := m.Called(ctx, ticket)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ticket), args.Error(1)
}

func (m *MockTicketRepository) GetByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ticket), args.Error(1)
}

func (m *MockTicketRepository) Update(ctx context.Context, ticket *domain.Ticket) (*domain.Ticket, error) {
	args := m.Called(ctx, ticket)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ticket), args.Error(1)
}

func (m *MockTicketRepository) ListAll(ctx context.Context, params ports.ListTicketsRepoParams) ([]*domain.Ticket, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Ticket), args.Error(1)
}

func (m *MockTicketRepository) ListByCreator(ctx context.Context, creatorID uuid.UUID, params ports.ListTicketsRepoParams) ([]*domain.Ticket, error) {
	args := m.Called(ctx, creatorID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Ticket), args.Error(1)
}

func (m *MockTicketRepository) DeleteClosed(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockDashboardRepository is a mock implementation of ports.DashboardRepository
type MockDashboardRepository struct {
	mock.Mock
}

func NewMockDashboardRepository() *MockDashboardRepository {
	return &MockDashboardRepository{}
}

func (m *MockDashboardRepository) Summary(ctx context.Context, recentLimit int32) (*domain.DashboardSummary, error) {
	args := m.Called(ctx, recentLimit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DashboardSummary), args.Error(1)
}

// MockCommentRepository is a mock implementation of ports.CommentRepository
type MockCommentRepository struct {
	mock.Mock
}

func NewMockCommentRepository() *MockCommentRepository {
	return &MockCommentRepository{}
}

func (m *MockCommentRepository) Create(ctx context.Context, comment *domain.Comment) (*domain.Comment, error) {
	args := m.Called(ctx, comment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Comment), args.Error(1)
}

func (m *MockCommentRepository) ListByTicketID(ctx context.Context, ticketID int64) ([]*domain.Comment, error) {
	args := m.Called(ctx, ticketID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Comment), args.Error(1)
}

// MockAttachmentRepository is a mock implementation of ports.AttachmentRepository
type MockAttachmentRepository struct {
	mock.Mock
}

func NewMockAttachmentRepository() *MockAttachmentRepository {
	return &MockAttachmentRepository{}
}

func (m *MockAttachmentRepository) Create(ctx context.Context, attachment *domain.Attachment) (*domain.Attachment, error) {
	args := m.Called(ctx, attachment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Attachment), args.Error(1)
}

func (m *MockAttachmentRepository) GetByID(ctx context.Context, id int64) (*domain.Attachment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Attachment), args.Error(1)
}

func (m *MockAttachmentRepository) ListByTicketID(ctx context.Context, ticketID int64) ([]*domain.Attachment, error) {
	args := m.Called(ctx, ticketID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Attachment), args.Error(1)
}

// MockAuthorizationRepository is a mock implementation of ports.AuthorizationRepository
type MockAuthorizationRepository struct {
	mock.Mock
}

func NewMockAuthorizationRepository() *MockAuthorizationRepository {
	return &MockAuthorizationRepository{}
}

func (m *MockAuthorizationRepository) IsMember(ctx context.Context, userID uuid.UUID, role string) (bool, error) {
	args := m.Called(ctx, userID, role)
	return args.Bool(0), args.Error(1)
}

func (m *MockAuthorizationRepository) ListMembers(ctx context.Context, role string) ([]*domain.User, error) {
	args := m.Called(ctx, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.User), args.Error(1)
}

func (m *MockAuthorizationRepository) AssignRole(ctx context.Context, userID uuid.UUID, role string) error {
	args := m.Called(ctx, userID, role)
	return args.Error(0)
}

// MockAuthorizationService is a mock implementation of ports.AuthorizationService
type MockAuthorizationService struct {
	mock.Mock
}

func NewMockAuthorizationService() *MockAuthorizationService {
	return &MockAuthorizationService{}
}

func (m *MockAuthorizationService) IsITStaff(ctx context.Context, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAuthorizationService) ListStaff(ctx context.Context) ([]*domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.User), args.Error(1)
}

// MockTicketService is a mock implementation of ports.TicketService
type MockTicketService struct {
	mock.Mock
}

func NewMockTicketService() *MockTicketService {
	return &MockTicketService{}
}

func (m *MockTicketService) CreateTicket(ctx context.Context, params ports.CreateTicketParams) (*domain.Ticket, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ticket), args.Error(1)
}

func (m *MockTicketService) GetTicket(ctx context.Context, ticketID int64, viewerID uuid.UUID) (*domain.Ticket, error) {
	args := m.Called(ctx, ticketID, viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ticket), args.Error(1)
}

func (m *MockTicketService) ListTickets(ctx context.Context, params ports.ListTicketsParams) ([]*domain.Ticket, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Ticket), args.Error(1)
}

func (m *MockTicketService) UpdateTicket(ctx context.Context, params ports.UpdateTicketParams) (*domain.Ticket, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ticket), args.Error(1)
}

func (m *MockTicketService) AssignToMe(ctx context.Context, ticketID int64, staffID uuid.UUID) (*domain.Ticket, error) {
	args := m.Called(ctx, ticketID, staffID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ticket), args.Error(1)
}

func (m *MockTicketService) ArchiveTicket(ctx context.Context, ticketID int64, staffID uuid.UUID) (*domain.Ticket, error) {
	args := m.Called(ctx, ticketID, staffID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ticket), args.Error(1)
}

// MockAdminService is a mock implementation of ports.AdminService
type MockAdminService struct {
	mock.Mock
}

func NewMockAdminService() *MockAdminService {
	return &MockAdminService{}
}

func (m *MockAdminService) Dashboard(ctx context.Context, actorID uuid.UUID) (*domain.DashboardSummary, error) {
	args := m.Called(ctx, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DashboardSummary), args.Error(1)
}

func (m *MockAdminService) PurgeClosedTickets(ctx context.Context, actorID uuid.UUID) (int64, error) {
	args := m.Called(ctx, actorID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAdminService) ListAssignees(ctx context.Context, actorID uuid.UUID) ([]*domain.User, error) {
	args := m.Called(ctx, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.User), args.Error(1)
}

// MockBlobStore is a mock implementation of ports.BlobStore
type MockBlobStore struct {
	mock.Mock
}

func NewMockBlobStore() *MockBlobStore {
	return &MockBlobStore{}
}

func (m *MockBlobStore) Save(ctx context.Context, key string, content io.Reader) (int64, error) {
	args := m.Called(ctx, key, content)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBlobStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func (m *MockBlobStore) Remove(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// MockEventBroadcaster is a mock implementation of ports.EventBroadcaster
type MockEventBroadcaster struct {
	mock.Mock
}

func NewMockEventBroadcaster() *MockEventBroadcaster {
	return &MockEventBroadcaster{}
}

func (m *MockEventBroadcaster) Broadcast(event domain.Event) error {
	args := m.Called(event)
	return args.Error(0)
}
