package postgres

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lorrc/it-helpdesk/internal/core/domain"
	apperrors "github.com/lorrc/it-helpdesk/internal/core/errors"
)

func TestAttachmentRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	userRepo := NewUserRepository(testPool)
	ticketRepo := NewTicketRepository(testPool)
	attachmentRepo := NewAttachmentRepository(testPool)

	user := createTestUser(t, ctx, userRepo)
	ticket := createTestTicket(t, ctx, ticketRepo, user.ID, "Monitor flicker", domain.StatusOpen)

	storageKey := uuid.NewString() + ".png"
	attachment, err := domain.NewAttachment(domain.AttachmentParams{
		TicketID:   ticket.ID,
		UploadedBy: user.ID,
		FileName:   "screenshot.png",
		StorageKey: storageKey,
		SizeBytes:  2048,
	})
	require.NoError(t, err)

	created, err := attachmentRepo.Create(ctx, attachment)
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "screenshot.png", created.FileName)
	assert.Equal(t, int64(2048), created.SizeBytes)
	assert.Equal(t, storageKey, created.StorageKey)

	found, err := attachmentRepo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.StorageKey, found.StorageKey)
	assert.Equal(t, user.ID, found.UploadedBy)
}

func TestAttachmentRepository_GetByID_NotFound(t *testing.T) {
	attachmentRepo := NewAttachmentRepository(testPool)

	_, err := attachmentRepo.GetByID(context.Background(), 999999999)
	assert.ErrorIs(t, err, apperrors.ErrAttachmentNotFound)
}

func TestAttachmentRepository_ListByTicketID(t *testing.T) {
	ctx := context.Background()
	userRepo := NewUserRepository(testPool)
	ticketRepo := NewTicketRepository(testPool)
	attachmentRepo := NewAttachmentRepository(testPool)

	user := createTestUser(t, ctx, userRepo)
	ticket := createTestTicket(t, ctx, ticketRepo, user.ID, "Needs evidence", domain.StatusOpen)
	other := createTestTicket(t, ctx, ticketRepo, user.ID, "Unrelated", domain.StatusOpen)

	for _, name := range []string{"boot.log", "dmesg.txt"} {
		attachment, err := domain.NewAttachment(domain.AttachmentParams{
			TicketID:   ticket.ID,
			UploadedBy: user.ID,
			FileName:   name,
			StorageKey: uuid.NewString() + filepath.Ext(name),
			SizeBytes:  128,
		})
		require.NoError(t, err)
		_, err = attachmentRepo.Create(ctx, attachment)
		require.NoError(t, err)
	}

	attachments, err := attachmentRepo.ListByTicketID(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Len(t, attachments, 2)

	none, err := attachmentRepo.ListByTicketID(ctx, other.ID)
	require.NoError(t, err)
	assert.Empty(t, none)
}
