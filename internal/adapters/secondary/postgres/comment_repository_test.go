package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lorrc/it-helpdesk/internal/core/domain"
)

func TestCommentRepository_CreateAndList(t *testing.T) {
	ctx := context.Background()
	userRepo := NewUserRepository(testPool)
	ticketRepo := NewTicketRepository(testPool)
	commentRepo := NewCommentRepository(testPool)

	user := createTestUser(t, ctx, userRepo)
	ticket := createTestTicket(t, ctx, ticketRepo, user.ID, "VPN keeps dropping", domain.StatusOpen)

	first, err := domain.NewComment(domain.CommentParams{
		TicketID: ticket.ID,
		AuthorID: user.ID,
		Body:     "Happens every hour or so",
	})
	require.NoError(t, err)

	created, err := commentRepo.Create(ctx, first)
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, ticket.ID, created.TicketID)
	assert.Equal(t, user.ID, created.AuthorID)
	assert.False(t, created.IsInternal)

	internal, err := domain.NewComment(domain.CommentParams{
		TicketID:   ticket.ID,
		AuthorID:   user.ID,
		Body:       "Check the radius logs before replying",
		IsInternal: true,
	})
	require.NoError(t, err)
	// Keep ordering deterministic within the same timestamp resolution.
	internal.CreatedAt = created.CreatedAt.Add(time.Millisecond)

	_, err = commentRepo.Create(ctx, internal)
	require.NoError(t, err)

	comments, err := commentRepo.ListByTicketID(ctx, ticket.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)

	// Oldest first.
	assert.Equal(t, "Happens every hour or so", comments[0].Body)
	assert.Equal(t, "Check the radius logs before replying", comments[1].Body)
	assert.True(t, comments[1].IsInternal)
}

func TestCommentRepository_ListByTicketID_Empty(t *testing.T) {
	ctx := context.Background()
	userRepo := NewUserRepository(testPool)
	ticketRepo := NewTicketRepository(testPool)
	commentRepo := NewCommentRepository(testPool)

	user := createTestUser(t, ctx, userRepo)
	ticket := createTestTicket(t, ctx, ticketRepo, user.ID, "No comments yet", domain.StatusOpen)

	comments, err := commentRepo.ListByTicketID(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)
}
