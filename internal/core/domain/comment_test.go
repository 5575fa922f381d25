package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/lorrc/it-helpdesk/internal/core/errors"
)

func TestNewComment(t *testing.T) {
	author := uuid.New()

	comment, err := NewComment(CommentParams{
		TicketID:   7,
		AuthorID:   author,
		Body:       "Rebooted the switch, watching it now",
		IsInternal: true,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), comment.TicketID)
	assert.Equal(t, author, comment.AuthorID)
	assert.True(t, comment.IsInternal)
	assert.False(t, comment.CreatedAt.IsZero())

	_, err = NewComment(CommentParams{TicketID: 7, AuthorID: author})
	assert.ErrorIs(t, err, apperrors.ErrCommentBodyRequired)
}

func TestComment_VisibleTo(t *testing.T) {
	author := uuid.New()
	viewer := uuid.New()

	public := &Comment{AuthorID: author, Body: "public note"}
	internal := &Comment{AuthorID: author, Body: "staff only", IsInternal: true}

	assert.True(t, public.VisibleTo(viewer, false))
	assert.True(t, public.VisibleTo(viewer, true))

	assert.False(t, internal.VisibleTo(viewer, false))
	assert.True(t, internal.VisibleTo(viewer, true))

	// The creator does not get to see internal notes on their own ticket either.
	assert.False(t, internal.VisibleTo(author, false))
}
