package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lorrc/it-helpdesk/internal/core/domain"
	"github.com/lorrc/it-helpdesk/internal/core/ports"
	"github.com/lorrc/it-helpdesk/internal/core/utils"
)

// CommentRepository handles database operations for comments.
type CommentRepository struct {
	pool *pgxpool.Pool
}

// Ensure implementation matches the interface.
var _ ports.CommentRepository = (*CommentRepository)(nil)

// NewCommentRepository creates a new comment repository.
func NewCommentRepository(pool *pgxpool.Pool) ports.CommentRepository {
	return &CommentRepository{pool: pool}
}

// scanComment maps a comment row to the core domain model.
func scanComment(row pgx.Row) (*domain.Comment, error) {
	var (
		comment   domain.Comment
		authorID  pgtype.UUID
		createdAt pgtype.Timestamptz
	)

	err := row.Scan(
		&comment.ID,
		&comment.TicketID,
		&authorID,
		&comment.Body,
		&comment.IsInternal,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	if authorID.Valid {
		comment.AuthorID = uuid.UUID(authorID.Bytes)
	}
	comment.CreatedAt = createdAt.Time

	return &comment, nil
}

// Create persists a new comment to the database.
func (r *CommentRepository) Create(ctx context.Context, comment *domain.Comment) (*domain.Comment, error) {
	query := `
		INSERT INTO ticket_comments (ticket_id, author_id, body, is_internal, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, ticket_id, author_id, body, is_internal, created_at`

	row := r.pool.QueryRow(ctx, query,
		comment.TicketID,
		utils.ToUUID(comment.AuthorID),
		comment.Body,
		comment.IsInternal,
		comment.CreatedAt,
	)

	return scanComment(row)
}

// ListByTicketID retrieves all comments for a specific ticket, oldest first.
func (r *CommentRepository) ListByTicketID(ctx context.Context, ticketID int64) ([]*domain.Comment, error) {
	query := `
		SELECT id, ticket_id, author_id, body, is_internal, created_at
		FROM ticket_comments
		WHERE ticket_id = $1
		ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := []*domain.Comment{}
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}
	return comments, rows.Err()
}
