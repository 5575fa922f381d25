package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lorrc/it-helpdesk/internal/core/domain"
	apperrors "github.com/lorrc/it-helpdesk/internal/core/errors"
	"github.com/lorrc/it-helpdesk/internal/core/ports"
	"github.com/lorrc/it-helpdesk/internal/core/utils"
)

// AttachmentRepository handles database operations for attachment metadata.
type AttachmentRepository struct {
	pool *pgxpool.Pool
}

// Ensure implementation matches the interface.
var _ ports.AttachmentRepository = (*AttachmentRepository)(nil)

// NewAttachmentRepository creates a new attachment repository.
func NewAttachmentRepository(pool *pgxpool.Pool) ports.AttachmentRepository {
	return &AttachmentRepository{pool: pool}
}

// scanAttachment maps an attachment row to the core domain model.
func scanAttachment(row pgx.Row) (*domain.Attachment, error) {
	var (
		attachment domain.Attachment
		uploadedBy pgtype.UUID
		createdAt  pgtype.Timestamptz
	)

	err := row.Scan(
		&attachment.ID,
		&attachment.TicketID,
		&uploadedBy,
		&attachment.FileName,
		&attachment.StorageKey,
		&attachment.SizeBytes,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	if uploadedBy.Valid {
		attachment.UploadedBy = uuid.UUID(uploadedBy.Bytes)
	}
	attachment.CreatedAt = createdAt.Time

	return &attachment, nil
}

// Create persists a new attachment metadata row.
func (r *AttachmentRepository) Create(ctx context.Context, attachment *domain.Attachment) (*domain.Attachment, error) {
	query := `
		INSERT INTO ticket_attachments (ticket_id, uploaded_by, file_name, storage_key, size_bytes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, ticket_id, uploaded_by, file_name, storage_key, size_bytes, created_at`

	row := r.pool.QueryRow(ctx, query,
		attachment.TicketID,
		utils.ToUUID(attachment.UploadedBy),
		attachment.FileName,
		attachment.StorageKey,
		attachment.SizeBytes,
		attachment.CreatedAt,
	)

	return scanAttachment(row)
}

// GetByID retrieves a single attachment by its ID.
func (r *AttachmentRepository) GetByID(ctx context.Context, id int64) (*domain.Attachment, error) {
	query := `
		SELECT id, ticket_id, uploaded_by, file_name, storage_key, size_bytes, created_at
		FROM ticket_attachments
		WHERE id = $1`

	attachment, err := scanAttachment(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrAttachmentNotFound
		}
		return nil, err
	}
	return attachment, nil
}

// ListByTicketID retrieves all attachments for a specific ticket, oldest first.
func (r *AttachmentRepository) ListByTicketID(ctx context.Context, ticketID int64) ([]*domain.Attachment, error) {
	query := `
		SELECT id, ticket_id, uploaded_by, file_name, storage_key, size_bytes, created_at
		FROM ticket_attachments
		WHERE ticket_id = $1
		ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	attachments := []*domain.Attachment{}
	for rows.Next() {
		attachment, err := scanAttachment(rows)
		if err != nil {
			return nil, err
		}
		attachments = append(attachments, attachment)
	}
	return attachments, rows.Err()
}
