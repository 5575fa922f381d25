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

const ticketColumns = `id, title, description, status, priority, created_by,
	assignee_id, created_at, updated_at, is_deleted, deleted_at, deleted_by`

// TicketRepository is the secondary adapter for ticket persistence.
type TicketRepository struct {
	pool *pgxpool.Pool
}

// Ensure TicketRepository implements the ports.TicketRepository interface.
var _ ports.TicketRepository = (*TicketRepository)(nil)

// NewTicketRepository creates a new ticket repository.
func NewTicketRepository(pool *pgxpool.Pool) ports.TicketRepository {
	return &TicketRepository{pool: pool}
}

// scanTicket maps a ticket row to the core domain model.
func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var (
		ticket     domain.Ticket
		status     string
		priority   string
		createdBy  pgtype.UUID
		assigneeID pgtype.UUID
		createdAt  pgtype.Timestamptz
		updatedAt  pgtype.Timestamptz
		deletedAt  pgtype.Timestamptz
		deletedBy  pgtype.UUID
	)

	err := row.Scan(
		&ticket.ID,
		&ticket.Title,
		&ticket.Description,
		&status,
		&priority,
		&createdBy,
		&assigneeID,
		&createdAt,
		&updatedAt,
		&ticket.IsDeleted,
		&deletedAt,
		&deletedBy,
	)
	if err != nil {
		return nil, err
	}

	ticket.Status = domain.TicketStatus(status)
	ticket.Priority = domain.TicketPriority(priority)
	ticket.CreatedAt = createdAt.Time
	if createdBy.Valid {
		ticket.CreatedBy = uuid.UUID(createdBy.Bytes)
	}
	ticket.AssigneeID = utils.FromNullUUID(assigneeID)
	ticket.UpdatedAt = utils.FromNullTime(updatedAt)
	ticket.DeletedAt = utils.FromNullTime(deletedAt)
	ticket.DeletedBy = utils.FromNullUUID(deletedBy)

	return &ticket, nil
}

// Create persists a new ticket entity.
func (r *TicketRepository) Create(ctx context.Context, ticket *domain.Ticket) (*domain.Ticket, error) {
	query := `
		INSERT INTO tickets (title, description, status, priority, created_by, assignee_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + ticketColumns

	row := r.pool.QueryRow(ctx, query,
		ticket.Title,
		ticket.Description,
		string(ticket.Status),
		string(ticket.Priority),
		utils.ToUUID(ticket.CreatedBy),
		utils.ToNullUUID(ticket.AssigneeID),
		ticket.CreatedAt,
	)

	return scanTicket(row)
}

// GetByID retrieves a single ticket by its ID.
func (r *TicketRepository) GetByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id = $1`

	ticket, err := scanTicket(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTicketNotFound
		}
		return nil, err
	}
	return ticket, nil
}

// Update persists changes to an existing ticket entity: status, priority,
// assignee and the soft-delete fields, in a single statement.
func (r *TicketRepository) Update(ctx context.Context, ticket *domain.Ticket) (*domain.Ticket, error) {
	query := `
		UPDATE tickets
		SET status = $2, priority = $3, assignee_id = $4, updated_at = $5,
		    is_deleted = $6, deleted_at = $7, deleted_by = $8
		WHERE id = $1
		RETURNING ` + ticketColumns

	row := r.pool.QueryRow(ctx, query,
		ticket.ID,
		string(ticket.Status),
		string(ticket.Priority),
		utils.ToNullUUID(ticket.AssigneeID),
		utils.ToNullTime(ticket.UpdatedAt),
		ticket.IsDeleted,
		utils.ToNullTime(ticket.DeletedAt),
		utils.ToNullUUID(ticket.DeletedBy),
	)

	updated, err := scanTicket(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTicketNotFound
		}
		return nil, err
	}
	return updated, nil
}

// collectTickets drains rows into domain tickets.
func collectTickets(rows pgx.Rows) ([]*domain.Ticket, error) {
	defer rows.Close()

	var tickets []*domain.Ticket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, ticket)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if tickets == nil {
		tickets = []*domain.Ticket{}
	}
	return tickets, nil
}

// ListAll retrieves all tickets, newest first.
func (r *TicketRepository) ListAll(ctx context.Context, params ports.ListTicketsRepoParams) ([]*domain.Ticket, error) {
	query := `
		SELECT ` + ticketColumns + `
		FROM tickets
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, params.Limit, params.Offset)
	if err != nil {
		return nil, err
	}
	return collectTickets(rows)
}

// ListByCreator retrieves tickets created by a specific user, newest first.
func (r *TicketRepository) ListByCreator(ctx context.Context, creatorID uuid.UUID, params ports.ListTicketsRepoParams) ([]*domain.Ticket, error) {
	query := `
		SELECT ` + ticketColumns + `
		FROM tickets
		WHERE created_by = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, utils.ToUUID(creatorID), params.Limit, params.Offset)
	if err != nil {
		return nil, err
	}
	return collectTickets(rows)
}

// DeleteClosed hard-deletes every closed ticket, archived or not. Comments
// and attachments go with them via the FK cascade.
func (r *TicketRepository) DeleteClosed(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tickets WHERE status = $1`, string(domain.StatusClosed))
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
