package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lorrc/it-helpdesk/internal/core/domain"
	"github.com/lorrc/it-helpdesk/internal/core/ports"
)

// DashboardRepository serves the staff dashboard aggregate queries.
// Archived tickets are included in every figure on purpose.
type DashboardRepository struct {
	pool *pgxpool.Pool
}

var _ ports.DashboardRepository = (*DashboardRepository)(nil)

// NewDashboardRepository creates a new dashboard repository.
func NewDashboardRepository(pool *pgxpool.Pool) ports.DashboardRepository {
	return &DashboardRepository{pool: pool}
}

// Summary returns the total count, per-status counts and the most recently
// created tickets.
func (r *DashboardRepository) Summary(ctx context.Context, recentLimit int32) (*domain.DashboardSummary, error) {
	summary := &domain.DashboardSummary{}

	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM tickets`).Scan(&summary.TotalTickets); err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, `SELECT status, COUNT(*) FROM tickets GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			status string
			count  int64
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		summary.StatusCounts = append(summary.StatusCounts, domain.StatusCount{
			Status: domain.TicketStatus(status),
			Count:  count,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	recentQuery := `
		SELECT ` + ticketColumns + `
		FROM tickets
		ORDER BY created_at DESC
		LIMIT $1`

	recentRows, err := r.pool.Query(ctx, recentQuery, recentLimit)
	if err != nil {
		return nil, err
	}

	recent, err := collectTickets(recentRows)
	if err != nil {
		return nil, err
	}
	summary.RecentTickets = recent

	return summary, nil
}
