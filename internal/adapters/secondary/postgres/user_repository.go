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

const userColumns = `id, full_name, email, hashed_password, is_active, created_at`

// UserRepository handles database operations for user accounts.
type UserRepository struct {
	pool *pgxpool.Pool
}

// Ensure implementation matches the interface.
var _ ports.UserRepository = (*UserRepository)(nil)

// NewUserRepository creates a new user repository.
func NewUserRepository(pool *pgxpool.Pool) ports.UserRepository {
	return &UserRepository{pool: pool}
}

// scanUser maps a user row to the core domain model.
func scanUser(row pgx.Row) (*domain.User, error) {
	var (
		user      domain.User
		id        pgtype.UUID
		createdAt pgtype.Timestamptz
	)

	err := row.Scan(
		&id,
		&user.FullName,
		&user.Email,
		&user.HashedPassword,
		&user.IsActive,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	if id.Valid {
		user.ID = uuid.UUID(id.Bytes)
	}
	user.CreatedAt = createdAt.Time

	return &user, nil
}

// Create persists a new user account.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	query := `
		INSERT INTO users (id, full_name, email, hashed_password, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + userColumns

	row := r.pool.QueryRow(ctx, query,
		utils.ToUUID(user.ID),
		user.FullName,
		user.Email,
		user.HashedPassword,
		user.IsActive,
		user.CreatedAt,
	)

	return scanUser(row)
}

// GetByEmail retrieves a user by email address.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := scanUser(r.pool.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// GetByID retrieves a user by their ID.
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.pool.QueryRow(ctx, query, utils.ToUUID(id)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
