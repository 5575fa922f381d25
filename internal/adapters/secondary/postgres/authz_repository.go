package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lorrc/it-helpdesk/internal/core/domain"
	"github.com/lorrc/it-helpdesk/internal/core/ports"
	"github.com/lorrc/it-helpdesk/internal/core/utils"
)

// AuthorizationRepository answers role-membership questions from the
// users/roles/user_roles tables.
type AuthorizationRepository struct {
	pool *pgxpool.Pool
}

var _ ports.AuthorizationRepository = (*AuthorizationRepository)(nil)

// NewAuthorizationRepository creates a new authorization repository.
func NewAuthorizationRepository(pool *pgxpool.Pool) ports.AuthorizationRepository {
	return &AuthorizationRepository{pool: pool}
}

// IsMember reports whether the user belongs to the named role.
func (r *AuthorizationRepository) IsMember(ctx context.Context, userID uuid.UUID, role string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM user_roles ur
			JOIN roles ro ON ro.id = ur.role_id
			WHERE ur.user_id = $1 AND ro.name = $2
		)`

	var member bool
	if err := r.pool.QueryRow(ctx, query, utils.ToUUID(userID), role).Scan(&member); err != nil {
		return false, err
	}
	return member, nil
}

// ListMembers retrieves the active users holding the named role, ordered by
// full name.
func (r *AuthorizationRepository) ListMembers(ctx context.Context, role string) ([]*domain.User, error) {
	query := `
		SELECT u.id, u.full_name, u.email, u.hashed_password, u.is_active, u.created_at
		FROM users u
		JOIN user_roles ur ON ur.user_id = u.id
		JOIN roles ro ON ro.id = ur.role_id
		WHERE ro.name = $1 AND u.is_active
		ORDER BY u.full_name ASC`

	rows, err := r.pool.Query(ctx, query, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []*domain.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// AssignRole grants the named role to the user. Granting a role the user
// already holds is a no-op.
func (r *AuthorizationRepository) AssignRole(ctx context.Context, userID uuid.UUID, role string) error {
	query := `
		INSERT INTO user_roles (user_id, role_id)
		SELECT $1, id FROM roles WHERE name = $2
		ON CONFLICT (user_id, role_id) DO NOTHING`

	_, err := r.pool.Exec(ctx, query, utils.ToUUID(userID), role)
	return err
}
