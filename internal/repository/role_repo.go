package repository

import (
	"context"

	"github.com/notepath-api/internal/database"
)

// roleRepo is the concrete implementation of RoleRepository
type roleRepo struct {
	db *database.DB
}

// NewRoleRepo creates a new role-assignment repository
func NewRoleRepo(db *database.DB) RoleRepository {
	return &roleRepo{db: db}
}

// HasRole checks membership in the role relation
func (r *roleRepo) HasRole(ctx context.Context, userID, role string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM user_roles WHERE user_id = $1 AND role = $2)",
		userID, role,
	).Scan(&exists)
	return exists, err
}

// Grant assigns a role; granting twice is a no-op
func (r *roleRepo) Grant(ctx context.Context, userID, role string) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO user_roles (user_id, role) VALUES ($1, $2) ON CONFLICT DO NOTHING",
		userID, role,
	)
	return translate(err)
}

// Revoke removes a role assignment
func (r *roleRepo) Revoke(ctx context.Context, userID, role string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM user_roles WHERE user_id = $1 AND role = $2",
		userID, role,
	)
	if err != nil {
		return false, err
	}
	rows, _ := result.RowsAffected()
	return rows > 0, nil
}
