package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/notepath-api/internal/database"
	"github.com/notepath-api/internal/models"
)

// userRepo is the concrete implementation of UserRepository
type userRepo struct {
	db *database.DB
}

// NewUserRepo creates a new user repository
func NewUserRepo(db *database.DB) UserRepository {
	return &userRepo{db: db}
}

// CreateWithProfile inserts the auth identity and its profile atomically
func (r *userRepo) CreateWithProfile(ctx context.Context, user *models.User, profile *models.Profile) error {
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO users (id, email, password_hash, email_confirmed_at, created_at)
			VALUES ($1, $2, $3, $4, $5)
		`, user.ID, strings.ToLower(user.Email), user.PasswordHash, user.EmailConfirmedAt, user.CreatedAt)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO profiles (id, username, avatar_url, bio, created_at)
			VALUES ($1, $2, $3, $4, $5)
		`, profile.ID, profile.Username, nullString(profile.AvatarURL), nullString(profile.Bio), profile.CreatedAt)
		return err
	})
	return translate(err)
}

func (r *userRepo) getOne(ctx context.Context, where string, arg interface{}) (*models.User, error) {
	query := `SELECT id, email, password_hash, email_confirmed_at, created_at FROM users WHERE ` + where

	var user models.User
	var confirmedAt sql.NullTime

	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &confirmedAt, &user.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if confirmedAt.Valid {
		user.EmailConfirmedAt = &confirmedAt.Time
	}
	return &user, nil
}

// GetByID retrieves a user by ID
func (r *userRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.getOne(ctx, "id = $1", id)
}

// GetByEmail retrieves a user by email, case-insensitively
func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, "email = $1", strings.ToLower(email))
}

// ConfirmEmail marks the user's email as verified
func (r *userRepo) ConfirmEmail(ctx context.Context, id string, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE users SET email_confirmed_at = COALESCE(email_confirmed_at, $1) WHERE id = $2",
		at, id,
	)
	return err
}

// UpdatePassword replaces the stored password hash
func (r *userRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	_, err := r.db.ExecContext(ctx, "UPDATE users SET password_hash = $1 WHERE id = $2", passwordHash, id)
	return err
}
