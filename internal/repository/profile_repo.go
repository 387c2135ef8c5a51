package repository

import (
	"context"
	"database/sql"

	"github.com/notepath-api/internal/database"
	"github.com/notepath-api/internal/models"
)

// profileRepo is the concrete implementation of ProfileRepository
type profileRepo struct {
	db *database.DB
}

// NewProfileRepo creates a new profile repository
func NewProfileRepo(db *database.DB) ProfileRepository {
	return &profileRepo{db: db}
}

func scanProfile(row scanner) (*models.Profile, error) {
	var profile models.Profile
	var avatarURL, bio sql.NullString
	if err := row.Scan(&profile.ID, &profile.Username, &avatarURL, &bio, &profile.CreatedAt); err != nil {
		return nil, err
	}
	profile.AvatarURL = avatarURL.String
	profile.Bio = bio.String
	return &profile, nil
}

// GetByID retrieves a profile by user ID
func (r *profileRepo) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	profile, err := scanProfile(r.db.QueryRowContext(ctx,
		"SELECT id, username, avatar_url, bio, created_at FROM profiles WHERE id = $1", id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return profile, err
}

// List returns every profile ordered by username
func (r *profileRepo) List(ctx context.Context) ([]*models.Profile, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, username, avatar_url, bio, created_at FROM profiles ORDER BY username")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	profiles := make([]*models.Profile, 0)
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}
	return profiles, rows.Err()
}

// Update rewrites the self-editable profile fields
func (r *profileRepo) Update(ctx context.Context, profile *models.Profile) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		"UPDATE profiles SET username = $1, avatar_url = $2, bio = $3 WHERE id = $4",
		profile.Username, nullString(profile.AvatarURL), nullString(profile.Bio), profile.ID,
	)
	if err != nil {
		return false, translate(err)
	}
	rows, _ := result.RowsAffected()
	return rows > 0, nil
}

// Count returns the total number of profiles
func (r *profileRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM profiles").Scan(&count)
	return count, err
}

// StreamUsers streams profiles joined with email and admin role for the users tab
func (r *profileRepo) StreamUsers(ctx context.Context, callback func(*models.UserSummary) error) error {
	query := `
		SELECT p.id, p.username, p.avatar_url, p.bio, p.created_at, u.email,
			EXISTS(SELECT 1 FROM user_roles ur WHERE ur.user_id = p.id AND ur.role = $1)
		FROM profiles p
		JOIN users u ON u.id = p.id
		ORDER BY p.username
	`
	rows, err := r.db.QueryContext(ctx, query, models.RoleAdmin)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var user models.UserSummary
		var avatarURL, bio sql.NullString

		err := rows.Scan(
			&user.ID, &user.Username, &avatarURL, &bio, &user.CreatedAt,
			&user.Email, &user.IsAdmin,
		)
		if err != nil {
			return err
		}
		user.AvatarURL = avatarURL.String
		user.Bio = bio.String

		if err := callback(&user); err != nil {
			return err
		}
	}

	return rows.Err()
}
