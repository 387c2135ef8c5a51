package repository

import (
	"context"

	"github.com/notepath-api/internal/database"
	"github.com/notepath-api/internal/models"
)

// followRepo is the concrete implementation of FollowRepository
type followRepo struct {
	db *database.DB
}

// NewFollowRepo creates a new follow repository
func NewFollowRepo(db *database.DB) FollowRepository {
	return &followRepo{db: db}
}

// Follow inserts a follow edge; an existing edge is left untouched
func (r *followRepo) Follow(ctx context.Context, followerID, followingID string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		INSERT INTO followers (follower_id, following_id)
		VALUES ($1, $2)
		ON CONFLICT (follower_id, following_id) DO NOTHING
	`, followerID, followingID)
	if err != nil {
		return false, translate(err)
	}
	rows, _ := result.RowsAffected()
	return rows > 0, nil
}

// Unfollow deletes a follow edge
func (r *followRepo) Unfollow(ctx context.Context, followerID, followingID string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM followers WHERE follower_id = $1 AND following_id = $2",
		followerID, followingID,
	)
	if err != nil {
		return false, err
	}
	rows, _ := result.RowsAffected()
	return rows > 0, nil
}

// IsFollowing checks whether the edge exists
func (r *followRepo) IsFollowing(ctx context.Context, followerID, followingID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM followers WHERE follower_id = $1 AND following_id = $2)",
		followerID, followingID,
	).Scan(&exists)
	return exists, err
}

// ListFollowing returns the profiles a user follows, ordered by username
func (r *followRepo) ListFollowing(ctx context.Context, followerID string) ([]*models.Profile, error) {
	query := `
		SELECT p.id, p.username, p.avatar_url, p.bio, p.created_at
		FROM followers f
		JOIN profiles p ON p.id = f.following_id
		WHERE f.follower_id = $1
		ORDER BY p.username
	`
	rows, err := r.db.QueryContext(ctx, query, followerID)
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

// CountFollowers returns how many users follow userID
func (r *followRepo) CountFollowers(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM followers WHERE following_id = $1", userID).Scan(&count)
	return count, err
}

// CountFollowing returns how many users userID follows
func (r *followRepo) CountFollowing(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM followers WHERE follower_id = $1", userID).Scan(&count)
	return count, err
}
