package repository

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
	"github.com/notepath-api/internal/database"
	"github.com/notepath-api/internal/models"
)

// tagRepo is the concrete implementation of TagRepository
type tagRepo struct {
	db *database.DB
}

// NewTagRepo creates a new tag repository
func NewTagRepo(db *database.DB) TagRepository {
	return &tagRepo{db: db}
}

// Create inserts a new tag
func (r *tagRepo) Create(ctx context.Context, tag *models.Tag) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO tags (id, name, slug, created_at) VALUES ($1, $2, $3, $4)",
		tag.ID, tag.Name, tag.Slug, tag.CreatedAt,
	)
	return translate(err)
}

// Update rewrites a tag's name and slug
func (r *tagRepo) Update(ctx context.Context, tag *models.Tag) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		"UPDATE tags SET name = $1, slug = $2 WHERE id = $3",
		tag.Name, tag.Slug, tag.ID,
	)
	if err != nil {
		return false, translate(err)
	}
	rows, _ := result.RowsAffected()
	return rows > 0, nil
}

// Delete removes a tag and, by cascade, its article associations
func (r *tagRepo) Delete(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM tags WHERE id = $1", id)
	if err != nil {
		return false, err
	}
	rows, _ := result.RowsAffected()
	return rows > 0, nil
}

// GetByID retrieves a tag by ID
func (r *tagRepo) GetByID(ctx context.Context, id string) (*models.Tag, error) {
	var tag models.Tag
	err := r.db.QueryRowContext(ctx,
		"SELECT id, name, slug, created_at FROM tags WHERE id = $1", id,
	).Scan(&tag.ID, &tag.Name, &tag.Slug, &tag.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

// List returns all tags ordered by name
func (r *tagRepo) List(ctx context.Context) ([]*models.Tag, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name, slug, created_at FROM tags ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := make([]*models.Tag, 0)
	for rows.Next() {
		var tag models.Tag
		if err := rows.Scan(&tag.ID, &tag.Name, &tag.Slug, &tag.CreatedAt); err != nil {
			return nil, err
		}
		tags = append(tags, &tag)
	}
	return tags, rows.Err()
}

// CountExisting returns how many of the given ids name an existing tag
func (r *tagRepo) CountExisting(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM tags WHERE id = ANY($1)", pq.Array(ids)).Scan(&count)
	return count, err
}

// Count returns the total number of tags
func (r *tagRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM tags").Scan(&count)
	return count, err
}
