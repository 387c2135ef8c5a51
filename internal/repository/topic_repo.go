package repository

import (
	"context"
	"database/sql"

	"github.com/notepath-api/internal/database"
	"github.com/notepath-api/internal/models"
)

// topicRepo is the concrete implementation of TopicRepository
type topicRepo struct {
	db *database.DB
}

// NewTopicRepo creates a new topic repository
func NewTopicRepo(db *database.DB) TopicRepository {
	return &topicRepo{db: db}
}

// Create inserts a new topic
func (r *topicRepo) Create(ctx context.Context, topic *models.Topic) error {
	query := `
		INSERT INTO topics (id, name, slug, description, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.ExecContext(ctx, query,
		topic.ID, topic.Name, topic.Slug, nullString(topic.Description), topic.CreatedAt,
	)
	return translate(err)
}

// Update rewrites a topic's name, slug and description
func (r *topicRepo) Update(ctx context.Context, topic *models.Topic) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		"UPDATE topics SET name = $1, slug = $2, description = $3 WHERE id = $4",
		topic.Name, topic.Slug, nullString(topic.Description), topic.ID,
	)
	if err != nil {
		return false, translate(err)
	}
	rows, _ := result.RowsAffected()
	return rows > 0, nil
}

// Delete removes a topic; articles referencing it fall back to no topic
func (r *topicRepo) Delete(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM topics WHERE id = $1", id)
	if err != nil {
		return false, err
	}
	rows, _ := result.RowsAffected()
	return rows > 0, nil
}

// GetByID retrieves a topic by ID
func (r *topicRepo) GetByID(ctx context.Context, id string) (*models.Topic, error) {
	var topic models.Topic
	var description sql.NullString

	err := r.db.QueryRowContext(ctx,
		"SELECT id, name, slug, description, created_at FROM topics WHERE id = $1", id,
	).Scan(&topic.ID, &topic.Name, &topic.Slug, &description, &topic.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	topic.Description = description.String
	return &topic, nil
}

// List returns all topics ordered by name
func (r *topicRepo) List(ctx context.Context) ([]*models.Topic, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name, slug, description, created_at FROM topics ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	topics := make([]*models.Topic, 0)
	for rows.Next() {
		var topic models.Topic
		var description sql.NullString
		if err := rows.Scan(&topic.ID, &topic.Name, &topic.Slug, &description, &topic.CreatedAt); err != nil {
			return nil, err
		}
		topic.Description = description.String
		topics = append(topics, &topic)
	}
	return topics, rows.Err()
}

// Count returns the total number of topics
func (r *topicRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM topics").Scan(&count)
	return count, err
}
