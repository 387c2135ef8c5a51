package repository

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
	"github.com/notepath-api/internal/database"
	"github.com/notepath-api/internal/models"
)

// articleTagRepo is the concrete implementation of ArticleTagRepository
type articleTagRepo struct {
	db *database.DB
}

// NewArticleTagRepo creates a new article/tag association repository
func NewArticleTagRepo(db *database.DB) ArticleTagRepository {
	return &articleTagRepo{db: db}
}

// insertArticleTags writes all associations for one article with a single COPY.
// The article_tags trigger rejects the batch if it would exceed the tag limit.
func insertArticleTags(ctx context.Context, tx *sql.Tx, articleID string, tagIDs []string) error {
	if len(tagIDs) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn("article_tags", "article_id", "tag_id"))
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, tagID := range tagIDs {
		if _, err := stmt.ExecContext(ctx, articleID, tagID); err != nil {
			return err
		}
	}

	_, err = stmt.ExecContext(ctx)
	return err
}

// TagsFor returns the tags associated with one article
func (r *articleTagRepo) TagsFor(ctx context.Context, articleID string) ([]models.Tag, error) {
	byArticle, err := r.TagsForArticles(ctx, []string{articleID})
	if err != nil {
		return nil, err
	}
	return byArticle[articleID], nil
}

// TagsForArticles loads tags for many articles in one round trip
func (r *articleTagRepo) TagsForArticles(ctx context.Context, articleIDs []string) (map[string][]models.Tag, error) {
	result := make(map[string][]models.Tag, len(articleIDs))
	if len(articleIDs) == 0 {
		return result, nil
	}

	query := `
		SELECT at.article_id, g.id, g.name, g.slug, g.created_at
		FROM article_tags at
		JOIN tags g ON g.id = at.tag_id
		WHERE at.article_id = ANY($1)
		ORDER BY g.name
	`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(articleIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var articleID string
		var tag models.Tag
		if err := rows.Scan(&articleID, &tag.ID, &tag.Name, &tag.Slug, &tag.CreatedAt); err != nil {
			return nil, err
		}
		result[articleID] = append(result[articleID], tag)
	}
	return result, rows.Err()
}
