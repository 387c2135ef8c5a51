package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/notepath-api/internal/database"
	"github.com/notepath-api/internal/models"
)

// Author username and topic name ride along on every read so list views need no extra lookups.
const (
	articleColumns = `
		a.id, a.title, a.slug, a.description, a.content, a.thumbnail_url, a.status,
		a.author_id, COALESCE(p.username, '` + models.AnonymousAuthor + `'), a.topic_id, COALESCE(t.name, ''),
		COALESCE(t.slug, ''), a.views, a.created_at, a.updated_at, a.published_at`
	articleFrom = `
		FROM articles a
		LEFT JOIN profiles p ON p.id = a.author_id
		LEFT JOIN topics t ON t.id = a.topic_id`
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// articleRepo is the concrete implementation of ArticleRepository
type articleRepo struct {
	db *database.DB
}

// NewArticleRepo creates a new article repository
func NewArticleRepo(db *database.DB) ArticleRepository {
	return &articleRepo{db: db}
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanArticle(row scanner) (*models.Article, error) {
	var article models.Article
	var thumbnailURL, topicID sql.NullString
	var publishedAt sql.NullTime

	err := row.Scan(
		&article.ID, &article.Title, &article.Slug, &article.Description, &article.Content,
		&thumbnailURL, &article.Status, &article.AuthorID, &article.AuthorUsername,
		&topicID, &article.TopicName, &article.TopicSlug,
		&article.Views, &article.CreatedAt, &article.UpdatedAt, &publishedAt,
	)
	if err != nil {
		return nil, err
	}

	article.ThumbnailURL = thumbnailURL.String
	article.TopicID = topicID.String
	if publishedAt.Valid {
		article.PublishedAt = &publishedAt.Time
	}
	return &article, nil
}

func (r *articleRepo) queryArticles(ctx context.Context, query string, args ...interface{}) ([]*models.Article, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	articles := make([]*models.Article, 0)
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, article)
	}
	return articles, rows.Err()
}

// CreateWithTags inserts the article row and its tag associations atomically
func (r *articleRepo) CreateWithTags(ctx context.Context, article *models.Article, tagIDs []string) error {
	query := `
		INSERT INTO articles (id, title, slug, description, content, thumbnail_url, status,
			author_id, topic_id, views, created_at, updated_at, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 0, $10, $10, NULL)
	`
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, query,
			article.ID, article.Title, article.Slug, article.Description, article.Content,
			nullString(article.ThumbnailURL), article.Status, article.AuthorID,
			nullString(article.TopicID), article.CreatedAt,
		)
		if err != nil {
			return err
		}
		return insertArticleTags(ctx, tx, article.ID, tagIDs)
	})
	return translate(err)
}

// GetByID retrieves an article by ID regardless of status
func (r *articleRepo) GetByID(ctx context.Context, id string) (*models.Article, error) {
	query := `SELECT ` + articleColumns + articleFrom + ` WHERE a.id = $1`

	article, err := scanArticle(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return article, err
}

// GetPublishedByID retrieves an article only if it is published
func (r *articleRepo) GetPublishedByID(ctx context.Context, id string) (*models.Article, error) {
	query := `SELECT ` + articleColumns + articleFrom + ` WHERE a.id = $1 AND a.status = 'published'`

	article, err := scanArticle(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return article, err
}

// UpdateContent rewrites author-editable fields while the article is still draft or pending
func (r *articleRepo) UpdateContent(ctx context.Context, article *models.Article) (bool, error) {
	query := `
		UPDATE articles SET title = $1, description = $2, content = $3, topic_id = $4, updated_at = $5
		WHERE id = $6 AND author_id = $7 AND status IN ('draft', 'pending')
	`
	result, err := r.db.ExecContext(ctx, query,
		article.Title, article.Description, article.Content, nullString(article.TopicID),
		time.Now(), article.ID, article.AuthorID,
	)
	if err != nil {
		return false, translate(err)
	}
	rows, _ := result.RowsAffected()
	return rows > 0, nil
}

// UpdateStatus atomically moves an article to `to` if its current status is one of `from`
func (r *articleRepo) UpdateStatus(ctx context.Context, id string, from []models.ArticleStatus, to models.ArticleStatus, publishedAt *time.Time) (bool, error) {
	query := `
		UPDATE articles SET status = $1, published_at = COALESCE($2, published_at), updated_at = $3
		WHERE id = $4 AND status = ANY($5)
	`
	result, err := r.db.ExecContext(ctx, query, to, publishedAt, time.Now(), id, pq.Array(statusStrings(from)))
	if err != nil {
		return false, translate(err)
	}
	rows, _ := result.RowsAffected()
	return rows > 0, nil
}

// DeleteWithStatus hard-deletes an article if its current status is one of `from`
func (r *articleRepo) DeleteWithStatus(ctx context.Context, id string, from []models.ArticleStatus) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM articles WHERE id = $1 AND status = ANY($2)",
		id, pq.Array(statusStrings(from)),
	)
	if err != nil {
		return false, err
	}
	rows, _ := result.RowsAffected()
	return rows > 0, nil
}

// IncrementViews calls the increment_article_views stored function
func (r *articleRepo) IncrementViews(ctx context.Context, id string) (int64, bool, error) {
	var views sql.NullInt64
	if err := r.db.QueryRowContext(ctx, "SELECT increment_article_views($1)", id).Scan(&views); err != nil {
		return 0, false, err
	}
	return views.Int64, views.Valid, nil
}

// ListPublished returns one page of published articles plus the total match count
func (r *articleRepo) ListPublished(ctx context.Context, filter models.ArticleFilter) ([]*models.Article, int, error) {
	where := []string{"a.status = 'published'"}
	var args []interface{}

	if filter.Query != "" {
		args = append(args, "%"+likeEscaper.Replace(filter.Query)+"%")
		n := len(args)
		where = append(where, fmt.Sprintf("(a.title ILIKE $%d OR a.description ILIKE $%d)", n, n))
	}
	if filter.TopicSlug != "" {
		args = append(args, filter.TopicSlug)
		where = append(where, fmt.Sprintf("t.slug = $%d", len(args)))
	}
	if filter.TagSlug != "" {
		args = append(args, filter.TagSlug)
		where = append(where, fmt.Sprintf(`EXISTS (
			SELECT 1 FROM article_tags at JOIN tags g ON g.id = at.tag_id
			WHERE at.article_id = a.id AND g.slug = $%d)`, len(args)))
	}
	whereClause := " WHERE " + strings.Join(where, " AND ")

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*)"+articleFrom+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, filter.PageSize, filter.Offset())
	query := "SELECT " + articleColumns + articleFrom + whereClause +
		fmt.Sprintf(" ORDER BY a.published_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	articles, err := r.queryArticles(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return articles, total, nil
}

// ListTrending returns the most viewed published articles
func (r *articleRepo) ListTrending(ctx context.Context, limit int) ([]*models.Article, error) {
	query := `SELECT ` + articleColumns + articleFrom + `
		WHERE a.status = 'published'
		ORDER BY a.views DESC, a.published_at DESC
		LIMIT $1`
	return r.queryArticles(ctx, query, limit)
}

// ListByAuthor returns an author's articles, newest first
func (r *articleRepo) ListByAuthor(ctx context.Context, authorID string, publishedOnly bool) ([]*models.Article, error) {
	if publishedOnly {
		query := `SELECT ` + articleColumns + articleFrom + `
			WHERE a.author_id = $1 AND a.status = 'published'
			ORDER BY a.published_at DESC`
		return r.queryArticles(ctx, query, authorID)
	}
	query := `SELECT ` + articleColumns + articleFrom + `
		WHERE a.author_id = $1
		ORDER BY a.created_at DESC`
	return r.queryArticles(ctx, query, authorID)
}

// ListByStatus returns every article in one of the given states, newest first
func (r *articleRepo) ListByStatus(ctx context.Context, statuses []models.ArticleStatus) ([]*models.Article, error) {
	query := `SELECT ` + articleColumns + articleFrom + `
		WHERE a.status = ANY($1)
		ORDER BY a.created_at DESC`
	return r.queryArticles(ctx, query, pq.Array(statusStrings(statuses)))
}

// CountByStatus returns the number of articles in each state
func (r *articleRepo) CountByStatus(ctx context.Context) (map[models.ArticleStatus]int, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT status, COUNT(*) FROM articles GROUP BY status")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[models.ArticleStatus]int)
	for rows.Next() {
		var status models.ArticleStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

func statusStrings(statuses []models.ArticleStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
