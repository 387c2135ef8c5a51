package service

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/notepath-api/internal/auth"
	"github.com/notepath-api/internal/config"
	"github.com/notepath-api/internal/models"
	"github.com/notepath-api/internal/repository"
	"github.com/notepath-api/internal/storage"
	"github.com/notepath-api/internal/validation"
	"github.com/rs/zerolog"
)

// articleService is the concrete implementation of ArticleService
type articleService struct {
	repos     *repository.Repositories
	store     storage.ObjectStore
	validator *validation.Validator
	cfg       *config.ContentConfig
	log       zerolog.Logger
	now       func() time.Time
}

func newArticleService(repos *repository.Repositories, store storage.ObjectStore, v *validation.Validator, cfg *config.ContentConfig, log zerolog.Logger) *articleService {
	return &articleService{
		repos:     repos,
		store:     store,
		validator: v,
		cfg:       cfg,
		log:       log.With().Str("service", "article").Logger(),
		now:       time.Now,
	}
}

// Create validates the submission, uploads the thumbnail and then writes the
// article row and its tag associations in one transaction. If that write
// fails the uploaded thumbnail is removed again.
func (s *articleService) Create(ctx context.Context, authorID string, req *models.CreateArticleRequest, thumbnail *models.Upload) (*models.Article, error) {
	req.TagIDs = distinct(req.TagIDs)
	if verr := s.validator.First(req); verr != nil {
		return nil, verr
	}
	if len(req.TagIDs) > s.cfg.MaxTags {
		return nil, &validation.ValidationError{
			Field:   "tag_ids",
			Message: fmt.Sprintf("You can select up to %d tags", s.cfg.MaxTags),
		}
	}

	var contentType, ext string
	if thumbnail != nil {
		var verr *validation.ValidationError
		contentType, ext, verr = validation.ValidateImage("thumbnail", thumbnail.Filename, thumbnail.Data, s.cfg.MaxImageSize)
		if verr != nil {
			return nil, verr
		}
	}

	if err := s.checkReferences(ctx, req.TopicID, req.TagIDs); err != nil {
		return nil, err
	}

	now := s.now()
	article := &models.Article{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Content:     req.Content,
		Status:      req.Status,
		AuthorID:    authorID,
		TopicID:     req.TopicID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	article.Slug = articleSlug(article.Title, article.ID)

	var thumbnailKey string
	if thumbnail != nil {
		thumbnailKey = storage.ThumbnailKey(authorID, article.ID, ext)
		url, err := s.store.Put(ctx, thumbnailKey, bytes.NewReader(thumbnail.Data), thumbnail.Size(), contentType)
		if err != nil {
			return nil, err
		}
		article.ThumbnailURL = url
	}

	if err := s.repos.Article.CreateWithTags(ctx, article, req.TagIDs); err != nil {
		if thumbnailKey != "" {
			if delErr := s.store.Delete(context.WithoutCancel(ctx), thumbnailKey); delErr != nil {
				s.log.Error().Err(delErr).Str("key", thumbnailKey).Msg("Failed to remove orphaned thumbnail")
			}
		}
		return nil, mapRepoError(err)
	}

	s.log.Info().
		Str("article_id", article.ID).
		Str("author_id", authorID).
		Str("status", string(article.Status)).
		Int("tags", len(req.TagIDs)).
		Msg("Article created")

	return s.load(ctx, article.ID)
}

// Update rewrites an article's content while its author still owns the draft
func (s *articleService) Update(ctx context.Context, authorID, id string, req *models.UpdateArticleRequest) (*models.Article, error) {
	if verr := s.validator.First(req); verr != nil {
		return nil, verr
	}
	if err := s.checkReferences(ctx, req.TopicID, nil); err != nil {
		return nil, err
	}

	updated, err := s.repos.Article.UpdateContent(ctx, &models.Article{
		ID:          id,
		AuthorID:    authorID,
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Content:     req.Content,
		TopicID:     req.TopicID,
	})
	if err != nil {
		return nil, mapRepoError(err)
	}
	if !updated {
		existing, err := s.repos.Article.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		switch {
		case existing == nil:
			return nil, ErrNotFound
		case existing.AuthorID != authorID:
			return nil, ErrForbidden
		default:
			// Only draft and pending articles are editable
			return nil, ErrConflict
		}
	}

	return s.load(ctx, id)
}

// Get returns an article for the detail view. Privileged previews see any status
// and never count; every other read sees published articles only and counts once.
func (s *articleService) Get(ctx context.Context, id string, viewer *auth.Principal, preview bool) (*models.Article, error) {
	if preview && viewer.IsPrivileged() {
		return s.load(ctx, id)
	}

	article, err := s.repos.Article.GetPublishedByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if article == nil {
		return nil, ErrNotFound
	}

	views, counted, err := s.repos.Article.IncrementViews(ctx, id)
	if err != nil {
		// A failed counter update does not fail the read
		s.log.Warn().Err(err).Str("article_id", id).Msg("Failed to increment views")
	} else if counted {
		article.Views = views
	}

	if err := s.attachTags(ctx, article); err != nil {
		return nil, err
	}
	return article, nil
}

// ListPublished returns one page of the home listing
func (s *articleService) ListPublished(ctx context.Context, filter models.ArticleFilter) (*models.ArticlePage, error) {
	if filter.PageSize <= 0 {
		filter.PageSize = s.cfg.DefaultPageSize
	}
	if filter.PageSize > s.cfg.MaxPageSize {
		filter.PageSize = s.cfg.MaxPageSize
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	filter.Query = strings.TrimSpace(filter.Query)

	articles, total, err := s.repos.Article.ListPublished(ctx, filter)
	if err != nil {
		return nil, err
	}
	if err := s.attachTags(ctx, articles...); err != nil {
		return nil, err
	}

	totalPages := int(math.Ceil(float64(total) / float64(filter.PageSize)))
	return &models.ArticlePage{
		Articles:   articles,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalCount: total,
		TotalPages: totalPages,
		HasNext:    filter.Page < totalPages,
		HasPrev:    filter.Page > 1,
	}, nil
}

// Trending returns the most viewed published articles
func (s *articleService) Trending(ctx context.Context) ([]*models.Article, error) {
	articles, err := s.repos.Article.ListTrending(ctx, s.cfg.TrendingLimit)
	if err != nil {
		return nil, err
	}
	return articles, s.attachTags(ctx, articles...)
}

// ListByAuthor returns every article of one author for their dashboard
func (s *articleService) ListByAuthor(ctx context.Context, authorID string) ([]*models.Article, error) {
	articles, err := s.repos.Article.ListByAuthor(ctx, authorID, false)
	if err != nil {
		return nil, err
	}
	return articles, s.attachTags(ctx, articles...)
}

// UploadContentImage stores an image embedded in article content and returns its URL
func (s *articleService) UploadContentImage(ctx context.Context, userID string, image *models.Upload) (string, error) {
	if image == nil {
		return "", &validation.ValidationError{Field: "image", Message: "Image is required"}
	}
	contentType, ext, verr := validation.ValidateImage("image", image.Filename, image.Data, s.cfg.MaxImageSize)
	if verr != nil {
		return "", verr
	}

	key := storage.ContentImageKey(userID, s.now(), ext)
	url, err := s.store.Put(ctx, key, bytes.NewReader(image.Data), image.Size(), contentType)
	if err != nil {
		return "", err
	}

	s.log.Info().Str("user_id", userID).Str("key", key).Msg("Content image uploaded")
	return url, nil
}

func (s *articleService) checkReferences(ctx context.Context, topicID string, tagIDs []string) error {
	if topicID != "" {
		topic, err := s.repos.Topic.GetByID(ctx, topicID)
		if err != nil {
			return err
		}
		if topic == nil {
			return ErrUnknownTopic
		}
	}
	if len(tagIDs) > 0 {
		found, err := s.repos.Tag.CountExisting(ctx, tagIDs)
		if err != nil {
			return err
		}
		if found != len(tagIDs) {
			return ErrUnknownTag
		}
	}
	return nil
}

// load reads an article with its tags regardless of status
func (s *articleService) load(ctx context.Context, id string) (*models.Article, error) {
	article, err := s.repos.Article.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if article == nil {
		return nil, ErrNotFound
	}
	if err := s.attachTags(ctx, article); err != nil {
		return nil, err
	}
	return article, nil
}

func (s *articleService) attachTags(ctx context.Context, articles ...*models.Article) error {
	if len(articles) == 0 {
		return nil
	}
	ids := make([]string, len(articles))
	for i, a := range articles {
		ids[i] = a.ID
	}

	byArticle, err := s.repos.ArticleTag.TagsForArticles(ctx, ids)
	if err != nil {
		return err
	}
	for _, a := range articles {
		a.Tags = byArticle[a.ID]
		if a.Tags == nil {
			a.Tags = []models.Tag{}
		}
	}
	return nil
}

// articleSlug derives a URL slug from the title, made unique by the id prefix
func articleSlug(title, id string) string {
	base := validation.Slugify(title)
	if base == "" {
		base = "article"
	}
	return base + "-" + id[:8]
}

// distinct drops repeated ids, keeping first-seen order
func distinct(ids []string) []string {
	if len(ids) < 2 {
		return ids
	}
	seen := make(map[string]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
