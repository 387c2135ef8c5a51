package service

import (
	"context"
	"time"

	"github.com/notepath-api/internal/models"
	"github.com/notepath-api/internal/repository"
	"github.com/rs/zerolog"
)

// transitionSources lists, per target state, the states a privileged actor may move an article from
var transitionSources = map[models.ArticleStatus][]models.ArticleStatus{
	models.StatusApproved:  {models.StatusPending},
	models.StatusRejected:  {models.StatusPending, models.StatusApproved},
	models.StatusPublished: {models.StatusApproved},
}

// deletableStates are the reviewable states from which an article may be hard-deleted
var deletableStates = []models.ArticleStatus{models.StatusPending, models.StatusApproved}

// lifecycleService is the concrete implementation of LifecycleService
type lifecycleService struct {
	articles repository.ArticleRepository
	log      zerolog.Logger
	now      func() time.Time
}

func newLifecycleService(articles repository.ArticleRepository, log zerolog.Logger) *lifecycleService {
	return &lifecycleService{
		articles: articles,
		log:      log.With().Str("service", "lifecycle").Logger(),
		now:      time.Now,
	}
}

// Transition applies one status change as a compare-and-swap on the current status.
// When expected is set it must be a legal source and becomes the only accepted one.
func (s *lifecycleService) Transition(ctx context.Context, id string, to, expected models.ArticleStatus) (*models.Article, error) {
	from, ok := transitionSources[to]
	if !ok {
		return nil, ErrInvalidTransition
	}
	if expected != "" {
		if !containsStatus(from, expected) {
			return nil, ErrInvalidTransition
		}
		from = []models.ArticleStatus{expected}
	}

	var publishedAt *time.Time
	if to == models.StatusPublished {
		now := s.now()
		publishedAt = &now
	}

	applied, err := s.articles.UpdateStatus(ctx, id, from, to, publishedAt)
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, s.explainMiss(ctx, id, to)
	}

	s.log.Info().Str("article_id", id).Str("to", string(to)).Msg("Article status changed")

	article, err := s.articles.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if article == nil {
		// Deleted between the update and the read
		return nil, ErrNotFound
	}
	return article, nil
}

// Delete hard-deletes an article that is still under review
func (s *lifecycleService) Delete(ctx context.Context, id string) error {
	deleted, err := s.articles.DeleteWithStatus(ctx, id, deletableStates)
	if err != nil {
		return err
	}
	if !deleted {
		return s.explainMiss(ctx, id, "")
	}

	s.log.Info().Str("article_id", id).Msg("Article deleted")
	return nil
}

// explainMiss tells a missing article apart from one whose status did not match
func (s *lifecycleService) explainMiss(ctx context.Context, id string, to models.ArticleStatus) error {
	current, err := s.articles.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if current == nil {
		return ErrNotFound
	}

	s.log.Warn().
		Str("article_id", id).
		Str("current", string(current.Status)).
		Str("to", string(to)).
		Msg("Status precondition failed")
	return ErrConflict
}

func containsStatus(list []models.ArticleStatus, s models.ArticleStatus) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
