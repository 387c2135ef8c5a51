package service

import (
	"context"

	"github.com/notepath-api/internal/models"
	"github.com/notepath-api/internal/repository"
	"github.com/rs/zerolog"
)

// moderationService is the concrete implementation of ModerationService
type moderationService struct {
	repos *repository.Repositories
	log   zerolog.Logger
}

func newModerationService(repos *repository.Repositories, log zerolog.Logger) *moderationService {
	return &moderationService{
		repos: repos,
		log:   log.With().Str("service", "moderation").Logger(),
	}
}

// Queue returns every pending and approved article, newest first, split by state
func (s *moderationService) Queue(ctx context.Context) (*models.ModerationQueue, error) {
	articles, err := s.repos.Article.ListByStatus(ctx, []models.ArticleStatus{
		models.StatusPending,
		models.StatusApproved,
	})
	if err != nil {
		return nil, err
	}

	queue := &models.ModerationQueue{
		Pending:  make([]*models.Article, 0),
		Approved: make([]*models.Article, 0),
	}
	for _, a := range articles {
		switch a.Status {
		case models.StatusPending:
			queue.Pending = append(queue.Pending, a)
		case models.StatusApproved:
			queue.Approved = append(queue.Approved, a)
		}
	}

	s.log.Debug().
		Int("pending", len(queue.Pending)).
		Int("approved", len(queue.Approved)).
		Msg("Moderation queue loaded")

	return queue, nil
}

// Stats summarizes content counts for the metrics endpoint
func (s *moderationService) Stats(ctx context.Context) (*models.Stats, error) {
	byStatus, err := s.repos.Article.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	profiles, err := s.repos.Profile.Count(ctx)
	if err != nil {
		return nil, err
	}
	topics, err := s.repos.Topic.Count(ctx)
	if err != nil {
		return nil, err
	}
	tags, err := s.repos.Tag.Count(ctx)
	if err != nil {
		return nil, err
	}

	articles := make(map[models.ArticleStatus]int, 5)
	for _, st := range []models.ArticleStatus{
		models.StatusDraft, models.StatusPending, models.StatusApproved,
		models.StatusPublished, models.StatusRejected,
	} {
		articles[st] = byStatus[st]
	}

	return &models.Stats{
		Articles: articles,
		Profiles: profiles,
		Topics:   topics,
		Tags:     tags,
	}, nil
}
