package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/notepath-api/internal/models"
	"github.com/notepath-api/internal/repository"
	"github.com/notepath-api/internal/validation"
	"github.com/rs/zerolog"
)

// taxonomyService is the concrete implementation of TaxonomyService
type taxonomyService struct {
	topics    repository.TopicRepository
	tags      repository.TagRepository
	validator *validation.Validator
	log       zerolog.Logger
}

func newTaxonomyService(topics repository.TopicRepository, tags repository.TagRepository, v *validation.Validator, log zerolog.Logger) *taxonomyService {
	return &taxonomyService{
		topics:    topics,
		tags:      tags,
		validator: v,
		log:       log.With().Str("service", "taxonomy").Logger(),
	}
}

func (s *taxonomyService) ListTopics(ctx context.Context) ([]*models.Topic, error) {
	return s.topics.List(ctx)
}

func (s *taxonomyService) CreateTopic(ctx context.Context, req *models.TopicRequest) (*models.Topic, error) {
	if verr := s.validator.First(req); verr != nil {
		return nil, verr
	}

	topic := &models.Topic{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(req.Name),
		Slug:        slugOrDerived(req.Slug, req.Name),
		Description: strings.TrimSpace(req.Description),
		CreatedAt:   time.Now(),
	}
	if err := s.topics.Create(ctx, topic); err != nil {
		return nil, mapRepoError(err)
	}

	s.log.Info().Str("topic_id", topic.ID).Str("slug", topic.Slug).Msg("Topic created")
	return topic, nil
}

func (s *taxonomyService) UpdateTopic(ctx context.Context, id string, req *models.TopicRequest) (*models.Topic, error) {
	if verr := s.validator.First(req); verr != nil {
		return nil, verr
	}

	topic := &models.Topic{
		ID:          id,
		Name:        strings.TrimSpace(req.Name),
		Slug:        slugOrDerived(req.Slug, req.Name),
		Description: strings.TrimSpace(req.Description),
	}
	updated, err := s.topics.Update(ctx, topic)
	if err != nil {
		return nil, mapRepoError(err)
	}
	if !updated {
		return nil, ErrNotFound
	}
	return s.topics.GetByID(ctx, id)
}

// DeleteTopic removes a topic. Articles in it keep existing without a topic.
func (s *taxonomyService) DeleteTopic(ctx context.Context, id string) error {
	deleted, err := s.topics.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	s.log.Info().Str("topic_id", id).Msg("Topic deleted")
	return nil
}

func (s *taxonomyService) ListTags(ctx context.Context) ([]*models.Tag, error) {
	return s.tags.List(ctx)
}

func (s *taxonomyService) CreateTag(ctx context.Context, req *models.TagRequest) (*models.Tag, error) {
	if verr := s.validator.First(req); verr != nil {
		return nil, verr
	}

	tag := &models.Tag{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(req.Name),
		Slug:      slugOrDerived(req.Slug, req.Name),
		CreatedAt: time.Now(),
	}
	if err := s.tags.Create(ctx, tag); err != nil {
		return nil, mapRepoError(err)
	}

	s.log.Info().Str("tag_id", tag.ID).Str("slug", tag.Slug).Msg("Tag created")
	return tag, nil
}

func (s *taxonomyService) UpdateTag(ctx context.Context, id string, req *models.TagRequest) (*models.Tag, error) {
	if verr := s.validator.First(req); verr != nil {
		return nil, verr
	}

	tag := &models.Tag{
		ID:   id,
		Name: strings.TrimSpace(req.Name),
		Slug: slugOrDerived(req.Slug, req.Name),
	}
	updated, err := s.tags.Update(ctx, tag)
	if err != nil {
		return nil, mapRepoError(err)
	}
	if !updated {
		return nil, ErrNotFound
	}
	return s.tags.GetByID(ctx, id)
}

// DeleteTag removes a tag and, through the cascade, its article associations
func (s *taxonomyService) DeleteTag(ctx context.Context, id string) error {
	deleted, err := s.tags.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	s.log.Info().Str("tag_id", id).Msg("Tag deleted")
	return nil
}

func slugOrDerived(slug, name string) string {
	if slug != "" {
		return slug
	}
	return validation.Slugify(name)
}
