package models

import (
	"time"
)

// ArticleStatus is the moderation state of an article
type ArticleStatus string

const (
	StatusDraft     ArticleStatus = "draft"
	StatusPending   ArticleStatus = "pending"
	StatusApproved  ArticleStatus = "approved"
	StatusPublished ArticleStatus = "published"
	StatusRejected  ArticleStatus = "rejected"
)

// Valid reports whether s is a known status
func (s ArticleStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusPending, StatusApproved, StatusPublished, StatusRejected:
		return true
	}
	return false
}

// Reviewable reports whether an article in this state shows up in the moderation queue
func (s ArticleStatus) Reviewable() bool {
	return s == StatusPending || s == StatusApproved
}

// AnonymousAuthor stands in for an author whose profile cannot be resolved
const AnonymousAuthor = "Anonymous"

// Article represents an article in the system
type Article struct {
	ID             string        `json:"id" db:"id"`
	Title          string        `json:"title" db:"title"`
	Slug           string        `json:"slug" db:"slug"`
	Description    string        `json:"description" db:"description"`
	Content        string        `json:"content" db:"content"`
	ThumbnailURL   string        `json:"thumbnail_url,omitempty" db:"thumbnail_url"`
	Status         ArticleStatus `json:"status" db:"status"`
	AuthorID       string        `json:"author_id" db:"author_id"`
	AuthorUsername string        `json:"author_username" db:"-"`
	TopicID        string        `json:"topic_id,omitempty" db:"topic_id"`
	TopicName      string        `json:"topic_name,omitempty" db:"-"`
	TopicSlug      string        `json:"topic_slug,omitempty" db:"-"`
	Tags           []Tag         `json:"tags" db:"-"`
	Views          int64         `json:"views" db:"views"`
	CreatedAt      time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at" db:"updated_at"`
	PublishedAt    *time.Time    `json:"published_at,omitempty" db:"published_at"`
}

// CreateArticleRequest is the submission form for a new article.
// Field order matters: the first failing field is the one reported.
type CreateArticleRequest struct {
	Title       string        `json:"title" form:"title" validate:"required,min=10,max=200"`
	Description string        `json:"description" form:"description" validate:"required,min=20,max=500"`
	Content     string        `json:"content" form:"content" validate:"required,min=100"`
	TopicID     string        `json:"topic_id" form:"topic_id" validate:"omitempty,uuid"`
	TagIDs      []string      `json:"tag_ids" form:"tag_ids" validate:"max=3,dive,uuid"`
	Status      ArticleStatus `json:"status" form:"status" validate:"required,oneof=draft pending"`
}

// UpdateArticleRequest carries the author-editable fields of an article
type UpdateArticleRequest struct {
	Title       string `json:"title" validate:"required,min=10,max=200"`
	Description string `json:"description" validate:"required,min=20,max=500"`
	Content     string `json:"content" validate:"required,min=100"`
	TopicID     string `json:"topic_id" validate:"omitempty,uuid"`
}

// TransitionRequest asks for a moderation transition. ExpectedStatus, when set,
// must match the article's current status or the transition is refused.
type TransitionRequest struct {
	Status         ArticleStatus `json:"status" binding:"required"`
	ExpectedStatus ArticleStatus `json:"expected_status,omitempty"`
}

// ArticleFilter narrows the published listing
type ArticleFilter struct {
	Query     string
	TopicSlug string
	TagSlug   string
	Page      int
	PageSize  int
}

// Offset returns the row offset for the filter's page
func (f ArticleFilter) Offset() int {
	if f.Page < 1 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}

// ArticlePage is one page of the published listing
type ArticlePage struct {
	Articles   []*Article `json:"articles"`
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
	TotalCount int        `json:"total_count"`
	TotalPages int        `json:"total_pages"`
	HasNext    bool       `json:"has_next"`
	HasPrev    bool       `json:"has_prev"`
}

// ModerationQueue is the reviewable projection split by state
type ModerationQueue struct {
	Pending  []*Article `json:"pending"`
	Approved []*Article `json:"approved"`
}

// Upload is an image received from a client, fully buffered
type Upload struct {
	Filename string
	Data     []byte
}

// Size returns the upload size in bytes
func (u *Upload) Size() int64 {
	return int64(len(u.Data))
}
