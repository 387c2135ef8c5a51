package models

import "time"

// Topic groups articles under a single subject
type Topic struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Slug        string    `json:"slug" db:"slug"`
	Description string    `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// Tag is a free-form label attached to articles through article_tags
type Tag struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Slug      string    `json:"slug" db:"slug"`
	CreatedAt time.Time `json:"created_at,omitempty" db:"created_at"`
}

// TopicRequest creates or updates a topic. Slug is derived from Name when empty.
type TopicRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=60"`
	Slug        string `json:"slug" validate:"omitempty,slug"`
	Description string `json:"description" validate:"max=500"`
}

// TagRequest creates or updates a tag
type TagRequest struct {
	Name string `json:"name" validate:"required,min=2,max=40"`
	Slug string `json:"slug" validate:"omitempty,slug"`
}
