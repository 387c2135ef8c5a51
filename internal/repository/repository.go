package repository

import (
	"context"
	"time"

	"github.com/notepath-api/internal/database"
	"github.com/notepath-api/internal/models"
)

// ArticleRepository defines the interface for article data operations
type ArticleRepository interface {
	// CreateWithTags inserts the article and its tag associations in one transaction
	CreateWithTags(ctx context.Context, article *models.Article, tagIDs []string) error
	GetByID(ctx context.Context, id string) (*models.Article, error)
	GetPublishedByID(ctx context.Context, id string) (*models.Article, error)
	// UpdateContent rewrites author-editable fields while the article is still draft or pending
	UpdateContent(ctx context.Context, article *models.Article) (bool, error)
	// UpdateStatus moves the article to `to` only if its current status is one of `from`
	UpdateStatus(ctx context.Context, id string, from []models.ArticleStatus, to models.ArticleStatus, publishedAt *time.Time) (bool, error)
	DeleteWithStatus(ctx context.Context, id string, from []models.ArticleStatus) (bool, error)
	// IncrementViews bumps the view counter of a published article, returning the new count
	IncrementViews(ctx context.Context, id string) (int64, bool, error)
	ListPublished(ctx context.Context, filter models.ArticleFilter) ([]*models.Article, int, error)
	ListTrending(ctx context.Context, limit int) ([]*models.Article, error)
	ListByAuthor(ctx context.Context, authorID string, publishedOnly bool) ([]*models.Article, error)
	ListByStatus(ctx context.Context, statuses []models.ArticleStatus) ([]*models.Article, error)
	CountByStatus(ctx context.Context) (map[models.ArticleStatus]int, error)
}

// ArticleTagRepository reads the article/tag association relation
type ArticleTagRepository interface {
	TagsFor(ctx context.Context, articleID string) ([]models.Tag, error)
	TagsForArticles(ctx context.Context, articleIDs []string) (map[string][]models.Tag, error)
}

// TopicRepository defines the interface for topic data operations
type TopicRepository interface {
	Create(ctx context.Context, topic *models.Topic) error
	Update(ctx context.Context, topic *models.Topic) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
	GetByID(ctx context.Context, id string) (*models.Topic, error)
	List(ctx context.Context) ([]*models.Topic, error)
	Count(ctx context.Context) (int, error)
}

// TagRepository defines the interface for tag data operations
type TagRepository interface {
	Create(ctx context.Context, tag *models.Tag) error
	Update(ctx context.Context, tag *models.Tag) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
	GetByID(ctx context.Context, id string) (*models.Tag, error)
	List(ctx context.Context) ([]*models.Tag, error)
	CountExisting(ctx context.Context, ids []string) (int, error)
	Count(ctx context.Context) (int, error)
}

// ProfileRepository defines the interface for profile data operations
type ProfileRepository interface {
	GetByID(ctx context.Context, id string) (*models.Profile, error)
	List(ctx context.Context) ([]*models.Profile, error)
	Update(ctx context.Context, profile *models.Profile) (bool, error)
	Count(ctx context.Context) (int, error)
	// StreamUsers walks every profile with its email and admin flag, ordered by username
	StreamUsers(ctx context.Context, callback func(*models.UserSummary) error) error
}

// RoleRepository manages the role-assignment relation
type RoleRepository interface {
	HasRole(ctx context.Context, userID, role string) (bool, error)
	Grant(ctx context.Context, userID, role string) error
	Revoke(ctx context.Context, userID, role string) (bool, error)
}

// FollowRepository manages follow edges
type FollowRepository interface {
	// Follow inserts the edge; created is false when it already existed
	Follow(ctx context.Context, followerID, followingID string) (created bool, err error)
	Unfollow(ctx context.Context, followerID, followingID string) (bool, error)
	IsFollowing(ctx context.Context, followerID, followingID string) (bool, error)
	ListFollowing(ctx context.Context, followerID string) ([]*models.Profile, error)
	CountFollowers(ctx context.Context, userID string) (int, error)
	CountFollowing(ctx context.Context, userID string) (int, error)
}

// UserRepository defines the interface for authentication identities
type UserRepository interface {
	// CreateWithProfile inserts the user and its profile in one transaction
	CreateWithProfile(ctx context.Context, user *models.User, profile *models.Profile) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ConfirmEmail(ctx context.Context, id string, at time.Time) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}

// Repositories holds all repository interfaces
type Repositories struct {
	Article    ArticleRepository
	ArticleTag ArticleTagRepository
	Topic      TopicRepository
	Tag        TagRepository
	Profile    ProfileRepository
	Role       RoleRepository
	Follow     FollowRepository
	User       UserRepository
}

// New creates all repositories with the given database connection
func New(db *database.DB) *Repositories {
	return &Repositories{
		Article:    NewArticleRepo(db),
		ArticleTag: NewArticleTagRepo(db),
		Topic:      NewTopicRepo(db),
		Tag:        NewTagRepo(db),
		Profile:    NewProfileRepo(db),
		Role:       NewRoleRepo(db),
		Follow:     NewFollowRepo(db),
		User:       NewUserRepo(db),
	}
}
