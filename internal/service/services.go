package service

import (
	"context"
	"io"
	"time"

	"github.com/notepath-api/internal/auth"
	"github.com/notepath-api/internal/config"
	"github.com/notepath-api/internal/mail"
	"github.com/notepath-api/internal/models"
	"github.com/notepath-api/internal/repository"
	"github.com/notepath-api/internal/storage"
	"github.com/notepath-api/internal/validation"
	"github.com/rs/zerolog"
)

// ArticleService covers submission, editing and reading of articles
type ArticleService interface {
	Create(ctx context.Context, authorID string, req *models.CreateArticleRequest, thumbnail *models.Upload) (*models.Article, error)
	Update(ctx context.Context, authorID, id string, req *models.UpdateArticleRequest) (*models.Article, error)
	// Get returns an article for the detail view and counts the view when it qualifies
	Get(ctx context.Context, id string, viewer *auth.Principal, preview bool) (*models.Article, error)
	ListPublished(ctx context.Context, filter models.ArticleFilter) (*models.ArticlePage, error)
	Trending(ctx context.Context) ([]*models.Article, error)
	ListByAuthor(ctx context.Context, authorID string) ([]*models.Article, error)
	UploadContentImage(ctx context.Context, userID string, image *models.Upload) (string, error)
}

// LifecycleService applies privileged status transitions
type LifecycleService interface {
	Transition(ctx context.Context, id string, to, expected models.ArticleStatus) (*models.Article, error)
	Delete(ctx context.Context, id string) error
}

// ModerationService exposes the review queue
type ModerationService interface {
	Queue(ctx context.Context) (*models.ModerationQueue, error)
	Stats(ctx context.Context) (*models.Stats, error)
}

// TaxonomyService manages topics and tags
type TaxonomyService interface {
	ListTopics(ctx context.Context) ([]*models.Topic, error)
	CreateTopic(ctx context.Context, req *models.TopicRequest) (*models.Topic, error)
	UpdateTopic(ctx context.Context, id string, req *models.TopicRequest) (*models.Topic, error)
	DeleteTopic(ctx context.Context, id string) error
	ListTags(ctx context.Context) ([]*models.Tag, error)
	CreateTag(ctx context.Context, req *models.TagRequest) (*models.Tag, error)
	UpdateTag(ctx context.Context, id string, req *models.TagRequest) (*models.Tag, error)
	DeleteTag(ctx context.Context, id string) error
}

// ProfileService covers profiles, follows and role administration
type ProfileService interface {
	List(ctx context.Context) ([]*models.Profile, error)
	Get(ctx context.Context, id string, viewer *auth.Principal) (*models.PublicProfile, error)
	UpdateOwn(ctx context.Context, userID string, req *models.UpdateProfileRequest) (*models.Profile, error)
	Follow(ctx context.Context, followerID, followingID string) error
	Unfollow(ctx context.Context, followerID, followingID string) error
	ListFollowing(ctx context.Context, userID string) ([]*models.Profile, error)
	ListUsers(ctx context.Context) ([]*models.UserSummary, error)
	StreamUsers(ctx context.Context, w io.Writer, format string) error
	SetAdmin(ctx context.Context, userID string, admin bool) error
}

// AuthService stands in for the hosted auth provider
type AuthService interface {
	SignUp(ctx context.Context, req *models.SignUpRequest) error
	VerifySignUp(ctx context.Context, req *models.VerifyCodeRequest) (*models.Session, error)
	ResendCode(ctx context.Context, email string) error
	SignIn(ctx context.Context, req *models.SignInRequest) (*models.Session, error)
	SignOut(ctx context.Context, principal *auth.Principal) error
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, req *models.ResetPasswordRequest) error
	// Authenticate resolves a session token into a principal, including the admin flag
	Authenticate(ctx context.Context, token string) (*auth.Principal, error)
	Me(ctx context.Context, principal *auth.Principal) (*models.Me, error)
	Subscribe() (<-chan auth.Event, func())
}

// MailService queues outgoing email for background delivery
type MailService interface {
	StartProcessor(ctx context.Context)
	StopProcessor()
	Enqueue(msg models.MailMessage) error
}

// CodeStore keeps one-time verification and reset codes
type CodeStore interface {
	SaveCode(ctx context.Context, purpose, email, code string, ttl time.Duration) error
	GetCode(ctx context.Context, purpose, email string) (string, error)
	DeleteCode(ctx context.Context, purpose, email string) error
	RecordFailedAttempt(ctx context.Context, purpose, email string, ttl time.Duration) (int64, error)
}

// TokenRevoker tracks signed-out session tokens
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// Infrastructure bundles the external collaborators services depend on
type Infrastructure struct {
	Store   storage.ObjectStore
	Codes   CodeStore
	Revoker TokenRevoker
	Mailer  mail.Sender
	Tokens  *auth.TokenManager
	Events  *auth.Hub
}

// Services holds all service interfaces
type Services struct {
	Article    ArticleService
	Lifecycle  LifecycleService
	Moderation ModerationService
	Taxonomy   TaxonomyService
	Profile    ProfileService
	Auth       AuthService
	Mail       MailService
}

// NewServices creates all services
func NewServices(repos *repository.Repositories, infra *Infrastructure, cfg *config.Config, log zerolog.Logger) *Services {
	v := validation.NewValidator()
	mailSvc := newMailService(infra.Mailer, &cfg.Mail, log)

	return &Services{
		Article:    newArticleService(repos, infra.Store, v, &cfg.Content, log),
		Lifecycle:  newLifecycleService(repos.Article, log),
		Moderation: newModerationService(repos, log),
		Taxonomy:   newTaxonomyService(repos.Topic, repos.Tag, v, log),
		Profile:    newProfileService(repos, v, log),
		Auth:       newAuthService(repos, infra, mailSvc, v, &cfg.Auth, log),
		Mail:       mailSvc,
	}
}
