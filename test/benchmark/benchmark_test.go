package benchmark

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/notepath-api/internal/auth"
	"github.com/notepath-api/internal/config"
	"github.com/notepath-api/internal/mocks"
	"github.com/notepath-api/internal/models"
	"github.com/notepath-api/internal/service"
	"github.com/notepath-api/internal/validation"
	"github.com/rs/zerolog"
)

func newServices(repos *mocks.MockRepositories) *service.Services {
	cfg := &config.Config{
		Auth: config.AuthConfig{JWTSecret: "benchmark-secret", TokenTTL: time.Hour},
		Mail: config.MailConfig{Workers: 1, QueueSize: 1},
		Content: config.ContentConfig{
			MaxTags:         3,
			MaxImageSize:    5 * 1024 * 1024,
			DefaultPageSize: 10,
			MaxPageSize:     50,
			TrendingLimit:   5,
		},
	}
	infra := &service.Infrastructure{
		Store:   mocks.NewMockObjectStore(),
		Codes:   mocks.NewMockCodeStore(),
		Revoker: mocks.NewMockRevoker(),
		Mailer:  mocks.NewMockMailSender(),
		Tokens:  auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
		Events:  auth.NewHub(),
	}
	return service.NewServices(repos.Repositories(), infra, cfg, zerolog.Nop())
}

func seedPublished(repos *mocks.MockRepositories, n int) {
	now := time.Now()
	repos.Profile.Add(&models.Profile{ID: "author", Username: "author", CreatedAt: now}, "author@test.com")
	for i := 0; i < n; i++ {
		repos.Article.Add(&models.Article{
			ID:          fmt.Sprintf("article-%04d", i),
			Title:       fmt.Sprintf("Article number %d", i),
			Status:      models.StatusPublished,
			AuthorID:    "author",
			CreatedAt:   now,
			PublishedAt: &now,
		})
	}
}

// BenchmarkGetArticle measures a counted detail read
func BenchmarkGetArticle(b *testing.B) {
	repos := mocks.NewMockRepositories()
	seedPublished(repos, 1)
	services := newServices(repos)
	ctx := context.Background()

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if _, err := services.Article.Get(ctx, "article-0000", nil, false); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkGetArticleParallel measures concurrent view counting on one article
func BenchmarkGetArticleParallel(b *testing.B) {
	repos := mocks.NewMockRepositories()
	seedPublished(repos, 1)
	services := newServices(repos)
	ctx := context.Background()

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			services.Article.Get(ctx, "article-0000", nil, false)
		}
	})
}

// BenchmarkListPublished measures one page of the public listing
func BenchmarkListPublished(b *testing.B) {
	repos := mocks.NewMockRepositories()
	seedPublished(repos, 1000)
	services := newServices(repos)
	ctx := context.Background()

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		services.Article.ListPublished(ctx, models.ArticleFilter{Page: 3, PageSize: 20})
	}
}

// BenchmarkStreamUsersCSV benchmarks the admin users export
func BenchmarkStreamUsersCSV(b *testing.B) {
	repos := mocks.NewMockRepositories()
	for i := 0; i < 1000; i++ {
		id := fmt.Sprintf("user-%04d", i)
		repos.Profile.Add(&models.Profile{ID: id, Username: id, CreatedAt: time.Now()}, id+"@test.com")
	}
	services := newServices(repos)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		services.Profile.StreamUsers(context.Background(), io.Discard, service.FormatCSV)
	}

	b.ReportMetric(float64(1000*b.N)/b.Elapsed().Seconds(), "rows/sec")
}

// BenchmarkValidation benchmarks validating a submission form
func BenchmarkValidation(b *testing.B) {
	validator := validation.NewValidator()

	req := &models.CreateArticleRequest{
		Title:       "Understanding Go channels",
		Description: "A practical look at buffered and unbuffered channels.",
		Content:     strings.Repeat("Channels are typed conduits. ", 10),
		TagIDs:      []string{"550e8400-e29b-41d4-a716-446655440000"},
		Status:      models.StatusPending,
	}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		validator.First(req)
	}
}

// BenchmarkSlugify benchmarks slug derivation for titles
func BenchmarkSlugify(b *testing.B) {
	title := "Ten Things You Didn't Know About PostgreSQL's MVCC!"

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		validation.Slugify(title)
	}
}
