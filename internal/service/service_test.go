package service_test

import (
	"context"
	"errors"
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

const (
	authorID = "11111111-1111-4111-8111-111111111111"
	readerID = "22222222-2222-4222-8222-222222222222"
	adminID  = "33333333-3333-4333-8333-333333333333"
	tagGo    = "aaaaaaaa-0000-4000-8000-000000000001"
	tagDB    = "aaaaaaaa-0000-4000-8000-000000000002"
	tagOps   = "aaaaaaaa-0000-4000-8000-000000000003"
	tagWeb   = "aaaaaaaa-0000-4000-8000-000000000004"
	topicID  = "bbbbbbbb-0000-4000-8000-000000000001"
)

var pngData = append([]byte("\x89PNG\x0D\x0A\x1A\x0A"), make([]byte, 64)...)

type testEnv struct {
	services *service.Services
	repos    *mocks.MockRepositories
	store    *mocks.MockObjectStore
	codes    *mocks.MockCodeStore
	revoker  *mocks.MockRevoker
	sender   *mocks.MockMailSender
	hub      *auth.Hub
}

func testConfig() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:    "test-secret-that-is-long-enough",
			TokenTTL:     time.Hour,
			CodeTTL:      10 * time.Minute,
			ResetCodeTTL: 30 * time.Minute,
			CookieName:   "Authorization",
		},
		Mail: config.MailConfig{Workers: 2, QueueSize: 16},
		Content: config.ContentConfig{
			MaxTags:         3,
			MaxImageSize:    5 * 1024 * 1024,
			DefaultPageSize: 10,
			MaxPageSize:     50,
			TrendingLimit:   5,
		},
	}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := testConfig()
	env := &testEnv{
		repos:   mocks.NewMockRepositories(),
		store:   mocks.NewMockObjectStore(),
		codes:   mocks.NewMockCodeStore(),
		revoker: mocks.NewMockRevoker(),
		sender:  mocks.NewMockMailSender(),
		hub:     auth.NewHub(),
	}
	infra := &service.Infrastructure{
		Store:   env.store,
		Codes:   env.codes,
		Revoker: env.revoker,
		Mailer:  env.sender,
		Tokens:  auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
		Events:  env.hub,
	}
	env.services = service.NewServices(env.repos.Repositories(), infra, cfg, zerolog.Nop())

	ctx := context.Background()
	env.repos.Profile.Add(&models.Profile{ID: authorID, Username: "author", CreatedAt: time.Now()}, "author@example.com")
	env.repos.Profile.Add(&models.Profile{ID: readerID, Username: "reader", CreatedAt: time.Now()}, "reader@example.com")
	env.repos.Profile.Add(&models.Profile{ID: adminID, Username: "admin", CreatedAt: time.Now()}, "admin@example.com")
	env.repos.Role.Grant(ctx, adminID, models.RoleAdmin)

	env.repos.Topic.Create(ctx, &models.Topic{ID: topicID, Name: "Backend", Slug: "backend"})
	for id, name := range map[string]string{tagGo: "Go", tagDB: "Databases", tagOps: "Ops", tagWeb: "Web"} {
		env.repos.Tag.Create(ctx, &models.Tag{ID: id, Name: name, Slug: strings.ToLower(name)})
	}
	return env
}

func articleRequest(tags ...string) *models.CreateArticleRequest {
	return &models.CreateArticleRequest{
		Title:       "Understanding Go channels",
		Description: "A practical look at buffered and unbuffered channels.",
		Content:     strings.Repeat("<p>Channels are typed conduits.</p>", 5),
		TopicID:     topicID,
		TagIDs:      tags,
		Status:      models.StatusPending,
	}
}

// seedArticle stores an article directly in the given state
func (e *testEnv) seedArticle(id string, status models.ArticleStatus, createdAt time.Time) *models.Article {
	a := &models.Article{
		ID:        id,
		Title:     "Seeded article " + id,
		Slug:      "seeded-" + id,
		Content:   "content",
		Status:    status,
		AuthorID:  authorID,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	if status == models.StatusPublished {
		at := createdAt
		a.PublishedAt = &at
	}
	e.repos.Article.Add(a)
	return a
}

func TestArticleService_CreateWithTwoTags(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	thumb := &models.Upload{Filename: "cover.png", Data: pngData}
	article, err := env.services.Article.Create(ctx, authorID, articleRequest(tagGo, tagDB), thumb)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if article.Status != models.StatusPending {
		t.Errorf("Expected status pending, got %s", article.Status)
	}
	if len(article.Tags) != 2 {
		t.Fatalf("Expected 2 tags, got %d", len(article.Tags))
	}
	if !strings.HasPrefix(article.Slug, "understanding-go-channels-") {
		t.Errorf("Unexpected slug %s", article.Slug)
	}
	if article.AuthorUsername != "author" {
		t.Errorf("Expected author username, got %q", article.AuthorUsername)
	}

	key := authorID + "/" + article.ID + ".png"
	if !env.store.Has(key) {
		t.Errorf("Expected thumbnail stored at %s", key)
	}
	if article.ThumbnailURL != env.store.BaseURL+"/"+key {
		t.Errorf("Unexpected thumbnail URL %s", article.ThumbnailURL)
	}
}

func TestArticleService_CreateCollapsesRepeatedTags(t *testing.T) {
	env := newTestEnv(t)

	article, err := env.services.Article.Create(context.Background(), authorID,
		articleRequest(tagGo, tagGo, tagDB, tagDB), nil)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	ids := env.repos.Article.TagIDs(article.ID)
	if len(ids) != 2 || ids[0] != tagGo || ids[1] != tagDB {
		t.Errorf("Expected [%s %s], got %v", tagGo, tagDB, ids)
	}
	if len(article.Tags) != 2 {
		t.Errorf("Expected 2 tags, got %d", len(article.Tags))
	}
}

func TestArticleService_FourthTagRejectedBeforeAnyWrite(t *testing.T) {
	env := newTestEnv(t)

	thumb := &models.Upload{Filename: "cover.png", Data: pngData}
	_, err := env.services.Article.Create(context.Background(), authorID,
		articleRequest(tagGo, tagDB, tagOps, tagWeb), thumb)

	var verr *validation.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Expected validation error, got %v", err)
	}
	if verr.Field != "tag_ids" {
		t.Errorf("Expected tag_ids error, got %s", verr.Field)
	}
	if env.store.PutCalls != 0 {
		t.Errorf("Expected no upload, got %d", env.store.PutCalls)
	}
	if env.repos.Article.CreateCalls != 0 {
		t.Errorf("Expected no insert, got %d", env.repos.Article.CreateCalls)
	}
}

func TestArticleService_TagLimitAtStorageBoundary(t *testing.T) {
	env := newTestEnv(t)
	// Writers that bypass the request validator still hit the storage limit
	err := env.repos.Article.CreateWithTags(context.Background(),
		&models.Article{ID: "direct"}, []string{tagGo, tagDB, tagOps, tagWeb})
	if err == nil {
		t.Fatal("Expected tag limit error")
	}
}

func TestArticleService_CreateCompensatesFailedInsert(t *testing.T) {
	env := newTestEnv(t)
	env.repos.Article.CreateError = errors.New("connection reset")

	thumb := &models.Upload{Filename: "cover.png", Data: pngData}
	_, err := env.services.Article.Create(context.Background(), authorID, articleRequest(tagGo), thumb)
	if err == nil {
		t.Fatal("Expected error from failed insert")
	}

	if env.store.PutCalls != 1 {
		t.Errorf("Expected one upload, got %d", env.store.PutCalls)
	}
	if env.store.Count() != 0 {
		t.Errorf("Expected orphaned thumbnail to be removed, %d objects left", env.store.Count())
	}
	if len(env.store.Deleted) != 1 {
		t.Errorf("Expected one compensating delete, got %d", len(env.store.Deleted))
	}
}

func TestArticleService_CreateRejectsUnknownReferences(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.services.Article.Create(ctx, authorID, articleRequest(tagGo, "aaaaaaaa-0000-4000-8000-0000000000ff"), nil)
	if !errors.Is(err, service.ErrUnknownTag) {
		t.Errorf("Expected ErrUnknownTag, got %v", err)
	}

	req := articleRequest()
	req.TopicID = "bbbbbbbb-0000-4000-8000-0000000000ff"
	_, err = env.services.Article.Create(ctx, authorID, req, nil)
	if !errors.Is(err, service.ErrUnknownTopic) {
		t.Errorf("Expected ErrUnknownTopic, got %v", err)
	}

	if env.repos.Article.CreateCalls != 0 {
		t.Errorf("Expected no insert, got %d", env.repos.Article.CreateCalls)
	}
}

func TestArticleService_CreateWithoutThumbnailAsDraft(t *testing.T) {
	env := newTestEnv(t)

	req := articleRequest()
	req.Status = models.StatusDraft
	article, err := env.services.Article.Create(context.Background(), authorID, req, nil)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if article.Status != models.StatusDraft {
		t.Errorf("Expected draft, got %s", article.Status)
	}
	if article.ThumbnailURL != "" {
		t.Errorf("Expected no thumbnail, got %s", article.ThumbnailURL)
	}
	if len(article.Tags) != 0 {
		t.Errorf("Expected no tags, got %d", len(article.Tags))
	}
}

func TestArticleService_RejectsSpoofedThumbnail(t *testing.T) {
	env := newTestEnv(t)

	thumb := &models.Upload{Filename: "cover.png", Data: []byte("<html><body>nope</body></html>")}
	_, err := env.services.Article.Create(context.Background(), authorID, articleRequest(), thumb)

	var verr *validation.ValidationError
	if !errors.As(err, &verr) || verr.Field != "thumbnail" {
		t.Fatalf("Expected thumbnail validation error, got %v", err)
	}
	if env.store.PutCalls != 0 {
		t.Errorf("Expected no upload, got %d", env.store.PutCalls)
	}
}

func TestArticleService_ViewCounting(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedArticle("pub", models.StatusPublished, time.Now())
	env.seedArticle("pend", models.StatusPending, time.Now())

	reader := &auth.Principal{UserID: readerID}
	admin := &auth.Principal{UserID: adminID, IsAdmin: true}

	for i := 1; i <= 3; i++ {
		a, err := env.services.Article.Get(ctx, "pub", nil, false)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if a.Views != int64(i) {
			t.Errorf("Read %d: expected %d views, got %d", i, i, a.Views)
		}
	}

	// A non-admin asking for a preview is served the normal view and counted
	a, err := env.services.Article.Get(ctx, "pub", reader, true)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if a.Views != 4 {
		t.Errorf("Expected 4 views, got %d", a.Views)
	}

	// Admin previews never count
	a, err = env.services.Article.Get(ctx, "pub", admin, true)
	if err != nil {
		t.Fatalf("Preview failed: %v", err)
	}
	if a.Views != 4 {
		t.Errorf("Expected preview to leave 4 views, got %d", a.Views)
	}

	if _, err := env.services.Article.Get(ctx, "pend", reader, true); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("Expected unpublished article hidden from reader, got %v", err)
	}
	a, err = env.services.Article.Get(ctx, "pend", admin, true)
	if err != nil {
		t.Fatalf("Admin preview of pending failed: %v", err)
	}
	if a.Views != 0 {
		t.Errorf("Expected pending article to have 0 views, got %d", a.Views)
	}
}

func TestArticleService_ViewCountSurvivesCounterFailure(t *testing.T) {
	env := newTestEnv(t)
	env.seedArticle("pub", models.StatusPublished, time.Now())
	env.repos.Article.IncrementError = errors.New("timeout")

	a, err := env.services.Article.Get(context.Background(), "pub", nil, false)
	if err != nil {
		t.Fatalf("Expected read to succeed, got %v", err)
	}
	if a.Views != 0 {
		t.Errorf("Expected 0 views, got %d", a.Views)
	}
}

func TestArticleService_ListPublishedPagination(t *testing.T) {
	env := newTestEnv(t)
	base := time.Now().Add(-time.Hour)
	for i := 0; i < 12; i++ {
		env.seedArticle(string(rune('a'+i)), models.StatusPublished, base.Add(time.Duration(i)*time.Minute))
	}
	env.seedArticle("draft", models.StatusDraft, time.Now())

	page, err := env.services.Article.ListPublished(context.Background(), models.ArticleFilter{Page: 2, PageSize: 5})
	if err != nil {
		t.Fatalf("ListPublished failed: %v", err)
	}
	if page.TotalCount != 12 {
		t.Errorf("Expected 12 published, got %d", page.TotalCount)
	}
	if page.TotalPages != 3 {
		t.Errorf("Expected 3 pages, got %d", page.TotalPages)
	}
	if !page.HasNext || !page.HasPrev {
		t.Errorf("Expected middle page to have next and prev")
	}
	if len(page.Articles) != 5 || page.Articles[0].ID != "g" {
		t.Errorf("Unexpected page contents starting with %v", page.Articles[0].ID)
	}

	page, err = env.services.Article.ListPublished(context.Background(), models.ArticleFilter{PageSize: 500})
	if err != nil {
		t.Fatalf("ListPublished failed: %v", err)
	}
	if page.PageSize != 50 || page.Page != 1 {
		t.Errorf("Expected clamped page size 50 on page 1, got %d on %d", page.PageSize, page.Page)
	}
}

func TestArticleService_Trending(t *testing.T) {
	env := newTestEnv(t)
	for i := 0; i < 7; i++ {
		a := env.seedArticle(string(rune('a'+i)), models.StatusPublished, time.Now())
		a.Views = int64(i * 10)
	}

	trending, err := env.services.Article.Trending(context.Background())
	if err != nil {
		t.Fatalf("Trending failed: %v", err)
	}
	if len(trending) != 5 {
		t.Fatalf("Expected 5 trending articles, got %d", len(trending))
	}
	if trending[0].ID != "g" {
		t.Errorf("Expected most viewed first, got %s", trending[0].ID)
	}
}

func TestArticleService_UpdateOnlyWhileEditable(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedArticle("pend", models.StatusPending, time.Now())
	env.seedArticle("pub", models.StatusPublished, time.Now())

	req := &models.UpdateArticleRequest{
		Title:       "A rewritten title here",
		Description: "A rewritten description that is long enough.",
		Content:     strings.Repeat("<p>rewritten</p>", 10),
	}

	updated, err := env.services.Article.Update(ctx, authorID, "pend", req)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Title != req.Title {
		t.Errorf("Expected new title, got %s", updated.Title)
	}

	if _, err := env.services.Article.Update(ctx, readerID, "pend", req); !errors.Is(err, service.ErrForbidden) {
		t.Errorf("Expected ErrForbidden for another author, got %v", err)
	}
	if _, err := env.services.Article.Update(ctx, authorID, "pub", req); !errors.Is(err, service.ErrConflict) {
		t.Errorf("Expected ErrConflict for published article, got %v", err)
	}
	if _, err := env.services.Article.Update(ctx, authorID, "missing", req); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestArticleService_UploadContentImage(t *testing.T) {
	env := newTestEnv(t)

	url, err := env.services.Article.UploadContentImage(context.Background(), authorID,
		&models.Upload{Filename: "inline.png", Data: pngData})
	if err != nil {
		t.Fatalf("UploadContentImage failed: %v", err)
	}
	if !strings.HasPrefix(url, env.store.BaseURL+"/"+authorID+"/content-") || !strings.HasSuffix(url, ".png") {
		t.Errorf("Unexpected URL %s", url)
	}

	if _, err := env.services.Article.UploadContentImage(context.Background(), authorID, nil); err == nil {
		t.Error("Expected error for missing image")
	}
}

func TestArticleService_ListPublishedAnonymousAuthor(t *testing.T) {
	env := newTestEnv(t)
	now := time.Now()
	env.seedArticle("x1", models.StatusPublished, now)
	orphan := env.seedArticle("x2", models.StatusPublished, now.Add(-time.Minute))
	orphan.AuthorID = "deleted-user"

	page, err := env.services.Article.ListPublished(context.Background(), models.ArticleFilter{})
	if err != nil {
		t.Fatalf("ListPublished failed: %v", err)
	}
	got := map[string]string{}
	for _, a := range page.Articles {
		got[a.ID] = a.AuthorUsername
	}
	if got["x1"] != "author" || got["x2"] != models.AnonymousAuthor {
		t.Errorf("Unexpected author names %v", got)
	}

	detail, err := env.services.Article.Get(context.Background(), "x2", nil, false)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if detail.AuthorUsername != models.AnonymousAuthor {
		t.Errorf("Expected %q on detail, got %q", models.AnonymousAuthor, detail.AuthorUsername)
	}
}

func TestModerationService_Queue(t *testing.T) {
	env := newTestEnv(t)
	now := time.Now()
	env.seedArticle("p1", models.StatusPending, now.Add(-2*time.Minute))
	env.seedArticle("p2", models.StatusPending, now.Add(-time.Minute))
	env.seedArticle("a1", models.StatusApproved, now)
	env.seedArticle("d1", models.StatusDraft, now)
	env.seedArticle("x1", models.StatusPublished, now)
	orphan := env.seedArticle("p3", models.StatusPending, now.Add(-3*time.Minute))
	orphan.AuthorID = "deleted-user"

	queue, err := env.services.Moderation.Queue(context.Background())
	if err != nil {
		t.Fatalf("Queue failed: %v", err)
	}
	if len(queue.Pending) != 3 {
		t.Errorf("Expected 3 pending, got %d", len(queue.Pending))
	}
	if len(queue.Approved) != 1 {
		t.Errorf("Expected 1 approved, got %d", len(queue.Approved))
	}
	if queue.Pending[0].ID != "p2" {
		t.Errorf("Expected newest pending first, got %s", queue.Pending[0].ID)
	}
	if last := queue.Pending[2]; last.AuthorUsername != "Anonymous" {
		t.Errorf("Expected Anonymous fallback, got %q", last.AuthorUsername)
	}
}

func TestModerationService_Stats(t *testing.T) {
	env := newTestEnv(t)
	env.seedArticle("p1", models.StatusPending, time.Now())
	env.seedArticle("x1", models.StatusPublished, time.Now())

	stats, err := env.services.Moderation.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.Articles[models.StatusPending] != 1 || stats.Articles[models.StatusPublished] != 1 {
		t.Errorf("Unexpected article counts %v", stats.Articles)
	}
	if _, ok := stats.Articles[models.StatusRejected]; !ok {
		t.Error("Expected every status to be reported")
	}
	if stats.Profiles != 3 || stats.Topics != 1 || stats.Tags != 4 {
		t.Errorf("Unexpected totals %+v", stats)
	}
}

func TestTaxonomyService(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	topic, err := env.services.Taxonomy.CreateTopic(ctx, &models.TopicRequest{Name: "Machine Learning"})
	if err != nil {
		t.Fatalf("CreateTopic failed: %v", err)
	}
	if topic.Slug != "machine-learning" {
		t.Errorf("Expected derived slug, got %s", topic.Slug)
	}

	if _, err := env.services.Taxonomy.CreateTopic(ctx, &models.TopicRequest{Name: "Machine Learning"}); !errors.Is(err, service.ErrDuplicate) {
		t.Errorf("Expected ErrDuplicate, got %v", err)
	}

	updated, err := env.services.Taxonomy.UpdateTopic(ctx, topic.ID, &models.TopicRequest{Name: "ML", Slug: "ml"})
	if err != nil {
		t.Fatalf("UpdateTopic failed: %v", err)
	}
	if updated.Slug != "ml" {
		t.Errorf("Expected slug ml, got %s", updated.Slug)
	}

	if err := env.services.Taxonomy.DeleteTag(ctx, "missing"); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	tag, err := env.services.Taxonomy.CreateTag(ctx, &models.TagRequest{Name: "Kubernetes"})
	if err != nil {
		t.Fatalf("CreateTag failed: %v", err)
	}
	if err := env.services.Taxonomy.DeleteTag(ctx, tag.ID); err != nil {
		t.Errorf("DeleteTag failed: %v", err)
	}
}
