package repository_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/notepath-api/internal/mocks"
	"github.com/notepath-api/internal/models"
	"github.com/notepath-api/internal/repository"
)

func TestMockArticleRepository_CreateWithTags(t *testing.T) {
	repos := mocks.NewMockRepositories()
	ctx := context.Background()

	article := &models.Article{ID: "a1", Title: "First", Status: models.StatusDraft, AuthorID: "u1", CreatedAt: time.Now()}
	if err := repos.Article.CreateWithTags(ctx, article, []string{"t1", "t2", "t3"}); err != nil {
		t.Fatalf("CreateWithTags failed: %v", err)
	}
	if got := repos.Article.TagIDs("a1"); len(got) != 3 {
		t.Errorf("Expected 3 tags, got %d", len(got))
	}

	over := &models.Article{ID: "a2", Title: "Second", Status: models.StatusDraft, AuthorID: "u1", CreatedAt: time.Now()}
	err := repos.Article.CreateWithTags(ctx, over, []string{"t1", "t2", "t3", "t4"})
	if !errors.Is(err, repository.ErrTagLimit) {
		t.Errorf("Expected ErrTagLimit, got %v", err)
	}
	if stored, _ := repos.Article.GetByID(ctx, "a2"); stored != nil {
		t.Error("Rejected article should not be stored")
	}
}

func TestMockArticleRepository_GetByID_NotFound(t *testing.T) {
	repo := mocks.NewMockArticleRepository()

	article, err := repo.GetByID(context.Background(), "missing")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if article != nil {
		t.Error("Expected nil for missing article")
	}
}

func TestMockArticleRepository_UpdateStatus(t *testing.T) {
	repo := mocks.NewMockArticleRepository()
	ctx := context.Background()
	repo.Add(&models.Article{ID: "a1", Status: models.StatusPending, CreatedAt: time.Now()})

	applied, err := repo.UpdateStatus(ctx, "a1", []models.ArticleStatus{models.StatusApproved}, models.StatusPublished, nil)
	if err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}
	if applied {
		t.Error("Transition from the wrong status should not apply")
	}

	applied, _ = repo.UpdateStatus(ctx, "a1", []models.ArticleStatus{models.StatusPending}, models.StatusApproved, nil)
	if !applied {
		t.Error("Transition from the current status should apply")
	}
}

func TestMockArticleRepository_IncrementViews_Concurrent(t *testing.T) {
	repo := mocks.NewMockArticleRepository()
	ctx := context.Background()
	now := time.Now()
	repo.Add(&models.Article{ID: "a1", Status: models.StatusPublished, PublishedAt: &now, CreatedAt: now})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			repo.IncrementViews(ctx, "a1")
		}()
	}
	wg.Wait()

	views, ok, err := repo.IncrementViews(ctx, "a1")
	if err != nil || !ok {
		t.Fatalf("IncrementViews failed: ok=%v err=%v", ok, err)
	}
	if views != 51 {
		t.Errorf("Expected 51 views, got %d", views)
	}
}

func TestMockTagRepository_Duplicate(t *testing.T) {
	repo := mocks.NewMockTagRepository()
	ctx := context.Background()

	if err := repo.Create(ctx, &models.Tag{ID: "t1", Name: "Go", Slug: "go"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	err := repo.Create(ctx, &models.Tag{ID: "t2", Name: "Golang", Slug: "go"})
	if !errors.Is(err, repository.ErrDuplicate) {
		t.Errorf("Expected ErrDuplicate, got %v", err)
	}

	n, _ := repo.CountExisting(ctx, []string{"t1", "t2"})
	if n != 1 {
		t.Errorf("Expected 1 existing tag, got %d", n)
	}
}

func TestMockFollowRepository(t *testing.T) {
	repos := mocks.NewMockRepositories()
	ctx := context.Background()
	repos.Profile.Add(&models.Profile{ID: "u1", Username: "one"}, "one@test.com")
	repos.Profile.Add(&models.Profile{ID: "u2", Username: "two"}, "two@test.com")

	created, err := repos.Follow.Follow(ctx, "u1", "u2")
	if err != nil || !created {
		t.Fatalf("Follow failed: created=%v err=%v", created, err)
	}
	created, _ = repos.Follow.Follow(ctx, "u1", "u2")
	if created {
		t.Error("Second follow should not create a new edge")
	}

	followers, _ := repos.Follow.CountFollowers(ctx, "u2")
	if followers != 1 {
		t.Errorf("Expected 1 follower, got %d", followers)
	}
}

func TestMockUserRepository_DuplicateEmail(t *testing.T) {
	repos := mocks.NewMockRepositories()
	ctx := context.Background()

	first := &models.User{ID: "u1", Email: "Writer@Test.com", CreatedAt: time.Now()}
	if err := repos.User.CreateWithProfile(ctx, first, &models.Profile{ID: "u1", Username: "writer"}); err != nil {
		t.Fatalf("CreateWithProfile failed: %v", err)
	}

	second := &models.User{ID: "u2", Email: "writer@test.com", CreatedAt: time.Now()}
	err := repos.User.CreateWithProfile(ctx, second, &models.Profile{ID: "u2", Username: "other"})
	if !errors.Is(err, repository.ErrDuplicate) {
		t.Errorf("Expected ErrDuplicate, got %v", err)
	}

	if p, _ := repos.Profile.GetByID(ctx, "u1"); p == nil {
		t.Error("Profile should be created with the user")
	}
}
