package service_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/notepath-api/internal/auth"
	"github.com/notepath-api/internal/models"
	"github.com/notepath-api/internal/service"
)

func TestProfileService_Follow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if err := env.services.Profile.Follow(ctx, readerID, readerID); !errors.Is(err, service.ErrSelfFollow) {
		t.Errorf("Expected ErrSelfFollow, got %v", err)
	}
	if err := env.services.Profile.Follow(ctx, readerID, "nobody"); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	// Following twice leaves a single edge
	for i := 0; i < 2; i++ {
		if err := env.services.Profile.Follow(ctx, readerID, authorID); err != nil {
			t.Fatalf("Follow failed: %v", err)
		}
	}
	if err := env.services.Profile.Follow(ctx, adminID, authorID); err != nil {
		t.Fatalf("Follow failed: %v", err)
	}

	page, err := env.services.Profile.Get(ctx, authorID, &auth.Principal{UserID: readerID})
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if page.FollowersCount != 2 {
		t.Errorf("Expected 2 followers, got %d", page.FollowersCount)
	}
	if !page.IsFollowing {
		t.Error("Expected reader to follow author")
	}

	following, err := env.services.Profile.ListFollowing(ctx, readerID)
	if err != nil {
		t.Fatalf("ListFollowing failed: %v", err)
	}
	if len(following) != 1 || following[0].ID != authorID {
		t.Errorf("Unexpected following list %v", following)
	}

	for i := 0; i < 2; i++ {
		if err := env.services.Profile.Unfollow(ctx, readerID, authorID); err != nil {
			t.Fatalf("Unfollow failed: %v", err)
		}
	}
	page, _ = env.services.Profile.Get(ctx, authorID, nil)
	if page.FollowersCount != 1 || page.IsFollowing {
		t.Errorf("Expected 1 follower for anonymous viewer, got %d (following=%v)", page.FollowersCount, page.IsFollowing)
	}
}

func TestProfileService_GetShowsPublishedOnly(t *testing.T) {
	env := newTestEnv(t)
	env.seedArticle("pub", models.StatusPublished, time.Now())
	env.seedArticle("pend", models.StatusPending, time.Now())

	page, err := env.services.Profile.Get(context.Background(), authorID, nil)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(page.Articles) != 1 || page.Articles[0].ID != "pub" {
		t.Errorf("Expected only the published article, got %d", len(page.Articles))
	}

	if _, err := env.services.Profile.Get(context.Background(), "nobody", nil); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestProfileService_UpdateOwn(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	profile, err := env.services.Profile.UpdateOwn(ctx, readerID, &models.UpdateProfileRequest{
		Username: "avid-reader",
		Bio:      "  Reads everything.  ",
	})
	if err != nil {
		t.Fatalf("UpdateOwn failed: %v", err)
	}
	if profile.Username != "avid-reader" || profile.Bio != "Reads everything." {
		t.Errorf("Unexpected profile %+v", profile)
	}

	_, err = env.services.Profile.UpdateOwn(ctx, readerID, &models.UpdateProfileRequest{Username: "author"})
	if !errors.Is(err, service.ErrDuplicate) {
		t.Errorf("Expected ErrDuplicate, got %v", err)
	}
}

func TestProfileService_SetAdmin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if err := env.services.Profile.SetAdmin(ctx, readerID, true); err != nil {
		t.Fatalf("SetAdmin failed: %v", err)
	}
	if ok, _ := env.repos.Role.HasRole(ctx, readerID, models.RoleAdmin); !ok {
		t.Error("Expected reader to be admin")
	}

	users, err := env.services.Profile.ListUsers(ctx)
	if err != nil {
		t.Fatalf("ListUsers failed: %v", err)
	}
	admins := 0
	for _, u := range users {
		if u.IsAdmin {
			admins++
		}
	}
	if admins != 2 {
		t.Errorf("Expected 2 admins, got %d", admins)
	}

	if err := env.services.Profile.SetAdmin(ctx, readerID, false); err != nil {
		t.Fatalf("SetAdmin failed: %v", err)
	}
	if ok, _ := env.repos.Role.HasRole(ctx, readerID, models.RoleAdmin); ok {
		t.Error("Expected admin role revoked")
	}

	if err := env.services.Profile.SetAdmin(ctx, "nobody", true); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestProfileService_StreamUsersCSV(t *testing.T) {
	env := newTestEnv(t)

	var buf bytes.Buffer
	if err := env.services.Profile.StreamUsers(context.Background(), &buf, service.FormatCSV); err != nil {
		t.Fatalf("StreamUsers failed: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("Invalid CSV: %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("Expected header plus 3 rows, got %d", len(records))
	}
	if records[0][0] != "id" || records[0][3] != "is_admin" {
		t.Errorf("Unexpected header %v", records[0])
	}
	// Ordered by username: admin, author, reader
	if records[1][1] != "admin" || records[1][3] != "true" {
		t.Errorf("Unexpected first row %v", records[1])
	}
	if records[3][2] != "reader@example.com" {
		t.Errorf("Unexpected email %s", records[3][2])
	}
}

func TestProfileService_StreamUsersNDJSON(t *testing.T) {
	env := newTestEnv(t)

	var buf bytes.Buffer
	if err := env.services.Profile.StreamUsers(context.Background(), &buf, service.FormatNDJSON); err != nil {
		t.Fatalf("StreamUsers failed: %v", err)
	}

	scanner := bufio.NewScanner(&buf)
	count := 0
	for scanner.Scan() {
		var u models.UserSummary
		if err := json.Unmarshal(scanner.Bytes(), &u); err != nil {
			t.Fatalf("Line %d is not JSON: %v", count+1, err)
		}
		count++
	}
	if count != 3 {
		t.Errorf("Expected 3 lines, got %d", count)
	}

	if err := env.services.Profile.StreamUsers(context.Background(), &buf, "xml"); !errors.Is(err, service.ErrUnsupportedFormat) {
		t.Errorf("Expected ErrUnsupportedFormat, got %v", err)
	}
}
