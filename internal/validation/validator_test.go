package validation

import (
	"strings"
	"testing"

	"github.com/notepath-api/internal/models"
)

const (
	validTitle       = "A perfectly fine title"
	validDescription = "A description that is long enough to pass."
	tagOne           = "550e8400-e29b-41d4-a716-446655440001"
	tagTwo           = "550e8400-e29b-41d4-a716-446655440002"
	tagThree         = "550e8400-e29b-41d4-a716-446655440003"
	tagFour          = "550e8400-e29b-41d4-a716-446655440004"
)

var validContent = strings.Repeat("<p>content</p>", 10)

func validArticle() *models.CreateArticleRequest {
	return &models.CreateArticleRequest{
		Title:       validTitle,
		Description: validDescription,
		Content:     validContent,
		TagIDs:      []string{tagOne, tagTwo},
		Status:      models.StatusPending,
	}
}

func TestValidateArticle(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name      string
		mutate    func(r *models.CreateArticleRequest)
		wantField string
		wantMsg   string
	}{
		{
			name:   "valid article without topic",
			mutate: func(r *models.CreateArticleRequest) {},
		},
		{
			name:      "short title",
			mutate:    func(r *models.CreateArticleRequest) { r.Title = "Too short" },
			wantField: "title",
			wantMsg:   "Title must be at least 10 characters",
		},
		{
			name:      "long title",
			mutate:    func(r *models.CreateArticleRequest) { r.Title = strings.Repeat("x", 201) },
			wantField: "title",
			wantMsg:   "Title must be at most 200 characters",
		},
		{
			name:      "short description",
			mutate:    func(r *models.CreateArticleRequest) { r.Description = "short" },
			wantField: "description",
			wantMsg:   "Description must be at least 20 characters",
		},
		{
			name:      "short content",
			mutate:    func(r *models.CreateArticleRequest) { r.Content = "<p>hi</p>" },
			wantField: "content",
			wantMsg:   "Content must be at least 100 characters",
		},
		{
			name:      "malformed topic id",
			mutate:    func(r *models.CreateArticleRequest) { r.TopicID = "not-a-uuid" },
			wantField: "topic_id",
			wantMsg:   "Topic must be a valid id",
		},
		{
			name:      "fourth tag",
			mutate:    func(r *models.CreateArticleRequest) { r.TagIDs = []string{tagOne, tagTwo, tagThree, tagFour} },
			wantField: "tag_ids",
			wantMsg:   "You can select up to 3 tags",
		},
		{
			name:      "malformed tag id",
			mutate:    func(r *models.CreateArticleRequest) { r.TagIDs = []string{"nope"} },
			wantField: "tag_ids",
		},
		{
			name:      "published is not an initial state",
			mutate:    func(r *models.CreateArticleRequest) { r.Status = models.StatusPublished },
			wantField: "status",
		},
		{
			name: "first violated rule wins",
			mutate: func(r *models.CreateArticleRequest) {
				r.Description = "short"
				r.Content = "short"
			},
			wantField: "description",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validArticle()
			tt.mutate(req)

			got := v.First(req)
			if tt.wantField == "" {
				if got != nil {
					t.Fatalf("Expected no error, got %v", got)
				}
				return
			}
			if got == nil {
				t.Fatalf("Expected error on %s, got none", tt.wantField)
			}
			if got.Field != tt.wantField {
				t.Errorf("Expected field %s, got %s (%s)", tt.wantField, got.Field, got.Message)
			}
			if tt.wantMsg != "" && got.Message != tt.wantMsg {
				t.Errorf("Expected message %q, got %q", tt.wantMsg, got.Message)
			}
		})
	}
}

func TestValidateSignUp(t *testing.T) {
	v := NewValidator()

	req := &models.SignUpRequest{
		Email:           "reader@example.com",
		Username:        "reader",
		Password:        "secret1",
		ConfirmPassword: "secret2",
	}
	got := v.First(req)
	if got == nil || got.Message != "Passwords don't match" {
		t.Fatalf("Expected password mismatch, got %v", got)
	}

	req.ConfirmPassword = "secret1"
	req.Username = "ab"
	got = v.First(req)
	if got == nil || got.Field != "username" {
		t.Fatalf("Expected username error, got %v", got)
	}

	req.Username = "reader"
	if errs := v.Validate(req); len(errs) != 0 {
		t.Errorf("Expected valid sign-up, got %v", errs)
	}
}

func TestValidateTopicSlug(t *testing.T) {
	v := NewValidator()

	if got := v.First(&models.TopicRequest{Name: "Go", Slug: "Not A Slug"}); got == nil || got.Field != "slug" {
		t.Errorf("Expected slug error, got %v", got)
	}
	if got := v.First(&models.TopicRequest{Name: "Go", Slug: "go-lang"}); got != nil {
		t.Errorf("Expected valid topic, got %v", got)
	}
}

func TestValidateImage(t *testing.T) {
	png := append([]byte("\x89PNG\x0D\x0A\x1A\x0A"), make([]byte, 64)...)
	const limit = 5 * 1024 * 1024

	tests := []struct {
		name     string
		filename string
		data     []byte
		wantErr  bool
		wantExt  string
	}{
		{name: "png", filename: "cover.PNG", data: png, wantExt: "png"},
		{name: "unsupported extension", filename: "cover.svg", data: png, wantErr: true},
		{name: "empty", filename: "cover.png", data: nil, wantErr: true},
		{name: "html disguised as png", filename: "cover.png", data: []byte("<html><script></script></html>"), wantErr: true},
		{name: "too large", filename: "cover.png", data: append(png, make([]byte, limit)...), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			contentType, ext, err := ValidateImage("thumbnail", tt.filename, tt.data, limit)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateImage() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if err.Field != "thumbnail" {
					t.Errorf("Expected field thumbnail, got %s", err.Field)
				}
				return
			}
			if ext != tt.wantExt {
				t.Errorf("Expected ext %s, got %s", tt.wantExt, ext)
			}
			if contentType != "image/png" {
				t.Errorf("Expected image/png, got %s", contentType)
			}
		})
	}
}

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Hello World":                "hello-world",
		"  Go: Concurrency & You!  ": "go-concurrency-you",
		"already-a-slug":             "already-a-slug",
		"Ünïcode ≠ ascii":            "n-code-ascii",
		"!!!":                        "",
	}
	for in, want := range tests {
		if got := Slugify(in); got != want {
			t.Errorf("Slugify(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestIsValidUUID(t *testing.T) {
	if !IsValidUUID(tagOne) {
		t.Error("Expected valid UUID")
	}
	if IsValidUUID("550e8400") {
		t.Error("Expected invalid UUID")
	}
}
