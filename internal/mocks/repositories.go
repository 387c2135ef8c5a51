package mocks

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/notepath-api/internal/models"
	"github.com/notepath-api/internal/repository"
)

// MaxArticleTags mirrors the storage trigger on article_tags
const MaxArticleTags = 3

// MockArticleRepository is an in-memory ArticleRepository. It is safe for
// concurrent use so compare-and-swap races can be exercised.
type MockArticleRepository struct {
	mu          sync.Mutex
	Articles    map[string]*models.Article
	ArticleTags map[string][]string
	// Optional lookups used to fill the joined author and topic columns
	Profiles *MockProfileRepository
	Topics   *MockTopicRepository

	CreateError    error
	CreateFunc     func(ctx context.Context, article *models.Article, tagIDs []string) error
	CreateCalls    int
	IncrementError error
}

func NewMockArticleRepository() *MockArticleRepository {
	return &MockArticleRepository{
		Articles:    make(map[string]*models.Article),
		ArticleTags: make(map[string][]string),
	}
}

// Add stores an article directly, bypassing validation
func (m *MockArticleRepository) Add(article *models.Article, tagIDs ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Articles[article.ID] = article
	m.ArticleTags[article.ID] = append([]string(nil), tagIDs...)
}

func (m *MockArticleRepository) CreateWithTags(ctx context.Context, article *models.Article, tagIDs []string) error {
	m.mu.Lock()
	m.CreateCalls++
	m.mu.Unlock()

	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, article, tagIDs)
	}
	if m.CreateError != nil {
		return m.CreateError
	}
	if len(tagIDs) > MaxArticleTags {
		return repository.ErrTagLimit
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.Articles[article.ID]; exists {
		return repository.ErrDuplicate
	}
	stored := *article
	m.Articles[article.ID] = &stored
	m.ArticleTags[article.ID] = append([]string(nil), tagIDs...)
	return nil
}

// view returns a detached copy with joined columns filled. Callers hold mu.
func (m *MockArticleRepository) view(a *models.Article) *models.Article {
	out := *a
	out.Tags = nil
	out.AuthorUsername = models.AnonymousAuthor
	if m.Profiles != nil {
		if p, _ := m.Profiles.GetByID(context.Background(), a.AuthorID); p != nil {
			out.AuthorUsername = p.Username
		}
	}
	if m.Topics != nil && a.TopicID != "" {
		if t, _ := m.Topics.GetByID(context.Background(), a.TopicID); t != nil {
			out.TopicName = t.Name
			out.TopicSlug = t.Slug
		}
	}
	return &out
}

func (m *MockArticleRepository) GetByID(ctx context.Context, id string) (*models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.Articles[id]
	if !ok {
		return nil, nil
	}
	return m.view(a), nil
}

func (m *MockArticleRepository) GetPublishedByID(ctx context.Context, id string) (*models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.Articles[id]
	if !ok || a.Status != models.StatusPublished {
		return nil, nil
	}
	return m.view(a), nil
}

func (m *MockArticleRepository) UpdateContent(ctx context.Context, article *models.Article) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.Articles[article.ID]
	if !ok || a.AuthorID != article.AuthorID {
		return false, nil
	}
	if a.Status != models.StatusDraft && a.Status != models.StatusPending {
		return false, nil
	}
	a.Title = article.Title
	a.Description = article.Description
	a.Content = article.Content
	a.TopicID = article.TopicID
	a.UpdatedAt = time.Now()
	return true, nil
}

func (m *MockArticleRepository) UpdateStatus(ctx context.Context, id string, from []models.ArticleStatus, to models.ArticleStatus, publishedAt *time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.Articles[id]
	if !ok || !hasStatus(from, a.Status) {
		return false, nil
	}
	a.Status = to
	a.PublishedAt = publishedAt
	a.UpdatedAt = time.Now()
	return true, nil
}

func (m *MockArticleRepository) DeleteWithStatus(ctx context.Context, id string, from []models.ArticleStatus) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.Articles[id]
	if !ok || !hasStatus(from, a.Status) {
		return false, nil
	}
	delete(m.Articles, id)
	delete(m.ArticleTags, id)
	return true, nil
}

func (m *MockArticleRepository) IncrementViews(ctx context.Context, id string) (int64, bool, error) {
	if m.IncrementError != nil {
		return 0, false, m.IncrementError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.Articles[id]
	if !ok || a.Status != models.StatusPublished {
		return 0, false, nil
	}
	a.Views++
	return a.Views, true, nil
}

// ListPublished filters on query and topic slug. Tag slugs are matched against tag IDs.
func (m *MockArticleRepository) ListPublished(ctx context.Context, filter models.ArticleFilter) ([]*models.Article, int, error) {
	m.mu.Lock()
	matched := make([]*models.Article, 0)
	q := strings.ToLower(filter.Query)
	for _, a := range m.Articles {
		if a.Status != models.StatusPublished {
			continue
		}
		v := m.view(a)
		if q != "" && !strings.Contains(strings.ToLower(v.Title), q) && !strings.Contains(strings.ToLower(v.Description), q) {
			continue
		}
		if filter.TopicSlug != "" && v.TopicSlug != filter.TopicSlug {
			continue
		}
		if filter.TagSlug != "" && !containsString(m.ArticleTags[a.ID], filter.TagSlug) {
			continue
		}
		matched = append(matched, v)
	}
	m.mu.Unlock()

	sort.Slice(matched, func(i, j int) bool {
		return publishedTime(matched[i]).After(publishedTime(matched[j]))
	})

	total := len(matched)
	start := filter.Offset()
	if start > total {
		start = total
	}
	end := start + filter.PageSize
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (m *MockArticleRepository) ListTrending(ctx context.Context, limit int) ([]*models.Article, error) {
	published, _ := m.filter(func(a *models.Article) bool { return a.Status == models.StatusPublished })
	sort.Slice(published, func(i, j int) bool {
		if published[i].Views != published[j].Views {
			return published[i].Views > published[j].Views
		}
		return publishedTime(published[i]).After(publishedTime(published[j]))
	})
	if len(published) > limit {
		published = published[:limit]
	}
	return published, nil
}

func (m *MockArticleRepository) ListByAuthor(ctx context.Context, authorID string, publishedOnly bool) ([]*models.Article, error) {
	return m.filter(func(a *models.Article) bool {
		return a.AuthorID == authorID && (!publishedOnly || a.Status == models.StatusPublished)
	})
}

func (m *MockArticleRepository) ListByStatus(ctx context.Context, statuses []models.ArticleStatus) ([]*models.Article, error) {
	return m.filter(func(a *models.Article) bool { return hasStatus(statuses, a.Status) })
}

func (m *MockArticleRepository) CountByStatus(ctx context.Context) (map[models.ArticleStatus]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := make(map[models.ArticleStatus]int)
	for _, a := range m.Articles {
		counts[a.Status]++
	}
	return counts, nil
}

// filter returns matching articles, newest first
func (m *MockArticleRepository) filter(keep func(*models.Article) bool) ([]*models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.Article, 0)
	for _, a := range m.Articles {
		if keep(a) {
			out = append(out, m.view(a))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// TagIDs returns the tag ids stored for an article
func (m *MockArticleRepository) TagIDs(articleID string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.ArticleTags[articleID]...)
}

// MockArticleTagRepository resolves associations held by a MockArticleRepository
type MockArticleTagRepository struct {
	Articles *MockArticleRepository
	Tags     *MockTagRepository
}

func NewMockArticleTagRepository(articles *MockArticleRepository, tags *MockTagRepository) *MockArticleTagRepository {
	return &MockArticleTagRepository{Articles: articles, Tags: tags}
}

func (m *MockArticleTagRepository) TagsFor(ctx context.Context, articleID string) ([]models.Tag, error) {
	tags := make([]models.Tag, 0)
	for _, id := range m.Articles.TagIDs(articleID) {
		if tag, _ := m.Tags.GetByID(ctx, id); tag != nil {
			tags = append(tags, *tag)
		}
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i].Name < tags[j].Name })
	return tags, nil
}

func (m *MockArticleTagRepository) TagsForArticles(ctx context.Context, articleIDs []string) (map[string][]models.Tag, error) {
	out := make(map[string][]models.Tag, len(articleIDs))
	for _, id := range articleIDs {
		tags, _ := m.TagsFor(ctx, id)
		if len(tags) > 0 {
			out[id] = tags
		}
	}
	return out, nil
}

// MockTopicRepository is a mock implementation of TopicRepository
type MockTopicRepository struct {
	mu     sync.Mutex
	Topics map[string]*models.Topic
}

func NewMockTopicRepository() *MockTopicRepository {
	return &MockTopicRepository{Topics: make(map[string]*models.Topic)}
}

func (m *MockTopicRepository) Create(ctx context.Context, topic *models.Topic) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.Topics {
		if t.Slug == topic.Slug || t.Name == topic.Name {
			return repository.ErrDuplicate
		}
	}
	stored := *topic
	m.Topics[topic.ID] = &stored
	return nil
}

func (m *MockTopicRepository) Update(ctx context.Context, topic *models.Topic) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.Topics[topic.ID]
	if !ok {
		return false, nil
	}
	for id, t := range m.Topics {
		if id != topic.ID && t.Slug == topic.Slug {
			return false, repository.ErrDuplicate
		}
	}
	existing.Name = topic.Name
	existing.Slug = topic.Slug
	existing.Description = topic.Description
	return true, nil
}

func (m *MockTopicRepository) Delete(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.Topics[id]
	delete(m.Topics, id)
	return ok, nil
}

func (m *MockTopicRepository) GetByID(ctx context.Context, id string) (*models.Topic, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.Topics[id]
	if !ok {
		return nil, nil
	}
	out := *t
	return &out, nil
}

func (m *MockTopicRepository) List(ctx context.Context) ([]*models.Topic, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.Topic, 0, len(m.Topics))
	for _, t := range m.Topics {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MockTopicRepository) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Topics), nil
}

// MockTagRepository is a mock implementation of TagRepository
type MockTagRepository struct {
	mu   sync.Mutex
	Tags map[string]*models.Tag
}

func NewMockTagRepository() *MockTagRepository {
	return &MockTagRepository{Tags: make(map[string]*models.Tag)}
}

func (m *MockTagRepository) Create(ctx context.Context, tag *models.Tag) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.Tags {
		if t.Slug == tag.Slug || t.Name == tag.Name {
			return repository.ErrDuplicate
		}
	}
	stored := *tag
	m.Tags[tag.ID] = &stored
	return nil
}

func (m *MockTagRepository) Update(ctx context.Context, tag *models.Tag) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.Tags[tag.ID]
	if !ok {
		return false, nil
	}
	for id, t := range m.Tags {
		if id != tag.ID && t.Slug == tag.Slug {
			return false, repository.ErrDuplicate
		}
	}
	existing.Name = tag.Name
	existing.Slug = tag.Slug
	return true, nil
}

func (m *MockTagRepository) Delete(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.Tags[id]
	delete(m.Tags, id)
	return ok, nil
}

func (m *MockTagRepository) GetByID(ctx context.Context, id string) (*models.Tag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.Tags[id]
	if !ok {
		return nil, nil
	}
	out := *t
	return &out, nil
}

func (m *MockTagRepository) List(ctx context.Context) ([]*models.Tag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.Tag, 0, len(m.Tags))
	for _, t := range m.Tags {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MockTagRepository) CountExisting(ctx context.Context, ids []string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	found := 0
	for _, id := range ids {
		if _, ok := m.Tags[id]; ok {
			found++
		}
	}
	return found, nil
}

func (m *MockTagRepository) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Tags), nil
}

// MockProfileRepository is a mock implementation of ProfileRepository
type MockProfileRepository struct {
	mu       sync.Mutex
	Profiles map[string]*models.Profile
	Emails   map[string]string
	Roles    *MockRoleRepository
}

func NewMockProfileRepository() *MockProfileRepository {
	return &MockProfileRepository{
		Profiles: make(map[string]*models.Profile),
		Emails:   make(map[string]string),
	}
}

// Add stores a profile and, optionally, the email of its user
func (m *MockProfileRepository) Add(profile *models.Profile, email string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Profiles[profile.ID] = profile
	if email != "" {
		m.Emails[profile.ID] = email
	}
}

func (m *MockProfileRepository) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.Profiles[id]
	if !ok {
		return nil, nil
	}
	out := *p
	return &out, nil
}

func (m *MockProfileRepository) List(ctx context.Context) ([]*models.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.Profile, 0, len(m.Profiles))
	for _, p := range m.Profiles {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (m *MockProfileRepository) Update(ctx context.Context, profile *models.Profile) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.Profiles[profile.ID]
	if !ok {
		return false, nil
	}
	for id, p := range m.Profiles {
		if id != profile.ID && p.Username == profile.Username {
			return false, repository.ErrDuplicate
		}
	}
	existing.Username = profile.Username
	existing.AvatarURL = profile.AvatarURL
	existing.Bio = profile.Bio
	return true, nil
}

func (m *MockProfileRepository) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Profiles), nil
}

func (m *MockProfileRepository) StreamUsers(ctx context.Context, callback func(*models.UserSummary) error) error {
	profiles, _ := m.List(ctx)
	for _, p := range profiles {
		summary := &models.UserSummary{Profile: *p}
		m.mu.Lock()
		summary.Email = m.Emails[p.ID]
		m.mu.Unlock()
		if m.Roles != nil {
			summary.IsAdmin, _ = m.Roles.HasRole(ctx, p.ID, models.RoleAdmin)
		}
		if err := callback(summary); err != nil {
			return err
		}
	}
	return nil
}

// MockRoleRepository is a mock implementation of RoleRepository
type MockRoleRepository struct {
	mu    sync.Mutex
	Roles map[string]map[string]bool
}

func NewMockRoleRepository() *MockRoleRepository {
	return &MockRoleRepository{Roles: make(map[string]map[string]bool)}
}

func (m *MockRoleRepository) HasRole(ctx context.Context, userID, role string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Roles[userID][role], nil
}

func (m *MockRoleRepository) Grant(ctx context.Context, userID, role string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Roles[userID] == nil {
		m.Roles[userID] = make(map[string]bool)
	}
	m.Roles[userID][role] = true
	return nil
}

func (m *MockRoleRepository) Revoke(ctx context.Context, userID, role string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	had := m.Roles[userID][role]
	delete(m.Roles[userID], role)
	return had, nil
}

// MockFollowRepository is a mock implementation of FollowRepository
type MockFollowRepository struct {
	mu       sync.Mutex
	Edges    map[string]map[string]bool
	Profiles *MockProfileRepository
}

func NewMockFollowRepository(profiles *MockProfileRepository) *MockFollowRepository {
	return &MockFollowRepository{
		Edges:    make(map[string]map[string]bool),
		Profiles: profiles,
	}
}

func (m *MockFollowRepository) Follow(ctx context.Context, followerID, followingID string) (bool, error) {
	if followerID == followingID {
		return false, repository.ErrSelfFollow
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Edges[followerID] == nil {
		m.Edges[followerID] = make(map[string]bool)
	}
	if m.Edges[followerID][followingID] {
		return false, nil
	}
	m.Edges[followerID][followingID] = true
	return true, nil
}

func (m *MockFollowRepository) Unfollow(ctx context.Context, followerID, followingID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	had := m.Edges[followerID][followingID]
	delete(m.Edges[followerID], followingID)
	return had, nil
}

func (m *MockFollowRepository) IsFollowing(ctx context.Context, followerID, followingID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Edges[followerID][followingID], nil
}

func (m *MockFollowRepository) ListFollowing(ctx context.Context, followerID string) ([]*models.Profile, error) {
	m.mu.Lock()
	ids := make([]string, 0, len(m.Edges[followerID]))
	for id := range m.Edges[followerID] {
		ids = append(ids, id)
	}
	m.mu.Unlock()

	out := make([]*models.Profile, 0, len(ids))
	for _, id := range ids {
		if p, _ := m.Profiles.GetByID(ctx, id); p != nil {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (m *MockFollowRepository) CountFollowers(ctx context.Context, userID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, following := range m.Edges {
		if following[userID] {
			count++
		}
	}
	return count, nil
}

func (m *MockFollowRepository) CountFollowing(ctx context.Context, userID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Edges[userID]), nil
}

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mu       sync.Mutex
	Users    map[string]*models.User
	Profiles *MockProfileRepository
}

func NewMockUserRepository(profiles *MockProfileRepository) *MockUserRepository {
	return &MockUserRepository{
		Users:    make(map[string]*models.User),
		Profiles: profiles,
	}
}

func (m *MockUserRepository) CreateWithProfile(ctx context.Context, user *models.User, profile *models.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	email := strings.ToLower(user.Email)
	for _, u := range m.Users {
		if u.Email == email {
			return repository.ErrDuplicate
		}
	}
	profiles, _ := m.Profiles.List(ctx)
	for _, p := range profiles {
		if p.Username == profile.Username {
			return repository.ErrDuplicate
		}
	}

	stored := *user
	stored.Email = email
	m.Users[user.ID] = &stored
	m.Profiles.Add(profile, email)
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.Users[id]
	if !ok {
		return nil, nil
	}
	out := *u
	return &out, nil
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	email = strings.ToLower(email)
	for _, u := range m.Users {
		if u.Email == email {
			out := *u
			return &out, nil
		}
	}
	return nil, nil
}

func (m *MockUserRepository) ConfirmEmail(ctx context.Context, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.Users[id]; ok {
		u.EmailConfirmedAt = &at
	}
	return nil
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.Users[id]; ok {
		u.PasswordHash = passwordHash
	}
	return nil
}

// MockRepositories wires every repository mock together
type MockRepositories struct {
	Article    *MockArticleRepository
	ArticleTag *MockArticleTagRepository
	Topic      *MockTopicRepository
	Tag        *MockTagRepository
	Profile    *MockProfileRepository
	Role       *MockRoleRepository
	Follow     *MockFollowRepository
	User       *MockUserRepository
}

func NewMockRepositories() *MockRepositories {
	profiles := NewMockProfileRepository()
	roles := NewMockRoleRepository()
	profiles.Roles = roles
	topics := NewMockTopicRepository()
	tags := NewMockTagRepository()
	articles := NewMockArticleRepository()
	articles.Profiles = profiles
	articles.Topics = topics

	return &MockRepositories{
		Article:    articles,
		ArticleTag: NewMockArticleTagRepository(articles, tags),
		Topic:      topics,
		Tag:        tags,
		Profile:    profiles,
		Role:       roles,
		Follow:     NewMockFollowRepository(profiles),
		User:       NewMockUserRepository(profiles),
	}
}

// Repositories exposes the mocks through the repository interfaces
func (m *MockRepositories) Repositories() *repository.Repositories {
	return &repository.Repositories{
		Article:    m.Article,
		ArticleTag: m.ArticleTag,
		Topic:      m.Topic,
		Tag:        m.Tag,
		Profile:    m.Profile,
		Role:       m.Role,
		Follow:     m.Follow,
		User:       m.User,
	}
}

func hasStatus(list []models.ArticleStatus, s models.ArticleStatus) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

func publishedTime(a *models.Article) time.Time {
	if a.PublishedAt == nil {
		return time.Time{}
	}
	return *a.PublishedAt
}

var (
	_ repository.ArticleRepository    = (*MockArticleRepository)(nil)
	_ repository.ArticleTagRepository = (*MockArticleTagRepository)(nil)
	_ repository.TopicRepository      = (*MockTopicRepository)(nil)
	_ repository.TagRepository        = (*MockTagRepository)(nil)
	_ repository.ProfileRepository    = (*MockProfileRepository)(nil)
	_ repository.RoleRepository       = (*MockRoleRepository)(nil)
	_ repository.FollowRepository     = (*MockFollowRepository)(nil)
	_ repository.UserRepository       = (*MockUserRepository)(nil)
)
