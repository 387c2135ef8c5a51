package service

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"github.com/notepath-api/internal/auth"
	"github.com/notepath-api/internal/models"
	"github.com/notepath-api/internal/repository"
	"github.com/notepath-api/internal/validation"
	"github.com/rs/zerolog"
)

// Export formats accepted by StreamUsers
const (
	FormatCSV    = "csv"
	FormatNDJSON = "ndjson"
)

// flushEvery controls how often buffered export rows are pushed to the client
const flushEvery = 100

var userCSVHeader = []string{"id", "username", "email", "is_admin", "created_at"}

// profileService is the concrete implementation of ProfileService
type profileService struct {
	repos     *repository.Repositories
	validator *validation.Validator
	log       zerolog.Logger
}

func newProfileService(repos *repository.Repositories, v *validation.Validator, log zerolog.Logger) *profileService {
	return &profileService{
		repos:     repos,
		validator: v,
		log:       log.With().Str("service", "profile").Logger(),
	}
}

func (s *profileService) List(ctx context.Context) ([]*models.Profile, error) {
	return s.repos.Profile.List(ctx)
}

// Get builds a profile page with published articles and follow counts
func (s *profileService) Get(ctx context.Context, id string, viewer *auth.Principal) (*models.PublicProfile, error) {
	profile, err := s.repos.Profile.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrNotFound
	}

	articles, err := s.repos.Article.ListByAuthor(ctx, id, true)
	if err != nil {
		return nil, err
	}
	followers, err := s.repos.Follow.CountFollowers(ctx, id)
	if err != nil {
		return nil, err
	}
	following, err := s.repos.Follow.CountFollowing(ctx, id)
	if err != nil {
		return nil, err
	}

	page := &models.PublicProfile{
		Profile:        *profile,
		Articles:       articles,
		FollowersCount: followers,
		FollowingCount: following,
	}

	if me := viewer.CurrentUser(); me != "" && me != id {
		page.IsFollowing, err = s.repos.Follow.IsFollowing(ctx, me, id)
		if err != nil {
			return nil, err
		}
	}
	return page, nil
}

// UpdateOwn edits the caller's own profile
func (s *profileService) UpdateOwn(ctx context.Context, userID string, req *models.UpdateProfileRequest) (*models.Profile, error) {
	if verr := s.validator.First(req); verr != nil {
		return nil, verr
	}

	updated, err := s.repos.Profile.Update(ctx, &models.Profile{
		ID:        userID,
		Username:  strings.TrimSpace(req.Username),
		AvatarURL: req.AvatarURL,
		Bio:       strings.TrimSpace(req.Bio),
	})
	if err != nil {
		return nil, mapRepoError(err)
	}
	if !updated {
		return nil, ErrNotFound
	}
	return s.repos.Profile.GetByID(ctx, userID)
}

// Follow adds a follow edge. Following someone twice is a no-op.
func (s *profileService) Follow(ctx context.Context, followerID, followingID string) error {
	if followerID == followingID {
		return ErrSelfFollow
	}

	target, err := s.repos.Profile.GetByID(ctx, followingID)
	if err != nil {
		return err
	}
	if target == nil {
		return ErrNotFound
	}

	created, err := s.repos.Follow.Follow(ctx, followerID, followingID)
	if err != nil {
		return mapRepoError(err)
	}
	if created {
		s.log.Info().Str("follower_id", followerID).Str("following_id", followingID).Msg("Follow created")
	}
	return nil
}

// Unfollow removes a follow edge. Removing a missing edge is a no-op.
func (s *profileService) Unfollow(ctx context.Context, followerID, followingID string) error {
	removed, err := s.repos.Follow.Unfollow(ctx, followerID, followingID)
	if err != nil {
		return err
	}
	if removed {
		s.log.Info().Str("follower_id", followerID).Str("following_id", followingID).Msg("Follow removed")
	}
	return nil
}

func (s *profileService) ListFollowing(ctx context.Context, userID string) ([]*models.Profile, error) {
	return s.repos.Follow.ListFollowing(ctx, userID)
}

// ListUsers collects the admin users tab
func (s *profileService) ListUsers(ctx context.Context) ([]*models.UserSummary, error) {
	users := make([]*models.UserSummary, 0)
	err := s.repos.Profile.StreamUsers(ctx, func(u *models.UserSummary) error {
		users = append(users, u)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return users, nil
}

// StreamUsers writes every user to w as CSV or NDJSON without buffering the full list
func (s *profileService) StreamUsers(ctx context.Context, w io.Writer, format string) error {
	switch format {
	case FormatCSV:
		return s.streamCSV(ctx, w)
	case FormatNDJSON:
		return s.streamNDJSON(ctx, w)
	default:
		return ErrUnsupportedFormat
	}
}

func (s *profileService) streamCSV(ctx context.Context, w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(userCSVHeader); err != nil {
		return err
	}

	count := 0
	err := s.repos.Profile.StreamUsers(ctx, func(u *models.UserSummary) error {
		record := []string{
			u.ID,
			u.Username,
			u.Email,
			strconv.FormatBool(u.IsAdmin),
			u.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
		count++
		if count%flushEvery == 0 {
			writer.Flush()
			flush(w)
		}
		return writer.Error()
	})
	if err != nil {
		return err
	}

	writer.Flush()
	flush(w)
	s.log.Info().Int("rows", count).Str("format", FormatCSV).Msg("Users exported")
	return writer.Error()
}

func (s *profileService) streamNDJSON(ctx context.Context, w io.Writer) error {
	encoder := json.NewEncoder(w)

	count := 0
	err := s.repos.Profile.StreamUsers(ctx, func(u *models.UserSummary) error {
		if err := encoder.Encode(u); err != nil {
			return err
		}
		count++
		if count%flushEvery == 0 {
			flush(w)
		}
		return nil
	})
	if err != nil {
		return err
	}

	flush(w)
	s.log.Info().Int("rows", count).Str("format", FormatNDJSON).Msg("Users exported")
	return nil
}

// SetAdmin grants or revokes the admin role
func (s *profileService) SetAdmin(ctx context.Context, userID string, admin bool) error {
	profile, err := s.repos.Profile.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if profile == nil {
		return ErrNotFound
	}

	if admin {
		err = s.repos.Role.Grant(ctx, userID, models.RoleAdmin)
	} else {
		_, err = s.repos.Role.Revoke(ctx, userID, models.RoleAdmin)
	}
	if err != nil {
		return err
	}

	s.log.Info().Str("user_id", userID).Bool("admin", admin).Msg("Admin role updated")
	return nil
}

// flush pushes buffered bytes to the client when w supports it (gin.ResponseWriter does)
func flush(w io.Writer) {
	if f, ok := w.(interface{ Flush() }); ok {
		f.Flush()
	}
}
