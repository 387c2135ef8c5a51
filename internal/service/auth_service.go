package service

import (
	"context"
	"crypto/subtle"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/notepath-api/internal/auth"
	"github.com/notepath-api/internal/config"
	"github.com/notepath-api/internal/mail"
	"github.com/notepath-api/internal/models"
	"github.com/notepath-api/internal/repository"
	"github.com/notepath-api/internal/validation"
	"github.com/rs/zerolog"
)

// One-time code purposes, used as part of the code store key
const (
	purposeSignUp = "signup"
	purposeReset  = "reset"
	codeLength    = 6
	// Wrong guesses allowed before a pending code is discarded
	maxCodeAttempts = 5
)

// authService is the concrete implementation of AuthService
type authService struct {
	repos     *repository.Repositories
	codes     CodeStore
	revoker   TokenRevoker
	tokens    *auth.TokenManager
	events    *auth.Hub
	mail      MailService
	validator *validation.Validator
	cfg       *config.AuthConfig
	log       zerolog.Logger
	now       func() time.Time
}

func newAuthService(repos *repository.Repositories, infra *Infrastructure, mailSvc MailService, v *validation.Validator, cfg *config.AuthConfig, log zerolog.Logger) *authService {
	return &authService{
		repos:     repos,
		codes:     infra.Codes,
		revoker:   infra.Revoker,
		tokens:    infra.Tokens,
		events:    infra.Events,
		mail:      mailSvc,
		validator: v,
		cfg:       cfg,
		log:       log.With().Str("service", "auth").Logger(),
		now:       time.Now,
	}
}

// SignUp registers an unconfirmed user with a profile and emails a verification code.
// Signing up again with an unconfirmed address only sends a fresh code.
func (s *authService) SignUp(ctx context.Context, req *models.SignUpRequest) error {
	if verr := s.validator.First(req); verr != nil {
		return verr
	}
	email := normalizeEmail(req.Email)

	existing, err := s.repos.User.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if existing != nil {
		if existing.Confirmed() {
			return ErrDuplicate
		}
		return s.sendCode(ctx, purposeSignUp, email)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return err
	}

	now := s.now()
	user := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
	}
	profile := &models.Profile{
		ID:        user.ID,
		Username:  strings.TrimSpace(req.Username),
		CreatedAt: now,
	}
	if err := s.repos.User.CreateWithProfile(ctx, user, profile); err != nil {
		return mapRepoError(err)
	}

	s.publish(auth.EventSignedUp, user.ID, email)
	s.log.Info().Str("user_id", user.ID).Msg("User signed up")

	return s.sendCode(ctx, purposeSignUp, email)
}

// VerifySignUp confirms the email with the emailed code and starts a session
func (s *authService) VerifySignUp(ctx context.Context, req *models.VerifyCodeRequest) (*models.Session, error) {
	if verr := s.validator.First(req); verr != nil {
		return nil, verr
	}
	email := normalizeEmail(req.Email)

	if err := s.checkCode(ctx, purposeSignUp, email, req.Code); err != nil {
		return nil, err
	}

	user, err := s.repos.User.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCode
	}
	if !user.Confirmed() {
		if err := s.repos.User.ConfirmEmail(ctx, user.ID, s.now()); err != nil {
			return nil, err
		}
	}
	if err := s.codes.DeleteCode(ctx, purposeSignUp, email); err != nil {
		s.log.Warn().Err(err).Msg("Failed to delete used sign-up code")
	}

	s.publish(auth.EventVerified, user.ID, email)
	return s.startSession(ctx, user)
}

// ResendCode sends a new verification code to an unconfirmed address.
// Unknown or confirmed addresses succeed silently.
func (s *authService) ResendCode(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	user, err := s.repos.User.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil || user.Confirmed() {
		return nil
	}
	return s.sendCode(ctx, purposeSignUp, email)
}

// SignIn checks the password and starts a session
func (s *authService) SignIn(ctx context.Context, req *models.SignInRequest) (*models.Session, error) {
	if verr := s.validator.First(req); verr != nil {
		return nil, verr
	}
	email := normalizeEmail(req.Email)

	user, err := s.repos.User.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
		return nil, ErrInvalidCredentials
	}
	if !user.Confirmed() {
		if err := s.sendCode(ctx, purposeSignUp, email); err != nil {
			s.log.Warn().Err(err).Str("email", email).Msg("Failed to resend verification code")
		}
		return nil, ErrEmailNotConfirmed
	}

	s.publish(auth.EventSignedIn, user.ID, email)
	return s.startSession(ctx, user)
}

// SignOut revokes the caller's session token
func (s *authService) SignOut(ctx context.Context, principal *auth.Principal) error {
	if principal == nil {
		return ErrUnauthorized
	}
	if err := s.revoker.Revoke(ctx, principal.TokenID, s.cfg.TokenTTL); err != nil {
		return err
	}

	s.publish(auth.EventSignedOut, principal.UserID, principal.Email)
	return nil
}

// RequestPasswordReset emails a reset code when the address belongs to a user
func (s *authService) RequestPasswordReset(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	user, err := s.repos.User.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		s.log.Debug().Msg("Password reset requested for unknown email")
		return nil
	}
	return s.sendCode(ctx, purposeReset, email)
}

// ResetPassword sets a new password after checking the reset code
func (s *authService) ResetPassword(ctx context.Context, req *models.ResetPasswordRequest) error {
	if verr := s.validator.First(req); verr != nil {
		return verr
	}
	email := normalizeEmail(req.Email)

	if err := s.checkCode(ctx, purposeReset, email, req.Code); err != nil {
		return err
	}
	user, err := s.repos.User.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrInvalidCode
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return err
	}
	if err := s.repos.User.UpdatePassword(ctx, user.ID, hash); err != nil {
		return err
	}
	if err := s.codes.DeleteCode(ctx, purposeReset, email); err != nil {
		s.log.Warn().Err(err).Msg("Failed to delete used reset code")
	}

	s.publish(auth.EventPasswordReset, user.ID, email)
	return nil
}

// Authenticate turns a session token into a principal. The admin flag is read
// from the role relation on every request so revocations apply immediately.
func (s *authService) Authenticate(ctx context.Context, token string) (*auth.Principal, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, ErrUnauthorized
	}

	revoked, err := s.revoker.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrUnauthorized
	}

	isAdmin, err := s.repos.Role.HasRole(ctx, claims.Subject, models.RoleAdmin)
	if err != nil {
		return nil, err
	}

	return &auth.Principal{
		UserID:  claims.Subject,
		Email:   claims.Email,
		TokenID: claims.ID,
		IsAdmin: isAdmin,
	}, nil
}

// Me describes the signed-in user with profile and admin flag
func (s *authService) Me(ctx context.Context, principal *auth.Principal) (*models.Me, error) {
	if principal == nil {
		return nil, ErrUnauthorized
	}
	user, err := s.repos.User.GetByID(ctx, principal.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUnauthorized
	}
	return s.describe(ctx, user, principal.IsAdmin)
}

// Subscribe streams session events until the returned cancel func is called
func (s *authService) Subscribe() (<-chan auth.Event, func()) {
	return s.events.Subscribe(16)
}

func (s *authService) startSession(ctx context.Context, user *models.User) (*models.Session, error) {
	token, claims, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	isAdmin, err := s.repos.Role.HasRole(ctx, user.ID, models.RoleAdmin)
	if err != nil {
		return nil, err
	}
	me, err := s.describe(ctx, user, isAdmin)
	if err != nil {
		return nil, err
	}
	return &models.Session{
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
		User:      me,
	}, nil
}

func (s *authService) describe(ctx context.Context, user *models.User, isAdmin bool) (*models.Me, error) {
	profile, err := s.repos.Profile.GetByID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &models.Me{
		ID:      user.ID,
		Email:   user.Email,
		Profile: profile,
		IsAdmin: isAdmin,
	}, nil
}

func (s *authService) sendCode(ctx context.Context, purpose, email string) error {
	code, err := auth.GenerateCode(codeLength)
	if err != nil {
		return err
	}

	msg := mail.VerificationMessage(email, code)
	if purpose == purposeReset {
		msg = mail.PasswordResetMessage(email, code)
	}

	if err := s.codes.SaveCode(ctx, purpose, email, code, s.codeTTL(purpose)); err != nil {
		return err
	}
	return s.mail.Enqueue(msg)
}

func (s *authService) checkCode(ctx context.Context, purpose, email, code string) error {
	stored, err := s.codes.GetCode(ctx, purpose, email)
	if err != nil {
		return err
	}
	if stored == "" {
		return ErrInvalidCode
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(code)) == 1 {
		return nil
	}

	attempts, err := s.codes.RecordFailedAttempt(ctx, purpose, email, s.codeTTL(purpose))
	if err != nil {
		return err
	}
	if attempts >= maxCodeAttempts {
		// Burn the code; the user has to request a new one
		if err := s.codes.DeleteCode(ctx, purpose, email); err != nil {
			return err
		}
		s.log.Warn().Str("purpose", purpose).Str("email", email).Msg("Code discarded after too many failed attempts")
	}
	return ErrInvalidCode
}

func (s *authService) codeTTL(purpose string) time.Duration {
	if purpose == purposeReset {
		return s.cfg.ResetCodeTTL
	}
	return s.cfg.CodeTTL
}

func (s *authService) publish(t auth.EventType, userID, email string) {
	if s.events == nil {
		return
	}
	s.events.Publish(auth.Event{Type: t, UserID: userID, Email: email, At: s.now()})
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
