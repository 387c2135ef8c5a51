package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/notepath-api/internal/auth"
	"github.com/notepath-api/internal/config"
	"github.com/notepath-api/internal/models"
	"github.com/notepath-api/internal/service"
	"github.com/rs/zerolog"
)

// AuthHandler handles sign-up, sign-in and password endpoints
type AuthHandler struct {
	services *service.Services
	cfg      *config.Config
	log      zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(services *service.Services, cfg *config.Config, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		services: services,
		cfg:      cfg,
		log:      log.With().Str("handler", "auth").Logger(),
	}
}

// SignUp handles POST /v1/auth/signup
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req models.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.services.Auth.SignUp(c.Request.Context(), &req); err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Verification code sent to " + req.Email})
}

// Verify handles POST /v1/auth/verify
func (h *AuthHandler) Verify(c *gin.Context) {
	var req models.VerifyCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	session, err := h.services.Auth.VerifySignUp(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	h.setSessionCookie(c, session)
	c.JSON(http.StatusOK, session)
}

// Resend handles POST /v1/auth/resend
func (h *AuthHandler) Resend(c *gin.Context) {
	var req models.EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email is required"})
		return
	}

	if err := h.services.Auth.ResendCode(c.Request.Context(), req.Email); err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"message": "If the address is awaiting verification a new code was sent"})
}

// SignIn handles POST /v1/auth/signin
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req models.SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	session, err := h.services.Auth.SignIn(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	h.setSessionCookie(c, session)
	c.JSON(http.StatusOK, session)
}

// SignOut handles POST /v1/auth/signout
func (h *AuthHandler) SignOut(c *gin.Context) {
	ctx := c.Request.Context()
	if err := h.services.Auth.SignOut(ctx, auth.FromContext(ctx)); err != nil {
		respondError(c, h.log, err)
		return
	}

	c.SetCookie(h.cfg.Auth.CookieName, "", -1, "/", "", c.Request.TLS != nil, true)
	c.Status(http.StatusNoContent)
}

// ForgotPassword handles POST /v1/auth/password/forgot
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req models.EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email is required"})
		return
	}

	if err := h.services.Auth.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"message": "If an account exists for this address a reset code was sent"})
}

// ResetPassword handles POST /v1/auth/password/reset
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req models.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.services.Auth.ResetPassword(c.Request.Context(), &req); err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
}

// Me handles GET /v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	ctx := c.Request.Context()
	me, err := h.services.Auth.Me(ctx, auth.FromContext(ctx))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, me)
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, session *models.Session) {
	maxAge := int(time.Until(session.ExpiresAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cfg.Auth.CookieName, session.Token, maxAge, "/", "", c.Request.TLS != nil, true)
}
