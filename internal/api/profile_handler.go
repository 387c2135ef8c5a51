package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/notepath-api/internal/auth"
	"github.com/notepath-api/internal/models"
	"github.com/notepath-api/internal/service"
	"github.com/rs/zerolog"
)

// ProfileHandler handles profile and follow endpoints
type ProfileHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(services *service.Services, log zerolog.Logger) *ProfileHandler {
	return &ProfileHandler{
		services: services,
		log:      log.With().Str("handler", "profile").Logger(),
	}
}

// List handles GET /v1/profiles
func (h *ProfileHandler) List(c *gin.Context) {
	profiles, err := h.services.Profile.List(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profiles": profiles})
}

// Get handles GET /v1/profiles/:id
func (h *ProfileHandler) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	profile, err := h.services.Profile.Get(ctx, id, auth.FromContext(ctx))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UpdateOwn handles PUT /v1/profiles/me
func (h *ProfileHandler) UpdateOwn(c *gin.Context) {
	ctx := c.Request.Context()

	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	profile, err := h.services.Profile.UpdateOwn(ctx, auth.FromContext(ctx).CurrentUser(), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// Follow handles POST /v1/profiles/:id/follow
func (h *ProfileHandler) Follow(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if err := h.services.Profile.Follow(ctx, auth.FromContext(ctx).CurrentUser(), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Unfollow handles DELETE /v1/profiles/:id/follow
func (h *ProfileHandler) Unfollow(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if err := h.services.Profile.Unfollow(ctx, auth.FromContext(ctx).CurrentUser(), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListFollowing handles GET /v1/me/following
func (h *ProfileHandler) ListFollowing(c *gin.Context) {
	ctx := c.Request.Context()
	profiles, err := h.services.Profile.ListFollowing(ctx, auth.FromContext(ctx).CurrentUser())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profiles": profiles})
}
