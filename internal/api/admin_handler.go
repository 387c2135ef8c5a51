package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/notepath-api/internal/models"
	"github.com/notepath-api/internal/service"
	"github.com/rs/zerolog"
)

// AdminHandler handles moderation and user administration endpoints
type AdminHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(services *service.Services, log zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		services: services,
		log:      log.With().Str("handler", "admin").Logger(),
	}
}

// Queue handles GET /v1/admin/queue
func (h *AdminHandler) Queue(c *gin.Context) {
	queue, err := h.services.Moderation.Queue(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, queue)
}

// Transition handles POST /v1/admin/articles/:id/transition
func (h *AdminHandler) Transition(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req models.TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
		return
	}

	article, err := h.services.Lifecycle.Transition(c.Request.Context(), id, req.Status, req.ExpectedStatus)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, article)
}

// DeleteArticle handles DELETE /v1/admin/articles/:id
func (h *AdminHandler) DeleteArticle(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.services.Lifecycle.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListUsers handles GET /v1/admin/users?format=
// Without a format the list is returned as JSON; csv and ndjson are streamed as downloads.
func (h *AdminHandler) ListUsers(c *gin.Context) {
	ctx := c.Request.Context()

	format := c.Query("format")
	if format == "" || format == "json" {
		users, err := h.services.Profile.ListUsers(ctx)
		if err != nil {
			respondError(c, h.log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"users": users})
		return
	}

	var contentType string
	switch format {
	case service.FormatCSV:
		contentType = "text/csv"
	case service.FormatNDJSON:
		contentType = "application/x-ndjson"
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be one of: json, csv, ndjson"})
		return
	}

	filename := fmt.Sprintf("users_%s.%s", time.Now().Format("20060102"), format)
	c.Header("Content-Type", contentType)
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Status(http.StatusOK)

	if err := h.services.Profile.StreamUsers(ctx, c.Writer, format); err != nil {
		// Headers are already sent
		h.log.Error().Err(err).Str("format", format).Msg("User export failed")
	}
}

// GrantAdmin handles PUT /v1/admin/users/:id/admin
func (h *AdminHandler) GrantAdmin(c *gin.Context) {
	h.setAdmin(c, true)
}

// RevokeAdmin handles DELETE /v1/admin/users/:id/admin
func (h *AdminHandler) RevokeAdmin(c *gin.Context) {
	h.setAdmin(c, false)
}

func (h *AdminHandler) setAdmin(c *gin.Context, admin bool) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.services.Profile.SetAdmin(c.Request.Context(), id, admin); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user_id": id, "is_admin": admin})
}
