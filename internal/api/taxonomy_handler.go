package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/notepath-api/internal/models"
	"github.com/notepath-api/internal/service"
	"github.com/rs/zerolog"
)

// TaxonomyHandler handles topic and tag endpoints
type TaxonomyHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewTaxonomyHandler creates a new TaxonomyHandler
func NewTaxonomyHandler(services *service.Services, log zerolog.Logger) *TaxonomyHandler {
	return &TaxonomyHandler{
		services: services,
		log:      log.With().Str("handler", "taxonomy").Logger(),
	}
}

// ListTopics handles GET /v1/topics
func (h *TaxonomyHandler) ListTopics(c *gin.Context) {
	topics, err := h.services.Taxonomy.ListTopics(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"topics": topics})
}

// CreateTopic handles POST /v1/admin/topics
func (h *TaxonomyHandler) CreateTopic(c *gin.Context) {
	var req models.TopicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	topic, err := h.services.Taxonomy.CreateTopic(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, topic)
}

// UpdateTopic handles PUT /v1/admin/topics/:id
func (h *TaxonomyHandler) UpdateTopic(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req models.TopicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	topic, err := h.services.Taxonomy.UpdateTopic(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, topic)
}

// DeleteTopic handles DELETE /v1/admin/topics/:id
func (h *TaxonomyHandler) DeleteTopic(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.services.Taxonomy.DeleteTopic(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListTags handles GET /v1/tags
func (h *TaxonomyHandler) ListTags(c *gin.Context) {
	tags, err := h.services.Taxonomy.ListTags(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tags": tags})
}

// CreateTag handles POST /v1/admin/tags
func (h *TaxonomyHandler) CreateTag(c *gin.Context) {
	var req models.TagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	tag, err := h.services.Taxonomy.CreateTag(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, tag)
}

// UpdateTag handles PUT /v1/admin/tags/:id
func (h *TaxonomyHandler) UpdateTag(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req models.TagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	tag, err := h.services.Taxonomy.UpdateTag(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, tag)
}

// DeleteTag handles DELETE /v1/admin/tags/:id
func (h *TaxonomyHandler) DeleteTag(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.services.Taxonomy.DeleteTag(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
