package api

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/notepath-api/internal/auth"
	"github.com/notepath-api/internal/config"
	"github.com/notepath-api/internal/models"
	"github.com/notepath-api/internal/service"
	"github.com/rs/zerolog"
)

// ArticleHandler handles article endpoints
type ArticleHandler struct {
	services *service.Services
	cfg      *config.Config
	log      zerolog.Logger
}

// NewArticleHandler creates a new ArticleHandler
func NewArticleHandler(services *service.Services, cfg *config.Config, log zerolog.Logger) *ArticleHandler {
	return &ArticleHandler{
		services: services,
		cfg:      cfg,
		log:      log.With().Str("handler", "article").Logger(),
	}
}

// List handles GET /v1/articles?q=&topic=&tag=&page=&page_size=
func (h *ArticleHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	pageSize, _ := strconv.Atoi(c.Query("page_size"))

	result, err := h.services.Article.ListPublished(c.Request.Context(), models.ArticleFilter{
		Query:     c.Query("q"),
		TopicSlug: c.Query("topic"),
		TagSlug:   c.Query("tag"),
		Page:      page,
		PageSize:  pageSize,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Trending handles GET /v1/articles/trending
func (h *ArticleHandler) Trending(c *gin.Context) {
	articles, err := h.services.Article.Trending(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"articles": articles})
}

// Get handles GET /v1/articles/:id
// Admins may pass ?preview=true to read an unpublished article without counting a view.
func (h *ArticleHandler) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	preview := c.Query("preview") == "true"

	article, err := h.services.Article.Get(ctx, id, auth.FromContext(ctx), preview)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, article)
}

// Create handles POST /v1/articles
// Accepts multipart form fields with an optional "thumbnail" file, or a JSON body without one.
func (h *ArticleHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req models.CreateArticleRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	var thumbnail *models.Upload
	if header, err := c.FormFile("thumbnail"); err == nil {
		thumbnail, err = h.readUpload(header)
		if err != nil {
			h.log.Error().Err(err).Msg("Failed to read thumbnail")
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read thumbnail", "field": "thumbnail"})
			return
		}
	}

	article, err := h.services.Article.Create(ctx, auth.FromContext(ctx).CurrentUser(), &req, thumbnail)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, article)
}

// Update handles PUT /v1/articles/:id
func (h *ArticleHandler) Update(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()

	var req models.UpdateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	article, err := h.services.Article.Update(ctx, auth.FromContext(ctx).CurrentUser(), id, &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, article)
}

// ListOwn handles GET /v1/me/articles
func (h *ArticleHandler) ListOwn(c *gin.Context) {
	ctx := c.Request.Context()
	articles, err := h.services.Article.ListByAuthor(ctx, auth.FromContext(ctx).CurrentUser())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"articles": articles})
}

// UploadImage handles POST /v1/uploads/images
func (h *ArticleHandler) UploadImage(c *gin.Context) {
	ctx := c.Request.Context()

	header, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image is required", "field": "image"})
		return
	}
	image, err := h.readUpload(header)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to read image")
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read image", "field": "image"})
		return
	}

	url, err := h.services.Article.UploadContentImage(ctx, auth.FromContext(ctx).CurrentUser(), image)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"url": url})
}

// readUpload buffers a multipart file. One byte past the limit is read so oversize files are still detected.
func (h *ArticleHandler) readUpload(header *multipart.FileHeader) (*models.Upload, error) {
	file, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.cfg.Content.MaxImageSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	return &models.Upload{Filename: header.Filename, Data: data}, nil
}
