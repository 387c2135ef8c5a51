package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/notepath-api/internal/service"
	"github.com/notepath-api/internal/validation"
	"github.com/rs/zerolog"
)

// respondError writes the HTTP response for a service error
func respondError(c *gin.Context, log zerolog.Logger, err error) {
	var verr *validation.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Message, "field": verr.Field})
		return
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrUnauthorized), errors.Is(err, service.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden), errors.Is(err, service.ErrEmailNotConfirmed):
		status = http.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrConflict), errors.Is(err, service.ErrDuplicate):
		status = http.StatusConflict
	case errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrSelfFollow),
		errors.Is(err, service.ErrTagLimit),
		errors.Is(err, service.ErrUnknownTag),
		errors.Is(err, service.ErrUnknownTopic),
		errors.Is(err, service.ErrInvalidCode),
		errors.Is(err, service.ErrUnsupportedFormat):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrMailQueueFull):
		status = http.StatusServiceUnavailable
	}

	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Request failed")
		c.JSON(status, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// idParam reads the :id path parameter. Ids that are not UUIDs cannot match any row,
// so they are answered with 404 before reaching the database.
func idParam(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if !validation.IsValidUUID(id) {
		c.JSON(http.StatusNotFound, gin.H{"error": service.ErrNotFound.Error()})
		return "", false
	}
	return id, true
}
