package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/notepath-api/internal/auth"
	"github.com/notepath-api/internal/authz"
	"github.com/notepath-api/internal/service"
	"github.com/rs/zerolog"
)

// recoveryMiddleware handles panics
func recoveryMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().Interface("error", err).Str("path", c.Request.URL.Path).Msg("Panic recovered")
				c.JSON(http.StatusInternalServerError, gin.H{
					"error": "Internal server error",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// loggingMiddleware logs requests
func loggingMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		event := log.Info()
		if statusCode >= 400 {
			event = log.Warn()
		}
		if statusCode >= 500 {
			event = log.Error()
		}

		if p := auth.FromContext(c.Request.Context()); p != nil {
			event = event.Str("user_id", p.UserID)
		}

		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", statusCode).
			Dur("duration", duration).
			Str("client_ip", c.ClientIP()).
			Msg("Request completed")
	}
}

// corsMiddleware handles CORS
func corsMiddleware(allowedOrigin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if allowedOrigin != "*" {
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		}

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// authenticate resolves the session token, if any, into a principal on the
// request context. Requests without a valid token continue anonymously.
func authenticate(authSvc service.AuthService, cookieName string, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := sessionToken(c, cookieName)
		if token == "" {
			c.Next()
			return
		}

		principal, err := authSvc.Authenticate(c.Request.Context(), token)
		if err != nil {
			if err != service.ErrUnauthorized {
				log.Error().Err(err).Msg("Failed to authenticate request")
			}
			c.Next()
			return
		}

		c.Request = c.Request.WithContext(auth.WithPrincipal(c.Request.Context(), principal))
		c.Next()
	}
}

// requireAuthorization rejects anonymous callers and checks the route policy for signed-in ones
func requireAuthorization(enforcer *authz.Enforcer, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := auth.FromContext(c.Request.Context())
		if principal == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		allowed, err := enforcer.Allow(authz.SubjectFor(principal.IsPrivileged()), c.Request.URL.Path, c.Request.Method)
		if err != nil {
			log.Error().Err(err).Msg("Policy check failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		if !allowed {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "You do not have access to this resource"})
			return
		}

		c.Next()
	}
}

// sessionToken reads the bearer token from the Authorization header or the session cookie
func sessionToken(c *gin.Context, cookieName string) string {
	value := c.GetHeader("Authorization")
	if value == "" {
		value, _ = c.Cookie(cookieName)
	}
	value = strings.TrimSpace(value)
	if len(value) > 7 && strings.EqualFold(value[:7], "bearer ") {
		value = strings.TrimSpace(value[7:])
	}
	return value
}
