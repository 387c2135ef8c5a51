package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/notepath-api/internal/authz"
	"github.com/notepath-api/internal/config"
	"github.com/notepath-api/internal/service"
	"github.com/rs/zerolog"
)

// NewRouter creates and configures the Gin router
func NewRouter(services *service.Services, enforcer *authz.Enforcer, cfg *config.Config, log zerolog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	// Room for one image plus the text fields of the form
	router.MaxMultipartMemory = cfg.Content.MaxImageSize + 1<<20

	// Middleware
	router.Use(recoveryMiddleware(log))
	router.Use(loggingMiddleware(log))
	router.Use(corsMiddleware(cfg.Server.AllowedOrigin))
	router.Use(authenticate(services.Auth, cfg.Auth.CookieName, log))

	requireAuth := requireAuthorization(enforcer, log)

	// Handlers
	authHandler := NewAuthHandler(services, cfg, log)
	articleHandler := NewArticleHandler(services, cfg, log)
	taxonomyHandler := NewTaxonomyHandler(services, log)
	profileHandler := NewProfileHandler(services, log)
	adminHandler := NewAdminHandler(services, log)

	// Health check
	router.GET("/health", healthCheck)
	router.GET("/metrics", metricsHandler(services, log))

	v1 := router.Group("/v1")
	{
		authRoutes := v1.Group("/auth")
		{
			authRoutes.POST("/signup", authHandler.SignUp)
			authRoutes.POST("/verify", authHandler.Verify)
			authRoutes.POST("/resend", authHandler.Resend)
			authRoutes.POST("/signin", authHandler.SignIn)
			authRoutes.POST("/password/forgot", authHandler.ForgotPassword)
			authRoutes.POST("/password/reset", authHandler.ResetPassword)
			authRoutes.POST("/signout", requireAuth, authHandler.SignOut)
			authRoutes.GET("/me", requireAuth, authHandler.Me)
		}

		articles := v1.Group("/articles")
		{
			articles.GET("", articleHandler.List)
			articles.GET("/trending", articleHandler.Trending)
			articles.GET("/:id", articleHandler.Get)
			articles.POST("", requireAuth, articleHandler.Create)
			articles.PUT("/:id", requireAuth, articleHandler.Update)
		}

		v1.POST("/uploads/images", requireAuth, articleHandler.UploadImage)

		v1.GET("/topics", taxonomyHandler.ListTopics)
		v1.GET("/tags", taxonomyHandler.ListTags)

		profiles := v1.Group("/profiles")
		{
			profiles.GET("", profileHandler.List)
			profiles.GET("/:id", profileHandler.Get)
			profiles.PUT("/me", requireAuth, profileHandler.UpdateOwn)
			profiles.POST("/:id/follow", requireAuth, profileHandler.Follow)
			profiles.DELETE("/:id/follow", requireAuth, profileHandler.Unfollow)
		}

		me := v1.Group("/me", requireAuth)
		{
			me.GET("/articles", articleHandler.ListOwn)
			me.GET("/following", profileHandler.ListFollowing)
		}

		admin := v1.Group("/admin", requireAuth)
		{
			admin.GET("/queue", adminHandler.Queue)
			admin.POST("/articles/:id/transition", adminHandler.Transition)
			admin.DELETE("/articles/:id", adminHandler.DeleteArticle)

			admin.POST("/topics", taxonomyHandler.CreateTopic)
			admin.PUT("/topics/:id", taxonomyHandler.UpdateTopic)
			admin.DELETE("/topics/:id", taxonomyHandler.DeleteTopic)
			admin.POST("/tags", taxonomyHandler.CreateTag)
			admin.PUT("/tags/:id", taxonomyHandler.UpdateTag)
			admin.DELETE("/tags/:id", taxonomyHandler.DeleteTag)

			admin.GET("/users", adminHandler.ListUsers)
			admin.PUT("/users/:id/admin", adminHandler.GrantAdmin)
			admin.DELETE("/users/:id/admin", adminHandler.RevokeAdmin)
		}
	}

	return router
}

// healthCheck returns the health status
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"service":   "notepath-api",
	})
}

// metricsHandler returns content counts
func metricsHandler(services *service.Services, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := services.Moderation.Stats(c.Request.Context())
		if err != nil {
			respondError(c, log, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"database":  stats,
			"timestamp": time.Now().Format(time.RFC3339),
		})
	}
}
