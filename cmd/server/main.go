package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/notepath-api/internal/api"
	"github.com/notepath-api/internal/auth"
	"github.com/notepath-api/internal/authz"
	"github.com/notepath-api/internal/cache"
	"github.com/notepath-api/internal/config"
	"github.com/notepath-api/internal/database"
	"github.com/notepath-api/internal/mail"
	"github.com/notepath-api/internal/repository"
	"github.com/notepath-api/internal/service"
	"github.com/notepath-api/internal/storage"
	"github.com/notepath-api/pkg/logger"
	"github.com/rs/zerolog"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log := logger.New("info", "json")
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	log.Info().Msg("Starting notepath API server...")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Initialize database
	db, err := database.New(&cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	// Run migrations
	if err := db.RunMigrations(cfg.Server.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to run database migrations")
	}

	// Code and revocation store
	rdb, err := cache.New(ctx, &cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to redis")
	}
	defer rdb.Close()

	// Article images
	store, err := storage.NewS3Store(ctx, &cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to configure object storage")
	}

	events := auth.NewHub()
	infra := &service.Infrastructure{
		Store:   store,
		Codes:   rdb,
		Revoker: rdb,
		Mailer:  mail.NewSender(&cfg.Mail, log),
		Tokens:  auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
		Events:  events,
	}

	// Initialize repositories and services
	repos := repository.New(db)
	services := service.NewServices(repos, infra, cfg, log)

	enforcer, err := authz.New()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build authorization policy")
	}

	// Start background mail processor
	go services.Mail.StartProcessor(ctx)
	log.Info().Msg("Mail processor started")

	go auditSessions(ctx, services.Auth, log)

	// Initialize router
	router := api.NewRouter(services, enforcer, cfg, log)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	// Drain queued mail after the last request has finished
	services.Mail.StopProcessor()
	stop()

	log.Info().Msg("Server exited gracefully")
}

// auditSessions logs every session event until ctx is cancelled
func auditSessions(ctx context.Context, authSvc service.AuthService, log zerolog.Logger) {
	events, unsubscribe := authSvc.Subscribe()
	defer unsubscribe()

	log = log.With().Str("component", "audit").Logger()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			log.Info().
				Str("event", string(ev.Type)).
				Str("user_id", ev.UserID).
				Str("email", ev.Email).
				Time("at", ev.At).
				Msg("Session event")
		}
	}
}
