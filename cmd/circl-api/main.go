// @title Circl API
// @version 1.0
// @description Relationship-first contact management API with duplicate detection, merging and connection strength scoring

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"circl/backend/internal/api"
	"circl/backend/internal/api/handlers"
	"circl/backend/internal/auth"
	"circl/backend/internal/config"
	"circl/backend/internal/db"
	"circl/backend/internal/dedupe"
	"circl/backend/internal/health"
	"circl/backend/internal/logger"
	"circl/backend/internal/repository"
	"circl/backend/internal/scheduler"
	"circl/backend/internal/service"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "circl/backend/docs" // Import generated docs
)

func main() {
	// Load and validate configuration first (before logger)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize structured logger with configuration
	logger.Init(cfg.Logger)

	logger.Info().
		Str("environment", cfg.Logger.Environment).
		Str("log_level", cfg.Logger.Level).
		Msg("configuration loaded successfully")

	// Run migrations before connecting to database
	logger.Info().Msg("running database migrations")
	if err := db.RunMigrations(cfg.Database.URL, cfg.Database.MigrationsPath); err != nil {
		logger.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Initialize database
	ctx := context.Background()
	database, err := db.NewDatabase(ctx, cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer database.Close()

	logger.Info().Msg("database connected successfully")

	// Initialize repositories
	contactRepo := repository.NewContactRepository(database.Pool)
	interactionRepo := repository.NewInteractionRepository(database.Pool)
	keystoneRepo := repository.NewKeystoneRepository(database.Pool)
	mediaRepo := repository.NewMediaRepository(database.Pool)
	notificationRepo := repository.NewNotificationRepository(database.Pool)

	// Initialize services
	contactService := service.NewContactService(database, contactRepo, interactionRepo)
	interactionService := service.NewInteractionService(database, contactRepo, interactionRepo)
	keystoneService := service.NewKeystoneService(contactRepo, keystoneRepo)
	mediaService := service.NewMediaService(contactRepo, mediaRepo)
	duplicateService := service.NewDuplicateService(database, contactRepo, dedupe.DefaultConfig)
	importService := service.NewImportService(contactRepo)
	notificationService := service.NewNotificationService(contactRepo, interactionRepo, notificationRepo)

	// Initialize handlers
	contactHandler := handlers.NewContactHandler(contactService)
	interactionHandler := handlers.NewInteractionHandler(interactionService)
	keystoneHandler := handlers.NewKeystoneHandler(keystoneService)
	mediaHandler := handlers.NewMediaHandler(mediaService)
	duplicateHandler := handlers.NewDuplicateHandler(duplicateService)
	importHandler := handlers.NewImportHandler(importService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	systemHandler := handlers.NewSystemHandler(health.NewChecker(database))

	// Initialize and start the notification scheduler (feature-flagged)
	if cfg.Features.EnableNotificationJob {
		cronScheduler := scheduler.NewScheduler(notificationService, cfg.Features)
		if err := cronScheduler.Start(); err != nil {
			logger.Fatal().Err(err).Msg("failed to start scheduler")
		}
		defer cronScheduler.Stop()
	}

	// Set up Gin router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Add middleware
	router.Use(api.RequestIDMiddleware())
	router.Use(api.LoggingMiddleware())
	router.Use(api.CORSMiddleware(cfg.CORS))
	router.Use(api.ErrorHandlerMiddleware())
	if cfg.RateLimit.Enabled {
		router.Use(api.RateLimitMiddleware(api.NewRateLimiter(cfg.RateLimit)))
	}

	// Health check endpoint (no auth)
	router.GET("/health", systemHandler.Health)

	// API routes
	v1 := router.Group("/api/v1")
	v1.Use(auth.APIKeyMiddleware(cfg))
	v1.Use(auth.UserIdentityMiddleware())
	{
		// Contact routes
		contacts := v1.Group("/contacts")
		{
			contacts.POST("", contactHandler.CreateContact)
			contacts.GET("", contactHandler.ListContacts)
			contacts.POST("/import", importHandler.ImportContacts)
			contacts.GET("/:id", contactHandler.GetContact)
			contacts.PUT("/:id", contactHandler.UpdateContact)
			contacts.DELETE("/:id", contactHandler.DeleteContact)
			contacts.POST("/:id/touch", contactHandler.TouchContact)
			contacts.GET("/:id/strength", contactHandler.GetContactStrength)
			contacts.GET("/:id/interactions", interactionHandler.ListInteractions)
			contacts.POST("/:id/interactions", interactionHandler.CreateInteraction)
			contacts.GET("/:id/keystones", keystoneHandler.ListKeystonesByContact)
			contacts.POST("/:id/keystones", keystoneHandler.CreateKeystone)
			contacts.GET("/:id/media", mediaHandler.ListMedia)
			contacts.POST("/:id/media", mediaHandler.CreateMedia)
		}

		// Duplicate detection routes
		duplicates := v1.Group("/duplicates")
		{
			duplicates.GET("", duplicateHandler.ListDuplicates)
			duplicates.POST("/merge", duplicateHandler.MergeContacts)
		}

		// Interaction routes
		v1.DELETE("/interactions/:id", interactionHandler.DeleteInteraction)

		// Keystone routes
		keystones := v1.Group("/keystones")
		{
			keystones.GET("", keystoneHandler.ListKeystones)
			keystones.PUT("/:id", keystoneHandler.UpdateKeystone)
			keystones.DELETE("/:id", keystoneHandler.DeleteKeystone)
		}

		// Media routes
		v1.DELETE("/media/:id", mediaHandler.DeleteMedia)

		// Notification routes
		notifications := v1.Group("/notifications")
		{
			notifications.GET("", notificationHandler.ListNotifications)
			notifications.POST("/:id/read", notificationHandler.MarkNotificationRead)
		}
	}

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Start server with configured bind address
	addr := cfg.GetBindAddress()
	// Use a listener so we can discover the selected port when PORT=0
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		logger.Fatal().Err(err).Str("addr", addr).Msg("failed to bind listener")
	}

	tcpAddr, ok := ln.Addr().(*net.TCPAddr)
	if !ok {
		_ = ln.Close()
		logger.Fatal().Msg("failed to determine TCP address")
	}
	selectedPort := tcpAddr.Port

	srv := &http.Server{
		Addr:    ln.Addr().String(),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		logger.Info().
			Int("port", selectedPort).
			Str("addr", cfg.Server.Host).
			Msg("starting server")
		logger.Info().
			Str("url", fmt.Sprintf("http://%s:%d/swagger/index.html", cfg.Server.Host, selectedPort)).
			Msg("API documentation available")
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("shutting down server")

	// Give outstanding requests a configured timeout to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server forced to shutdown")
	}

	logger.Info().Msg("server exited")
}
