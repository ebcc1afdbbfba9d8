package router

import (
	"context"
	"log"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/wavely-app/backend/internal/broadcast"
	"github.com/wavely-app/backend/internal/handlers"
	"github.com/wavely-app/backend/internal/middleware"
	"github.com/wavely-app/backend/internal/models"
	"github.com/wavely-app/backend/internal/realtime"
	"github.com/wavely-app/backend/internal/repositories"
	"github.com/wavely-app/backend/internal/services"
	"gorm.io/gorm"
)

// How often unpublished outbox rows are retried, and how many per pass.
const (
	outboxFlushInterval = 30 * time.Second
	outboxFlushBatch    = 100
)

// How often read notifications past their retention window are purged.
const notificationCleanupInterval = 24 * time.Hour

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(ctx context.Context, e *echo.Echo, pgdb *gorm.DB, redisClient *redis.Client, firebaseAuthClient *auth.Client, notificationRetentionDays int) {
	// AutoMigrate PostgreSQL models
	err := pgdb.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.Post{},
		&models.Comment{},
		&models.Like{},
		&models.Share{},
		&models.Friendship{},
		&models.Conversation{},
		&models.ConversationMember{},
		&models.Message{},
		&models.Notification{},
		&models.OutboxEvent{},
	)
	if err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	log.Println("PostgreSQL auto-migrations completed for all models.")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	userRepo := repositories.NewPostgresUserRepository(pgdb)
	profileRepo := repositories.NewPostgresProfileRepository(pgdb)
	postRepo := repositories.NewPostgresPostRepository(pgdb)
	commentRepo := repositories.NewPostgresCommentRepository(pgdb)
	likeRepo := repositories.NewPostgresLikeRepository(pgdb)
	shareRepo := repositories.NewPostgresShareRepository(pgdb)
	friendshipRepo := repositories.NewPostgresFriendshipRepository(pgdb)
	conversationRepo := repositories.NewPostgresConversationRepository(pgdb)
	messageRepo := repositories.NewPostgresMessageRepository(pgdb)
	notificationRepo := repositories.NewPostgresNotificationRepository(pgdb)
	outboxRepo := repositories.NewPostgresOutboxRepository(pgdb)

	// --- Broadcast pipeline ---
	transport := broadcast.NewRedisTransport(redisClient)
	dispatcher := broadcast.NewDispatcher(outboxRepo, transport)
	go func() {
		ticker := time.NewTicker(outboxFlushInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				dispatcher.FlushPending(ctx, outboxFlushBatch)
			}
		}
	}()
	log.Println("Broadcast dispatcher configured.")

	// --- Initialize Services ---
	notificationService := services.NewNotificationService(notificationRepo, userRepo, dispatcher)
	go func() {
		ticker := time.NewTicker(notificationCleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if purged, err := notificationService.CleanupOld(notificationRetentionDays); err != nil {
					log.Printf("Notification cleanup failed: %v", err)
				} else if purged > 0 {
					log.Printf("Notification cleanup purged %d read notifications.", purged)
				}
			}
		}
	}()
	friendshipService := services.NewFriendshipService(friendshipRepo, userRepo, notificationService, dispatcher)
	profileService := services.NewProfileService(profileRepo, userRepo, friendshipService)
	postService := services.NewPostService(postRepo, userRepo, dispatcher)
	commentService := services.NewCommentService(commentRepo, postRepo, userRepo, notificationService, dispatcher)
	likeService := services.NewLikeService(likeRepo, postRepo, commentRepo, userRepo, notificationService, dispatcher)
	shareService := services.NewShareService(shareRepo, postService, userRepo, notificationService, dispatcher)
	conversationService := services.NewConversationService(conversationRepo, messageRepo)
	messageService := services.NewMessageService(messageRepo, conversationRepo, userRepo, dispatcher)

	// --- Realtime gateway ---
	authorizer := realtime.NewAuthorizer(conversationService)
	hub := realtime.NewHub(authorizer, dispatcher)
	subscriber := realtime.NewSubscriber(redisClient, hub)
	go hub.Run(ctx)
	go subscriber.Run(ctx)
	log.Println("Realtime hub and subscriber started.")

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	authHandler := handlers.NewAuthHandler(userRepo, profileRepo, firebaseAuthClient)
	authHandler.RegisterAuthRoutes(authGroup)
	log.Println("Auth routes configured.")

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware())
	log.Println("JWT authentication middleware applied to /api/v1 group.")

	profileHandler := handlers.NewProfileHandler(profileService)
	profileHandler.RegisterProfileRoutes(api)
	log.Println("Profile routes configured.")

	postHandler := handlers.NewPostHandler(postService)
	postHandler.RegisterPostRoutes(api)
	log.Println("Post routes configured.")

	commentHandler := handlers.NewCommentHandler(commentService)
	commentHandler.RegisterCommentRoutes(api)
	log.Println("Comment routes configured.")

	likeHandler := handlers.NewLikeHandler(likeService)
	likeHandler.RegisterLikeRoutes(api)
	log.Println("Like routes configured.")

	shareHandler := handlers.NewShareHandler(shareService)
	shareHandler.RegisterShareRoutes(api)
	log.Println("Share routes configured.")

	friendshipHandler := handlers.NewFriendshipHandler(friendshipService)
	friendshipHandler.RegisterFriendshipRoutes(api)
	log.Println("Friendship routes configured.")

	conversationHandler := handlers.NewConversationHandler(conversationService, messageService)
	conversationHandler.RegisterConversationRoutes(api)
	log.Println("Conversation routes configured.")

	notificationHandler := handlers.NewNotificationHandler(notificationService)
	notificationHandler.RegisterNotificationRoutes(api)
	log.Println("Notification routes configured.")

	wsHandler := handlers.NewWSHandler(hub, userRepo)
	wsHandler.RegisterWSRoutes(api)
	log.Println("WebSocket routes configured.")

	log.Println("All routes configured.")
}
