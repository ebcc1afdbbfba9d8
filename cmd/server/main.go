package main

import (
	"context"
	"log"

	"github.com/labstack/echo/v4"
	"github.com/wavely-app/backend/internal/router"
	"github.com/wavely-app/backend/pkg/config"
	"github.com/wavely-app/backend/pkg/firebase"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database connections
	db, err := config.InitDB()
	if err != nil {
		log.Fatalf("Failed to initialize databases: %v", err)
	}
	defer db.CloseDB() // Ensure database connections are closed when main exits

	// Initialize Firebase
	ctx := context.Background()
	firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}

	// Create Echo instance
	e := echo.New()

	// Setup global middleware
	router.SetupMiddleware(e)

	// Setup routes and dependencies
	router.SetupRoutes(ctx, e, db.Postgres, db.Redis, firebaseApp.AuthClient, cfg.NotificationRetentionDays)

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
