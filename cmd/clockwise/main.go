package main

import (
	"log"
	"os"

	"github.com/clockwise-dev/clockwise/db"
	"github.com/clockwise-dev/clockwise/internal/auth"
	"github.com/clockwise-dev/clockwise/internal/identity"
	"github.com/clockwise-dev/clockwise/internal/router"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment")
	}

	if err := auth.InitJWTSecret(); err != nil {
		log.Fatalf("Failed to initialize JWT secret: %v", err)
	}

	if err := db.ConnectDatabase(os.Getenv("DATABASE_URL")); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.MigrateDatabase(); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	var verifier identity.TokenVerifier

	if projectID := os.Getenv("FIREBASE_PROJECT_ID"); projectID != "" {
		verifier = identity.NewVerifier(projectID)
	} else {
		log.Println("FIREBASE_PROJECT_ID not set, identity-token login disabled")
	}

	r := router.NewRouter(verifier)

	var port string

	if port = os.Getenv("PORT"); port == "" {
		port = "8000"
		log.Println("PORT not set, defaulting to 8000")
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
