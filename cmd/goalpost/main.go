package main

import (
	"log"
	"os"

	"github.com/goalpost-dev/goalpost/db"
	"github.com/goalpost-dev/goalpost/internal/auth"
	"github.com/goalpost-dev/goalpost/internal/goals"
	"github.com/goalpost-dev/goalpost/internal/handlers"
	"github.com/goalpost-dev/goalpost/internal/router"
	"github.com/goalpost-dev/goalpost/internal/services"
	"github.com/joho/godotenv"
)

func main() {
	var err error

	err = godotenv.Load()

	if err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	if err = auth.InitJWTSecret(); err != nil {
		log.Fatalf("Failed to initialize JWT secret: %v", err)
	}

	if err = db.ConnectDatabase(os.Getenv("DATABASE_URL")); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err = db.MigrateDatabase(); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	hub := services.NewEventHub()

	handlers.Init(goals.NewService(db.DB, goals.LogObserver{}, hub), hub)

	r := router.NewRouter()

	var port string

	if port = os.Getenv("PORT"); port == "" {
		port = "3000"
		log.Println("PORT not set, defaulting to 3000")
	}

	if err = r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
