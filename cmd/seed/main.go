package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"github.com/fitcheck/wardrobe-server/internal/cache"
	"github.com/fitcheck/wardrobe-server/internal/config"
	"github.com/fitcheck/wardrobe-server/internal/db"
	"github.com/fitcheck/wardrobe-server/internal/session"
)

func main() {
	_ = godotenv.Load()
	cfg := config.New()

	database, err := db.NewDB(cfg)
	if err != nil {
		log.Fatalf("failed to init db: %v", err)
	}
	if err := db.Migrate(database); err != nil {
		log.Fatalf("failed to migrate db: %v", err)
	}

	if err := db.SeedDemoData(database); err != nil {
		log.Fatalf("failed to seed: %v", err)
	}

	redisCache := cache.NewRedisCache(cfg)
	if err := redisCache.Ping(context.Background()); err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	sessions := session.NewStore(redisCache)
	if err := sessions.Put(context.Background(), "demo-token", session.Identity{
		UserID:    db.DemoUserID,
		Email:     "demo@example.com",
		FirstName: "Demo",
		LastName:  "User",
	}); err != nil {
		log.Fatalf("failed to store demo session: %v", err)
	}

	log.Println("Seeding completed. Demo bearer token: demo-token")
}
