package main

import (
	"context"
	"net/http"

	"github.com/joho/godotenv"

	"github.com/fitcheck/wardrobe-server/internal/app"
	"github.com/fitcheck/wardrobe-server/internal/cache"
	"github.com/fitcheck/wardrobe-server/internal/config"
	"github.com/fitcheck/wardrobe-server/internal/db"
	"github.com/fitcheck/wardrobe-server/internal/logger"
	"github.com/fitcheck/wardrobe-server/internal/server"
	"github.com/fitcheck/wardrobe-server/internal/session"
	"github.com/fitcheck/wardrobe-server/internal/storage"
)

func main() {
	_ = godotenv.Load()
	cfg := config.New()

	// Init logger (global singleton)
	logger.InitFromConfig(cfg)
	log := logger.L()

	// Init DB
	database, err := db.NewDB(cfg)
	if err != nil {
		log.Error("failed to init db", "err", err)
		return
	}
	if err := db.Migrate(database); err != nil {
		log.Error("failed to migrate db", "err", err)
		return
	}

	// Init Redis
	redisCache := cache.NewRedisCache(cfg)
	if err := redisCache.Ping(context.Background()); err != nil {
		log.Error("failed to connect to redis", "err", err)
		return
	}

	// Init image storage
	files, err := storage.NewFileStore(cfg.Storage.StaticDir)
	if err != nil {
		log.Error("failed to init file storage", "err", err)
		return
	}

	appCtx := app.New(database, redisCache, log, files)

	if cfg.App.ENV == "development" {
		if err := seedDevData(appCtx); err != nil {
			log.Error("failed to seed", "err", err)
		}
	}

	srv := server.New(appCtx, cfg)

	addr := cfg.HTTP.Host + ":" + cfg.HTTP.Port
	log.Info("starting HTTP server", "addr", addr)

	if err := http.ListenAndServe(addr, srv.Router()); err != nil {
		log.Error("server stopped", "err", err)
	}
}

// seedDevData loads the demo wardrobe and plants a session for it, so the
// API is usable immediately with `Authorization: Bearer demo-token`.
func seedDevData(appCtx *app.AppContext) error {
	if err := db.SeedDemoData(appCtx.DB); err != nil {
		return err
	}
	return appCtx.Sessions.Put(context.Background(), "demo-token", session.Identity{
		UserID:    db.DemoUserID,
		Email:     "demo@example.com",
		FirstName: "Demo",
		LastName:  "User",
	})
}
