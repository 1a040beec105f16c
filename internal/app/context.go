package app

import (
	"log/slog"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	"github.com/fitcheck/wardrobe-server/internal/cache"
	"github.com/fitcheck/wardrobe-server/internal/catalog"
	"github.com/fitcheck/wardrobe-server/internal/session"
	"github.com/fitcheck/wardrobe-server/internal/storage"
)

// AppContext holds shared dependencies (DB, Redis, Logger, etc.)
type AppContext struct {
	DB         *gorm.DB
	RedisCache *cache.RedisCache
	Logger     *slog.Logger
	Files      *storage.FileStore
	Sessions   *session.Store
	Validate   *validator.Validate
}

// New creates a new AppContext.
func New(db *gorm.DB, rdb *cache.RedisCache, logger *slog.Logger, files *storage.FileStore) *AppContext {
	return &AppContext{
		DB:         db,
		RedisCache: rdb,
		Logger:     logger,
		Files:      files,
		Sessions:   session.NewStore(rdb),
		Validate:   catalog.NewValidator(),
	}
}
