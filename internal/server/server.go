package server

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/fitcheck/wardrobe-server/internal/app"
	"github.com/fitcheck/wardrobe-server/internal/config"
	"github.com/fitcheck/wardrobe-server/internal/repository"
	"github.com/fitcheck/wardrobe-server/internal/service/analytics"
	"github.com/fitcheck/wardrobe-server/internal/service/closet"
	"github.com/fitcheck/wardrobe-server/internal/service/outfits"
	"github.com/fitcheck/wardrobe-server/internal/service/wear"
)

// Server exposes the wardrobe HTTP API.
type Server struct {
	appCtx *app.AppContext

	users     *repository.UserRepository
	closet    *closet.Service
	outfits   *outfits.Service
	wear      *wear.Service
	analytics *analytics.Service

	maxUploadBytes int64
	allowedExt     map[string]struct{}

	router chi.Router
}

// New constructs the server with routes configured.
func New(appCtx *app.AppContext, cfg *config.Config) *Server {
	s := &Server{
		appCtx:         appCtx,
		users:          repository.NewUserRepository(appCtx.DB),
		closet:         closet.NewService(appCtx),
		outfits:        outfits.NewService(appCtx),
		wear:           wear.NewService(appCtx),
		analytics:      analytics.NewService(appCtx),
		maxUploadBytes: cfg.Upload.MaxBytes,
		allowedExt:     map[string]struct{}{},
	}
	for _, ext := range cfg.Upload.AllowedExtensions {
		s.allowedExt[strings.ToLower(ext)] = struct{}{}
	}
	s.routes()
	return s
}

// Router returns the configured handler.
func (s *Server) Router() http.Handler { return s.router }

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	if s.appCtx.Files != nil {
		fs := http.FileServer(http.Dir(s.appCtx.Files.BaseDir()))
		r.Handle("/static/*", http.StripPrefix("/static/", fs))
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(s.authenticate)

		r.Get("/auth/user", s.handleCurrentUser)

		r.Route("/pieces", func(r chi.Router) {
			r.Get("/", s.handleListPieces)
			r.Post("/", s.handleCreatePiece)
			r.Patch("/{id}", s.handleUpdatePiece)
			r.Delete("/{id}", s.handleDeletePiece)
		})

		r.Route("/outfits", func(r chi.Router) {
			r.Get("/", s.handleListOutfits)
			r.Post("/", s.handleCreateOutfit)
			r.Patch("/{id}", s.handleUpdateOutfit)
			r.Delete("/{id}", s.handleDeleteOutfit)
		})

		r.Route("/wear-log", func(r chi.Router) {
			r.Post("/", s.handleLogWear)
			r.Get("/recent", s.handleRecentWearLogs)
		})

		r.Get("/analytics", s.handleAnalytics)
	})

	s.router = r
}

// isExtensionAllowed checks an upload filename against the allowlist.
// An empty allowlist accepts anything.
func (s *Server) isExtensionAllowed(filename string) bool {
	if len(s.allowedExt) == 0 {
		return true
	}
	_, ok := s.allowedExt[strings.ToLower(filepath.Ext(filename))]
	return ok
}
