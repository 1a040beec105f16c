package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"gorm.io/gorm"

	"github.com/fitcheck/wardrobe-server/internal/db"
	"github.com/fitcheck/wardrobe-server/internal/session"
)

type contextKey string

const identityKey contextKey = "identity"

// identityFrom returns the authenticated identity stored by the middleware.
func identityFrom(ctx context.Context) session.Identity {
	ident, _ := ctx.Value(identityKey).(session.Identity)
	return ident
}

// authenticate resolves the bearer token against the session store and makes
// sure the user row exists. Everything under /api trusts the resolved user ID.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		ident, err := s.appCtx.Sessions.Resolve(r.Context(), token)
		if err != nil {
			if errors.Is(err, session.ErrNoSession) {
				writeMessage(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			s.appCtx.Logger.Error("session lookup failed", "err", err)
			writeMessage(w, http.StatusInternalServerError, "internal server error")
			return
		}

		if err := s.ensureUser(r.Context(), ident); err != nil {
			s.appCtx.Logger.Error("user upsert failed", "user_id", ident.UserID, "err", err)
			writeMessage(w, http.StatusInternalServerError, "internal server error")
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), identityKey, ident)))
	})
}

// ensureUser creates the user row on first authentication.
func (s *Server) ensureUser(ctx context.Context, ident session.Identity) error {
	_, err := s.users.Get(ctx, ident.UserID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return s.users.Upsert(ctx, &db.User{
		ID:              ident.UserID,
		Email:           ident.Email,
		FirstName:       ident.FirstName,
		LastName:        ident.LastName,
		ProfileImageURL: ident.ProfileImageURL,
	})
}

func bearerToken(r *http.Request) string {
	auth := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(auth) > 7 && strings.EqualFold(auth[:7], "Bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return ""
}

// logRequests emits one structured line per request.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.appCtx.Logger.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
