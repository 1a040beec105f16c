// Package outfits implements outfit composition: creating and editing
// outfits together with their full piece sets.
package outfits

import (
	"context"

	"github.com/fitcheck/wardrobe-server/internal/app"
	"github.com/fitcheck/wardrobe-server/internal/db"
	svcErr "github.com/fitcheck/wardrobe-server/internal/errors"
	"github.com/fitcheck/wardrobe-server/internal/repository"
	"github.com/fitcheck/wardrobe-server/internal/storage"
)

// Service contains the composition logic on top of the outfit and piece
// repositories. The piece repository doubles as the ownership validator.
type Service struct {
	appCtx  *app.AppContext
	outfits *repository.OutfitRepository
	pieces  *repository.PieceRepository
}

func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:  appCtx,
		outfits: repository.NewOutfitRepository(appCtx.DB),
		pieces:  repository.NewPieceRepository(appCtx.DB),
	}
}

// UpdateInput carries a partial outfit edit. PieceIDs == nil leaves the
// composition untouched; a non-nil pointer (even to an empty slice)
// replaces it wholesale. Worn counters are never part of an edit.
type UpdateInput struct {
	Name     *string
	PieceIDs *[]string
	Cover    *storage.Upload
}

// List returns the user's outfits with resolved pieces, newest first.
func (s *Service) List(ctx context.Context, userID string) ([]db.OutfitWithPieces, error) {
	outfits, err := s.outfits.List(ctx, userID)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	return outfits, nil
}

// Get returns one outfit with resolved pieces.
func (s *Service) Get(ctx context.Context, userID, id string) (*db.OutfitWithPieces, error) {
	outfit, err := s.outfits.Get(ctx, id, userID)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	return outfit, nil
}

// Create validates ownership of every piece ID, then persists the outfit
// and its junction rows.
//
// Behavior:
//   - A foreign or nonexistent piece ID rejects the entire write with
//     Forbidden; zero rows are persisted.
//   - Ownership runs before anything is written, so there is no partial
//     attachment to roll back.
//   - An empty piece list is a valid outfit.
func (s *Service) Create(ctx context.Context, userID, name string, pieceIDs []string, cover *storage.Upload) (*db.OutfitWithPieces, error) {
	if err := s.appCtx.Validate.Var(name, "required,max=100"); err != nil {
		return nil, svcErr.Invalid("name must be non-empty and at most 100 characters")
	}

	if err := s.requireOwnership(ctx, userID, pieceIDs); err != nil {
		return nil, err
	}

	outfit := &db.Outfit{UserID: userID, Name: name}
	if cover != nil {
		path, err := s.appCtx.Files.Save(storage.KindOutfits, cover.Filename, cover.Content)
		if err != nil {
			return nil, svcErr.Map(err)
		}
		outfit.CoverImage = &path
	}

	if err := s.outfits.Create(ctx, outfit, pieceIDs); err != nil {
		return nil, svcErr.Map(err)
	}

	s.appCtx.Logger.Debug("outfit created", "outfit_id", outfit.ID, "user_id", userID, "pieces", len(pieceIDs))
	return s.Get(ctx, userID, outfit.ID)
}

// Update patches name/cover and optionally replaces the piece set.
func (s *Service) Update(ctx context.Context, userID, id string, in UpdateInput) (*db.OutfitWithPieces, error) {
	existing, err := s.outfits.Get(ctx, id, userID)
	if err != nil {
		return nil, svcErr.Map(err)
	}

	changes := map[string]any{}
	if in.Name != nil {
		if err := s.appCtx.Validate.Var(*in.Name, "required,max=100"); err != nil {
			return nil, svcErr.Invalid("name must be non-empty and at most 100 characters")
		}
		changes["name"] = *in.Name
	}

	if in.PieceIDs != nil {
		if err := s.requireOwnership(ctx, userID, *in.PieceIDs); err != nil {
			return nil, err
		}
	}

	if in.Cover != nil {
		path, err := s.appCtx.Files.Save(storage.KindOutfits, in.Cover.Filename, in.Cover.Content)
		if err != nil {
			return nil, svcErr.Map(err)
		}
		if existing.CoverImage != nil {
			if err := s.appCtx.Files.Delete(*existing.CoverImage); err != nil {
				s.appCtx.Logger.Warn("failed to delete replaced cover", "path", *existing.CoverImage, "err", err)
			}
		}
		changes["cover_image"] = path
	}

	updated, err := s.outfits.Update(ctx, id, userID, changes, in.PieceIDs)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	return updated, nil
}

// Delete removes an outfit, cascading to junction rows, wear logs, and the
// cover image. Reports whether a row was actually removed; a missing or
// unowned ID is a no-op, not an error.
func (s *Service) Delete(ctx context.Context, userID, id string) (bool, error) {
	existing, err := s.outfits.Get(ctx, id, userID)
	if err != nil {
		if svcErr.KindOf(err) == svcErr.KindNotFound {
			return false, nil
		}
		return false, svcErr.Map(err)
	}

	removed, err := s.outfits.Delete(ctx, id, userID)
	if err != nil {
		return false, svcErr.Map(err)
	}
	if removed && existing.CoverImage != nil {
		if err := s.appCtx.Files.Delete(*existing.CoverImage); err != nil {
			s.appCtx.Logger.Warn("failed to delete cover image", "path", *existing.CoverImage, "err", err)
		}
	}
	return removed, nil
}

func (s *Service) requireOwnership(ctx context.Context, userID string, pieceIDs []string) error {
	ownsAll, err := s.pieces.AllOwnedBy(ctx, pieceIDs, userID)
	if err != nil {
		return svcErr.Map(err)
	}
	if !ownsAll {
		return svcErr.Forbidden("you don't own all the selected pieces")
	}
	return nil
}
