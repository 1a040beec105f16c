// Package closet manages a user's clothing pieces, including the lifecycle
// of their uploaded images.
package closet

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"gorm.io/datatypes"

	"github.com/fitcheck/wardrobe-server/internal/app"
	"github.com/fitcheck/wardrobe-server/internal/db"
	svcErr "github.com/fitcheck/wardrobe-server/internal/errors"
	"github.com/fitcheck/wardrobe-server/internal/repository"
	"github.com/fitcheck/wardrobe-server/internal/storage"
)

// Service contains the piece CRUD logic on top of the repository and file
// store.
type Service struct {
	appCtx *app.AppContext
	pieces *repository.PieceRepository
}

func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx: appCtx,
		pieces: repository.NewPieceRepository(appCtx.DB),
	}
}

// CreateInput carries a new piece. Category/Color/Season must come from the
// catalog vocabularies; Tags are free-form.
type CreateInput struct {
	Name     string   `validate:"required,max=100"`
	Category string   `validate:"required,category"`
	Color    string   `validate:"required,color"`
	Season   string   `validate:"required,season"`
	Tags     []string `validate:"-"`
	Image    *storage.Upload
}

// UpdateInput carries a partial edit; nil fields stay untouched.
type UpdateInput struct {
	Name     *string
	Category *string
	Color    *string
	Season   *string
	Tags     *[]string
	Image    *storage.Upload
}

// List returns the user's pieces, newest first.
func (s *Service) List(ctx context.Context, userID string) ([]db.ClothingPiece, error) {
	pieces, err := s.pieces.List(ctx, userID)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	return pieces, nil
}

// Create validates the input, stores the image if one was uploaded, and
// persists the piece.
//
// An image written before a failing insert is left behind on purpose: the
// stray file is a tolerated inconsistency, not something to compensate for.
func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (*db.ClothingPiece, error) {
	if err := s.appCtx.Validate.Struct(in); err != nil {
		return nil, invalidInput(err)
	}

	piece := &db.ClothingPiece{
		UserID:   userID,
		Name:     in.Name,
		Category: in.Category,
		Color:    in.Color,
		Season:   in.Season,
		Tags:     in.Tags,
	}

	if in.Image != nil {
		path, err := s.appCtx.Files.Save(storage.KindPieces, in.Image.Filename, in.Image.Content)
		if err != nil {
			return nil, svcErr.Map(err)
		}
		piece.ImagePath = &path
	}

	if err := s.pieces.Create(ctx, piece); err != nil {
		return nil, svcErr.Map(err)
	}

	s.appCtx.Logger.Debug("piece created", "piece_id", piece.ID, "user_id", userID)
	return piece, nil
}

// Update applies the provided fields to a piece the user owns. A new image
// replaces the old file on disk.
func (s *Service) Update(ctx context.Context, userID, id string, in UpdateInput) (*db.ClothingPiece, error) {
	existing, err := s.pieces.Get(ctx, id, userID)
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
	if in.Category != nil {
		if err := s.appCtx.Validate.Var(*in.Category, "required,category"); err != nil {
			return nil, svcErr.Invalid("category must be one of the fixed categories")
		}
		changes["category"] = *in.Category
	}
	if in.Color != nil {
		if err := s.appCtx.Validate.Var(*in.Color, "required,color"); err != nil {
			return nil, svcErr.Invalid("color must be one of the fixed colors")
		}
		changes["color"] = *in.Color
	}
	if in.Season != nil {
		if err := s.appCtx.Validate.Var(*in.Season, "required,season"); err != nil {
			return nil, svcErr.Invalid("season must be one of the fixed seasons")
		}
		changes["season"] = *in.Season
	}
	if in.Tags != nil {
		changes["tags"] = datatypes.JSONSlice[string](*in.Tags)
	}

	if in.Image != nil {
		path, err := s.appCtx.Files.Save(storage.KindPieces, in.Image.Filename, in.Image.Content)
		if err != nil {
			return nil, svcErr.Map(err)
		}
		if existing.ImagePath != nil {
			if err := s.appCtx.Files.Delete(*existing.ImagePath); err != nil {
				s.appCtx.Logger.Warn("failed to delete replaced image", "path", *existing.ImagePath, "err", err)
			}
		}
		changes["image_path"] = path
	}

	updated, err := s.pieces.Update(ctx, id, userID, changes)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	return updated, nil
}

// Delete removes a piece, its outfit associations, and its image file.
// Reports whether a row was actually removed.
func (s *Service) Delete(ctx context.Context, userID, id string) (bool, error) {
	existing, err := s.pieces.Get(ctx, id, userID)
	if err != nil {
		if svcErr.KindOf(err) == svcErr.KindNotFound {
			return false, nil
		}
		return false, svcErr.Map(err)
	}

	removed, err := s.pieces.Delete(ctx, id, userID)
	if err != nil {
		return false, svcErr.Map(err)
	}
	if removed && existing.ImagePath != nil {
		if err := s.appCtx.Files.Delete(*existing.ImagePath); err != nil {
			s.appCtx.Logger.Warn("failed to delete piece image", "path", *existing.ImagePath, "err", err)
		}
	}
	return removed, nil
}

// invalidInput turns a validator error into the service taxonomy with a
// field-level message.
func invalidInput(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		switch fe.Tag() {
		case "required":
			return svcErr.Invalid(fe.Field() + " is required")
		case "category", "color", "season":
			return svcErr.Invalid(fe.Field() + " must be one of the fixed " + fe.Tag() + " values")
		default:
			return svcErr.Invalid(fe.Field() + " is invalid")
		}
	}
	return svcErr.Invalid("invalid input")
}
