package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/fitcheck/wardrobe-server/internal/db"
)

// PieceRepository provides data access for clothing pieces.
//
// Every method is parameterized by the owning user. Tenancy lives here, at
// one choke point, so no caller can accidentally reach across users.
type PieceRepository struct {
	db *gorm.DB
}

// NewPieceRepository creates a new repository bound to the given DB connection.
func NewPieceRepository(database *gorm.DB) *PieceRepository {
	return &PieceRepository{db: database}
}

// List returns the user's pieces, most recently created first.
func (r *PieceRepository) List(ctx context.Context, userID string) ([]db.ClothingPiece, error) {
	var pieces []db.ClothingPiece
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&pieces).Error
	return pieces, err
}

// Get fetches one piece owned by the user. Missing and unowned rows are the
// same gorm.ErrRecordNotFound to the caller.
func (r *PieceRepository) Get(ctx context.Context, id, userID string) (*db.ClothingPiece, error) {
	var piece db.ClothingPiece
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&piece).Error
	if err != nil {
		return nil, err
	}
	return &piece, nil
}

// Create inserts a new piece. The ID is assigned in BeforeCreate.
func (r *PieceRepository) Create(ctx context.Context, piece *db.ClothingPiece) error {
	return r.db.WithContext(ctx).Create(piece).Error
}

// Update applies a partial change set to a piece owned by the user and
// returns the fresh row.
//
// Behavior:
//   - Only the columns present in changes are touched.
//   - Missing or unowned ID → gorm.ErrRecordNotFound.
func (r *PieceRepository) Update(
	ctx context.Context,
	id, userID string,
	changes map[string]any,
) (*db.ClothingPiece, error) {
	if len(changes) > 0 {
		res := r.db.WithContext(ctx).
			Model(&db.ClothingPiece{}).
			Where("id = ? AND user_id = ?", id, userID).
			Updates(changes)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, gorm.ErrRecordNotFound
		}
	}
	return r.Get(ctx, id, userID)
}

// Delete removes a piece and its outfit associations in one transaction.
//
// Behavior:
//   - Missing or unowned ID → (false, nil): an idempotent no-op, not an error.
//   - Junction rows referencing the piece are cascade-deleted so no outfit
//     keeps a dangling membership.
func (r *PieceRepository) Delete(ctx context.Context, id, userID string) (bool, error) {
	var removed bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&db.ClothingPiece{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		removed = true
		return tx.Where("piece_id = ?", id).Delete(&db.OutfitPiece{}).Error
	})
	return removed, err
}

// AllOwnedBy reports whether every given piece ID exists and belongs to the
// user. The empty set trivially validates.
//
// Example:
//
//	repo.AllOwnedBy(ctx, []string{p1, p2}, "user-1") // -> true iff both are user-1's
func (r *PieceRepository) AllOwnedBy(ctx context.Context, pieceIDs []string, userID string) (bool, error) {
	if len(pieceIDs) == 0 {
		return true, nil
	}
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.ClothingPiece{}).
		Where("id IN ? AND user_id = ?", pieceIDs, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count == int64(len(pieceIDs)), nil
}
