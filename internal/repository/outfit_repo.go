package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/fitcheck/wardrobe-server/internal/db"
)

// OutfitRepository provides data access for outfits and their junction rows.
// The junction table is the single source of truth for "outfit contains
// piece"; every write that touches it runs in a transaction.
type OutfitRepository struct {
	db *gorm.DB
}

// NewOutfitRepository creates a new repository bound to the given DB connection.
func NewOutfitRepository(database *gorm.DB) *OutfitRepository {
	return &OutfitRepository{db: database}
}

// List returns the user's outfits with resolved piece lists, most recently
// created first.
func (r *OutfitRepository) List(ctx context.Context, userID string) ([]db.OutfitWithPieces, error) {
	var outfits []db.Outfit
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&outfits).Error
	if err != nil {
		return nil, err
	}
	return r.resolvePieces(ctx, outfits)
}

// Get fetches one outfit owned by the user with its resolved piece list.
// Missing and unowned rows both surface as gorm.ErrRecordNotFound.
func (r *OutfitRepository) Get(ctx context.Context, id, userID string) (*db.OutfitWithPieces, error) {
	var outfit db.Outfit
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&outfit).Error
	if err != nil {
		return nil, err
	}
	resolved, err := r.resolvePieces(ctx, []db.Outfit{outfit})
	if err != nil {
		return nil, err
	}
	return &resolved[0], nil
}

// Create persists the outfit row plus one junction row per piece ID, all in
// one transaction. Ownership of the piece IDs must already be confirmed by
// the caller; no per-row validation happens here.
func (r *OutfitRepository) Create(ctx context.Context, outfit *db.Outfit, pieceIDs []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(outfit).Error; err != nil {
			return err
		}
		return insertJunction(tx, outfit.ID, pieceIDs)
	})
}

// Update applies attribute changes and, when pieceIDs is non-nil, replaces
// the outfit's full junction set.
//
// Behavior:
//   - changes never carries worn_count/last_worn; those belong to the wear
//     logging path alone.
//   - pieceIDs == nil leaves the junction set untouched; a non-nil pointer
//     (including one to an empty slice) replaces it wholesale:
//     delete-all-then-insert-all, never an incremental diff.
//   - Missing or unowned ID → gorm.ErrRecordNotFound, nothing applied.
func (r *OutfitRepository) Update(
	ctx context.Context,
	id, userID string,
	changes map[string]any,
	pieceIDs *[]string,
) (*db.OutfitWithPieces, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(changes) > 0 {
			res := tx.Model(&db.Outfit{}).
				Where("id = ? AND user_id = ?", id, userID).
				Updates(changes)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
		} else {
			var count int64
			if err := tx.Model(&db.Outfit{}).
				Where("id = ? AND user_id = ?", id, userID).
				Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return gorm.ErrRecordNotFound
			}
		}

		if pieceIDs != nil {
			if err := tx.Where("outfit_id = ?", id).Delete(&db.OutfitPiece{}).Error; err != nil {
				return err
			}
			if err := insertJunction(tx, id, *pieceIDs); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, id, userID)
}

// Delete removes the outfit and cascades to its junction and wear-log rows.
// Missing or unowned ID → (false, nil): idempotent no-op.
func (r *OutfitRepository) Delete(ctx context.Context, id, userID string) (bool, error) {
	var removed bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&db.Outfit{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		removed = true
		if err := tx.Where("outfit_id = ?", id).Delete(&db.OutfitPiece{}).Error; err != nil {
			return err
		}
		return tx.Where("outfit_id = ?", id).Delete(&db.WearLog{}).Error
	})
	return removed, err
}

// resolvePieces attaches piece lists to outfits with two queries instead of
// one per outfit.
func (r *OutfitRepository) resolvePieces(ctx context.Context, outfits []db.Outfit) ([]db.OutfitWithPieces, error) {
	result := make([]db.OutfitWithPieces, 0, len(outfits))
	if len(outfits) == 0 {
		return result, nil
	}

	outfitIDs := make([]string, 0, len(outfits))
	for _, o := range outfits {
		outfitIDs = append(outfitIDs, o.ID)
	}

	var junctions []db.OutfitPiece
	if err := r.db.WithContext(ctx).
		Where("outfit_id IN ?", outfitIDs).
		Find(&junctions).Error; err != nil {
		return nil, err
	}

	pieceByID := map[string]db.ClothingPiece{}
	if len(junctions) > 0 {
		pieceIDs := make([]string, 0, len(junctions))
		for _, j := range junctions {
			pieceIDs = append(pieceIDs, j.PieceID)
		}
		var pieces []db.ClothingPiece
		if err := r.db.WithContext(ctx).
			Where("id IN ?", pieceIDs).
			Find(&pieces).Error; err != nil {
			return nil, err
		}
		for _, p := range pieces {
			pieceByID[p.ID] = p
		}
	}

	piecesByOutfit := map[string][]db.ClothingPiece{}
	for _, j := range junctions {
		if p, ok := pieceByID[j.PieceID]; ok {
			piecesByOutfit[j.OutfitID] = append(piecesByOutfit[j.OutfitID], p)
		}
	}

	for _, o := range outfits {
		pieces := piecesByOutfit[o.ID]
		if pieces == nil {
			pieces = []db.ClothingPiece{}
		}
		result = append(result, db.OutfitWithPieces{Outfit: o, Pieces: pieces})
	}
	return result, nil
}

func insertJunction(tx *gorm.DB, outfitID string, pieceIDs []string) error {
	if len(pieceIDs) == 0 {
		return nil
	}
	rows := make([]db.OutfitPiece, 0, len(pieceIDs))
	for _, pieceID := range pieceIDs {
		rows = append(rows, db.OutfitPiece{OutfitID: outfitID, PieceID: pieceID})
	}
	return tx.Create(&rows).Error
}
