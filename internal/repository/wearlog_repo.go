package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/fitcheck/wardrobe-server/internal/db"
)

// WearLogRepository provides data access for wear events and the derived
// counters on outfits.
type WearLogRepository struct {
	db *gorm.DB
}

// NewWearLogRepository creates a new repository bound to the given DB connection.
func NewWearLogRepository(database *gorm.DB) *WearLogRepository {
	return &WearLogRepository{db: database}
}

// Create inserts a wear log and bumps the target outfit's derived state as
// one logical unit.
//
// Behavior:
//   - Runs in a single transaction: if the counter update cannot be applied
//     the log row is rolled back with it.
//   - worn_count is incremented with an atomic add-1 expression, never
//     read-then-write, so concurrent submissions for the same outfit cannot
//     lose updates.
//   - last_worn is set to now (the log time), not the worn date.
//   - A nonexistent outfit ID → gorm.ErrRecordNotFound, nothing persisted.
func (r *WearLogRepository) Create(ctx context.Context, log *db.WearLog, now time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(log).Error; err != nil {
			return err
		}

		res := tx.Model(&db.Outfit{}).
			Where("id = ?", log.OutfitID).
			Updates(map[string]any{
				"worn_count": gorm.Expr("worn_count + ?", 1),
				"last_worn":  now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// Recent returns the user's latest wear logs, newest worn date first, each
// joined with its outfit. Logs whose outfit has since disappeared are
// skipped.
func (r *WearLogRepository) Recent(ctx context.Context, userID string, limit int) ([]db.WearLogWithOutfit, error) {
	if limit <= 0 {
		limit = 10
	}

	var logs []db.WearLog
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("worn_date DESC").
		Limit(limit).
		Find(&logs).Error
	if err != nil {
		return nil, err
	}

	result := make([]db.WearLogWithOutfit, 0, len(logs))
	if len(logs) == 0 {
		return result, nil
	}

	outfitIDs := make([]string, 0, len(logs))
	for _, l := range logs {
		outfitIDs = append(outfitIDs, l.OutfitID)
	}
	var outfits []db.Outfit
	if err := r.db.WithContext(ctx).
		Where("id IN ?", outfitIDs).
		Find(&outfits).Error; err != nil {
		return nil, err
	}
	outfitByID := make(map[string]db.Outfit, len(outfits))
	for _, o := range outfits {
		outfitByID[o.ID] = o
	}

	for _, l := range logs {
		if o, ok := outfitByID[l.OutfitID]; ok {
			result = append(result, db.WearLogWithOutfit{WearLog: l, Outfit: o})
		}
	}
	return result, nil
}

// ListByUser returns every wear log for the user, in no particular order.
// The analytics engine only counts them.
func (r *WearLogRepository) ListByUser(ctx context.Context, userID string) ([]db.WearLog, error) {
	var logs []db.WearLog
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&logs).Error
	return logs, err
}
