// Package wear records wear events and maintains the derived counters on
// outfits.
package wear

import (
	"context"
	"time"

	"github.com/fitcheck/wardrobe-server/internal/app"
	"github.com/fitcheck/wardrobe-server/internal/db"
	svcErr "github.com/fitcheck/wardrobe-server/internal/errors"
	"github.com/fitcheck/wardrobe-server/internal/repository"
)

// Service wraps the wear-log repository. The log row and the counter bump
// are one logical unit; the repository runs them in a single transaction.
type Service struct {
	appCtx *app.AppContext
	wears  *repository.WearLogRepository

	now func() time.Time
}

func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx: appCtx,
		wears:  repository.NewWearLogRepository(appCtx.DB),
		now:    time.Now,
	}
}

// Log records that the outfit was worn.
//
// Behavior:
//   - wornDate defaults to now when the caller omits it.
//   - The outfit's worn_count is incremented atomically and last_worn is set
//     to now (not the worn date).
//   - The outfit ID is trusted as supplied; the log row carries the session
//     user regardless. Only a nonexistent outfit is rejected.
func (s *Service) Log(ctx context.Context, userID, outfitID string, location *string, wornDate *time.Time) (*db.WearLog, error) {
	if outfitID == "" {
		return nil, svcErr.Invalid("outfitId is required")
	}

	now := s.now().UTC()
	when := now
	if wornDate != nil {
		when = wornDate.UTC()
	}

	log := &db.WearLog{
		UserID:   userID,
		OutfitID: outfitID,
		WornDate: when,
		Location: location,
	}
	if err := s.wears.Create(ctx, log, now); err != nil {
		return nil, svcErr.Map(err)
	}

	s.appCtx.Logger.Debug("wear logged", "outfit_id", outfitID, "user_id", userID, "worn_date", when)
	return log, nil
}

// Recent returns the user's latest wear events, newest first, each with its
// outfit. Limit defaults to 10.
func (s *Service) Recent(ctx context.Context, userID string, limit int) ([]db.WearLogWithOutfit, error) {
	logs, err := s.wears.Recent(ctx, userID, limit)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	return logs, nil
}
