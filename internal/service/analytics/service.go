// Package analytics computes wardrobe insights from a full snapshot of a
// user's pieces, outfits, and wear logs. Every call recomputes from a fresh
// read; there is no cache and no incremental state.
package analytics

import (
	"context"
	"sort"
	"time"

	"github.com/fitcheck/wardrobe-server/internal/app"
	"github.com/fitcheck/wardrobe-server/internal/catalog"
	"github.com/fitcheck/wardrobe-server/internal/db"
	svcErr "github.com/fitcheck/wardrobe-server/internal/errors"
	"github.com/fitcheck/wardrobe-server/internal/repository"
)

// topN caps the least-worn and seasonal lists.
const topN = 5

// OutfitStats annotates an outfit with how stale it is. DaysSinceWorn is
// nil for outfits never worn.
type OutfitStats struct {
	db.OutfitWithPieces
	DaysSinceWorn *int `json:"daysSinceWorn"`
}

// Snapshot is the full analytics payload.
type Snapshot struct {
	TotalPieces             int                `json:"totalPieces"`
	TotalOutfits            int                `json:"totalOutfits"`
	TotalWears              int                `json:"totalWears"`
	NeverWornPieces         []db.ClothingPiece `json:"neverWornPieces"`
	LeastWornOutfits        []OutfitStats      `json:"leastWornOutfits"`
	SeasonalRecommendations []OutfitStats      `json:"seasonalRecommendations"`
	PiecesByCategory        map[string]int     `json:"piecesByCategory"`
	PiecesByColor           map[string]int     `json:"piecesByColor"`
}

// Service reads the three collections and aggregates them in memory.
type Service struct {
	appCtx  *app.AppContext
	pieces  *repository.PieceRepository
	outfits *repository.OutfitRepository
	wears   *repository.WearLogRepository

	now func() time.Time
}

func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:  appCtx,
		pieces:  repository.NewPieceRepository(appCtx.DB),
		outfits: repository.NewOutfitRepository(appCtx.DB),
		wears:   repository.NewWearLogRepository(appCtx.DB),
		now:     time.Now,
	}
}

// Compute builds the analytics snapshot for one user. Read-only; tolerates
// an empty wardrobe and returns well-formed empty collections.
func (s *Service) Compute(ctx context.Context, userID string) (*Snapshot, error) {
	pieces, err := s.pieces.List(ctx, userID)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	outfits, err := s.outfits.List(ctx, userID)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	logs, err := s.wears.ListByUser(ctx, userID)
	if err != nil {
		return nil, svcErr.Map(err)
	}

	return Build(s.now(), pieces, outfits, logs), nil
}

// Build is the pure aggregation core. Pieces and outfits are expected in
// the store's default order (newest first); tie-breaks preserve it.
func Build(now time.Time, pieces []db.ClothingPiece, outfits []db.OutfitWithPieces, logs []db.WearLog) *Snapshot {
	snap := &Snapshot{
		TotalPieces:             len(pieces),
		TotalOutfits:            len(outfits),
		TotalWears:              len(logs),
		NeverWornPieces:         []db.ClothingPiece{},
		LeastWornOutfits:        []OutfitStats{},
		SeasonalRecommendations: []OutfitStats{},
		PiecesByCategory:        map[string]int{},
		PiecesByColor:           map[string]int{},
	}

	// Distribution over observed values only; unused vocabulary entries
	// never appear as zero keys.
	for _, p := range pieces {
		snap.PiecesByCategory[p.Category]++
		snap.PiecesByColor[p.Color]++
	}

	// "Never worn" means absent from every outfit's composition, not
	// "never logged individually".
	inAnyOutfit := map[string]struct{}{}
	for _, o := range outfits {
		for _, p := range o.Pieces {
			inAnyOutfit[p.ID] = struct{}{}
		}
	}
	for _, p := range pieces {
		if _, ok := inAnyOutfit[p.ID]; !ok {
			snap.NeverWornPieces = append(snap.NeverWornPieces, p)
		}
	}

	snap.LeastWornOutfits = leastWorn(now, outfits)

	currentSeason := catalog.SeasonFor(now)
	seasonal := make([]db.OutfitWithPieces, 0, len(outfits))
	for _, o := range outfits {
		for _, p := range o.Pieces {
			if p.Season == currentSeason {
				seasonal = append(seasonal, o)
				break
			}
		}
	}
	snap.SeasonalRecommendations = leastWorn(now, seasonal)

	return snap
}

// leastWorn sorts ascending by worn count (stable, so input order breaks
// ties), truncates to topN, and annotates staleness.
func leastWorn(now time.Time, outfits []db.OutfitWithPieces) []OutfitStats {
	sorted := make([]db.OutfitWithPieces, len(outfits))
	copy(sorted, outfits)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].WornCount < sorted[j].WornCount
	})
	if len(sorted) > topN {
		sorted = sorted[:topN]
	}

	stats := make([]OutfitStats, 0, len(sorted))
	for _, o := range sorted {
		stats = append(stats, OutfitStats{
			OutfitWithPieces: o,
			DaysSinceWorn:    daysSince(now, o.LastWorn),
		})
	}
	return stats
}

func daysSince(now time.Time, last *time.Time) *int {
	if last == nil {
		return nil
	}
	days := int(now.Sub(*last).Hours() / 24)
	return &days
}
