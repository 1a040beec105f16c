package db

import (
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DemoUserID is the fixed id of the seeded demo account, so a matching
// session can be planted in Redis and the frontend pointed straight at it.
const DemoUserID = "demo-user"

// SeedDemoData wipes the wardrobe tables and fills them with a demo account:
// a closet spanning every category, a few outfits, and a short wear history.
// Intended for development environments only.
func SeedDemoData(db *gorm.DB) error {
	tables := []string{"wear_logs", "outfit_pieces", "outfits", "clothing_pieces", "users"}
	for _, table := range tables {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	user := User{
		ID:        DemoUserID,
		Email:     "demo@example.com",
		FirstName: "Demo",
		LastName:  "User",
	}
	if err := db.Create(&user).Error; err != nil {
		return fmt.Errorf("seed user: %w", err)
	}

	pieces := []ClothingPiece{
		{ID: "piece-tee", Name: "White tee", Category: "Top", Color: "White", Season: "Summer", Tags: datatypes.JSONSlice[string]{"casual"}},
		{ID: "piece-shirt", Name: "Flannel shirt", Category: "Top", Color: "Red", Season: "Fall", Tags: datatypes.JSONSlice[string]{"casual", "comfy"}},
		{ID: "piece-jeans", Name: "Blue jeans", Category: "Bottom", Color: "Blue", Season: "Fall", Tags: datatypes.JSONSlice[string]{"casual"}},
		{ID: "piece-chinos", Name: "Beige chinos", Category: "Bottom", Color: "Beige", Season: "Spring", Tags: datatypes.JSONSlice[string]{"minimal"}},
		{ID: "piece-dress", Name: "Floral dress", Category: "Dress", Color: "Pink", Season: "Summer", Tags: datatypes.JSONSlice[string]{"cute", "elegant"}},
		{ID: "piece-coat", Name: "Wool coat", Category: "Jacket", Color: "Gray", Season: "Winter", Tags: datatypes.JSONSlice[string]{"formal"}},
		{ID: "piece-sneakers", Name: "White sneakers", Category: "Shoes", Color: "White", Season: "Spring", Tags: datatypes.JSONSlice[string]{"casual", "sporty"}},
		{ID: "piece-boots", Name: "Leather boots", Category: "Shoes", Color: "Brown", Season: "Fall", Tags: datatypes.JSONSlice[string]{"vintage"}},
		{ID: "piece-scarf", Name: "Knit scarf", Category: "Accessories", Color: "Green", Season: "Winter", Tags: datatypes.JSONSlice[string]{"comfy"}},
		{ID: "piece-tote", Name: "Canvas tote", Category: "Bag", Color: "Black", Season: "Summer", Tags: datatypes.JSONSlice[string]{"minimal"}},
	}
	for i := range pieces {
		pieces[i].UserID = user.ID
	}
	if err := db.Create(&pieces).Error; err != nil {
		return fmt.Errorf("seed pieces: %w", err)
	}

	now := time.Now().UTC()
	weekAgo := now.AddDate(0, 0, -7)
	monthAgo := now.AddDate(0, -1, 0)

	outfits := []Outfit{
		{ID: "outfit-errands", UserID: user.ID, Name: "Weekend errands", WornCount: 3, LastWorn: &weekAgo},
		{ID: "outfit-office", UserID: user.ID, Name: "Office casual", WornCount: 1, LastWorn: &monthAgo},
		{ID: "outfit-dinner", UserID: user.ID, Name: "Dinner out"},
	}
	if err := db.Create(&outfits).Error; err != nil {
		return fmt.Errorf("seed outfits: %w", err)
	}

	memberships := []OutfitPiece{
		{OutfitID: "outfit-errands", PieceID: "piece-tee"},
		{OutfitID: "outfit-errands", PieceID: "piece-jeans"},
		{OutfitID: "outfit-errands", PieceID: "piece-sneakers"},
		{OutfitID: "outfit-office", PieceID: "piece-shirt"},
		{OutfitID: "outfit-office", PieceID: "piece-chinos"},
		{OutfitID: "outfit-office", PieceID: "piece-boots"},
		{OutfitID: "outfit-dinner", PieceID: "piece-dress"},
		{OutfitID: "outfit-dinner", PieceID: "piece-sneakers"},
	}
	if err := db.Create(&memberships).Error; err != nil {
		return fmt.Errorf("seed outfit pieces: %w", err)
	}

	park := "park"
	office := "office"
	logs := []WearLog{
		{UserID: user.ID, OutfitID: "outfit-errands", WornDate: now.AddDate(0, 0, -21)},
		{UserID: user.ID, OutfitID: "outfit-errands", WornDate: now.AddDate(0, 0, -14), Location: &park},
		{UserID: user.ID, OutfitID: "outfit-errands", WornDate: weekAgo},
		{UserID: user.ID, OutfitID: "outfit-office", WornDate: monthAgo, Location: &office},
	}
	if err := db.Create(&logs).Error; err != nil {
		return fmt.Errorf("seed wear logs: %w", err)
	}

	return nil
}
