package db

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// User is created on first authentication and owns every other row.
type User struct {
	ID              string    `gorm:"primaryKey;size:36" json:"id"`
	Email           string    `gorm:"uniqueIndex;size:128" json:"email"`
	FirstName       string    `gorm:"size:64" json:"firstName"`
	LastName        string    `gorm:"size:64" json:"lastName"`
	ProfileImageURL string    `gorm:"size:255" json:"profileImageUrl"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// ClothingPiece is a single catalogued clothing item.
//
// Category/Color/Season are validated against the catalog vocabularies at
// the service boundary; Tags are stored as-is with no vocabulary check.
type ClothingPiece struct {
	ID        string                      `gorm:"primaryKey;size:36" json:"id"`
	UserID    string                      `gorm:"size:36;not null;index" json:"userId"`
	Name      string                      `gorm:"size:100;not null" json:"name"`
	Category  string                      `gorm:"size:50;not null" json:"category"`
	Color     string                      `gorm:"size:50;not null" json:"color"`
	Season    string                      `gorm:"size:50;not null" json:"season"`
	Tags      datatypes.JSONSlice[string] `json:"tags"`
	ImagePath *string                     `gorm:"size:255" json:"imagePath"`
	CreatedAt time.Time                   `gorm:"autoCreateTime;index" json:"createdAt"`
}

// Outfit is a named collection of pieces.
//
// WornCount and LastWorn are derived state, written only by the wear logging
// path. Outfit edits never touch them.
type Outfit struct {
	ID         string     `gorm:"primaryKey;size:36" json:"id"`
	UserID     string     `gorm:"size:36;not null;index" json:"userId"`
	Name       string     `gorm:"size:100;not null" json:"name"`
	CoverImage *string    `gorm:"size:255" json:"coverImage"`
	WornCount  int        `gorm:"not null;default:0" json:"wornCount"`
	LastWorn   *time.Time `json:"lastWorn"`
	CreatedAt  time.Time  `gorm:"autoCreateTime;index" json:"createdAt"`
}

// OutfitPiece is the outfit<->piece junction.
//
// Composite PK: (OutfitID, PieceID) — one row per membership, duplicate
// attachments collapse. Ownership of the referenced piece is enforced at
// write time by the composition service, not by a constraint.
type OutfitPiece struct {
	OutfitID string `gorm:"primaryKey;size:36" json:"outfitId"`
	PieceID  string `gorm:"primaryKey;size:36;index" json:"pieceId"`
}

// WearLog is an append-only record of one wear event. Inserting a row is the
// sole trigger that bumps the outfit's WornCount/LastWorn.
type WearLog struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    string    `gorm:"size:36;not null;index" json:"userId"`
	OutfitID  string    `gorm:"size:36;not null;index" json:"outfitId"`
	WornDate  time.Time `gorm:"not null;index" json:"wornDate"`
	Location  *string   `gorm:"size:200" json:"location"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

func (p *ClothingPiece) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

func (o *Outfit) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

func (w *WearLog) BeforeCreate(tx *gorm.DB) error {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	return nil
}

// OutfitWithPieces is an outfit with its junction rows resolved.
type OutfitWithPieces struct {
	Outfit
	Pieces []ClothingPiece `json:"pieces"`
}

// WearLogWithOutfit is a wear log joined with the outfit it refers to.
type WearLogWithOutfit struct {
	WearLog
	Outfit Outfit `json:"outfit"`
}
