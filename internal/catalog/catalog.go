// Package catalog holds the fixed vocabularies shared by validation and the
// JSON surface. The same constants drive the presentation layer, so they are
// defined exactly once here.
package catalog

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// Categories a clothing piece can belong to.
var Categories = []string{
	"Top",
	"Bottom",
	"Dress",
	"Shoes",
	"Jacket",
	"Accessories",
	"Bag",
	"Hat",
}

// Seasons double as a piece attribute and a time-of-year classifier.
var Seasons = []string{"Spring", "Summer", "Fall", "Winter"}

// Colors a piece can be tagged with.
var Colors = []string{
	"Pink",
	"Red",
	"Orange",
	"Yellow",
	"Green",
	"Blue",
	"Purple",
	"White",
	"Black",
	"Brown",
	"Beige",
	"Gray",
	"Multi",
}

// Tags is a suggested vocabulary only. Piece writes accept any string list;
// the server never validates against it.
var Tags = []string{
	"kawaii",
	"casual",
	"formal",
	"comfy",
	"sporty",
	"elegant",
	"cute",
	"vintage",
	"trendy",
	"minimal",
}

func contains(values []string, v string) bool {
	for _, c := range values {
		if c == v {
			return true
		}
	}
	return false
}

// IsCategory reports whether v is one of the fixed categories.
func IsCategory(v string) bool { return contains(Categories, v) }

// IsColor reports whether v is one of the fixed colors.
func IsColor(v string) bool { return contains(Colors, v) }

// IsSeason reports whether v is one of the fixed seasons.
func IsSeason(v string) bool { return contains(Seasons, v) }

// SeasonFor classifies a point in time into a season:
// Mar-May Spring, Jun-Aug Summer, Sep-Nov Fall, Dec-Feb Winter.
func SeasonFor(t time.Time) string {
	switch m := t.Month(); {
	case m >= time.March && m <= time.May:
		return "Spring"
	case m >= time.June && m <= time.August:
		return "Summer"
	case m >= time.September && m <= time.November:
		return "Fall"
	default:
		return "Winter"
	}
}

// NewValidator returns a validator with the catalog rules registered.
// Struct fields opt in via `validate:"category"` etc.
func NewValidator() *validator.Validate {
	v := validator.New()
	// registration only fails for empty tag names
	_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return IsCategory(fl.Field().String())
	})
	_ = v.RegisterValidation("color", func(fl validator.FieldLevel) bool {
		return IsColor(fl.Field().String())
	})
	_ = v.RegisterValidation("season", func(fl validator.FieldLevel) bool {
		return IsSeason(fl.Field().String())
	})
	return v
}
