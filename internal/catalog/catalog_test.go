package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestVocabularySizes(t *testing.T) {
	assert.Len(t, Categories, 8)
	assert.Len(t, Colors, 13)
	assert.Len(t, Seasons, 4)
	assert.Len(t, Tags, 10)
}

func TestMembership(t *testing.T) {
	assert.True(t, IsCategory("Top"))
	assert.False(t, IsCategory("Socks"))
	assert.True(t, IsColor("Multi"))
	assert.False(t, IsColor("Chartreuse"))
	assert.True(t, IsSeason("Fall"))
	assert.False(t, IsSeason("Monsoon"))
}

func TestSeasonFor(t *testing.T) {
	cases := map[time.Month]string{
		time.January:   "Winter",
		time.February:  "Winter",
		time.March:     "Spring",
		time.May:       "Spring",
		time.June:      "Summer",
		time.August:    "Summer",
		time.September: "Fall",
		time.November:  "Fall",
		time.December:  "Winter",
	}
	for month, want := range cases {
		at := time.Date(2025, month, 15, 12, 0, 0, 0, time.UTC)
		assert.Equal(t, want, SeasonFor(at), "month %s", month)
	}
}

func TestValidatorRules(t *testing.T) {
	type piece struct {
		Category string `validate:"required,category"`
		Color    string `validate:"required,color"`
		Season   string `validate:"required,season"`
	}
	v := NewValidator()

	assert.NoError(t, v.Struct(piece{Category: "Dress", Color: "Pink", Season: "Summer"}))
	assert.Error(t, v.Struct(piece{Category: "Dress", Color: "Pink", Season: "Rainy"}))
	assert.Error(t, v.Struct(piece{Category: "", Color: "Pink", Season: "Summer"}))
}
