package closet_test

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/fitcheck/wardrobe-server/internal/app"
	"github.com/fitcheck/wardrobe-server/internal/db"
	svcErr "github.com/fitcheck/wardrobe-server/internal/errors"
	"github.com/fitcheck/wardrobe-server/internal/service/closet"
	"github.com/fitcheck/wardrobe-server/internal/storage"
)

func setupService(t *testing.T) (*closet.Service, *app.AppContext) {
	t.Helper()
	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(database))

	files, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	appCtx := app.New(database, nil, logger, files)
	return closet.NewService(appCtx), appCtx
}

func TestCreateAndList(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)

	piece, err := svc.Create(ctx, "user-1", closet.CreateInput{
		Name:     "linen shirt",
		Category: "Top",
		Color:    "White",
		Season:   "Summer",
		Tags:     []string{"casual", "made-up-tag"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, piece.ID)
	assert.Equal(t, []string{"casual", "made-up-tag"}, []string(piece.Tags), "tags are not vocabulary-checked")

	pieces, err := svc.List(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, pieces, 1)

	pieces, err = svc.List(ctx, "user-2")
	require.NoError(t, err)
	assert.Empty(t, pieces)
}

func TestCreateRejectsOutOfVocabularyValues(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)

	_, err := svc.Create(ctx, "user-1", closet.CreateInput{
		Name: "thing", Category: "Gadget", Color: "Blue", Season: "Summer",
	})
	require.Error(t, err)
	assert.Equal(t, svcErr.KindInvalid, svcErr.KindOf(err))

	_, err = svc.Create(ctx, "user-1", closet.CreateInput{
		Name: "", Category: "Top", Color: "Blue", Season: "Summer",
	})
	require.Error(t, err)
	assert.Equal(t, svcErr.KindInvalid, svcErr.KindOf(err))
}

func TestImageLifecycle(t *testing.T) {
	ctx := context.Background()
	svc, appCtx := setupService(t)

	piece, err := svc.Create(ctx, "user-1", closet.CreateInput{
		Name: "tee", Category: "Top", Color: "Blue", Season: "Summer",
		Image: &storage.Upload{Filename: "tee.png", Content: strings.NewReader("v1")},
	})
	require.NoError(t, err)
	require.NotNil(t, piece.ImagePath)
	firstOnDisk := diskPath(appCtx, *piece.ImagePath)
	assertExists(t, firstOnDisk)

	// replacing the image deletes the old file
	updated, err := svc.Update(ctx, "user-1", piece.ID, closet.UpdateInput{
		Image: &storage.Upload{Filename: "tee2.png", Content: strings.NewReader("v2")},
	})
	require.NoError(t, err)
	require.NotNil(t, updated.ImagePath)
	assert.NotEqual(t, *piece.ImagePath, *updated.ImagePath)
	assertGone(t, firstOnDisk)
	assertExists(t, diskPath(appCtx, *updated.ImagePath))

	// deleting the piece deletes the file too
	removed, err := svc.Delete(ctx, "user-1", piece.ID)
	require.NoError(t, err)
	assert.True(t, removed)
	assertGone(t, diskPath(appCtx, *updated.ImagePath))
}

func TestUpdateValidatesProvidedFieldsOnly(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)

	piece, err := svc.Create(ctx, "user-1", closet.CreateInput{
		Name: "tee", Category: "Top", Color: "Blue", Season: "Summer",
	})
	require.NoError(t, err)

	name := "better tee"
	updated, err := svc.Update(ctx, "user-1", piece.ID, closet.UpdateInput{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "better tee", updated.Name)
	assert.Equal(t, "Blue", updated.Color)

	badSeason := "Monsoon"
	_, err = svc.Update(ctx, "user-1", piece.ID, closet.UpdateInput{Season: &badSeason})
	require.Error(t, err)
	assert.Equal(t, svcErr.KindInvalid, svcErr.KindOf(err))
}

func TestUpdateUnownedIsNotFound(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)

	piece, err := svc.Create(ctx, "user-1", closet.CreateInput{
		Name: "tee", Category: "Top", Color: "Blue", Season: "Summer",
	})
	require.NoError(t, err)

	name := "stolen"
	_, err = svc.Update(ctx, "user-2", piece.ID, closet.UpdateInput{Name: &name})
	require.Error(t, err)
	assert.Equal(t, svcErr.KindNotFound, svcErr.KindOf(err))
}

func TestDeleteMissingIsQuietNoOp(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)

	removed, err := svc.Delete(ctx, "user-1", "ghost")
	require.NoError(t, err)
	assert.False(t, removed)
}

func diskPath(appCtx *app.AppContext, publicPath string) string {
	return filepath.Join(appCtx.Files.BaseDir(), strings.TrimPrefix(publicPath, "/static/"))
}

func assertExists(t *testing.T, path string) {
	t.Helper()
	_, err := os.Stat(path)
	assert.NoError(t, err, "expected %s to exist", path)
}

func assertGone(t *testing.T, path string) {
	t.Helper()
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "expected %s to be gone", path)
}
