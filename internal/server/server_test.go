package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/fitcheck/wardrobe-server/internal/app"
	"github.com/fitcheck/wardrobe-server/internal/cache"
	"github.com/fitcheck/wardrobe-server/internal/config"
	"github.com/fitcheck/wardrobe-server/internal/db"
	"github.com/fitcheck/wardrobe-server/internal/server"
	"github.com/fitcheck/wardrobe-server/internal/session"
	"github.com/fitcheck/wardrobe-server/internal/storage"
)

type testEnv struct {
	srv      *httptest.Server
	appCtx   *app.AppContext
	database *gorm.DB
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()

	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(database))

	mr := miniredis.RunT(t)
	rdb := &cache.RedisCache{Client: redis.NewClient(&redis.Options{Addr: mr.Addr()})}

	files, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	appCtx := app.New(database, rdb, logger, files)

	cfg := &config.Config{}
	cfg.Upload.MaxBytes = 10 << 20
	cfg.Upload.AllowedExtensions = []string{".jpg", ".png"}

	srv := httptest.NewServer(server.New(appCtx, cfg).Router())
	t.Cleanup(srv.Close)

	return &testEnv{srv: srv, appCtx: appCtx, database: database}
}

func (e *testEnv) signIn(t *testing.T, token, userID string) {
	t.Helper()
	require.NoError(t, e.appCtx.Sessions.Put(context.Background(), token, session.Identity{
		UserID:    userID,
		Email:     userID + "@example.com",
		FirstName: "Test",
	}))
}

func (e *testEnv) do(t *testing.T, method, path, token string, body io.Reader, contentType string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, e.srv.URL+path, body)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func multipartBody(t *testing.T, fields map[string]string, fileField, filename, fileContent string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if fileField != "" {
		fw, err := mw.CreateFormFile(fileField, filename)
		require.NoError(t, err)
		_, err = io.WriteString(fw, fileContent)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestRequestsWithoutSessionAreRejected(t *testing.T) {
	env := setupEnv(t)

	resp := env.do(t, http.MethodGet, "/api/pieces", "", nil, "")
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/api/analytics", "stale-token", nil, "")
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestFirstAuthenticatedRequestCreatesUser(t *testing.T) {
	env := setupEnv(t)
	env.signIn(t, "tok-1", "user-1")

	resp := env.do(t, http.MethodGet, "/api/auth/user", "tok-1", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var user db.User
	decodeBody(t, resp, &user)
	assert.Equal(t, "user-1", user.ID)
	assert.Equal(t, "user-1@example.com", user.Email)
}

func TestWardrobeFlow(t *testing.T) {
	env := setupEnv(t)
	env.signIn(t, "tok-1", "user-1")

	// create a piece with an image
	body, ct := multipartBody(t, map[string]string{
		"name":     "linen shirt",
		"category": "Top",
		"color":    "White",
		"season":   "Summer",
		"tags":     `["casual"]`,
	}, "image", "shirt.png", "pngbytes")
	resp := env.do(t, http.MethodPost, "/api/pieces", "tok-1", body, ct)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var piece db.ClothingPiece
	decodeBody(t, resp, &piece)
	require.NotNil(t, piece.ImagePath)

	// the uploaded image is served back under /static/
	resp = env.do(t, http.MethodGet, *piece.ImagePath, "", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	served, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, "pngbytes", string(served))

	// compose an outfit from the piece
	body, ct = multipartBody(t, map[string]string{
		"name":     "summer look",
		"pieceIds": `["` + piece.ID + `"]`,
	}, "", "", "")
	resp = env.do(t, http.MethodPost, "/api/outfits", "tok-1", body, ct)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var outfit db.OutfitWithPieces
	decodeBody(t, resp, &outfit)
	require.Len(t, outfit.Pieces, 1)
	assert.Equal(t, 0, outfit.WornCount)

	// log a wear
	wearBody, _ := json.Marshal(map[string]any{"outfitId": outfit.ID, "location": "picnic"})
	resp = env.do(t, http.MethodPost, "/api/wear-log", "tok-1", bytes.NewReader(wearBody), "application/json")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// recent logs include the outfit
	resp = env.do(t, http.MethodGet, "/api/wear-log/recent?limit=5", "tok-1", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var recent []db.WearLogWithOutfit
	decodeBody(t, resp, &recent)
	require.Len(t, recent, 1)
	assert.Equal(t, "summer look", recent[0].Outfit.Name)

	// analytics reflects all of it
	resp = env.do(t, http.MethodGet, "/api/analytics", "tok-1", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var snap map[string]any
	decodeBody(t, resp, &snap)
	assert.EqualValues(t, 1, snap["totalPieces"])
	assert.EqualValues(t, 1, snap["totalOutfits"])
	assert.EqualValues(t, 1, snap["totalWears"])
	assert.Empty(t, snap["neverWornPieces"])
}

func TestOutfitWithForeignPieceIsForbidden(t *testing.T) {
	env := setupEnv(t)
	env.signIn(t, "tok-1", "user-1")
	env.signIn(t, "tok-2", "user-2")

	body, ct := multipartBody(t, map[string]string{
		"name": "tee", "category": "Top", "color": "Blue", "season": "Summer",
	}, "", "", "")
	resp := env.do(t, http.MethodPost, "/api/pieces", "tok-1", body, ct)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var piece db.ClothingPiece
	decodeBody(t, resp, &piece)

	body, ct = multipartBody(t, map[string]string{
		"name":     "sneaky",
		"pieceIds": `["` + piece.ID + `"]`,
	}, "", "", "")
	resp = env.do(t, http.MethodPost, "/api/outfits", "tok-2", body, ct)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	var outfitCount int64
	env.database.Model(&db.Outfit{}).Count(&outfitCount)
	assert.EqualValues(t, 0, outfitCount)
}

func TestUploadExtensionAllowlist(t *testing.T) {
	env := setupEnv(t)
	env.signIn(t, "tok-1", "user-1")

	body, ct := multipartBody(t, map[string]string{
		"name": "tee", "category": "Top", "color": "Blue", "season": "Summer",
	}, "image", "malware.exe", "nope")
	resp := env.do(t, http.MethodPost, "/api/pieces", "tok-1", body, ct)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestValidationErrorsSurfaceAs400(t *testing.T) {
	env := setupEnv(t)
	env.signIn(t, "tok-1", "user-1")

	body, ct := multipartBody(t, map[string]string{
		"name": "tee", "category": "Gadget", "color": "Blue", "season": "Summer",
	}, "", "", "")
	resp := env.do(t, http.MethodPost, "/api/pieces", "tok-1", body, ct)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var msg map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&msg))
	assert.True(t, strings.Contains(msg["message"], "category"))
}

func TestMissingOutfitOnWearLogIs404(t *testing.T) {
	env := setupEnv(t)
	env.signIn(t, "tok-1", "user-1")

	wearBody, _ := json.Marshal(map[string]any{"outfitId": "ghost"})
	resp := env.do(t, http.MethodPost, "/api/wear-log", "tok-1", bytes.NewReader(wearBody), "application/json")
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
