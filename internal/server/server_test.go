package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"picstream/internal/config"
	"picstream/internal/database"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fakeObjectStore struct {
	puts map[string][]byte
	err  error
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{puts: make(map[string][]byte)}
}

func (f *fakeObjectStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	if f.err != nil {
		return f.err
	}
	body, _ := io.ReadAll(r)
	f.puts[key] = body
	return nil
}

func (f *fakeObjectStore) PublicURL(key string) string {
	return "http://cdn.test/picstream/" + key
}

func setupTestServer(t *testing.T) (*fiber.App, *Server, *fakeObjectStore) {
	t.Helper()
	t.Setenv("APP_ENV", "test")

	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))

	cfg := &config.Config{
		Port:      "8480",
		JWTSecret: "test-secret-key-for-handler-tests",
		S3Bucket:  "picstream",
		Env:       "test",
	}

	store := newFakeObjectStore()
	srv, err := NewServerWithDeps(cfg, db, nil, store)
	require.NoError(t, err)

	app := fiber.New()
	srv.SetupMiddleware(app)
	srv.SetupRoutes(app)

	return app, srv, store
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func signupUser(t *testing.T, app *fiber.App, username string) string {
	t.Helper()

	resp := doJSON(t, app, "POST", "/api/auth/signup", "", fiber.Map{
		"username": username,
		"name":     "Test User",
		"password": "SuperSecret123",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var body struct {
		Token string `json:"token"`
	}
	decodeBody(t, resp, &body)
	require.NotEmpty(t, body.Token)
	return body.Token
}

func uploadImage(t *testing.T, app *fiber.App, token, filename string) uint {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("image", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte("fake image bytes"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/api/images/upload", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var body struct {
		ID   uint   `json:"id"`
		Link string `json:"link"`
	}
	decodeBody(t, resp, &body)
	require.NotZero(t, body.ID)
	require.NotEmpty(t, body.Link)
	return body.ID
}

func createPost(t *testing.T, app *fiber.App, token, caption string, imageIDs []uint) uint {
	t.Helper()

	resp := doJSON(t, app, "POST", "/api/posts/", token, fiber.Map{
		"caption":   caption,
		"image_ids": imageIDs,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var body struct {
		ID uint `json:"id"`
	}
	decodeBody(t, resp, &body)
	require.NotZero(t, body.ID)
	return body.ID
}

func TestSignupAndLogin(t *testing.T) {
	app, _, _ := setupTestServer(t)

	signupUser(t, app, "dana")

	// Duplicate username
	resp := doJSON(t, app, "POST", "/api/auth/signup", "", fiber.Map{
		"username": "dana",
		"name":     "Someone Else",
		"password": "SuperSecret123",
	})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	// Weak password
	resp = doJSON(t, app, "POST", "/api/auth/signup", "", fiber.Map{
		"username": "eli",
		"name":     "Eli",
		"password": "short",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, app, "POST", "/api/auth/login", "", fiber.Map{
		"username": "dana",
		"password": "SuperSecret123",
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, "POST", "/api/auth/login", "", fiber.Map{
		"username": "dana",
		"password": "WrongPassword1",
	})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	app, _, _ := setupTestServer(t)

	resp := doJSON(t, app, "GET", "/api/feed", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp = doJSON(t, app, "POST", "/api/posts/", "not-a-token", fiber.Map{})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestUploadImage(t *testing.T) {
	app, _, store := setupTestServer(t)
	token := signupUser(t, app, "dana")

	id := uploadImage(t, app, token, "holiday.png")
	key := fmt.Sprintf("images/%d.png", id)
	assert.Equal(t, []byte("fake image bytes"), store.puts[key])
}

func TestUploadImageRejectsBadExtension(t *testing.T) {
	app, _, _ := setupTestServer(t)
	token := signupUser(t, app, "dana")

	for _, filename := range []string{"photo.gif", "photo.JPG", "photo"} {
		var buf bytes.Buffer
		writer := multipart.NewWriter(&buf)
		part, err := writer.CreateFormFile("image", filename)
		require.NoError(t, err)
		_, err = part.Write([]byte("x"))
		require.NoError(t, err)
		require.NoError(t, writer.Close())

		req := httptest.NewRequest("POST", "/api/images/upload", &buf)
		req.Header.Set("Content-Type", writer.FormDataContentType())
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, "filename %q", filename)
	}
}

func TestUploadImageRequiresFile(t *testing.T) {
	app, _, _ := setupTestServer(t)
	token := signupUser(t, app, "dana")

	resp := doJSON(t, app, "POST", "/api/images/upload", token, fiber.Map{})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestCreatePostAndFeed(t *testing.T) {
	app, _, _ := setupTestServer(t)
	danaToken := signupUser(t, app, "dana")
	eliToken := signupUser(t, app, "eli")

	img1 := uploadImage(t, app, danaToken, "one.jpg")
	img2 := uploadImage(t, app, danaToken, "two.png")
	postID := createPost(t, app, danaToken, "my holiday", []uint{img1, img2})

	// Reusing an attached image fails and creates nothing.
	resp := doJSON(t, app, "POST", "/api/posts/", eliToken, fiber.Map{
		"caption":   "stolen image",
		"image_ids": []uint{img1},
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, app, "GET", "/api/feed", eliToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var feed struct {
		Posts []struct {
			ID             uint   `json:"id"`
			Caption        string `json:"caption"`
			PosterUsername string `json:"poster_username"`
			LikesCount     int    `json:"likes_count"`
			IsLiked        bool   `json:"is_liked"`
			CanDelete      bool   `json:"can_delete"`
			Images         []struct {
				Link string `json:"link"`
			} `json:"images"`
		} `json:"posts"`
	}
	decodeBody(t, resp, &feed)
	require.Len(t, feed.Posts, 1)

	post := feed.Posts[0]
	assert.Equal(t, postID, post.ID)
	assert.Equal(t, "my holiday", post.Caption)
	assert.Equal(t, "dana", post.PosterUsername)
	assert.Zero(t, post.LikesCount)
	assert.False(t, post.IsLiked)
	assert.False(t, post.CanDelete) // eli is not the owner
	require.Len(t, post.Images, 2)
	assert.Equal(t, fmt.Sprintf("http://cdn.test/picstream/images/%d.jpg", img1), post.Images[0].Link)
}

func TestCreatePostValidation(t *testing.T) {
	app, _, _ := setupTestServer(t)
	token := signupUser(t, app, "dana")

	resp := doJSON(t, app, "POST", "/api/posts/", token, fiber.Map{
		"caption":   "",
		"image_ids": []uint{1},
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, app, "POST", "/api/posts/", token, fiber.Map{
		"caption":   "no images",
		"image_ids": []uint{},
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, app, "POST", "/api/posts/", token, fiber.Map{
		"caption":   "missing image",
		"image_ids": []uint{12345},
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestToggleLikeEndpoint(t *testing.T) {
	app, _, _ := setupTestServer(t)
	danaToken := signupUser(t, app, "dana")
	eliToken := signupUser(t, app, "eli")

	img := uploadImage(t, app, danaToken, "one.jpg")
	postID := createPost(t, app, danaToken, "like me", []uint{img})

	path := fmt.Sprintf("/api/posts/%d/toggle-like", postID)

	resp := doJSON(t, app, "POST", path, eliToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result struct {
		Liked      bool  `json:"liked"`
		LikesCount int64 `json:"likes_count"`
	}
	decodeBody(t, resp, &result)
	assert.True(t, result.Liked)
	assert.Equal(t, int64(1), result.LikesCount)

	// Toggling again restores the original state.
	resp = doJSON(t, app, "POST", path, eliToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &result)
	assert.False(t, result.Liked)
	assert.Zero(t, result.LikesCount)

	resp = doJSON(t, app, "POST", "/api/posts/99999/toggle-like", eliToken, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestCommentEndpoints(t *testing.T) {
	app, _, _ := setupTestServer(t)
	danaToken := signupUser(t, app, "dana")
	eliToken := signupUser(t, app, "eli")

	img := uploadImage(t, app, danaToken, "one.jpg")
	postID := createPost(t, app, danaToken, "discuss", []uint{img})

	resp := doJSON(t, app, "POST", fmt.Sprintf("/api/posts/%d/comments", postID), eliToken, fiber.Map{
		"comment": "great shot",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var comment struct {
		ID   uint   `json:"id"`
		Body string `json:"comment"`
		User struct {
			Username string `json:"username"`
		} `json:"user"`
	}
	decodeBody(t, resp, &comment)
	assert.Equal(t, "great shot", comment.Body)
	assert.Equal(t, "eli", comment.User.Username)

	// Empty comment rejected.
	resp = doJSON(t, app, "POST", fmt.Sprintf("/api/posts/%d/comments", postID), eliToken, fiber.Map{
		"comment": "",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	// The post owner may not delete someone else's comment.
	resp = doJSON(t, app, "DELETE", fmt.Sprintf("/api/comments/%d", comment.ID), danaToken, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = doJSON(t, app, "DELETE", fmt.Sprintf("/api/comments/%d", comment.ID), eliToken, nil)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, app, "DELETE", fmt.Sprintf("/api/comments/%d", comment.ID), eliToken, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestDeletePostEndpoint(t *testing.T) {
	app, _, _ := setupTestServer(t)
	danaToken := signupUser(t, app, "dana")
	eliToken := signupUser(t, app, "eli")

	img := uploadImage(t, app, danaToken, "one.jpg")
	postID := createPost(t, app, danaToken, "mine", []uint{img})

	resp := doJSON(t, app, "DELETE", fmt.Sprintf("/api/posts/%d", postID), eliToken, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = doJSON(t, app, "DELETE", fmt.Sprintf("/api/posts/%d", postID), danaToken, nil)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, app, "DELETE", fmt.Sprintf("/api/posts/%d", postID), danaToken, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp = doJSON(t, app, "GET", "/api/feed", danaToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var feed struct {
		Posts []json.RawMessage `json:"posts"`
	}
	decodeBody(t, resp, &feed)
	assert.Empty(t, feed.Posts)
}

func TestHealthEndpoints(t *testing.T) {
	app, _, _ := setupTestServer(t)

	resp := doJSON(t, app, "GET", "/health/live", "", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, "GET", "/health/ready", "", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Status string `json:"status"`
		Checks struct {
			Database string `json:"database"`
			Redis    string `json:"redis"`
		} `json:"checks"`
	}
	decodeBody(t, resp, &body)
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, "healthy", body.Checks.Database)
	assert.Equal(t, "unavailable", body.Checks.Redis)
}
