package tag

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aokihara/unitrack/model"
	"github.com/aokihara/unitrack/utils/auth"
	"github.com/aokihara/unitrack/utils/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testEnv struct {
	app   *fiber.App
	db    *gorm.DB
	user  *model.User
	token string
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.JWTTokenBlacklist{},
		&model.Course{},
		&model.Tag{},
		&model.CourseTag{},
	))

	user := model.User{
		Email:        "student@example.com",
		PasswordHash: "not-a-real-hash",
		Name:         "Student",
	}
	require.NoError(t, db.Create(&user).Error)

	jwtManager := auth.NewJWTManager(auth.JWTConfig{
		Secret: "test-secret",
		Expiry: time.Hour,
		Issuer: "unitrack-test",
	})
	token, _, err := jwtManager.GenerateAccessToken(user.ID, user.Email, user.TokenVersion)
	require.NoError(t, err)

	authMiddleware := middleware.NewAuthMiddleware(jwtManager, db)
	handler := NewTagHandler(db)

	app := fiber.New()
	app.Get("/api/v1/tags", authMiddleware.Optional(), handler.ListTags)
	app.Post("/api/v1/tags", authMiddleware.Required(), handler.CreateTag)

	return &testEnv{app: app, db: db, user: &user, token: token}
}

func (e *testEnv) request(t *testing.T, method, target string, body interface{}, authed bool) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.Header.Set("Authorization", "Bearer "+e.token)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeData(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()

	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	require.True(t, envelope.Success)
	require.NoError(t, json.Unmarshal(envelope.Data, out))
}

func TestCreateTag(t *testing.T) {
	env := setupTestEnv(t)

	resp := env.request(t, fiber.MethodPost, "/api/v1/tags", CreateTagRequest{Name: "math"}, true)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var created model.Tag
	decodeData(t, resp, &created)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "math", created.Name)
	assert.Equal(t, env.user.ID, created.UserID)
}

func TestCreateTagIsIdempotentPerName(t *testing.T) {
	env := setupTestEnv(t)

	resp := env.request(t, fiber.MethodPost, "/api/v1/tags", CreateTagRequest{Name: "math"}, true)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var first model.Tag
	decodeData(t, resp, &first)

	resp = env.request(t, fiber.MethodPost, "/api/v1/tags", CreateTagRequest{Name: "math"}, true)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var second model.Tag
	decodeData(t, resp, &second)

	assert.Equal(t, first.ID, second.ID)
}

func TestCreateTagRequiresAuth(t *testing.T) {
	env := setupTestEnv(t)

	resp := env.request(t, fiber.MethodPost, "/api/v1/tags", CreateTagRequest{Name: "math"}, false)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestCreateTagRejectsMissingName(t *testing.T) {
	env := setupTestEnv(t)

	resp := env.request(t, fiber.MethodPost, "/api/v1/tags", CreateTagRequest{}, true)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = env.request(t, fiber.MethodPost, "/api/v1/tags", CreateTagRequest{Name: "   "}, true)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestListTagsAuthenticated(t *testing.T) {
	env := setupTestEnv(t)

	for _, name := range []string{"math", "elective"} {
		resp := env.request(t, fiber.MethodPost, "/api/v1/tags", CreateTagRequest{Name: name}, true)
		require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	}

	resp := env.request(t, fiber.MethodGet, "/api/v1/tags", nil, true)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var tags []model.Tag
	decodeData(t, resp, &tags)
	require.Len(t, tags, 2)
	assert.Equal(t, "elective", tags[0].Name)
	assert.Equal(t, "math", tags[1].Name)
}

func TestListTagsUnauthenticatedReturnsEmptyList(t *testing.T) {
	env := setupTestEnv(t)

	resp := env.request(t, fiber.MethodPost, "/api/v1/tags", CreateTagRequest{Name: "math"}, true)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	// Anonymous callers get an empty array, not a 401
	resp = env.request(t, fiber.MethodGet, "/api/v1/tags", nil, false)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var tags []model.Tag
	decodeData(t, resp, &tags)
	assert.Empty(t, tags)
}
