package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"chirp/config"
	"chirp/database"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestServer creates a server backed by an in-memory SQLite database
// and no Redis (cache and rate limits fail open).
func setupTestServer(t *testing.T) (*fiber.App, *Server) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	cfg := &config.Config{
		JWTSecret:      "test-secret-key",
		AllowedOrigins: "http://localhost:3000",
		UploadDir:      t.TempDir(),
	}

	srv := NewServerWithDeps(cfg, db, nil)
	app := fiber.New()
	srv.SetupRoutes(app)
	return app, srv
}

func jsonReq(method, target string, payload any) *http.Request {
	var body io.Reader
	if payload != nil {
		b, _ := json.Marshal(payload)
		body = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, target, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// registerAndLogin creates an account through the API and returns its auth
// cookie value.
func registerAndLogin(t *testing.T, app *fiber.App, name, username, email string) string {
	t.Helper()

	resp, err := app.Test(jsonReq("POST", "/api/v1/user/register", map[string]string{
		"name":     name,
		"username": username,
		"email":    email,
		"password": "password123",
	}), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, err = app.Test(jsonReq("POST", "/api/v1/user/login", map[string]string{
		"email":    email,
		"password": "password123",
	}), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	for _, c := range resp.Cookies() {
		if c.Name == TokenCookie && c.Value != "" {
			return c.Value
		}
	}
	t.Fatal("login response did not set an auth cookie")
	return ""
}

func authedReq(method, target string, payload any, token string) *http.Request {
	req := jsonReq(method, target, payload)
	req.AddCookie(&http.Cookie{Name: TokenCookie, Value: token})
	return req
}

func TestAuthRequired(t *testing.T) {
	app, srv := setupTestServer(t)

	t.Run("no token", func(t *testing.T) {
		resp, err := app.Test(jsonReq("GET", "/api/v1/user/profile", nil), -1)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
		body := decodeBody(t, resp)
		require.Equal(t, "User not authenticated. No token provided.", body["message"])
	})

	t.Run("garbage token", func(t *testing.T) {
		resp, err := app.Test(authedReq("GET", "/api/v1/user/profile", nil, "not-a-jwt"), -1)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
		body := decodeBody(t, resp)
		require.Equal(t, "Invalid or expired token.", body["message"])
	})

	t.Run("bearer header fallback", func(t *testing.T) {
		token := registerAndLogin(t, app, "Alice", "alice", "alice@x.com")
		req := jsonReq("GET", "/api/v1/user/profile", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("valid token for deleted user", func(t *testing.T) {
		token, err := srv.generateToken(9999)
		require.NoError(t, err)
		resp, err := app.Test(authedReq("GET", "/api/v1/user/profile", nil, token), -1)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})
}
