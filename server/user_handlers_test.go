package server

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// getProfile fetches the authenticated caller's own profile.
func getProfile(t *testing.T, app *fiber.App, token string) map[string]any {
	t.Helper()
	resp, err := app.Test(authedReq("GET", "/api/v1/user/profile", nil, token), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	user, ok := body["user"].(map[string]any)
	require.True(t, ok)
	return user
}

func userID(t *testing.T, user map[string]any) uint {
	t.Helper()
	id, ok := user["id"].(float64)
	require.True(t, ok)
	return uint(id)
}

func TestFollowUnfollow(t *testing.T) {
	app, _ := setupTestServer(t)

	tokenA := registerAndLogin(t, app, "Alice", "alice", "alice@x.com")
	tokenB := registerAndLogin(t, app, "Bob", "bob", "bob@x.com")
	idA := userID(t, getProfile(t, app, tokenA))
	idB := userID(t, getProfile(t, app, tokenB))

	followURL := fmt.Sprintf("/api/v1/user/follow/%d", idB)
	unfollowURL := fmt.Sprintf("/api/v1/user/unfollow/%d", idB)

	// Follow
	resp, err := app.Test(authedReq("POST", followURL, nil, tokenA), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Alice followed Bob", decodeBody(t, resp)["message"])

	// Both edge sets updated
	profileA := getProfile(t, app, tokenA)
	profileB := getProfile(t, app, tokenB)
	assert.Equal(t, []any{float64(idB)}, profileA["following"])
	assert.Equal(t, []any{float64(idA)}, profileB["followers"])

	// Duplicate follow rejected
	resp, err = app.Test(authedReq("POST", followURL, nil, tokenA), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "You already follow Bob", decodeBody(t, resp)["message"])

	// Unfollow restores the pre-follow state on both sides
	resp, err = app.Test(authedReq("POST", unfollowURL, nil, tokenA), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Alice unfollowed Bob", decodeBody(t, resp)["message"])

	profileA = getProfile(t, app, tokenA)
	profileB = getProfile(t, app, tokenB)
	assert.Empty(t, profileA["following"])
	assert.Empty(t, profileB["followers"])

	// Unfollow without an edge
	resp, err = app.Test(authedReq("POST", unfollowURL, nil, tokenA), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "You are not following Bob", decodeBody(t, resp)["message"])
}

func TestFollowEdgeCases(t *testing.T) {
	app, _ := setupTestServer(t)
	token := registerAndLogin(t, app, "Alice", "alice", "alice@x.com")
	id := userID(t, getProfile(t, app, token))

	t.Run("missing target", func(t *testing.T) {
		resp, err := app.Test(authedReq("POST", "/api/v1/user/follow/9999", nil, token), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})

	t.Run("self follow", func(t *testing.T) {
		resp, err := app.Test(authedReq("POST", fmt.Sprintf("/api/v1/user/follow/%d", id), nil, token), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}

func TestBookmarkToggle(t *testing.T) {
	app, _ := setupTestServer(t)
	token := registerAndLogin(t, app, "Alice", "alice", "alice@x.com")

	resp, err := app.Test(authedReq("POST", "/api/v1/tweet/create", map[string]string{
		"description": "hello world",
	}, token), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	tweet := decodeBody(t, resp)["tweet"].(map[string]any)
	tweetID := uint(tweet["id"].(float64))

	bookmarkURL := fmt.Sprintf("/api/v1/user/bookmark/%d", tweetID)

	// Toggle on
	resp, err = app.Test(authedReq("PUT", bookmarkURL, nil, token), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Saved to bookmarks", decodeBody(t, resp)["message"])
	assert.Equal(t, []any{float64(tweetID)}, getProfile(t, app, token)["bookmarks"])

	// Toggle off
	resp, err = app.Test(authedReq("PUT", bookmarkURL, nil, token), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Removed from bookmarks", decodeBody(t, resp)["message"])
	assert.Empty(t, getProfile(t, app, token)["bookmarks"])
}

func TestBookmarkDanglesAfterTweetDelete(t *testing.T) {
	app, _ := setupTestServer(t)
	token := registerAndLogin(t, app, "Alice", "alice", "alice@x.com")

	resp, err := app.Test(authedReq("POST", "/api/v1/tweet/create", map[string]string{
		"description": "soon to be deleted",
	}, token), -1)
	require.NoError(t, err)
	tweet := decodeBody(t, resp)["tweet"].(map[string]any)
	tweetID := uint(tweet["id"].(float64))

	resp, err = app.Test(authedReq("PUT", fmt.Sprintf("/api/v1/user/bookmark/%d", tweetID), nil, token), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(authedReq("DELETE", fmt.Sprintf("/api/v1/tweet/delete/%d", tweetID), nil, token), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	// The bookmark reference is left dangling; that is expected, not an error.
	assert.Equal(t, []any{float64(tweetID)}, getProfile(t, app, token)["bookmarks"])
}

func TestGetOtherUsers(t *testing.T) {
	app, _ := setupTestServer(t)
	tokenA := registerAndLogin(t, app, "Alice", "alice", "alice@x.com")
	tokenB := registerAndLogin(t, app, "Bob", "bob", "bob@x.com")
	idB := userID(t, getProfile(t, app, tokenB))

	t.Run("all excludes the caller", func(t *testing.T) {
		resp, err := app.Test(authedReq("GET", "/api/v1/user/other-users/all", nil, tokenA), -1)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		others := decodeBody(t, resp)["otherUsers"].([]any)
		require.Len(t, others, 1)
		assert.Equal(t, "bob", others[0].(map[string]any)["username"])
	})

	t.Run("by id", func(t *testing.T) {
		resp, err := app.Test(authedReq("GET", fmt.Sprintf("/api/v1/user/other-users/%d", idB), nil, tokenA), -1)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		user := decodeBody(t, resp)["user"].(map[string]any)
		assert.Equal(t, "bob", user["username"])
	})

	t.Run("undefined id", func(t *testing.T) {
		resp, err := app.Test(authedReq("GET", "/api/v1/user/other-users/undefined", nil, tokenA), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("missing user", func(t *testing.T) {
		resp, err := app.Test(authedReq("GET", "/api/v1/user/other-users/9999", nil, tokenA), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})
}

// multipartProfileReq builds an authenticated multipart PUT to
// /update-profile with an optional bio field and an optional avatar file.
func multipartProfileReq(t *testing.T, token, bio, filename, contentType string, fileData []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if bio != "" {
		require.NoError(t, w.WriteField("bio", bio))
	}
	if filename != "" {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="avatar"; filename=%q`, filename))
		h.Set("Content-Type", contentType)
		fw, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = fw.Write(fileData)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest("PUT", "/api/v1/user/update-profile", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.AddCookie(&http.Cookie{Name: TokenCookie, Value: token})
	return req
}

func TestUpdateProfile(t *testing.T) {
	app, _ := setupTestServer(t)
	token := registerAndLogin(t, app, "Alice", "alice", "alice@x.com")

	t.Run("bio only", func(t *testing.T) {
		resp, err := app.Test(multipartProfileReq(t, token, "gopher at large", "", "", nil), -1)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		user := decodeBody(t, resp)["user"].(map[string]any)
		assert.Equal(t, "gopher at large", user["bio"])
	})

	t.Run("avatar upload", func(t *testing.T) {
		png := []byte("\x89PNG\r\n\x1a\nfakeimagedata")
		resp, err := app.Test(multipartProfileReq(t, token, "", "me.png", "image/png", png), -1)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		user := decodeBody(t, resp)["user"].(map[string]any)
		avatar, _ := user["avatar"].(string)
		assert.True(t, strings.HasPrefix(avatar, "/uploads/"))
		assert.True(t, strings.HasSuffix(avatar, ".png"))

		// Bio survives an avatar-only update
		assert.Equal(t, "gopher at large", user["bio"])
	})

	t.Run("rejected file type", func(t *testing.T) {
		resp, err := app.Test(multipartProfileReq(t, token, "", "script.sh", "text/x-shellscript", []byte("#!/bin/sh")), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}
