package server

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salehq/activityboard/internal/utils"
	"github.com/salehq/activityboard/pkg/cache"
	"github.com/salehq/activityboard/pkg/models"
)

const validPayload = `{"links": [], "themeConfig": {"title": "served"}}`

func newTestServer(t *testing.T, token string) *httptest.Server {
	t.Helper()
	store, err := cache.Open(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	srv := httptest.NewServer(New(Config{Store: store, Token: token, Log: utils.Log}).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	res, err := http.Get(url)
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res, string(body)
}

func post(t *testing.T, url, token, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, url, strings.NewReader(body))
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	res.Body.Close()
	return res
}

func TestGetBeforeFirstPublishReturnsNull(t *testing.T) {
	srv := newTestServer(t, "tok")
	res, body := get(t, srv.URL+"/api/data")
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "null", strings.TrimSpace(body))
}

func TestPublishRoundTrip(t *testing.T) {
	srv := newTestServer(t, "tok")

	res := post(t, srv.URL+"/api/data", "tok", validPayload)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	_, body := get(t, srv.URL+"/api/data")
	snap, err := models.DecodeSnapshot([]byte(body))
	require.NoError(t, err)
	assert.Equal(t, "served", snap.ThemeConfig.Title)
	// The served copy is normalized.
	assert.Equal(t, "admin", snap.AdminPassword)
}

func TestPostRequiresToken(t *testing.T) {
	srv := newTestServer(t, "tok")

	res := post(t, srv.URL+"/api/data", "", validPayload)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	res = post(t, srv.URL+"/api/data", "wrong", validPayload)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

func TestPostDisabledWithoutConfiguredToken(t *testing.T) {
	srv := newTestServer(t, "")
	res := post(t, srv.URL+"/api/data", "", validPayload)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

func TestPostRejectsInvalidSnapshot(t *testing.T) {
	srv := newTestServer(t, "tok")

	for _, body := range []string{`not json`, `{"links": []}`, `[]`} {
		res := post(t, srv.URL+"/api/data", "tok", body)
		assert.Equal(t, http.StatusUnprocessableEntity, res.StatusCode, "body %q", body)
	}

	// A rejected upload never replaces the published copy.
	_, body := get(t, srv.URL+"/api/data")
	assert.Equal(t, "null", strings.TrimSpace(body))
}

func TestMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t, "tok")
	req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/api/data", nil)
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, res.StatusCode)
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, "tok")
	res, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
}
