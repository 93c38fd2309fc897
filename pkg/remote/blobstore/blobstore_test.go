package blobstore

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salehq/activityboard/pkg/models"
	"github.com/salehq/activityboard/pkg/remote"
)

const validPayload = `{"links": [], "themeConfig": {"title": "t"}}`

func TestFetchSendsBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(validPayload))
	}))
	defer srv.Close()

	_, err := New(srv.URL, "secret").FetchSnapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer secret", gotAuth)
}

func TestFetchNullMeansNotPublished(t *testing.T) {
	for _, body := range []string{"null", "", "  null  "} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(body))
		}))
		_, err := New(srv.URL, "").FetchSnapshot(context.Background())
		assert.ErrorIs(t, err, remote.ErrNotFound, "body %q", body)
		srv.Close()
	}
}

func TestFetchAuthFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := New(srv.URL, "stale").FetchSnapshot(context.Background())
	assert.ErrorIs(t, err, remote.ErrAuth)
}

func TestPushRoundTrip(t *testing.T) {
	var gotBody []byte
	var gotMethod, gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.Write([]byte(`{"url": "https://blobs.example.com/abc/student-activity-data.json"}`))
	}))
	defer srv.Close()

	handle, err := New(srv.URL, "secret").PushSnapshot(context.Background(), models.DefaultSnapshot(), nil)
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "https://blobs.example.com/abc/student-activity-data.json", handle.FileID)

	// Pushed body must itself be a decodable snapshot.
	_, err = models.DecodeSnapshot(gotBody)
	assert.NoError(t, err)
}

func TestPushQuota(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusRequestEntityTooLarge)
	}))
	defer srv.Close()

	_, err := New(srv.URL, "secret").PushSnapshot(context.Background(), models.DefaultSnapshot(), nil)
	assert.ErrorIs(t, err, remote.ErrQuota)
}

func TestPushWithoutURLInResponseFallsBackToName(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	handle, err := New(srv.URL, "").PushSnapshot(context.Background(), models.DefaultSnapshot(), nil)
	require.NoError(t, err)
	assert.Equal(t, remote.DocumentName, handle.FileID)
}
