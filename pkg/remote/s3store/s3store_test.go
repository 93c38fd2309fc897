package s3store

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salehq/activityboard/pkg/models"
	"github.com/salehq/activityboard/pkg/remote"
)

// fakeBucket emulates a path-style S3 endpoint with one bucket.
type fakeBucket struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (f *fakeBucket) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		switch r.Method {
		case http.MethodGet:
			obj, ok := f.objects[r.URL.Path]
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>The specified key does not exist.</Message></Error>`))
				return
			}
			w.Write(obj)
		case http.MethodPut:
			body, _ := io.ReadAll(r.Body)
			if f.objects == nil {
				f.objects = map[string][]byte{}
			}
			f.objects[r.URL.Path] = body
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
}

func newTestStore(t *testing.T, fake *fakeBucket) *Store {
	t.Helper()
	srv := httptest.NewServer(fake.handler())
	t.Cleanup(srv.Close)

	store, err := New(context.Background(), Config{
		Endpoint:  srv.URL,
		Region:    "us-east-1",
		AccessKey: "test",
		SecretKey: "test",
		Bucket:    "activityboard",
	})
	require.NoError(t, err)
	return store
}

func TestFetchSnapshotMissingKey(t *testing.T) {
	store := newTestStore(t, &fakeBucket{})
	_, err := store.FetchSnapshot(context.Background())
	assert.ErrorIs(t, err, remote.ErrNotFound)
}

func TestPushThenFetchRoundTrip(t *testing.T) {
	fake := &fakeBucket{}
	store := newTestStore(t, fake)
	ctx := context.Background()

	snap := models.DefaultSnapshot()
	snap.AdminPassword = "s3-pass"

	handle, err := store.PushSnapshot(ctx, snap, nil)
	require.NoError(t, err)
	// Object storage overwrites by name; the key is the handle.
	assert.Equal(t, remote.DocumentName, handle.FileID)

	back, err := store.FetchSnapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, "s3-pass", back.AdminPassword)
}

func TestFetchRejectsBadPayload(t *testing.T) {
	fake := &fakeBucket{objects: map[string][]byte{
		"/activityboard/" + remote.DocumentName: []byte(`{"nope": true}`),
	}}
	store := newTestStore(t, fake)

	_, err := store.FetchSnapshot(context.Background())
	assert.ErrorIs(t, err, models.ErrInvalidShape)
}
