package whttp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendCacheBust(t *testing.T) {
	var gotCB, gotCacheControl, gotPragma string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCB = r.URL.Query().Get("cb")
		gotCacheControl = r.Header.Get("Cache-Control")
		gotPragma = r.Header.Get("Pragma")
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	client := NewClient(5 * time.Second)
	res, err := Send(context.Background(), client, &Request{
		Method:    http.MethodGet,
		URL:       srv.URL + "/data?x=1",
		CacheBust: true,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "ok", string(res.Body))
	assert.NotEmpty(t, gotCB)
	assert.Equal(t, "no-cache, no-store", gotCacheControl)
	assert.Equal(t, "no-cache", gotPragma)
}

func TestSendHeadersAndBody(t *testing.T) {
	var gotAuth, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		buf := make([]byte, 64)
		n, _ := r.Body.Read(buf)
		gotBody = string(buf[:n])
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	client := NewClient(5 * time.Second)
	res, err := Send(context.Background(), client, &Request{
		Method:  http.MethodPost,
		URL:     srv.URL,
		Headers: []Header{{Name: "Authorization", Value: "Bearer x"}},
		Body:    []byte(`{"k":"v"}`),
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, res.StatusCode)
	assert.Equal(t, "Bearer x", gotAuth)
	assert.Equal(t, `{"k":"v"}`, gotBody)
}

func TestStatusOK(t *testing.T) {
	assert.True(t, StatusOK(200))
	assert.True(t, StatusOK(204))
	assert.False(t, StatusOK(199))
	assert.False(t, StatusOK(301))
	assert.False(t, StatusOK(404))
}
