// Package blobstore talks to a blob-storage HTTP endpoint with list/put
// semantics: GET returns the current document (JSON null when nothing has
// been published yet), POST overwrites it by name idempotently.
package blobstore

import (
	"bytes"
	"context"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/tidwall/gjson"

	"github.com/salehq/activityboard/pkg/models"
	"github.com/salehq/activityboard/pkg/remote"
	"github.com/salehq/activityboard/pkg/whttp"
)

type Client struct {
	endpoint string
	token    string
	http     *retryablehttp.Client
}

func New(endpoint, token string) *Client {
	return &Client{
		endpoint: endpoint,
		token:    token,
		http:     whttp.NewClient(30 * time.Second),
	}
}

func (c *Client) Name() string { return "blobstore" }

func (c *Client) headers() []whttp.Header {
	if c.token == "" {
		return nil
	}
	return []whttp.Header{{Name: "Authorization", Value: "Bearer " + c.token}}
}

func (c *Client) FetchSnapshot(ctx context.Context) (*models.Snapshot, error) {
	res, err := whttp.Send(ctx, c.http, &whttp.Request{
		Method:    http.MethodGet,
		URL:       c.endpoint,
		Headers:   c.headers(),
		CacheBust: true,
	})
	if err != nil {
		return nil, err
	}
	switch {
	case res.StatusCode == http.StatusUnauthorized || res.StatusCode == http.StatusForbidden:
		return nil, remote.ErrAuth
	case res.StatusCode == http.StatusNotFound:
		return nil, remote.ErrNotFound
	case !whttp.StatusOK(res.StatusCode):
		return nil, &remote.HTTPError{Status: res.StatusCode}
	}
	// The store answers 200 with a JSON null until the first publish.
	if len(bytes.TrimSpace(res.Body)) == 0 || string(bytes.TrimSpace(res.Body)) == "null" {
		return nil, remote.ErrNotFound
	}
	return models.DecodeSnapshot(res.Body)
}

func (c *Client) PushSnapshot(ctx context.Context, snap *models.Snapshot, handle *remote.FileHandle) (*remote.FileHandle, error) {
	payload, err := snap.Encode()
	if err != nil {
		return nil, err
	}
	headers := append(c.headers(), whttp.Header{Name: "Content-Type", Value: "application/json"})
	res, err := whttp.Send(ctx, c.http, &whttp.Request{
		Method:  http.MethodPost,
		URL:     c.endpoint,
		Headers: headers,
		Body:    payload,
	})
	if err != nil {
		return nil, err
	}
	switch {
	case res.StatusCode == http.StatusUnauthorized || res.StatusCode == http.StatusForbidden:
		return nil, remote.ErrAuth
	case res.StatusCode == http.StatusRequestEntityTooLarge || res.StatusCode == http.StatusInsufficientStorage:
		return nil, remote.ErrQuota
	case !whttp.StatusOK(res.StatusCode):
		return nil, &remote.HTTPError{Status: res.StatusCode}
	}

	// The store is name-addressed, so the handle is informational; keep the
	// blob URL when the endpoint reports one.
	id := remote.DocumentName
	if u := gjson.GetBytes(res.Body, "url"); u.Exists() {
		id = u.String()
	}
	return &remote.FileHandle{FileID: id}, nil
}
