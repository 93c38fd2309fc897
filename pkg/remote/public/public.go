// Package public implements the anonymous published-document backend: a
// plain URL (raw gist, published file) serving the snapshot JSON. Reads
// are cache-busted; publishing is an external manual step.
package public

import (
	"context"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/salehq/activityboard/pkg/models"
	"github.com/salehq/activityboard/pkg/remote"
	"github.com/salehq/activityboard/pkg/whttp"
)

type Client struct {
	url  string
	http *retryablehttp.Client
}

func New(rawURL string) *Client {
	return &Client{
		url:  rawURL,
		http: whttp.NewClient(30 * time.Second),
	}
}

func (c *Client) Name() string { return "public" }

func (c *Client) FetchSnapshot(ctx context.Context) (*models.Snapshot, error) {
	res, err := whttp.Send(ctx, c.http, &whttp.Request{
		Method:    http.MethodGet,
		URL:       c.url,
		CacheBust: true,
	})
	if err != nil {
		return nil, err
	}
	switch {
	case res.StatusCode == http.StatusNotFound:
		return nil, remote.ErrNotFound
	case !whttp.StatusOK(res.StatusCode):
		return nil, &remote.HTTPError{Status: res.StatusCode}
	}
	return models.DecodeSnapshot(res.Body)
}

// PushSnapshot always fails with ErrReadOnly: the published URL is updated
// out of band (export + re-publish).
func (c *Client) PushSnapshot(ctx context.Context, snap *models.Snapshot, handle *remote.FileHandle) (*remote.FileHandle, error) {
	return nil, remote.ErrReadOnly
}
