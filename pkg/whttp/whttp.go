// Package whttp is the thin HTTP layer shared by every remote backend:
// one retrying client, common headers, optional cache busting.
package whttp

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

type Header struct {
	Name  string
	Value string
}

type Request struct {
	Method  string
	URL     string
	Headers []Header
	Body    []byte

	// CacheBust appends a unique query parameter and no-cache headers so
	// the response reflects the latest publish, not an intermediate cache.
	CacheBust bool
}

type Response struct {
	StatusCode int
	Body       []byte
}

// NewClient builds the retrying client used by all backends. Retries cover
// transient transport errors only; HTTP-level failures surface to the
// caller untouched.
func NewClient(timeout time.Duration) *retryablehttp.Client {
	c := retryablehttp.NewClient()
	c.Logger = log.New(io.Discard, "", 0)
	c.RetryMax = 3
	c.HTTPClient.Timeout = timeout
	return c
}

// Send performs a single request and reads the whole body.
func Send(ctx context.Context, client *retryablehttp.Client, r *Request) (*Response, error) {
	target := r.URL
	if r.CacheBust {
		busted, err := cacheBust(target)
		if err != nil {
			return nil, err
		}
		target = busted
	}

	var body io.Reader
	if r.Body != nil {
		body = bytes.NewReader(r.Body)
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, r.Method, target, body)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", "activityboard")
	req.Header.Set("Accept", "application/json")
	if r.CacheBust {
		req.Header.Set("Cache-Control", "no-cache, no-store")
		req.Header.Set("Pragma", "no-cache")
	}
	for _, h := range r.Headers {
		req.Header.Set(h.Name, h.Value)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	return &Response{StatusCode: resp.StatusCode, Body: data}, nil
}

// StatusOK reports whether the status is in the 2xx range.
func StatusOK(code int) bool {
	return code >= http.StatusOK && code < http.StatusMultipleChoices
}

func cacheBust(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid url %q: %w", raw, err)
	}
	q := u.Query()
	q.Set("cb", strconv.FormatInt(time.Now().UnixNano(), 10))
	u.RawQuery = q.Encode()
	return u.String(), nil
}
