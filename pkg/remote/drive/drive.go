// Package drive stores the snapshot as a per-user document in an
// OAuth2-protected app-data folder (Google Drive appDataFolder semantics):
// list by name inside the app folder, download by id with alt=media, and a
// two-part multipart upload that creates the file on first push and patches
// it afterwards.
package drive

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/tidwall/gjson"
	"golang.org/x/oauth2"

	"github.com/salehq/activityboard/pkg/models"
	"github.com/salehq/activityboard/pkg/remote"
	"github.com/salehq/activityboard/pkg/whttp"
)

const (
	defaultAPIBase    = "https://www.googleapis.com/drive/v3"
	defaultUploadBase = "https://www.googleapis.com/upload/drive/v3"
	defaultAuthURL    = "https://accounts.google.com/o/oauth2/auth"
	defaultTokenURL   = "https://oauth2.googleapis.com/token"
	defaultRevokeURL  = "https://oauth2.googleapis.com/revoke"

	// Long-running uploads must fail rather than hang.
	defaultUploadTimeout = 15 * time.Second
)

type Config struct {
	ClientID     string
	ClientSecret string
	TokenStore   TokenStore // where the session token lives between runs

	// UploadTimeout bounds each push; defaults to 15 seconds.
	UploadTimeout time.Duration

	// Overridable endpoints, primarily for tests and self-hosted gateways.
	APIBase    string
	UploadBase string
	AuthURL    string
	TokenURL   string
	RevokeURL  string
}

// TokenStore persists the OAuth token across process restarts.
type TokenStore interface {
	LoadToken() (*oauth2.Token, error) // nil, nil when no session exists
	SaveToken(*oauth2.Token) error
	ClearToken() error
}

// Profile is the minimal identity shown next to the sync indicator.
type Profile struct {
	Email string
	Name  string
}

type Client struct {
	conf          *oauth2.Config
	store         TokenStore
	apiBase       string
	uploadBase    string
	revokeURL     string
	uploadTimeout time.Duration
	http          *retryablehttp.Client

	mu      sync.Mutex
	token   *oauth2.Token
	idToken string
}

func New(cfg Config) *Client {
	apiBase := cfg.APIBase
	if apiBase == "" {
		apiBase = defaultAPIBase
	}
	uploadBase := cfg.UploadBase
	if uploadBase == "" {
		uploadBase = defaultUploadBase
	}
	authURL := cfg.AuthURL
	if authURL == "" {
		authURL = defaultAuthURL
	}
	tokenURL := cfg.TokenURL
	if tokenURL == "" {
		tokenURL = defaultTokenURL
	}
	revokeURL := cfg.RevokeURL
	if revokeURL == "" {
		revokeURL = defaultRevokeURL
	}
	uploadTimeout := cfg.UploadTimeout
	if uploadTimeout <= 0 {
		uploadTimeout = defaultUploadTimeout
	}

	c := &Client{
		conf: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint:     oauth2.Endpoint{AuthURL: authURL, TokenURL: tokenURL},
			RedirectURL:  "urn:ietf:wg:oauth:2.0:oob",
			Scopes: []string{
				"https://www.googleapis.com/auth/drive.appdata",
				"openid", "email", "profile",
			},
		},
		store:         cfg.TokenStore,
		apiBase:       apiBase,
		uploadBase:    uploadBase,
		revokeURL:     revokeURL,
		uploadTimeout: uploadTimeout,
		http:          whttp.NewClient(30 * time.Second),
	}
	if c.store != nil {
		if tok, err := c.store.LoadToken(); err == nil && tok != nil {
			c.token = tok
			if id, ok := tok.Extra("id_token").(string); ok {
				c.idToken = id
			}
		}
	}
	return c
}

func (c *Client) Name() string { return "drive" }

// AuthURL is the consent URL the user visits to obtain an authorization code.
func (c *Client) AuthURL(state string) string {
	return c.conf.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// AcquireToken exchanges an authorization code for a token and persists it.
func (c *Client) AcquireToken(ctx context.Context, code string) error {
	tok, err := c.conf.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("%w: %v", remote.ErrAuth, err)
	}
	c.mu.Lock()
	c.token = tok
	if id, ok := tok.Extra("id_token").(string); ok {
		c.idToken = id
	}
	c.mu.Unlock()
	if c.store != nil {
		return c.store.SaveToken(tok)
	}
	return nil
}

// SignedIn reports whether a session token is present.
func (c *Client) SignedIn() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token != nil
}

// RevokeToken tears down the session: best-effort revocation at the
// provider, then the cached token is dropped. The caller clears the
// remembered file handle and resets sync status.
func (c *Client) RevokeToken(ctx context.Context) error {
	c.mu.Lock()
	tok := c.token
	c.token = nil
	c.idToken = ""
	c.mu.Unlock()

	if c.store != nil {
		if err := c.store.ClearToken(); err != nil {
			return err
		}
	}
	if tok == nil {
		return nil
	}
	form := url.Values{"token": {tok.AccessToken}}
	_, err := whttp.Send(ctx, c.http, &whttp.Request{
		Method:  http.MethodPost,
		URL:     c.revokeURL,
		Headers: []whttp.Header{{Name: "Content-Type", Value: "application/x-www-form-urlencoded"}},
		Body:    []byte(form.Encode()),
	})
	return err
}

// FetchProfile reads the identity claims out of the OpenID id_token. The
// token was received over TLS straight from the provider, so it is decoded
// without signature verification.
func (c *Client) FetchProfile(ctx context.Context) (*Profile, error) {
	c.mu.Lock()
	idToken := c.idToken
	c.mu.Unlock()
	if idToken == "" {
		return nil, remote.ErrAuth
	}

	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(idToken, claims); err != nil {
		return nil, fmt.Errorf("%w: bad id_token: %v", remote.ErrAuth, err)
	}
	p := &Profile{}
	if v, ok := claims["email"].(string); ok {
		p.Email = v
	}
	if v, ok := claims["name"].(string); ok {
		p.Name = v
	}
	return p, nil
}

// accessToken returns a fresh bearer token, refreshing and re-persisting it
// when the provider rotates it.
func (c *Client) accessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	tok := c.token
	c.mu.Unlock()
	if tok == nil {
		return "", remote.ErrAuth
	}

	fresh, err := c.conf.TokenSource(ctx, tok).Token()
	if err != nil {
		return "", fmt.Errorf("%w: %v", remote.ErrAuth, err)
	}
	if fresh.AccessToken != tok.AccessToken {
		c.mu.Lock()
		c.token = fresh
		c.mu.Unlock()
		if c.store != nil {
			_ = c.store.SaveToken(fresh)
		}
	}
	return fresh.AccessToken, nil
}

func (c *Client) FetchSnapshot(ctx context.Context) (*models.Snapshot, error) {
	bearer, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	fileID, err := c.findFileID(ctx, bearer)
	if err != nil {
		return nil, err
	}

	res, err := whttp.Send(ctx, c.http, &whttp.Request{
		Method:    http.MethodGet,
		URL:       fmt.Sprintf("%s/files/%s?alt=media", c.apiBase, fileID),
		Headers:   []whttp.Header{{Name: "Authorization", Value: "Bearer " + bearer}},
		CacheBust: true,
	})
	if err != nil {
		return nil, err
	}
	switch {
	case res.StatusCode == http.StatusUnauthorized:
		return nil, remote.ErrAuth
	case res.StatusCode == http.StatusNotFound:
		return nil, remote.ErrNotFound
	case !whttp.StatusOK(res.StatusCode):
		return nil, &remote.HTTPError{Status: res.StatusCode}
	}
	return models.DecodeSnapshot(res.Body)
}

func (c *Client) findFileID(ctx context.Context, bearer string) (string, error) {
	q := url.Values{}
	q.Set("spaces", "appDataFolder")
	q.Set("q", fmt.Sprintf("name = '%s'", remote.DocumentName))
	q.Set("fields", "files(id,name)")

	res, err := whttp.Send(ctx, c.http, &whttp.Request{
		Method:  http.MethodGet,
		URL:     c.apiBase + "/files?" + q.Encode(),
		Headers: []whttp.Header{{Name: "Authorization", Value: "Bearer " + bearer}},
	})
	if err != nil {
		return "", err
	}
	switch {
	case res.StatusCode == http.StatusUnauthorized:
		return "", remote.ErrAuth
	case !whttp.StatusOK(res.StatusCode):
		return "", &remote.HTTPError{Status: res.StatusCode}
	}

	id := gjson.GetBytes(res.Body, "files.0.id")
	if !id.Exists() {
		return "", remote.ErrNotFound
	}
	return id.String(), nil
}

func (c *Client) PushSnapshot(ctx context.Context, snap *models.Snapshot, handle *remote.FileHandle) (*remote.FileHandle, error) {
	bearer, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}
	payload, err := snap.Encode()
	if err != nil {
		return nil, err
	}

	creating := handle == nil || handle.FileID == ""
	metadata := fmt.Sprintf(`{"name":%q,"mimeType":"application/json"}`, remote.DocumentName)
	if creating {
		metadata = fmt.Sprintf(`{"name":%q,"mimeType":"application/json","parents":["appDataFolder"]}`, remote.DocumentName)
	}

	boundary := fmt.Sprintf("activityboard-%x", time.Now().UnixNano())
	body := buildMultipart(boundary, []byte(metadata), payload)

	method := http.MethodPost
	target := c.uploadBase + "/files?uploadType=multipart"
	if !creating {
		method = http.MethodPatch
		target = fmt.Sprintf("%s/files/%s?uploadType=multipart", c.uploadBase, handle.FileID)
	}

	ctx, cancel := context.WithTimeout(ctx, c.uploadTimeout)
	defer cancel()

	res, err := whttp.Send(ctx, c.http, &whttp.Request{
		Method: method,
		URL:    target,
		Headers: []whttp.Header{
			{Name: "Authorization", Value: "Bearer " + bearer},
			{Name: "Content-Type", Value: "multipart/related; boundary=" + boundary},
		},
		Body: body,
	})
	if err != nil {
		return nil, err
	}
	switch {
	case res.StatusCode == http.StatusUnauthorized:
		return nil, remote.ErrAuth
	case res.StatusCode == http.StatusForbidden || res.StatusCode == http.StatusInsufficientStorage:
		return nil, remote.ErrQuota
	case res.StatusCode == http.StatusNotFound:
		return nil, remote.ErrNotFound
	case !whttp.StatusOK(res.StatusCode):
		return nil, &remote.HTTPError{Status: res.StatusCode}
	}

	id := gjson.GetBytes(res.Body, "id").String()
	if id == "" {
		if creating {
			// An empty handle would make the next push create a duplicate.
			return nil, fmt.Errorf("upload succeeded but the response carried no file id")
		}
		id = handle.FileID
	}
	return &remote.FileHandle{FileID: id}, nil
}

// buildMultipart joins a metadata part and a media part with an explicit
// boundary marker, the encoding the files API expects for multipart upload.
func buildMultipart(boundary string, metadata, media []byte) []byte {
	var b bytes.Buffer
	b.WriteString("--" + boundary + "\r\n")
	b.WriteString("Content-Type: application/json; charset=UTF-8\r\n\r\n")
	b.Write(metadata)
	b.WriteString("\r\n--" + boundary + "\r\n")
	b.WriteString("Content-Type: application/json\r\n\r\n")
	b.Write(media)
	b.WriteString("\r\n--" + boundary + "--\r\n")
	return b.Bytes()
}
