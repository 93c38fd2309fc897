// Package server embeds a minimal publish endpoint: a single JSON document
// that portal deployments read with plain GET and the admin tool replaces
// with an authenticated POST. Storage is the same sqlite file as the local
// cache, under a separate document name.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/salehq/activityboard/pkg/cache"
	"github.com/salehq/activityboard/pkg/models"
)

// DocumentName keys the published copy in the store, distinct from the
// fallback cache's own entry.
const DocumentName = "published"

const maxBodySize = 10 << 20 // matches the upstream blob endpoint limit

type Logger interface {
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Debugf(format string, args ...interface{})
}

type nopLogger struct{}

func (nopLogger) Infof(string, ...interface{})  {}
func (nopLogger) Warnf(string, ...interface{})  {}
func (nopLogger) Errorf(string, ...interface{}) {}
func (nopLogger) Debugf(string, ...interface{}) {}

type Config struct {
	Store *cache.Store
	Token string // bearer token required for POST; empty disables writes
	Log   Logger // optional
}

type Server struct {
	cfg Config
	srv *http.Server
}

func New(cfg Config) *Server {
	if cfg.Log == nil {
		cfg.Log = nopLogger{}
	}
	return &Server{cfg: cfg}
}

// Handler builds the route table. Exposed separately so tests can drive it
// through httptest without binding a port.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/data", s.handleData)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return mux
}

func (s *Server) ListenAndServe(addr string) error {
	s.srv = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.cfg.Log.Infof("serving on %s", addr)
	err := s.srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}

func (s *Server) handleData(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleGet(w, r)
	case http.MethodPost:
		s.handlePost(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleGet returns the published document, or a JSON null when nothing has
// been published yet. Readers treat null as "fall back to defaults", so the
// status is 200 either way.
func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	payload, err := s.cfg.Store.LoadDocument(r.Context(), DocumentName)
	if errors.Is(err, cache.ErrEmpty) {
		writeJSON(w, http.StatusOK, []byte("null"))
		return
	}
	if err != nil {
		s.cfg.Log.Errorf("load published document: %v", err)
		writeError(w, http.StatusInternalServerError, "storage error")
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

// handlePost validates and replaces the published document atomically.
// Invalid payloads are rejected before anything is written, so a broken
// upload can never corrupt the published copy.
func (s *Server) handlePost(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		writeError(w, http.StatusUnauthorized, "missing or invalid token")
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, "unreadable body")
		return
	}
	if len(body) > maxBodySize {
		writeError(w, http.StatusRequestEntityTooLarge, "payload too large")
		return
	}

	snap, err := models.DecodeSnapshot(body)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "payload is not a valid snapshot")
		return
	}

	// Store the normalized form, not the raw bytes, so every reader gets
	// the backfilled fields.
	payload, err := snap.Encode()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "encode error")
		return
	}
	if err := s.cfg.Store.SaveDocument(r.Context(), DocumentName, payload); err != nil {
		s.cfg.Log.Errorf("save published document: %v", err)
		writeError(w, http.StatusInternalServerError, "storage error")
		return
	}

	s.cfg.Log.Infof("published document replaced (%d bytes)", len(payload))
	writeJSON(w, http.StatusOK, mustMarshal(map[string]string{"status": "ok"}))
}

func (s *Server) authorized(r *http.Request) bool {
	if s.cfg.Token == "" {
		return false
	}
	auth := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(auth, "Bearer ")
	return ok && token == s.cfg.Token
}

func writeJSON(w http.ResponseWriter, status int, payload []byte) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	w.Write(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, mustMarshal(map[string]string{"error": msg}))
}

func mustMarshal(v interface{}) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}
