// Package resolver owns the startup and refresh data path: remote source
// first, local cache second, built-in defaults last. Load never fails
// outward; whatever happens, the caller always gets a usable snapshot.
package resolver

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/salehq/activityboard/pkg/cache"
	"github.com/salehq/activityboard/pkg/models"
	"github.com/salehq/activityboard/pkg/remote"
)

// Logger matches the logrus surface used across the module.
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

// Scheduler is the write-back hook. The resolver only knows that mutated
// snapshots can be handed somewhere for eventual push.
type Scheduler interface {
	Schedule(snap *models.Snapshot)
}

// Indicator is the connection state shown to the user.
type Indicator string

const (
	IndicatorConnected    Indicator = "connected"
	IndicatorSyncing      Indicator = "syncing"
	IndicatorDisconnected Indicator = "disconnected"
	IndicatorUnconfigured Indicator = "unconfigured"
)

type Config struct {
	Source remote.Source // nil means no remote configured
	Cache  *cache.Store  // nil disables the middle rung
	Role   models.UserRole
	Log    Logger

	// OnNotice surfaces advisory messages (fetch failures, refresh
	// outcomes). isError selects the severity of the presentation.
	OnNotice func(msg string, isError bool)

	// Scheduler, when set, receives every admin mutation for write-back.
	Scheduler Scheduler
}

// Resolver holds the current snapshot and serializes access to it.
type Resolver struct {
	cfg Config

	mu        sync.RWMutex
	snap      *models.Snapshot
	fetchErr  string // advisory text of the last failed fetch, "" when clean
	loading   bool
	seq       atomic.Uint64
	firstLoad bool
}

func New(cfg Config) *Resolver {
	if cfg.Log == nil {
		cfg.Log = nopLogger{}
	}
	if cfg.Role == "" {
		cfg.Role = models.RoleStudent
	}
	return &Resolver{cfg: cfg, snap: models.DefaultSnapshot(), firstLoad: true}
}

// Snapshot returns the current dataset. Callers must not mutate it; use
// Mutate instead.
func (r *Resolver) Snapshot() *models.Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snap
}

// FetchError returns the advisory text of the most recent failed fetch.
func (r *Resolver) FetchError() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.fetchErr
}

// Indicator reports the connection state for the status display.
func (r *Resolver) Indicator() Indicator {
	r.mu.RLock()
	defer r.mu.RUnlock()
	switch {
	case r.cfg.Source == nil:
		return IndicatorUnconfigured
	case r.loading:
		return IndicatorSyncing
	case r.fetchErr != "":
		return IndicatorDisconnected
	default:
		return IndicatorConnected
	}
}

// Load walks the fallback chain and installs the result. isRefresh marks a
// user-initiated reload, which changes the notices but not the chain.
//
// Every Load gets a sequence number; if a newer Load finishes first, the
// older response is discarded instead of overwriting fresher state.
func (r *Resolver) Load(ctx context.Context, isRefresh bool) *models.Snapshot {
	seq := r.seq.Add(1)

	r.mu.Lock()
	r.loading = true
	first := r.firstLoad
	r.firstLoad = false
	r.mu.Unlock()

	snap, fetchErr := r.resolve(ctx)

	r.mu.Lock()
	if seq != r.seq.Load() {
		// A newer load was issued; drop this result in its favor.
		current := r.snap
		r.mu.Unlock()
		r.cfg.Log.Debugf("discarding stale load result (seq %d)", seq)
		return current
	}
	r.loading = false
	r.snap = snap
	if fetchErr != nil {
		r.fetchErr = remote.Classify(fetchErr)
	} else {
		r.fetchErr = ""
	}
	notice, isErr := r.noticeFor(fetchErr, first, isRefresh)
	r.mu.Unlock()

	if notice != "" && r.cfg.OnNotice != nil {
		r.cfg.OnNotice(notice, isErr)
	}
	return snap
}

// resolve runs the chain: remote, then cache, then defaults. A successful
// remote fetch is always mirrored into the cache so the middle rung stays
// current.
func (r *Resolver) resolve(ctx context.Context) (*models.Snapshot, error) {
	var fetchErr error

	if r.cfg.Source != nil {
		snap, err := r.cfg.Source.FetchSnapshot(ctx)
		if err == nil {
			r.cfg.Log.Infof("loaded snapshot from %s", r.cfg.Source.Name())
			r.mirror(ctx, snap)
			return snap, nil
		}
		fetchErr = err
		if errors.Is(err, remote.ErrNotFound) {
			r.cfg.Log.Infof("no document at %s yet", r.cfg.Source.Name())
		} else {
			r.cfg.Log.Warnf("fetch from %s failed: %v", r.cfg.Source.Name(), err)
		}
	}

	if r.cfg.Cache != nil {
		snap, err := r.cfg.Cache.Load(ctx)
		if err == nil {
			r.cfg.Log.Infof("using locally cached snapshot")
			return snap, fetchErr
		}
		if !errors.Is(err, cache.ErrEmpty) {
			r.cfg.Log.Warnf("cache read failed: %v", err)
		}
	}

	r.cfg.Log.Infof("using built-in default snapshot")
	return models.DefaultSnapshot(), fetchErr
}

func (r *Resolver) mirror(ctx context.Context, snap *models.Snapshot) {
	if r.cfg.Cache == nil {
		return
	}
	if err := r.cfg.Cache.Save(ctx, snap); err != nil {
		r.cfg.Log.Warnf("cache mirror failed: %v", err)
	}
}

// noticeFor picks the user-facing message for a completed load. First-load
// failures surface so the user knows they are on stale or default data;
// refreshes always report their outcome.
func (r *Resolver) noticeFor(fetchErr error, first, isRefresh bool) (string, bool) {
	switch {
	case isRefresh && fetchErr == nil:
		return "Data refreshed from the server.", false
	case isRefresh:
		return "Refresh failed: " + remote.Classify(fetchErr), true
	case first && fetchErr != nil:
		return remote.Classify(fetchErr), true
	default:
		return "", false
	}
}

// Mutate applies fn to a copy of the current snapshot and installs the
// result. Only an admin session persists and schedules write-back; a
// student session may still mutate transient state locally, but nothing
// leaves the process.
func (r *Resolver) Mutate(ctx context.Context, fn func(*models.Snapshot) error) error {
	r.mu.Lock()
	next := r.snap.Clone()
	r.mu.Unlock()

	if err := fn(next); err != nil {
		return err
	}

	r.mu.Lock()
	r.snap = next
	admin := r.cfg.Role == models.RoleAdmin
	r.mu.Unlock()

	if !admin {
		return nil
	}
	r.mirror(ctx, next)
	if r.cfg.Scheduler != nil {
		r.cfg.Scheduler.Schedule(next)
	}
	return nil
}
