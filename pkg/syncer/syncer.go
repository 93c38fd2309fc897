// Package syncer pushes locally mutated snapshots back to the remote
// source of truth. Mutations arrive in bursts (one per keystroke in the
// worst case), so pushes are debounced: only the last snapshot scheduled
// within a quiet period is actually sent.
package syncer

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/salehq/activityboard/pkg/models"
	"github.com/salehq/activityboard/pkg/remote"
)

const (
	DefaultDebounce = 1500 * time.Millisecond
	DefaultTimeout  = 15 * time.Second
)

// Logger abstracts logging so callers can use logrus, stdlib log, or any
// other logger that satisfies this interface.
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
	Source   remote.Source
	Debounce time.Duration // quiet period; defaults to DefaultDebounce
	Timeout  time.Duration // per-push bound; defaults to DefaultTimeout
	Log      Logger        // optional; nil = no logging

	// OnStatus is called on every status transition (from the push
	// goroutine). Enables the caller to drive its status indicator.
	OnStatus func(models.SyncStatus)
}

type Syncer struct {
	cfg Config

	mu       sync.Mutex
	timer    *time.Timer
	pending  *models.Snapshot
	handle   *remote.FileHandle
	inflight bool
	closed   bool
	status   models.SyncStatus

	wg sync.WaitGroup
}

func New(cfg Config) *Syncer {
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Log == nil {
		cfg.Log = nopLogger{}
	}
	return &Syncer{cfg: cfg, status: models.SyncStatus{State: models.SyncIdle}}
}

// SetHandle seeds the remembered remote object id, e.g. one persisted from
// an earlier session. The first push of a session with no handle creates
// the object; every later push updates it.
func (s *Syncer) SetHandle(h *remote.FileHandle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handle = h
}

func (s *Syncer) Handle() *remote.FileHandle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.handle
}

func (s *Syncer) Status() models.SyncStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Schedule queues a snapshot for push after the quiet period. Each call
// restarts the timer, so a burst of mutations coalesces into one network
// call carrying the final state. Fire-and-forget: failures surface through
// the status callback, never to the mutation path.
func (s *Syncer) Schedule(snap *models.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.pending = snap.Clone()
	if s.timer == nil {
		s.timer = time.AfterFunc(s.cfg.Debounce, s.fire)
	} else {
		s.timer.Reset(s.cfg.Debounce)
	}
}

// fire runs on timer expiry. If a push is still in flight the new snapshot
// simply waits for another window; the in-flight call is never cancelled.
func (s *Syncer) fire() {
	s.mu.Lock()
	if s.closed || s.pending == nil {
		s.mu.Unlock()
		return
	}
	if s.inflight {
		s.timer.Reset(s.cfg.Debounce)
		s.mu.Unlock()
		return
	}
	snap := s.pending
	s.pending = nil
	s.inflight = true
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		s.push(context.Background(), snap)
		s.mu.Lock()
		s.inflight = false
		s.mu.Unlock()
	}()
}

func (s *Syncer) push(ctx context.Context, snap *models.Snapshot) {
	s.setStatus(models.SyncStatus{State: models.SyncSyncing})

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	s.mu.Lock()
	handle := s.handle
	s.mu.Unlock()

	newHandle, err := s.cfg.Source.PushSnapshot(ctx, snap, handle)
	if err != nil {
		// No automatic retry and no rollback: local edits are never lost
		// because of a sync failure.
		s.cfg.Log.Errorf("push to %s failed: %v", s.cfg.Source.Name(), err)
		s.setStatus(models.SyncStatus{State: models.SyncError, LastError: err.Error()})
		return
	}

	s.mu.Lock()
	s.handle = newHandle
	s.mu.Unlock()
	s.cfg.Log.Debugf("pushed snapshot to %s", s.cfg.Source.Name())
	s.setStatus(models.SyncStatus{State: models.SyncSuccess})
}

func (s *Syncer) setStatus(st models.SyncStatus) {
	s.mu.Lock()
	s.status = st
	s.mu.Unlock()
	if s.cfg.OnStatus != nil {
		s.cfg.OnStatus(st)
	}
}

// Flush pushes any still-pending snapshot immediately, bypassing the
// debounce window. Used on process exit so a short-lived CLI session does
// not drop its last edits.
func (s *Syncer) Flush(ctx context.Context) error {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
	}
	snap := s.pending
	s.pending = nil
	s.mu.Unlock()

	// Let an in-flight push finish first; its result must not clobber the
	// newer state we are about to send.
	s.wg.Wait()

	if snap == nil {
		return nil
	}
	s.push(ctx, snap)
	if st := s.Status(); st.State == models.SyncError {
		return errors.New(st.LastError)
	}
	return nil
}

// Close stops the timer and discards anything pending. Call Flush first if
// pending edits must survive.
func (s *Syncer) Close() {
	s.mu.Lock()
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
	}
	s.pending = nil
	s.mu.Unlock()
	s.wg.Wait()
}

// Reset clears session state (handle and status), the write-back half of a
// sign-out teardown.
func (s *Syncer) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handle = nil
	s.status = models.SyncStatus{State: models.SyncIdle}
}
