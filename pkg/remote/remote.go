// Package remote defines the contract every remote snapshot backend
// implements, abstracting away transport, authentication and storage
// details. Callers pick a backend by configuration, never by branching.
package remote

import (
	"context"

	"github.com/salehq/activityboard/pkg/models"
)

// FileHandle identifies the remote object holding the snapshot on backends
// that address documents by id. It is memoized per session so the first
// successful push creates the object and every later push updates it.
type FileHandle struct {
	FileID string `json:"fileId,omitempty"`
}

// Source is a remote snapshot store.
type Source interface {
	Name() string

	// FetchSnapshot retrieves the authoritative document. It must bypass
	// intermediate caches so a refresh reflects the latest publish.
	FetchSnapshot(ctx context.Context) (*models.Snapshot, error)

	// PushSnapshot writes the document back. A nil handle means the remote
	// object may not exist yet; the returned handle identifies the object
	// for subsequent updates.
	PushSnapshot(ctx context.Context, snap *models.Snapshot, handle *FileHandle) (*FileHandle, error)
}

// DocumentName is the canonical object name used by name-addressed backends.
const DocumentName = "student-activity-data.json"
