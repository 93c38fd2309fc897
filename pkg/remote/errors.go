package remote

import (
	"errors"
	"fmt"

	"github.com/salehq/activityboard/pkg/models"
)

var (
	// ErrNotFound means the remote document does not exist. Distinct from
	// other failures because it implies "not published yet", not "broken".
	ErrNotFound = errors.New("remote document not found")

	// ErrReadOnly is returned by backends where publishing is an external
	// manual step (the anonymous published-URL variant).
	ErrReadOnly = errors.New("backend is read-only")

	// ErrAuth means the credential is missing, expired or revoked.
	ErrAuth = errors.New("authentication required or expired")

	// ErrQuota means the remote write was rejected by storage limits.
	ErrQuota = errors.New("remote storage rejected the write (quota)")
)

// HTTPError carries a non-2xx status that does not map to a more specific
// sentinel.
type HTTPError struct {
	Status int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("server error (status %d)", e.Status)
}

// Classify turns a fetch failure into the short human-readable advisory the
// status indicator shows. Load failures never propagate as hard errors; this
// string is all the user sees of them.
func Classify(err error) string {
	var httpErr *HTTPError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return "connection failed: the document was not found at the configured address (404); verify the URL"
	case errors.Is(err, ErrAuth):
		return "authentication failed: sign in again to reconnect"
	case errors.Is(err, models.ErrInvalidShape):
		return "the data received from the remote source is not valid"
	case errors.As(err, &httpErr):
		return fmt.Sprintf("the server could not be reached (error %d)", httpErr.Status)
	default:
		return "a network or parse error occurred; the last saved copy will be shown"
	}
}
