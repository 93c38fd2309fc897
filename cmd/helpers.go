package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/salehq/activityboard/internal/utils"
	"github.com/salehq/activityboard/pkg/cache"
	"github.com/salehq/activityboard/pkg/models"
	"github.com/salehq/activityboard/pkg/remote"
	"github.com/salehq/activityboard/pkg/remote/blobstore"
	"github.com/salehq/activityboard/pkg/remote/drive"
	"github.com/salehq/activityboard/pkg/remote/public"
	"github.com/salehq/activityboard/pkg/remote/s3store"
	"github.com/salehq/activityboard/pkg/resolver"
	"github.com/salehq/activityboard/pkg/syncer"
)

// Meta key under which the remembered Drive file id persists between runs.
const driveFileIDKey = "drive.file_id"

func homePath(name string) (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, name), nil
}

func cachePath() (string, error) {
	if p := viper.GetString("cache.path"); p != "" {
		return p, nil
	}
	return homePath(".activityboard.db")
}

func tokenPath() (string, error) {
	return homePath(".activityboard-token.json")
}

func openCache() (*cache.Store, error) {
	path, err := cachePath()
	if err != nil {
		return nil, err
	}
	return cache.Open(path)
}

func driveClient() (*drive.Client, error) {
	clientID := viper.GetString("drive.client_id")
	if clientID == "" {
		return nil, fmt.Errorf("drive.client_id is not configured")
	}
	path, err := tokenPath()
	if err != nil {
		return nil, err
	}
	return drive.New(drive.Config{
		ClientID:     clientID,
		ClientSecret: viper.GetString("drive.client_secret"),
		TokenStore:   &drive.FileTokenStore{Path: path},
	}), nil
}

// buildSource constructs the configured backend, or nil when none is set.
func buildSource(ctx context.Context) (remote.Source, error) {
	switch backend := viper.GetString("backend"); backend {
	case "":
		return nil, nil
	case "public":
		u := viper.GetString("public.url")
		if u == "" {
			return nil, fmt.Errorf("public.url is not configured")
		}
		return public.New(u), nil
	case "blobstore":
		endpoint := viper.GetString("blobstore.endpoint")
		if endpoint == "" {
			return nil, fmt.Errorf("blobstore.endpoint is not configured")
		}
		return blobstore.New(endpoint, viper.GetString("blobstore.token")), nil
	case "s3":
		bucket := viper.GetString("s3.bucket")
		if bucket == "" {
			return nil, fmt.Errorf("s3.bucket is not configured")
		}
		return s3store.New(ctx, s3store.Config{
			Endpoint:  viper.GetString("s3.endpoint"),
			Region:    viper.GetString("s3.region"),
			AccessKey: viper.GetString("s3.access_key"),
			SecretKey: viper.GetString("s3.secret_key"),
			Bucket:    bucket,
			Key:       viper.GetString("s3.key"),
		})
	case "drive":
		return driveClient()
	default:
		return nil, fmt.Errorf("unknown backend %q (use public, blobstore, s3 or drive)", backend)
	}
}

// engine bundles the data path: source, cache, resolver and write-back.
type engine struct {
	src   remote.Source
	store *cache.Store
	res   *resolver.Resolver
	sync  *syncer.Syncer
}

// newEngine wires the pipeline for a command invocation. The debounced
// write-back is armed only for a signed-in drive session with autopush
// enabled; the other backends publish manually (the public backend is
// read-only altogether).
func newEngine(ctx context.Context, role models.UserRole) (*engine, error) {
	src, err := buildSource(ctx)
	if err != nil {
		return nil, err
	}
	store, err := openCache()
	if err != nil {
		return nil, err
	}

	e := &engine{src: src, store: store}

	autopush := viper.GetString("backend") == "drive" && viper.GetBool("sync.autopush")
	if autopush {
		e.sync = syncer.New(syncer.Config{
			Source:   src,
			Debounce: time.Duration(viper.GetInt("sync.debounce_ms")) * time.Millisecond,
			Log:      utils.Log,
			OnStatus: func(st models.SyncStatus) {
				if st.State == models.SyncError {
					fmt.Println("Sync failed:", st.LastError)
				}
			},
		})
		if id, err := store.GetMeta(ctx, driveFileIDKey); err == nil && id != "" {
			e.sync.SetHandle(&remote.FileHandle{FileID: id})
		}
	}

	cfg := resolver.Config{
		Source: src,
		Cache:  store,
		Role:   role,
		Log:    utils.Log,
		OnNotice: func(msg string, isError bool) {
			fmt.Println(msg)
		},
	}
	if e.sync != nil {
		cfg.Scheduler = e.sync
	}
	e.res = resolver.New(cfg)
	return e, nil
}

// Close flushes pending write-back, persists the remote file handle and
// releases the cache.
func (e *engine) Close(ctx context.Context) error {
	var err error
	if e.sync != nil {
		err = e.sync.Flush(ctx)
		if h := e.sync.Handle(); h != nil && h.FileID != "" {
			if serr := e.store.SetMeta(ctx, driveFileIDKey, h.FileID); serr != nil && err == nil {
				err = serr
			}
		}
		e.sync.Close()
	}
	if cerr := e.store.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

// mutate loads the current snapshot, applies fn and lets the resolver
// persist and schedule the result.
func (e *engine) mutate(ctx context.Context, fn func(*models.Snapshot) error) error {
	e.res.Load(ctx, false)
	return e.res.Mutate(ctx, fn)
}
