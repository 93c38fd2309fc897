package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/salehq/activityboard/pkg/cache"
	"github.com/salehq/activityboard/pkg/remote"
)

// publish pushes the locally cached snapshot to the configured backend
// immediately, bypassing the debounce. This is the manual path for
// backends where edits are not auto-pushed.
var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Push the local snapshot to the configured backend now",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		src, err := buildSource(ctx)
		if err != nil {
			return err
		}
		if src == nil {
			return fmt.Errorf("no backend configured; set backend in the config file")
		}

		store, err := openCache()
		if err != nil {
			return err
		}
		defer store.Close()

		snap, err := store.Load(ctx)
		if err != nil {
			if err == cache.ErrEmpty {
				return fmt.Errorf("nothing to publish: the local cache is empty, run pull or make an edit first")
			}
			return err
		}

		var handle *remote.FileHandle
		if id, err := store.GetMeta(ctx, driveFileIDKey); err == nil && id != "" {
			handle = &remote.FileHandle{FileID: id}
		}

		newHandle, err := src.PushSnapshot(ctx, snap, handle)
		if err != nil {
			return fmt.Errorf("publish failed: %s", remote.Classify(err))
		}
		if newHandle != nil && newHandle.FileID != "" {
			if err := store.SetMeta(ctx, driveFileIDKey, newHandle.FileID); err != nil {
				return err
			}
		}
		fmt.Printf("Published %d links, %d announcements to %s\n",
			len(snap.Links), len(snap.Announcements), src.Name())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(publishCmd)
}
