package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/salehq/activityboard/pkg/models"
)

var pullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Fetch the latest snapshot (remote, then cache, then defaults)",
	RunE: func(cmd *cobra.Command, args []string) error {
		refresh, _ := cmd.Flags().GetBool("refresh")
		ctx := cmd.Context()

		e, err := newEngine(ctx, models.RoleStudent)
		if err != nil {
			return err
		}
		defer e.Close(ctx)

		snap := e.res.Load(ctx, refresh)
		fmt.Printf("Loaded %d links, %d announcements (state: %s)\n",
			len(snap.Links), len(snap.Announcements), e.res.Indicator())
		if msg := e.res.FetchError(); msg != "" {
			fmt.Println(msg)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pullCmd)
	pullCmd.Flags().BoolP("refresh", "r", false, "Treat this as a user-initiated refresh (reports the outcome)")
}
