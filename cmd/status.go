package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/salehq/activityboard/pkg/models"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the configured backend and connection state",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		backend := viper.GetString("backend")
		if backend == "" {
			backend = "(none)"
		}
		fmt.Println("Backend:   ", backend)

		e, err := newEngine(ctx, models.RoleStudent)
		if err != nil {
			return err
		}
		defer e.Close(ctx)

		snap := e.res.Load(ctx, false)
		fmt.Println("State:     ", e.res.Indicator())
		if msg := e.res.FetchError(); msg != "" {
			fmt.Println("Last error:", msg)
		}
		fmt.Printf("Data:       %d links, %d announcements\n", len(snap.Links), len(snap.Announcements))

		if backend == "drive" {
			if client, err := driveClient(); err == nil {
				if client.SignedIn() {
					if profile, err := client.FetchProfile(ctx); err == nil {
						fmt.Printf("Account:    %s <%s>\n", profile.Name, profile.Email)
					} else {
						fmt.Println("Account:    signed in")
					}
				} else {
					fmt.Println("Account:    signed out (run login)")
				}
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
