package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out of the Drive backend and forget the remembered file",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		client, err := driveClient()
		if err != nil {
			return err
		}
		if err := client.RevokeToken(ctx); err != nil {
			return err
		}

		// The remembered file id belongs to the revoked session.
		store, err := openCache()
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.DeleteMeta(ctx, driveFileIDKey); err != nil {
			return err
		}

		fmt.Println("Signed out.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}
