package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/salehq/activityboard/pkg/models"
)

var passwdCmd = &cobra.Command{
	Use:   "passwd <current> <new>",
	Short: "Change the admin password stored in the snapshot",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		e, err := newEngine(ctx, models.RoleAdmin)
		if err != nil {
			return err
		}
		defer e.Close(ctx)

		if err := e.mutate(ctx, func(s *models.Snapshot) error {
			return s.ChangePassword(args[0], args[1])
		}); err != nil {
			return err
		}
		fmt.Println("Password changed.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(passwdCmd)
}
