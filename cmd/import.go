package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/salehq/activityboard/pkg/bulkimport"
	"github.com/salehq/activityboard/pkg/models"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Bulk-import announcements from a CSV or JSON file",
	Long: `Validates the whole file before touching anything: one bad row rejects
the entire batch and reports the row and field to fix.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		raw, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}

		format := bulkimport.DetectFormat(args[0])
		if f, _ := cmd.Flags().GetString("format"); f != "" {
			format = bulkimport.Format(f)
		}

		anns, err := bulkimport.Parse(raw, format, time.Now())
		if err != nil {
			return fmt.Errorf("import rejected: %w", err)
		}

		e, err := newEngine(ctx, models.RoleAdmin)
		if err != nil {
			return err
		}
		defer e.Close(ctx)

		if err := e.mutate(ctx, func(s *models.Snapshot) error {
			s.PrependAnnouncements(anns)
			return nil
		}); err != nil {
			return err
		}
		fmt.Printf("Imported %d announcements\n", len(anns))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().StringP("format", "f", "", "Force the input format (csv or json) instead of guessing from the extension")
}
