package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/salehq/activityboard/pkg/bulkimport"
	"github.com/salehq/activityboard/pkg/models"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the snapshot as JSON, or write an import template",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		out, _ := cmd.Flags().GetString("out")
		template, _ := cmd.Flags().GetString("template")

		if template != "" {
			var data []byte
			switch template {
			case "csv":
				data = bulkimport.CSVTemplate()
			case "json":
				data = bulkimport.JSONTemplate()
			default:
				return fmt.Errorf("unknown template %q (use csv or json)", template)
			}
			return writeOut(out, data)
		}

		e, err := newEngine(ctx, models.RoleStudent)
		if err != nil {
			return err
		}
		defer e.Close(ctx)

		snap := e.res.Load(ctx, false)
		if out == "" {
			return bulkimport.ExportSnapshot(os.Stdout, snap)
		}
		f, err := os.Create(out)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := bulkimport.ExportSnapshot(f, snap); err != nil {
			return err
		}
		fmt.Println("Exported to", out)
		return nil
	},
}

func writeOut(path string, data []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return err
	}
	fmt.Println("Wrote", path)
	return nil
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringP("out", "o", "", "Output file (default stdout)")
	exportCmd.Flags().StringP("template", "t", "", "Write an empty import template instead (csv or json)")
}
