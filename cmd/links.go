package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/salehq/activityboard/pkg/models"
)

var linksCmd = &cobra.Command{
	Use:   "links",
	Short: "Manage the portal navigation links",
}

var linksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List links in display order",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		e, err := newEngine(ctx, models.RoleStudent)
		if err != nil {
			return err
		}
		defer e.Close(ctx)

		snap := e.res.Load(ctx, false)
		for i, l := range snap.Links {
			hidden := ""
			if l.Hidden {
				hidden = " (hidden)"
			}
			fmt.Printf("%2d. [%d] %s -> %s%s\n", i+1, l.ID, l.Title, l.URL, hidden)
		}
		return nil
	},
}

var linksAddCmd = &cobra.Command{
	Use:   "add <title> <url>",
	Short: "Add a link at the end of the display order",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		icon, _ := cmd.Flags().GetString("icon")
		desc, _ := cmd.Flags().GetString("description")

		e, err := newEngine(ctx, models.RoleAdmin)
		if err != nil {
			return err
		}
		defer e.Close(ctx)

		var added models.LinkItem
		if err := e.mutate(ctx, func(s *models.Snapshot) error {
			added = s.AddLink(args[0], args[1], icon, desc, time.Now())
			return nil
		}); err != nil {
			return err
		}
		fmt.Printf("Added link %d: %s\n", added.ID, added.Title)
		return nil
	},
}

var linksRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a link",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return linkMutation(cmd, args[0], func(s *models.Snapshot, id int64) error {
			return s.DeleteLink(id)
		}, "Removed link %d\n")
	},
}

var linksHideCmd = &cobra.Command{
	Use:   "hide <id>",
	Short: "Toggle a link's visibility",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return linkMutation(cmd, args[0], func(s *models.Snapshot, id int64) error {
			return s.ToggleLinkHidden(id)
		}, "Toggled link %d\n")
	},
}

var linksMoveCmd = &cobra.Command{
	Use:   "move <id> <position>",
	Short: "Move a link to a new position (1-based, clamped)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		pos, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("position must be a number: %q", args[1])
		}
		return linkMutation(cmd, args[0], func(s *models.Snapshot, id int64) error {
			return s.MoveLink(id, pos-1)
		}, "Moved link %d\n")
	},
}

func linkMutation(cmd *cobra.Command, rawID string, fn func(*models.Snapshot, int64) error, doneFmt string) error {
	ctx := cmd.Context()
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return fmt.Errorf("id must be a number: %q", rawID)
	}

	e, err := newEngine(ctx, models.RoleAdmin)
	if err != nil {
		return err
	}
	defer e.Close(ctx)

	if err := e.mutate(ctx, func(s *models.Snapshot) error {
		return fn(s, id)
	}); err != nil {
		return err
	}
	fmt.Printf(doneFmt, id)
	return nil
}

func init() {
	rootCmd.AddCommand(linksCmd)
	linksCmd.AddCommand(linksListCmd, linksAddCmd, linksRemoveCmd, linksHideCmd, linksMoveCmd)
	linksAddCmd.Flags().String("icon", "link", "Icon name shown next to the link")
	linksAddCmd.Flags().String("description", "", "Optional one-line description")
}
