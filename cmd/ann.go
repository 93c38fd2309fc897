package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/salehq/activityboard/pkg/lifecycle"
	"github.com/salehq/activityboard/pkg/models"
)

var annCmd = &cobra.Command{
	Use:   "ann",
	Short: "Manage announcements",
}

var annListCmd = &cobra.Command{
	Use:   "list",
	Short: "List announcements, newest event first",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		category, _ := cmd.Flags().GetString("category")
		query, _ := cmd.Flags().GetString("search")
		today, _ := cmd.Flags().GetBool("today")
		showExpired, _ := cmd.Flags().GetBool("expired")

		role := models.RoleStudent
		if showExpired {
			role = models.RoleAdmin
		}

		e, err := newEngine(ctx, role)
		if err != nil {
			return err
		}
		defer e.Close(ctx)

		snap := e.res.Load(ctx, false)
		now := time.Now()
		anns := lifecycle.Filter(snap.Announcements, lifecycle.FilterOptions{
			Role:             role,
			Category:         models.Category(category),
			Query:            query,
			TodayOnly:        today,
			ExpiryHours:      snap.ThemeConfig.AnnouncementExpiryHours,
			ShowExpiredAdmin: showExpired,
			Now:              now,
		})
		for _, a := range anns {
			marker := ""
			if lifecycle.IsExpired(a, snap.ThemeConfig.AnnouncementExpiryHours, now) {
				marker = " [expired]"
			} else if lifecycle.IsCreatedToday(a, now) {
				marker = " [new]"
			}
			fmt.Printf("[%d] %s (%s) @ %s, %s%s\n",
				a.ID, a.Title, a.Category, a.Date.Format("2006-01-02 15:04"), a.Location, marker)
		}
		return nil
	},
}

var annAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add an announcement",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		category, _ := cmd.Flags().GetString("category")
		details, _ := cmd.Flags().GetString("details")
		date, _ := cmd.Flags().GetString("date")
		location, _ := cmd.Flags().GetString("location")
		club, _ := cmd.Flags().GetString("club")
		regType, _ := cmd.Flags().GetString("registration")
		regURL, _ := cmd.Flags().GetString("url")

		if !models.ValidCategory(models.Category(category)) {
			return fmt.Errorf("category must be male, female or all")
		}
		eventDate, err := time.ParseInLocation("2006-01-02 15:04", date, time.Local)
		if err != nil {
			return fmt.Errorf("date must look like 2025-10-20 10:00: %w", err)
		}
		rt := models.RegistrationLink
		if regType == string(models.RegistrationOpen) {
			rt = models.RegistrationOpen
		} else if regURL == "" {
			return fmt.Errorf("a registration URL is required unless --registration=open")
		}

		e, err := newEngine(ctx, models.RoleAdmin)
		if err != nil {
			return err
		}
		defer e.Close(ctx)

		var added models.Announcement
		if err := e.mutate(ctx, func(s *models.Snapshot) error {
			added = s.AddAnnouncement(models.Announcement{
				Title:            args[0],
				Category:         models.Category(category),
				Details:          details,
				Date:             eventDate,
				Location:         location,
				ClubName:         club,
				RegistrationType: rt,
				RegistrationURL:  regURL,
			}, time.Now())
			return nil
		}); err != nil {
			return err
		}
		fmt.Printf("Added announcement %d: %s\n", added.ID, added.Title)
		return nil
	},
}

var annRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove an announcement",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("id must be a number: %q", args[0])
		}

		e, err := newEngine(ctx, models.RoleAdmin)
		if err != nil {
			return err
		}
		defer e.Close(ctx)

		if err := e.mutate(ctx, func(s *models.Snapshot) error {
			return s.DeleteAnnouncement(id)
		}); err != nil {
			return err
		}
		fmt.Printf("Removed announcement %d\n", id)
		return nil
	},
}

var annCountdownCmd = &cobra.Command{
	Use:   "countdown <id>",
	Short: "Show the time remaining until an announcement's event",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("id must be a number: %q", args[0])
		}

		e, err := newEngine(ctx, models.RoleStudent)
		if err != nil {
			return err
		}
		defer e.Close(ctx)

		snap := e.res.Load(ctx, false)
		for _, a := range snap.Announcements {
			if a.ID != id {
				continue
			}
			r := lifecycle.Countdown(a.Date, time.Now())
			if r.Expired {
				fmt.Println("The event has started or passed.")
				return nil
			}
			fmt.Printf("%dd %02dh %02dm %02ds until %s\n", r.Days, r.Hours, r.Minutes, r.Seconds, a.Title)
			return nil
		}
		return models.ErrItemNotFound
	},
}

func init() {
	rootCmd.AddCommand(annCmd)
	annCmd.AddCommand(annListCmd, annAddCmd, annRemoveCmd, annCountdownCmd)

	annListCmd.Flags().StringP("category", "c", "", "Filter by category (male, female, all)")
	annListCmd.Flags().StringP("search", "s", "", "Search over title, club and location")
	annListCmd.Flags().Bool("today", false, "Only events happening today")
	annListCmd.Flags().Bool("expired", false, "Include expired announcements (admin view)")

	annAddCmd.Flags().StringP("category", "c", "all", "Audience: male, female or all")
	annAddCmd.Flags().StringP("details", "d", "", "Announcement details")
	annAddCmd.Flags().String("date", "", "Event date, e.g. 2025-10-20 10:00")
	annAddCmd.Flags().String("location", "", "Event location")
	annAddCmd.Flags().String("club", "", "Organizing club name")
	annAddCmd.Flags().String("registration", "link", "Registration type: link or open")
	annAddCmd.Flags().String("url", "", "Registration URL (required for link registration)")
	_ = annAddCmd.MarkFlagRequired("date")
	_ = annAddCmd.MarkFlagRequired("location")
	_ = annAddCmd.MarkFlagRequired("details")
}
