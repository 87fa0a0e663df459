package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dheerajjha/escalator/internal/config"
	"github.com/dheerajjha/escalator/internal/ports/primary"
	"github.com/dheerajjha/escalator/internal/wire"
)

// StandupCmd returns the standup command
func StandupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "standup",
		Short: "Record and read standup updates",
		Long:  "Record dated progress notes against work items and pull them back per item, per user, or per day.",
	}

	cmd.AddCommand(standupAddCmd())
	cmd.AddCommand(standupListCmd())
	cmd.AddCommand(standupDeleteCmd())

	return cmd
}

func standupAddCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "add [item-id] [text]",
		Short: "Record a standup update for a work item",
		Long: `Record a standup update. Date defaults to today.

Examples:
  escalator standup add WI-001 "Pinged Bob again, call scheduled for Thursday"
  escalator standup add WI-001 "No movement" --date 2025-06-01`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *wire.App, cfg *config.Config) error {
				update, err := a.Standups.AddUpdate(ctx, primary.AddStandupRequest{
					WorkItemID: args[0],
					UpdateText: args[1],
					Date:       date,
				})
				if err != nil {
					return err
				}

				fmt.Printf("✓ Recorded %s for %s on %s\n", update.ID, update.WorkItemID, update.Date)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Date of the update (YYYY-MM-DD, defaults to today)")

	return cmd
}

func standupListCmd() *cobra.Command {
	var itemID, userID, date string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List standup updates",
		Long: `List standup updates by work item, by user, or by date.

Examples:
  escalator standup list --item WI-001
  escalator standup list --date 2025-06-01
  escalator standup list --date 2025-06-01 --user USER-001`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *wire.App, cfg *config.Config) error {
				var updates []*primary.StandupUpdate
				var err error

				switch {
				case itemID != "":
					updates, err = a.Standups.ListByWorkItem(ctx, itemID)
				case date != "":
					uid := userID // empty means everyone
					updates, err = a.Standups.ListByDate(ctx, date, uid)
				default:
					uid, uerr := currentUserID(userID, cfg)
					if uerr != nil {
						return uerr
					}
					updates, err = a.Standups.ListByUser(ctx, uid)
				}
				if err != nil {
					return err
				}

				if len(updates) == 0 {
					fmt.Println("No standup updates.")
					return nil
				}
				for _, u := range updates {
					line := fmt.Sprintf("%s  %s  %s", u.Date, u.ID, u.UpdateText)
					if u.WorkItemTitle != "" {
						line += fmt.Sprintf("  (%s: %s)", u.WorkItemID, truncate(u.WorkItemTitle, 30))
					} else {
						line += fmt.Sprintf("  (%s)", u.WorkItemID)
					}
					fmt.Println(line)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&itemID, "item", "", "Filter to one work item")
	cmd.Flags().StringVar(&userID, "user", "", "Filter to one user")
	cmd.Flags().StringVar(&date, "date", "", "Filter to one date (YYYY-MM-DD)")

	return cmd
}

func standupDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [update-id]",
		Short: "Delete a standup update",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *wire.App, cfg *config.Config) error {
				if err := a.Standups.DeleteUpdate(ctx, args[0]); err != nil {
					return err
				}
				fmt.Printf("✓ Deleted standup update %s\n", args[0])
				return nil
			})
		},
	}
}
