package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dheerajjha/escalator/internal/config"
	"github.com/dheerajjha/escalator/internal/core/stage"
	"github.com/dheerajjha/escalator/internal/ports/primary"
	"github.com/dheerajjha/escalator/internal/wire"
)

// StatusCmd returns the status command
func StatusCmd() *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the escalation dashboard",
		Long: `Show the configured user's unresolved work items grouped by stage,
most escalated first, plus their pending reminders. This answers "what is
stuck, and how loudly should I be chasing it?"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *wire.App, cfg *config.Config) error {
				uid, err := currentUserID(userID, cfg)
				if err != nil {
					fmt.Println("Escalator Status - No User")
					fmt.Println()
					fmt.Println("No user configured. Run `escalator user onboard \"Your Name\"` first.")
					return nil
				}

				user, err := a.Users.GetUser(ctx, uid)
				if err != nil {
					return err
				}
				items, err := a.WorkItems.ListWorkItems(ctx, uid)
				if err != nil {
					return err
				}

				fmt.Printf("Escalator Status - %s (%s)\n", user.DisplayName, user.ID)
				fmt.Println()

				unresolved := 0
				var current stage.Stage
				for _, item := range items {
					if item.CurrentStage == stage.StageResolved {
						continue
					}
					if item.CurrentStage != current {
						current = item.CurrentStage
						fmt.Printf("%s\n", stageBadge(current))
					}
					fmt.Printf("  %s  %s (POC: %s, since %s)\n",
						item.ID, truncate(item.Title, 48), item.DependencyPOC, item.StageUpdatedAt)
					unresolved++
				}
				if unresolved == 0 {
					fmt.Println("Nothing blocked. ✓")
					return nil
				}

				pending, err := a.Escalations.ListPendingReminders(ctx)
				if err != nil {
					return err
				}
				mine := make([]*primary.PendingReminder, 0, len(pending))
				byItem := make(map[string]bool, len(items))
				for _, item := range items {
					if item.UserID == uid {
						byItem[item.ID] = true
					}
				}
				for _, r := range pending {
					if byItem[r.WorkItemID] {
						mine = append(mine, r)
					}
				}

				fmt.Println()
				fmt.Printf("%d unresolved, %d reminders pending\n", unresolved, len(mine))
				for _, r := range mine {
					fmt.Printf("  %s  %s (%s)\n", r.ScheduledFor, r.WorkItemID, r.Kind)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "User ID (defaults to the configured user)")

	return cmd
}
