package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dheerajjha/escalator/internal/config"
	"github.com/dheerajjha/escalator/internal/ports/primary"
	"github.com/dheerajjha/escalator/internal/wire"
)

// ItemCmd returns the item command
func ItemCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "item",
		Short: "Manage work items (tracked blockers)",
		Long:  "Create, list, inspect, edit, and delete work items blocked on external dependencies.",
	}

	cmd.AddCommand(itemCreateCmd())
	cmd.AddCommand(itemListCmd())
	cmd.AddCommand(itemShowCmd())
	cmd.AddCommand(itemUpdateCmd())
	cmd.AddCommand(itemDeleteCmd())

	return cmd
}

func itemCreateCmd() *cobra.Command {
	var userID, description, poc, pocEmail, impact, managerName, managerEmail string

	cmd := &cobra.Command{
		Use:   "create [title]",
		Short: "Create a work item",
		Long: `Create a work item blocked on an external dependency. The item starts
in the active stage and the first nudge reminder is scheduled 48 hours out.

Examples:
  escalator item create "Waiting on schema review" --poc "Bob"
  escalator item create "Blocked on API keys" --poc "Carol" --impact "Release slips a week"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *wire.App, cfg *config.Config) error {
				uid, err := currentUserID(userID, cfg)
				if err != nil {
					return err
				}

				item, err := a.Escalations.CreateWorkItem(ctx, primary.CreateWorkItemRequest{
					UserID:        uid,
					Title:         args[0],
					Description:   description,
					DependencyPOC: poc,
					POCEmail:      pocEmail,
					Impact:        impact,
					ManagerName:   managerName,
					ManagerEmail:  managerEmail,
				})
				if err != nil {
					return fmt.Errorf("failed to create work item: %w", err)
				}

				fmt.Printf("✓ Created work item %s: %s\n", item.ID, item.Title)
				fmt.Printf("  Stage: %s\n", stageBadge(item.CurrentStage))
				fmt.Printf("  POC:   %s\n", item.DependencyPOC)
				fmt.Println("  First nudge reminder scheduled in 48h")
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "Owning user ID (defaults to the configured user)")
	cmd.Flags().StringVar(&description, "description", "", "What the item is blocked on")
	cmd.Flags().StringVar(&poc, "poc", "", "Point of contact for the dependency (required)")
	cmd.Flags().StringVar(&pocEmail, "poc-email", "", "POC email")
	cmd.Flags().StringVar(&impact, "impact", "", "What slips while this stays blocked")
	cmd.Flags().StringVar(&managerName, "manager", "", "Manager to escalate to")
	cmd.Flags().StringVar(&managerEmail, "manager-email", "", "Manager email")

	return cmd
}

func itemListCmd() *cobra.Command {
	var userID string
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List work items, most escalated first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *wire.App, cfg *config.Config) error {
				uid, err := currentUserID(userID, cfg)
				if err != nil {
					return err
				}

				items, err := a.WorkItems.ListWorkItems(ctx, uid)
				if err != nil {
					return err
				}

				shown := 0
				w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tSTAGE\tTITLE\tPOC\tSTAGE SINCE")
				for _, item := range items {
					if !all && item.ResolvedAt != "" {
						continue
					}
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
						item.ID, stageBadge(item.CurrentStage), truncate(item.Title, 40),
						item.DependencyPOC, item.StageUpdatedAt)
					shown++
				}
				if shown == 0 {
					fmt.Printf("No work items for %s.\n", uid)
					return nil
				}
				return w.Flush()
			})
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "User ID (defaults to the configured user)")
	cmd.Flags().BoolVar(&all, "all", false, "Include resolved items")

	return cmd
}

func itemShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [item-id]",
		Short: "Show a work item with history and standup updates",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *wire.App, cfg *config.Config) error {
				detail, err := a.WorkItems.GetWorkItem(ctx, args[0])
				if err != nil {
					return err
				}

				fmt.Printf("%s: %s %s\n", detail.ID, detail.Title, stageBadge(detail.CurrentStage))
				if detail.Description != "" {
					fmt.Printf("  %s\n", detail.Description)
				}
				fmt.Printf("  Owner:  %s\n", detail.UserID)
				fmt.Printf("  POC:    %s", detail.DependencyPOC)
				if detail.POCEmail != "" {
					fmt.Printf(" <%s>", detail.POCEmail)
				}
				fmt.Println()
				if detail.Impact != "" {
					fmt.Printf("  Impact: %s\n", detail.Impact)
				}
				if detail.ManagerName != "" {
					fmt.Printf("  Manager: %s", detail.ManagerName)
					if detail.ManagerEmail != "" {
						fmt.Printf(" <%s>", detail.ManagerEmail)
					}
					fmt.Println()
				}
				fmt.Printf("  Created: %s  Stage since: %s\n", detail.CreatedAt, detail.StageUpdatedAt)
				if detail.ResolvedAt != "" {
					fmt.Printf("  Resolved: %s\n", detail.ResolvedAt)
				}

				if len(detail.History) > 0 {
					fmt.Println()
					fmt.Println("History:")
					for _, h := range detail.History {
						from := string(h.FromStage)
						if from == "" {
							from = "-"
						}
						fmt.Printf("  %s  %s → %s  %s\n", h.Timestamp, from, h.ToStage, h.ActionTaken)
						if h.Notes != "" {
							fmt.Printf("      %s\n", h.Notes)
						}
					}
				}

				if len(detail.Standups) > 0 {
					fmt.Println()
					fmt.Println("Standup updates:")
					for _, su := range detail.Standups {
						fmt.Printf("  %s  %s\n", su.Date, su.UpdateText)
					}
				}
				return nil
			})
		},
	}
}

func itemUpdateCmd() *cobra.Command {
	var title, description, poc, pocEmail, impact, managerName, managerEmail string

	cmd := &cobra.Command{
		Use:   "update [item-id]",
		Short: "Edit a work item's descriptive fields",
		Long:  "Edit title, description, POC, impact, or manager. The escalation stage only moves through `escalation escalate` and `escalation resolve`.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *wire.App, cfg *config.Config) error {
				item, err := a.WorkItems.UpdateWorkItem(ctx, primary.UpdateWorkItemRequest{
					WorkItemID:    args[0],
					Title:         title,
					Description:   description,
					DependencyPOC: poc,
					POCEmail:      pocEmail,
					Impact:        impact,
					ManagerName:   managerName,
					ManagerEmail:  managerEmail,
				})
				if err != nil {
					return err
				}

				fmt.Printf("✓ Updated %s: %s\n", item.ID, item.Title)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&description, "description", "", "New description")
	cmd.Flags().StringVar(&poc, "poc", "", "New point of contact")
	cmd.Flags().StringVar(&pocEmail, "poc-email", "", "New POC email")
	cmd.Flags().StringVar(&impact, "impact", "", "New impact statement")
	cmd.Flags().StringVar(&managerName, "manager", "", "New manager name")
	cmd.Flags().StringVar(&managerEmail, "manager-email", "", "New manager email")

	return cmd
}

func itemDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [item-id]",
		Short: "Delete a work item and everything tied to it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *wire.App, cfg *config.Config) error {
				if err := a.WorkItems.DeleteWorkItem(ctx, args[0]); err != nil {
					return err
				}
				fmt.Printf("✓ Deleted work item %s\n", args[0])
				return nil
			})
		},
	}
}
