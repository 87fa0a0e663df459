package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dheerajjha/escalator/internal/config"
	"github.com/dheerajjha/escalator/internal/core/stage"
	"github.com/dheerajjha/escalator/internal/wire"
)

// EscalationCmd returns the escalation command
func EscalationCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "escalation",
		Short: "Drive the escalation ladder",
		Long: `Advance work items through the escalation ladder and resolve them.

The ladder: active → day2_nudge → day4_second_nudge → week1_call →
manager_escalation. Each step records what action to take and schedules the
next reminder.`,
	}

	cmd.AddCommand(escalateCmd())
	cmd.AddCommand(resolveCmd())
	cmd.AddCommand(historyCmd())
	cmd.AddCommand(remindersCmd())

	return cmd
}

func escalateCmd() *cobra.Command {
	var notes string

	cmd := &cobra.Command{
		Use:   "escalate [item-id]",
		Short: "Advance a work item to its next stage",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *wire.App, cfg *config.Config) error {
				item, err := a.Escalations.Escalate(ctx, args[0], notes)
				if err != nil {
					return err
				}

				fmt.Printf("✓ Escalated %s to %s\n", item.ID, stageBadge(item.CurrentStage))

				history, err := a.Escalations.GetHistory(ctx, item.ID)
				if err == nil && len(history) > 0 {
					fmt.Printf("  Action: %s\n", history[0].ActionTaken)
				}
				if item.CurrentStage == stage.StageManagerEscalation {
					fmt.Println("  Terminal stage: no further reminders will be scheduled")
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&notes, "notes", "", "What prompted the escalation")

	return cmd
}

func resolveCmd() *cobra.Command {
	var notes string

	cmd := &cobra.Command{
		Use:   "resolve [item-id]",
		Short: "Mark a work item resolved",
		Long:  "Mark a work item resolved and cancel its pending reminders. Resolving an already-resolved item is a no-op.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *wire.App, cfg *config.Config) error {
				item, err := a.Escalations.Resolve(ctx, args[0], notes)
				if err != nil {
					return err
				}

				fmt.Printf("✓ Resolved %s: %s\n", item.ID, item.Title)
				fmt.Printf("  Resolved at: %s\n", item.ResolvedAt)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&notes, "notes", "", "How it got unblocked")

	return cmd
}

func historyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history [item-id]",
		Short: "Show a work item's escalation history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *wire.App, cfg *config.Config) error {
				history, err := a.Escalations.GetHistory(ctx, args[0])
				if err != nil {
					return err
				}
				if len(history) == 0 {
					fmt.Printf("No history for %s.\n", args[0])
					return nil
				}

				for _, h := range history {
					from := string(h.FromStage)
					if from == "" {
						from = "-"
					}
					fmt.Printf("%s  %s → %s\n", h.Timestamp, from, stageBadge(h.ToStage))
					fmt.Printf("  %s\n", h.ActionTaken)
					if h.Notes != "" {
						fmt.Printf("  Notes: %s\n", h.Notes)
					}
				}
				return nil
			})
		},
	}
}

func remindersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reminders",
		Short: "List pending reminders, soonest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *wire.App, cfg *config.Config) error {
				pending, err := a.Escalations.ListPendingReminders(ctx)
				if err != nil {
					return err
				}
				if len(pending) == 0 {
					fmt.Println("No pending reminders.")
					return nil
				}

				w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "DUE\tITEM\tKIND\tTITLE\tPOC")
				for _, r := range pending {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
						r.ScheduledFor, r.WorkItemID, r.Kind, truncate(r.Title, 36), r.DependencyPOC)
				}
				return w.Flush()
			})
		},
	}
}
