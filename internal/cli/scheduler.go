package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dheerajjha/escalator/internal/app"
	"github.com/dheerajjha/escalator/internal/config"
	"github.com/dheerajjha/escalator/internal/wire"
)

// SchedulerCmd returns the scheduler command
func SchedulerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scheduler",
		Short: "Run the reminder scheduler",
		Long:  "Run the background sweep that delivers due reminders and daily summaries, or trigger a single pass by hand.",
	}

	cmd.AddCommand(schedulerRunCmd())
	cmd.AddCommand(schedulerCheckCmd())
	cmd.AddCommand(schedulerSummaryCmd())

	return cmd
}

func schedulerRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the scheduler in the foreground until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *wire.App, cfg *config.Config) error {
				sched, err := a.NewScheduler(app.SchedulerConfig{
					CheckInterval: time.Duration(cfg.CheckIntervalMinutes) * time.Minute,
					SummaryTimes:  cfg.SummaryTimes,
				})
				if err != nil {
					return err
				}

				if err := sched.Start(ctx); err != nil {
					return err
				}
				fmt.Printf("Scheduler running (interval %dm, summaries %v). Ctrl-C to stop.\n",
					cfg.CheckIntervalMinutes, cfg.SummaryTimes)

				sigCh := make(chan os.Signal, 1)
				signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
				<-sigCh

				fmt.Println("Stopping scheduler...")
				sched.Stop()
				fmt.Println("✓ Scheduler stopped")
				return nil
			})
		},
	}
}

func schedulerCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Run one due-reminder sweep and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *wire.App, cfg *config.Config) error {
				sched, err := a.NewScheduler(app.SchedulerConfig{})
				if err != nil {
					return err
				}
				if err := sched.CheckDueReminders(ctx); err != nil {
					return err
				}
				fmt.Println("✓ Sweep complete")
				return nil
			})
		},
	}
}

func schedulerSummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Send the daily summary now and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *wire.App, cfg *config.Config) error {
				sched, err := a.NewScheduler(app.SchedulerConfig{})
				if err != nil {
					return err
				}
				if err := sched.SendDailySummary(ctx); err != nil {
					return err
				}
				fmt.Println("✓ Summary sent")
				return nil
			})
		},
	}
}
