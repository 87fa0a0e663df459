package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dheerajjha/escalator/internal/cli"
	"github.com/dheerajjha/escalator/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "escalator",
		Short:   "Escalator - track blocked work and escalate it on schedule",
		Version: version.String(),
		Long: `Escalator tracks work items blocked on external dependencies and walks
them up a five-stage escalation ladder, scheduling reminders so nothing
stays quietly stuck.`,
	}

	// Add subcommands
	rootCmd.AddCommand(cli.InitCmd())
	rootCmd.AddCommand(cli.UserCmd())
	rootCmd.AddCommand(cli.ItemCmd())
	rootCmd.AddCommand(cli.EscalationCmd())
	rootCmd.AddCommand(cli.StandupCmd())
	rootCmd.AddCommand(cli.SchedulerCmd())
	rootCmd.AddCommand(cli.StatusCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
