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

// UserCmd returns the user command
func UserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
		Long:  "Onboard users and manage their device tokens.",
	}

	cmd.AddCommand(userOnboardCmd())
	cmd.AddCommand(userShowCmd())
	cmd.AddCommand(userListCmd())
	cmd.AddCommand(userDeviceTokenCmd())

	return cmd
}

func userOnboardCmd() *cobra.Command {
	var role string

	cmd := &cobra.Command{
		Use:   "onboard [display-name]",
		Short: "Onboard a user (or return the existing one)",
		Long: `Onboard a user by display name. When a user with that display name
already exists, the existing user is returned instead of creating a duplicate.
The onboarded user becomes the default for item and standup commands.

Examples:
  escalator user onboard "Alice Chen"
  escalator user onboard "Bob" --role principal`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *wire.App, cfg *config.Config) error {
				user, err := a.Users.Onboard(ctx, primary.OnboardRequest{
					DisplayName: args[0],
					Role:        role,
				})
				if err != nil {
					return fmt.Errorf("failed to onboard user: %w", err)
				}

				fmt.Printf("✓ Onboarded %s: %s (%s)\n", user.ID, user.DisplayName, user.Role)

				// Remember them as the acting user for later commands.
				cfg.CurrentUserID = user.ID
				dir, err := config.Dir()
				if err != nil {
					return err
				}
				if err := config.Save(dir, cfg); err != nil {
					return fmt.Errorf("failed to update config: %w", err)
				}
				fmt.Printf("  Set as current user in config.json\n")
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&role, "role", "", "Role: junior, senior, or principal (default senior)")

	return cmd
}

func userShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [user-id]",
		Short: "Show a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *wire.App, cfg *config.Config) error {
				user, err := a.Users.GetUser(ctx, args[0])
				if err != nil {
					return err
				}

				fmt.Printf("%s: %s\n", user.ID, user.DisplayName)
				fmt.Printf("  Username: %s\n", user.Username)
				fmt.Printf("  Role:     %s\n", user.Role)
				if user.DeviceToken != "" {
					fmt.Printf("  Device:   token registered\n")
				} else {
					fmt.Printf("  Device:   no token\n")
				}
				fmt.Printf("  Created:  %s\n", user.CreatedAt)
				return nil
			})
		},
	}
}

func userListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List users",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *wire.App, cfg *config.Config) error {
				users, err := a.Users.ListUsers(ctx)
				if err != nil {
					return err
				}
				if len(users) == 0 {
					fmt.Println("No users onboarded.")
					return nil
				}

				w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tNAME\tROLE\tDEVICE")
				for _, u := range users {
					device := "-"
					if u.DeviceToken != "" {
						device = "registered"
					}
					marker := ""
					if u.ID == cfg.CurrentUserID {
						marker = " *"
					}
					fmt.Fprintf(w, "%s%s\t%s\t%s\t%s\n", u.ID, marker, u.DisplayName, u.Role, device)
				}
				return w.Flush()
			})
		},
	}
}

func userDeviceTokenCmd() *cobra.Command {
	var clear bool

	cmd := &cobra.Command{
		Use:   "device-token [user-id] [token]",
		Short: "Register a push notification token",
		Long: `Register the device token reminders are delivered to. Use --clear to
remove a token; the user then only sees reminders in the scheduler log.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *wire.App, cfg *config.Config) error {
				token := ""
				if len(args) == 2 {
					token = args[1]
				}
				if !clear && token == "" {
					return fmt.Errorf("provide a token or pass --clear")
				}
				if clear {
					token = ""
				}

				if err := a.Users.SetDeviceToken(ctx, args[0], token); err != nil {
					return err
				}
				if token == "" {
					fmt.Printf("✓ Cleared device token for %s\n", args[0])
				} else {
					fmt.Printf("✓ Registered device token for %s\n", args[0])
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&clear, "clear", false, "Remove the registered token")

	return cmd
}
