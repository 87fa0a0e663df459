package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dheerajjha/escalator/internal/config"
	"github.com/dheerajjha/escalator/internal/db"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	var seed bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the escalator database",
		Long:  `Initialize the escalator database at ~/.escalator/escalator.db with the required schema, and write a default config.json if none exists.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := config.Dir()
			if err != nil {
				return err
			}
			cfg, err := config.Load(dir)
			if err != nil {
				return err
			}

			path := cfg.DatabasePath
			if path == "" {
				path, err = db.DefaultPath()
				if err != nil {
					return err
				}
			}

			fmt.Printf("Initializing escalator database at %s\n", path)

			database, err := db.Open(path)
			if err != nil {
				return fmt.Errorf("failed to initialize database: %w", err)
			}
			defer database.Close()

			fmt.Println("✓ Database initialized successfully")

			if seed {
				if err := db.SeedFixtures(database); err != nil {
					return fmt.Errorf("failed to seed fixtures: %w", err)
				}
				fmt.Println("✓ Development fixtures seeded")
			}

			if err := config.Save(dir, cfg); err != nil {
				return fmt.Errorf("failed to write config: %w", err)
			}
			fmt.Println("✓ Config written to " + dir)
			fmt.Println()
			fmt.Println("Next steps:")
			fmt.Println("  escalator user onboard \"Your Name\"")
			fmt.Println("  escalator item create \"My blocked work\" --poc \"Their Name\"")

			return nil
		},
	}

	cmd.Flags().BoolVar(&seed, "seed", false, "Seed development fixtures")

	return cmd
}
