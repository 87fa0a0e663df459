// Package cli implements the escalator command tree. Commands load the
// configuration, open the database for the duration of one invocation, and
// drive the services through the wired App.
package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/dheerajjha/escalator/internal/config"
	"github.com/dheerajjha/escalator/internal/core/stage"
	"github.com/dheerajjha/escalator/internal/db"
	"github.com/dheerajjha/escalator/internal/wire"
)

// withApp opens the database, wires the application, runs fn, and closes the
// database afterwards. Every command goes through here so connection
// lifecycle stays in one place.
func withApp(fn func(ctx context.Context, a *wire.App, cfg *config.Config) error) error {
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

	database, err := db.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	return fn(context.Background(), wire.NewApp(database), cfg)
}

// currentUserID resolves the user an unqualified command acts as: the --user
// flag when given, otherwise the onboarded user from config.json.
func currentUserID(flagValue string, cfg *config.Config) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if cfg.CurrentUserID != "" {
		return cfg.CurrentUserID, nil
	}
	return "", fmt.Errorf("no user configured\nHint: run `escalator user onboard \"Your Name\"` or pass --user")
}

// stageColor maps each stage to a display color: cool while things are
// normal, warming up as the ladder climbs.
func stageColor(s stage.Stage) *color.Color {
	switch s {
	case stage.StageActive:
		return color.New(color.FgGreen)
	case stage.StageDay2Nudge:
		return color.New(color.FgYellow)
	case stage.StageDay4SecondNudge:
		return color.New(color.FgHiYellow)
	case stage.StageWeek1Call:
		return color.New(color.FgRed)
	case stage.StageManagerEscalation:
		return color.New(color.FgHiRed)
	case stage.StageResolved:
		return color.New(color.FgHiBlack)
	default:
		return color.New(color.Reset)
	}
}

// stageBadge renders a colored fixed-form stage label.
func stageBadge(s stage.Stage) string {
	return stageColor(s).Sprintf("[%s]", s)
}

// truncate shortens s to max characters with an ellipsis.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return strings.TrimSpace(s[:max-3]) + "..."
}
