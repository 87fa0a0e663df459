package db

import (
	"database/sql"
	"fmt"
	"time"
)

// SeedFixtures populates the database with development fixtures: a couple of
// users and work items at different escalation stages, with matching history
// and pending reminders. Intended for `escalator init --seed` only.
func SeedFixtures(database *sql.DB) error {
	now := time.Now()

	users := []struct{ id, username, display, role string }{
		{"USER-001", "priya_7f3a", "Priya", "senior"},
		{"USER-002", "marcus_91be", "Marcus", "junior"},
	}
	for _, u := range users {
		if _, err := database.Exec(
			"INSERT INTO users (id, username, display_name, role) VALUES (?, ?, ?, ?)",
			u.id, u.username, u.display, u.role,
		); err != nil {
			return fmt.Errorf("seed users: %w", err)
		}
	}

	items := []struct{ id, userID, title, poc, stage string }{
		{"WI-001", "USER-001", "Blocked on payments API schema", "Alex", "active"},
		{"WI-002", "USER-001", "Waiting for infra capacity review", "Sam", "day4_second_nudge"},
		{"WI-003", "USER-002", "Need design signoff for onboarding flow", "Jordan", "resolved"},
	}
	for _, w := range items {
		if _, err := database.Exec(
			"INSERT INTO work_items (id, user_id, title, dependency_poc, current_stage) VALUES (?, ?, ?, ?, ?)",
			w.id, w.userID, w.title, w.poc, w.stage,
		); err != nil {
			return fmt.Errorf("seed work items: %w", err)
		}
	}

	history := []struct{ id, itemID, from, to, action string }{
		{"HIST-001", "WI-001", "", "active", "Created work item"},
		{"HIST-002", "WI-002", "", "active", "Created work item"},
		{"HIST-003", "WI-002", "active", "day2_nudge", "Nudge POC offline + standup update"},
		{"HIST-004", "WI-002", "day2_nudge", "day4_second_nudge", "Second nudge + call out in standup"},
		{"HIST-005", "WI-003", "", "active", "Created work item"},
		{"HIST-006", "WI-003", "active", "resolved", "Marked as resolved"},
	}
	for _, h := range history {
		var from any
		if h.from != "" {
			from = h.from
		}
		if _, err := database.Exec(
			"INSERT INTO escalation_history (id, work_item_id, from_stage, to_stage, action_taken) VALUES (?, ?, ?, ?, ?)",
			h.id, h.itemID, from, h.to, h.action,
		); err != nil {
			return fmt.Errorf("seed history: %w", err)
		}
	}

	reminders := []struct {
		id, itemID, kind string
		due              time.Time
	}{
		{"REM-001", "WI-001", "nudge_day2", now.Add(48 * time.Hour)},
		{"REM-002", "WI-002", "setup_call_week1", now.Add(-2 * time.Hour)},
	}
	for _, r := range reminders {
		if _, err := database.Exec(
			"INSERT INTO reminders (id, work_item_id, reminder_type, scheduled_for) VALUES (?, ?, ?, ?)",
			r.id, r.itemID, r.kind, r.due,
		); err != nil {
			return fmt.Errorf("seed reminders: %w", err)
		}
	}

	if _, err := database.Exec(
		"INSERT INTO standup_updates (id, work_item_id, update_text) VALUES (?, ?, ?)",
		"SU-001", "WI-002", "Pinged Sam again, still waiting on the capacity numbers",
	); err != nil {
		return fmt.Errorf("seed standups: %w", err)
	}

	return nil
}
