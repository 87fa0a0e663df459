// Package sqlite_test contains integration tests for SQLite repositories.
//
// All test setup uses db.GetSchemaSQL() so tests always run against the
// authoritative schema; do not hardcode CREATE TABLE statements here.
package sqlite_test

import (
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/dheerajjha/escalator/internal/db"
)

// setupTestDB creates an in-memory database with the authoritative schema.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	if _, err := testDB.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("failed to enable foreign keys: %v", err)
	}

	if _, err := testDB.Exec(db.GetSchemaSQL()); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// seedUser inserts a test user and returns its ID.
func seedUser(t *testing.T, db *sql.DB, id, displayName string) string {
	t.Helper()
	if id == "" {
		id = "USER-001"
	}
	if displayName == "" {
		displayName = "Priya"
	}
	_, err := db.Exec(
		"INSERT INTO users (id, username, display_name, role) VALUES (?, ?, ?, 'senior')",
		id, displayName+"_test", displayName,
	)
	if err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return id
}

// seedWorkItem inserts a test work item in the given stage and returns its ID.
func seedWorkItem(t *testing.T, db *sql.DB, id, userID, currentStage string) string {
	t.Helper()
	if id == "" {
		id = "WI-001"
	}
	if currentStage == "" {
		currentStage = "active"
	}
	_, err := db.Exec(
		"INSERT INTO work_items (id, user_id, title, dependency_poc, current_stage) VALUES (?, ?, 'Blocked on API', 'Alex', ?)",
		id, userID, currentStage,
	)
	if err != nil {
		t.Fatalf("failed to seed work item: %v", err)
	}
	return id
}

// seedReminder inserts a test reminder and returns its ID.
func seedReminder(t *testing.T, db *sql.DB, id, workItemID, kind string, scheduledFor time.Time, sent bool) string {
	t.Helper()
	if id == "" {
		id = "REM-001"
	}
	if kind == "" {
		kind = "nudge_day2"
	}
	sentFlag := 0
	if sent {
		sentFlag = 1
	}
	_, err := db.Exec(
		"INSERT INTO reminders (id, work_item_id, reminder_type, scheduled_for, sent) VALUES (?, ?, ?, ?, ?)",
		id, workItemID, kind, scheduledFor.UTC(), sentFlag,
	)
	if err != nil {
		t.Fatalf("failed to seed reminder: %v", err)
	}
	return id
}
