package db

import "database/sql"

// SchemaSQL is the complete schema for fresh escalator installs.
//
// This is the SINGLE SOURCE OF TRUTH for the database schema. All tests load
// it via GetSchemaSQL() instead of hardcoding CREATE TABLE statements, so a
// repository referencing a column that does not exist here fails immediately
// with "no such column" at test time.
const SchemaSQL = `
-- Users (tracker owners)
CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	username TEXT NOT NULL UNIQUE,
	display_name TEXT NOT NULL,
	role TEXT NOT NULL CHECK(role IN ('junior', 'senior', 'principal')) DEFAULT 'senior',
	fcm_token TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Work items (tracked blockers)
CREATE TABLE IF NOT EXISTS work_items (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	title TEXT NOT NULL,
	description TEXT,
	dependency_poc TEXT NOT NULL,
	poc_email TEXT,
	current_stage TEXT NOT NULL CHECK(current_stage IN ('active', 'day2_nudge', 'day4_second_nudge', 'week1_call', 'manager_escalation', 'resolved')) DEFAULT 'active',
	impact TEXT,
	manager_name TEXT,
	manager_email TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	stage_updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	resolved_at DATETIME,
	FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
);

-- Escalation history (immutable audit trail of stage transitions)
CREATE TABLE IF NOT EXISTS escalation_history (
	id TEXT PRIMARY KEY,
	work_item_id TEXT NOT NULL,
	from_stage TEXT,
	to_stage TEXT NOT NULL,
	action_taken TEXT NOT NULL,
	notes TEXT,
	timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (work_item_id) REFERENCES work_items(id) ON DELETE CASCADE
);

-- Standup updates (dated progress notes)
CREATE TABLE IF NOT EXISTS standup_updates (
	id TEXT PRIMARY KEY,
	work_item_id TEXT NOT NULL,
	update_text TEXT NOT NULL,
	date DATE NOT NULL DEFAULT (DATE('now')),
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (work_item_id) REFERENCES work_items(id) ON DELETE CASCADE
);

-- Reminders (scheduled future nudges, consumed by the scheduler)
CREATE TABLE IF NOT EXISTS reminders (
	id TEXT PRIMARY KEY,
	work_item_id TEXT NOT NULL,
	reminder_type TEXT NOT NULL CHECK(reminder_type IN ('nudge_day2', 'second_nudge_day4', 'setup_call_week1', 'escalate_manager')),
	scheduled_for DATETIME NOT NULL,
	sent INTEGER NOT NULL DEFAULT 0,
	sent_at DATETIME,
	FOREIGN KEY (work_item_id) REFERENCES work_items(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_work_items_user ON work_items(user_id);
CREATE INDEX IF NOT EXISTS idx_work_items_stage ON work_items(current_stage);
CREATE INDEX IF NOT EXISTS idx_escalation_history_item ON escalation_history(work_item_id);
CREATE INDEX IF NOT EXISTS idx_standup_updates_item ON standup_updates(work_item_id);
CREATE INDEX IF NOT EXISTS idx_reminders_scheduled ON reminders(scheduled_for, sent);
`

// InitSchema creates the database schema on the given connection.
func InitSchema(database *sql.DB) error {
	_, err := database.Exec(SchemaSQL)
	return err
}

// GetSchemaSQL returns the authoritative schema SQL for use by tests.
// Tests should use this instead of hardcoding their own schema to prevent drift.
func GetSchemaSQL() string {
	return SchemaSQL
}
