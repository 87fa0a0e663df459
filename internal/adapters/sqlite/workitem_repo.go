package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dheerajjha/escalator/internal/ports/secondary"
)

// WorkItemRepository implements secondary.WorkItemRepository with SQLite.
// The compound methods wrap their multi-statement writes in one transaction
// so a stage change is never visible without its history entry and reminder
// bookkeeping.
type WorkItemRepository struct {
	db *sql.DB
}

// NewWorkItemRepository creates a new SQLite work item repository.
func NewWorkItemRepository(db *sql.DB) *WorkItemRepository {
	return &WorkItemRepository{db: db}
}

const workItemColumns = "id, user_id, title, description, dependency_poc, poc_email, current_stage, impact, manager_name, manager_email, created_at, updated_at, stage_updated_at, resolved_at"

// Create persists a work item with its creation history entry and first
// reminder, atomically.
func (r *WorkItemRepository) Create(ctx context.Context, item *secondary.WorkItemRecord, history *secondary.HistoryRecord, reminder *secondary.ReminderRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO work_items (id, user_id, title, description, dependency_poc, poc_email, impact, manager_name, manager_email, current_stage) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		item.ID, item.UserID, item.Title, nullable(item.Description), item.DependencyPOC, nullable(item.POCEmail),
		nullable(item.Impact), nullable(item.ManagerName), nullable(item.ManagerEmail), item.CurrentStage,
	)
	if err != nil {
		return fmt.Errorf("failed to create work item: %w", err)
	}

	if err := insertHistory(ctx, tx, history, time.Time{}); err != nil {
		return err
	}

	if err := insertReminder(ctx, tx, reminder); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit work item creation: %w", err)
	}

	return nil
}

// GetByID retrieves a work item by its ID.
func (r *WorkItemRepository) GetByID(ctx context.Context, id string) (*secondary.WorkItemRecord, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+workItemColumns+" FROM work_items WHERE id = ?", id)

	record, err := scanWorkItem(row.Scan)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("work item %s: %w", id, secondary.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get work item: %w", err)
	}

	return record, nil
}

// ListByUser retrieves a user's work items ordered by stage priority, then
// most recently stage-updated first.
func (r *WorkItemRepository) ListByUser(ctx context.Context, userID string) ([]*secondary.WorkItemRecord, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+workItemColumns+` FROM work_items
		WHERE user_id = ?
		ORDER BY
			CASE current_stage
				WHEN 'manager_escalation' THEN 1
				WHEN 'week1_call' THEN 2
				WHEN 'day4_second_nudge' THEN 3
				WHEN 'day2_nudge' THEN 4
				WHEN 'active' THEN 5
				WHEN 'resolved' THEN 6
			END,
			stage_updated_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list work items: %w", err)
	}
	defer rows.Close()

	var items []*secondary.WorkItemRecord
	for rows.Next() {
		record, err := scanWorkItem(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan work item: %w", err)
		}
		items = append(items, record)
	}

	return items, rows.Err()
}

// Update edits the descriptive fields of a work item and stamps updated_at.
func (r *WorkItemRepository) Update(ctx context.Context, item *secondary.WorkItemRecord) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE work_items SET title = ?, description = ?, dependency_poc = ?, poc_email = ?, impact = ?, manager_name = ?, manager_email = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		item.Title, nullable(item.Description), item.DependencyPOC, nullable(item.POCEmail),
		nullable(item.Impact), nullable(item.ManagerName), nullable(item.ManagerEmail), item.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update work item: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("work item %s: %w", item.ID, secondary.ErrNotFound)
	}

	return nil
}

// Delete removes a work item; history, standups and reminders cascade.
func (r *WorkItemRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM work_items WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete work item: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("work item %s: %w", id, secondary.ErrNotFound)
	}

	return nil
}

// ApplyTransition atomically moves a work item to a new stage, records the
// history entry, and schedules the next reminder when one is given.
func (r *WorkItemRepository) ApplyTransition(ctx context.Context, req secondary.ApplyTransitionRequest) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	at := req.At.UTC()
	result, err := tx.ExecContext(ctx,
		"UPDATE work_items SET current_stage = ?, stage_updated_at = ?, updated_at = ? WHERE id = ?",
		req.ToStage, at, at, req.WorkItemID,
	)
	if err != nil {
		return fmt.Errorf("failed to update work item stage: %w", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("work item %s: %w", req.WorkItemID, secondary.ErrNotFound)
	}

	if err := insertHistory(ctx, tx, req.History, at); err != nil {
		return err
	}

	if err := insertReminder(ctx, tx, req.Reminder); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit stage transition: %w", err)
	}

	return nil
}

// Resolve atomically marks a work item resolved, records the history entry,
// and deletes the item's unsent reminders.
func (r *WorkItemRepository) Resolve(ctx context.Context, workItemID string, at time.Time, history *secondary.HistoryRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stamp := at.UTC()
	result, err := tx.ExecContext(ctx,
		"UPDATE work_items SET current_stage = 'resolved', stage_updated_at = ?, resolved_at = ?, updated_at = ? WHERE id = ?",
		stamp, stamp, stamp, workItemID,
	)
	if err != nil {
		return fmt.Errorf("failed to resolve work item: %w", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("work item %s: %w", workItemID, secondary.ErrNotFound)
	}

	if err := insertHistory(ctx, tx, history, stamp); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM reminders WHERE work_item_id = ? AND sent = 0", workItemID); err != nil {
		return fmt.Errorf("failed to cancel pending reminders: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit resolution: %w", err)
	}

	return nil
}

// CountUnresolvedByUser returns how many of a user's items are not resolved.
func (r *WorkItemRepository) CountUnresolvedByUser(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM work_items WHERE user_id = ? AND current_stage != 'resolved'",
		userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count unresolved work items: %w", err)
	}
	return count, nil
}

// UserExists checks if a user exists.
func (r *WorkItemRepository) UserExists(ctx context.Context, userID string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users WHERE id = ?", userID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}
	return count > 0, nil
}

// GetNextID returns the next available work item ID.
func (r *WorkItemRepository) GetNextID(ctx context.Context) (string, error) {
	var maxID int
	prefixLen := len("WI-") + 1
	err := r.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT COALESCE(MAX(CAST(SUBSTR(id, %d) AS INTEGER)), 0) FROM work_items", prefixLen),
	).Scan(&maxID)
	if err != nil {
		return "", fmt.Errorf("failed to get next work item ID: %w", err)
	}

	return fmt.Sprintf("WI-%03d", maxID+1), nil
}

// scanWorkItem scans one work item row via the given Scan function.
func scanWorkItem(scan func(dest ...any) error) (*secondary.WorkItemRecord, error) {
	var (
		description    sql.NullString
		pocEmail       sql.NullString
		impact         sql.NullString
		managerName    sql.NullString
		managerEmail   sql.NullString
		createdAt      time.Time
		updatedAt      time.Time
		stageUpdatedAt time.Time
		resolvedAt     sql.NullTime
	)

	record := &secondary.WorkItemRecord{}
	err := scan(
		&record.ID, &record.UserID, &record.Title, &description, &record.DependencyPOC, &pocEmail,
		&record.CurrentStage, &impact, &managerName, &managerEmail,
		&createdAt, &updatedAt, &stageUpdatedAt, &resolvedAt,
	)
	if err != nil {
		return nil, err
	}

	record.Description = description.String
	record.POCEmail = pocEmail.String
	record.Impact = impact.String
	record.ManagerName = managerName.String
	record.ManagerEmail = managerEmail.String
	record.CreatedAt = createdAt.Format(time.RFC3339)
	record.UpdatedAt = updatedAt.Format(time.RFC3339)
	record.StageUpdatedAt = stageUpdatedAt.Format(time.RFC3339)
	if resolvedAt.Valid {
		record.ResolvedAt = resolvedAt.Time.Format(time.RFC3339)
	}

	return record, nil
}

// insertHistory inserts one history entry inside a transaction. A zero `at`
// leaves the timestamp to the column default.
func insertHistory(ctx context.Context, tx *sql.Tx, history *secondary.HistoryRecord, at time.Time) error {
	var fromStage sql.NullString
	if history.FromStage != "" {
		fromStage = sql.NullString{String: history.FromStage, Valid: true}
	}

	var err error
	if at.IsZero() {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO escalation_history (id, work_item_id, from_stage, to_stage, action_taken, notes) VALUES (?, ?, ?, ?, ?, ?)",
			history.ID, history.WorkItemID, fromStage, history.ToStage, history.ActionTaken, nullable(history.Notes),
		)
	} else {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO escalation_history (id, work_item_id, from_stage, to_stage, action_taken, notes, timestamp) VALUES (?, ?, ?, ?, ?, ?, ?)",
			history.ID, history.WorkItemID, fromStage, history.ToStage, history.ActionTaken, nullable(history.Notes), at,
		)
	}
	if err != nil {
		return fmt.Errorf("failed to insert history entry: %w", err)
	}

	return nil
}

// insertReminder inserts one reminder inside a transaction; nil is a no-op.
func insertReminder(ctx context.Context, tx *sql.Tx, reminder *secondary.ReminderRecord) error {
	if reminder == nil {
		return nil
	}

	_, err := tx.ExecContext(ctx,
		"INSERT INTO reminders (id, work_item_id, reminder_type, scheduled_for) VALUES (?, ?, ?, ?)",
		reminder.ID, reminder.WorkItemID, reminder.Kind, reminder.ScheduledFor.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert reminder: %w", err)
	}

	return nil
}

// nullable maps an empty string to NULL.
func nullable(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// Ensure WorkItemRepository implements the interface
var _ secondary.WorkItemRepository = (*WorkItemRepository)(nil)
