package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dheerajjha/escalator/internal/ports/secondary"
)

// ReminderRepository implements secondary.ReminderRepository with SQLite.
// Inserts and cancellation happen inside WorkItemRepository's transactions;
// this repository serves the scheduler's sweep and the pending listing.
type ReminderRepository struct {
	db *sql.DB
}

// NewReminderRepository creates a new SQLite reminder repository.
func NewReminderRepository(db *sql.DB) *ReminderRepository {
	return &ReminderRepository{db: db}
}

const dueReminderQuery = `SELECT r.id, r.work_item_id, r.reminder_type, r.scheduled_for, w.title, w.dependency_poc, w.user_id, w.current_stage
	FROM reminders r
	JOIN work_items w ON r.work_item_id = w.id
	WHERE r.sent = 0 AND w.current_stage != 'resolved'`

// ListDue retrieves unsent reminders due at or before now for unresolved
// items, earliest first. Oldest-first ordering means a sweep interrupted
// mid-batch re-processes the most overdue reminders first on retry.
func (r *ReminderRepository) ListDue(ctx context.Context, now time.Time) ([]*secondary.DueReminderRecord, error) {
	return r.list(ctx, dueReminderQuery+" AND r.scheduled_for <= ? ORDER BY r.scheduled_for ASC", now.UTC())
}

// ListPending retrieves all unsent reminders for unresolved items, earliest
// first.
func (r *ReminderRepository) ListPending(ctx context.Context) ([]*secondary.DueReminderRecord, error) {
	return r.list(ctx, dueReminderQuery+" ORDER BY r.scheduled_for ASC")
}

func (r *ReminderRepository) list(ctx context.Context, query string, args ...any) ([]*secondary.DueReminderRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list reminders: %w", err)
	}
	defer rows.Close()

	var reminders []*secondary.DueReminderRecord
	for rows.Next() {
		var scheduledFor time.Time

		record := &secondary.DueReminderRecord{}
		err := rows.Scan(&record.ID, &record.WorkItemID, &record.Kind, &scheduledFor,
			&record.Title, &record.DependencyPOC, &record.UserID, &record.CurrentStage)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reminder: %w", err)
		}
		record.ScheduledFor = scheduledFor.Format(time.RFC3339)

		reminders = append(reminders, record)
	}

	return reminders, rows.Err()
}

// MarkSent flags a reminder sent and stamps sent_at.
func (r *ReminderRepository) MarkSent(ctx context.Context, id string, at time.Time) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE reminders SET sent = 1, sent_at = ? WHERE id = ?",
		at.UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to mark reminder sent: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("reminder %s: %w", id, secondary.ErrNotFound)
	}

	return nil
}

// GetNextID returns the next available reminder ID.
func (r *ReminderRepository) GetNextID(ctx context.Context) (string, error) {
	var maxID int
	prefixLen := len("REM-") + 1
	err := r.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT COALESCE(MAX(CAST(SUBSTR(id, %d) AS INTEGER)), 0) FROM reminders", prefixLen),
	).Scan(&maxID)
	if err != nil {
		return "", fmt.Errorf("failed to get next reminder ID: %w", err)
	}

	return fmt.Sprintf("REM-%03d", maxID+1), nil
}

// Ensure ReminderRepository implements the interface
var _ secondary.ReminderRepository = (*ReminderRepository)(nil)
