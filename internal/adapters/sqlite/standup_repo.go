package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dheerajjha/escalator/internal/ports/secondary"
)

// StandupRepository implements secondary.StandupRepository with SQLite.
type StandupRepository struct {
	db *sql.DB
}

// NewStandupRepository creates a new SQLite standup repository.
func NewStandupRepository(db *sql.DB) *StandupRepository {
	return &StandupRepository{db: db}
}

// Create persists a new standup update.
func (r *StandupRepository) Create(ctx context.Context, update *secondary.StandupRecord) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO standup_updates (id, work_item_id, update_text, date) VALUES (?, ?, ?, ?)",
		update.ID, update.WorkItemID, update.UpdateText, update.Date,
	)
	if err != nil {
		return fmt.Errorf("failed to create standup update: %w", err)
	}

	return nil
}

// GetByID retrieves a standup update by its ID.
func (r *StandupRepository) GetByID(ctx context.Context, id string) (*secondary.StandupRecord, error) {
	var (
		date      time.Time
		createdAt time.Time
	)

	record := &secondary.StandupRecord{}
	err := r.db.QueryRowContext(ctx,
		"SELECT id, work_item_id, update_text, date, created_at FROM standup_updates WHERE id = ?",
		id,
	).Scan(&record.ID, &record.WorkItemID, &record.UpdateText, &date, &createdAt)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("standup update %s: %w", id, secondary.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get standup update: %w", err)
	}
	record.Date = date.Format("2006-01-02")
	record.CreatedAt = createdAt.Format(time.RFC3339)

	return record, nil
}

// ListByWorkItem retrieves a work item's updates, newest date first.
func (r *StandupRepository) ListByWorkItem(ctx context.Context, workItemID string) ([]*secondary.StandupRecord, error) {
	return r.list(ctx,
		"SELECT s.id, s.work_item_id, '', s.update_text, s.date, s.created_at FROM standup_updates s WHERE s.work_item_id = ? ORDER BY s.date DESC, s.created_at DESC",
		workItemID,
	)
}

// ListByUser retrieves all updates across a user's work items.
func (r *StandupRepository) ListByUser(ctx context.Context, userID string) ([]*secondary.StandupRecord, error) {
	return r.list(ctx,
		`SELECT s.id, s.work_item_id, w.title, s.update_text, s.date, s.created_at
		FROM standup_updates s
		JOIN work_items w ON s.work_item_id = w.id
		WHERE w.user_id = ?
		ORDER BY s.date DESC, s.created_at DESC`,
		userID,
	)
}

// ListByDate retrieves updates for a calendar date, optionally filtered to a
// single user.
func (r *StandupRepository) ListByDate(ctx context.Context, date, userID string) ([]*secondary.StandupRecord, error) {
	query := `SELECT s.id, s.work_item_id, w.title, s.update_text, s.date, s.created_at
		FROM standup_updates s
		JOIN work_items w ON s.work_item_id = w.id
		WHERE s.date = ?`
	args := []any{date}

	if userID != "" {
		query += " AND w.user_id = ?"
		args = append(args, userID)
	}

	query += " ORDER BY s.created_at DESC"

	return r.list(ctx, query, args...)
}

func (r *StandupRepository) list(ctx context.Context, query string, args ...any) ([]*secondary.StandupRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list standup updates: %w", err)
	}
	defer rows.Close()

	var updates []*secondary.StandupRecord
	for rows.Next() {
		var (
			date      time.Time
			createdAt time.Time
		)

		record := &secondary.StandupRecord{}
		if err := rows.Scan(&record.ID, &record.WorkItemID, &record.WorkItemTitle, &record.UpdateText, &date, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan standup update: %w", err)
		}
		record.Date = date.Format("2006-01-02")
		record.CreatedAt = createdAt.Format(time.RFC3339)

		updates = append(updates, record)
	}

	return updates, rows.Err()
}

// Delete removes a standup update.
func (r *StandupRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM standup_updates WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete standup update: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("standup update %s: %w", id, secondary.ErrNotFound)
	}

	return nil
}

// WorkItemExists checks if a work item exists.
func (r *StandupRepository) WorkItemExists(ctx context.Context, workItemID string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM work_items WHERE id = ?", workItemID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check work item existence: %w", err)
	}
	return count > 0, nil
}

// GetNextID returns the next available standup update ID.
func (r *StandupRepository) GetNextID(ctx context.Context) (string, error) {
	var maxID int
	prefixLen := len("SU-") + 1
	err := r.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT COALESCE(MAX(CAST(SUBSTR(id, %d) AS INTEGER)), 0) FROM standup_updates", prefixLen),
	).Scan(&maxID)
	if err != nil {
		return "", fmt.Errorf("failed to get next standup ID: %w", err)
	}

	return fmt.Sprintf("SU-%03d", maxID+1), nil
}

// Ensure StandupRepository implements the interface
var _ secondary.StandupRepository = (*StandupRepository)(nil)
