package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dheerajjha/escalator/internal/ports/secondary"
)

// HistoryRepository implements secondary.HistoryRepository with SQLite.
// History rows are written only inside WorkItemRepository's transactions;
// this repository only reads them and allocates ids.
type HistoryRepository struct {
	db *sql.DB
}

// NewHistoryRepository creates a new SQLite history repository.
func NewHistoryRepository(db *sql.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// ListByWorkItem retrieves a work item's history entries, newest first.
func (r *HistoryRepository) ListByWorkItem(ctx context.Context, workItemID string) ([]*secondary.HistoryRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, work_item_id, from_stage, to_stage, action_taken, notes, timestamp FROM escalation_history WHERE work_item_id = ? ORDER BY timestamp DESC, id DESC",
		workItemID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	defer rows.Close()

	var entries []*secondary.HistoryRecord
	for rows.Next() {
		var (
			fromStage sql.NullString
			notes     sql.NullString
			timestamp time.Time
		)

		record := &secondary.HistoryRecord{}
		if err := rows.Scan(&record.ID, &record.WorkItemID, &fromStage, &record.ToStage, &record.ActionTaken, &notes, &timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		record.FromStage = fromStage.String
		record.Notes = notes.String
		record.Timestamp = timestamp.Format(time.RFC3339)

		entries = append(entries, record)
	}

	return entries, rows.Err()
}

// GetNextID returns the next available history entry ID.
func (r *HistoryRepository) GetNextID(ctx context.Context) (string, error) {
	var maxID int
	prefixLen := len("HIST-") + 1
	err := r.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT COALESCE(MAX(CAST(SUBSTR(id, %d) AS INTEGER)), 0) FROM escalation_history", prefixLen),
	).Scan(&maxID)
	if err != nil {
		return "", fmt.Errorf("failed to get next history ID: %w", err)
	}

	return fmt.Sprintf("HIST-%03d", maxID+1), nil
}

// Ensure HistoryRepository implements the interface
var _ secondary.HistoryRepository = (*HistoryRepository)(nil)
