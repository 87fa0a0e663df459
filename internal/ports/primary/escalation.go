package primary

import (
	"context"

	"github.com/dheerajjha/escalator/internal/core/stage"
)

// EscalationService defines the primary port for the operations that drive
// the stage machine: creating a work item, advancing it, and resolving it.
type EscalationService interface {
	// CreateWorkItem inserts a work item in the active stage, records the
	// creation history entry, and schedules the first nudge reminder.
	CreateWorkItem(ctx context.Context, req CreateWorkItemRequest) (*WorkItem, error)

	// Escalate advances a work item to its next stage, appends a history
	// entry, and schedules the next reminder (when the new stage has one).
	Escalate(ctx context.Context, workItemID, notes string) (*WorkItem, error)

	// Resolve marks a work item resolved, appends a history entry, and
	// cancels all unsent reminders. Resolving an already-resolved item is a
	// no-op returning the item unchanged.
	Resolve(ctx context.Context, workItemID, notes string) (*WorkItem, error)

	// GetHistory returns a work item's stage transitions, newest first.
	GetHistory(ctx context.Context, workItemID string) ([]*HistoryEntry, error)

	// ListPendingReminders returns all unsent reminders for unresolved items,
	// earliest due first.
	ListPendingReminders(ctx context.Context) ([]*PendingReminder, error)
}

// CreateWorkItemRequest contains the data needed to create a work item.
type CreateWorkItemRequest struct {
	UserID        string
	Title         string
	Description   string
	DependencyPOC string
	POCEmail      string
	Impact        string
	ManagerName   string
	ManagerEmail  string
}

// HistoryEntry represents one recorded stage transition.
type HistoryEntry struct {
	ID          string
	WorkItemID  string
	FromStage   stage.Stage // empty for the creation entry
	ToStage     stage.Stage
	ActionTaken string
	Notes       string
	Timestamp   string
}

// PendingReminder is an unsent reminder joined with its work item's context.
type PendingReminder struct {
	ID            string
	WorkItemID    string
	Kind          stage.ReminderKind
	ScheduledFor  string
	Title         string
	DependencyPOC string
	CurrentStage  stage.Stage
}
