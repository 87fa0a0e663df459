package primary

import (
	"context"

	"github.com/dheerajjha/escalator/internal/core/stage"
)

// WorkItemService defines the primary port for work item reads and edits.
// Creation, escalation and resolution live on EscalationService because they
// drive the stage machine.
type WorkItemService interface {
	// GetWorkItem retrieves a work item with its history and standups embedded.
	GetWorkItem(ctx context.Context, workItemID string) (*WorkItemDetail, error)

	// ListWorkItems lists a user's work items ordered by stage priority
	// (most escalated first), then stage-update time descending.
	ListWorkItems(ctx context.Context, userID string) ([]*WorkItem, error)

	// UpdateWorkItem edits the descriptive fields of a work item. Stage and
	// lifecycle timestamps are untouched.
	UpdateWorkItem(ctx context.Context, req UpdateWorkItemRequest) (*WorkItem, error)

	// DeleteWorkItem removes a work item, cascading to its history, standups
	// and reminders.
	DeleteWorkItem(ctx context.Context, workItemID string) error
}

// WorkItem represents a tracked blocker at the port boundary.
type WorkItem struct {
	ID             string
	UserID         string
	Title          string
	Description    string
	DependencyPOC  string
	POCEmail       string
	CurrentStage   stage.Stage
	Impact         string
	ManagerName    string
	ManagerEmail   string
	CreatedAt      string
	UpdatedAt      string
	StageUpdatedAt string
	ResolvedAt     string // empty unless resolved
}

// WorkItemDetail is a work item with its audit trail and standups embedded.
type WorkItemDetail struct {
	WorkItem
	History  []*HistoryEntry
	Standups []*StandupUpdate
}

// UpdateWorkItemRequest contains the editable fields of a work item.
type UpdateWorkItemRequest struct {
	WorkItemID    string
	Title         string
	Description   string
	DependencyPOC string
	POCEmail      string
	Impact        string
	ManagerName   string
	ManagerEmail  string
}
