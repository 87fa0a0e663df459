package primary

import "context"

// StandupService defines the primary port for standup update operations.
type StandupService interface {
	// AddUpdate records a standup update for a work item. Date defaults to
	// today when empty.
	AddUpdate(ctx context.Context, req AddStandupRequest) (*StandupUpdate, error)

	// ListByWorkItem returns a work item's updates, newest date first.
	ListByWorkItem(ctx context.Context, workItemID string) ([]*StandupUpdate, error)

	// ListByUser returns all updates across a user's work items.
	ListByUser(ctx context.Context, userID string) ([]*StandupUpdate, error)

	// ListByDate returns updates for a calendar date (YYYY-MM-DD), optionally
	// filtered to one user.
	ListByDate(ctx context.Context, date, userID string) ([]*StandupUpdate, error)

	// DeleteUpdate removes a single standup update.
	DeleteUpdate(ctx context.Context, updateID string) error
}

// StandupUpdate represents a dated progress note at the port boundary.
type StandupUpdate struct {
	ID            string
	WorkItemID    string
	WorkItemTitle string // populated by the cross-item listings
	UpdateText    string
	Date          string // YYYY-MM-DD
	CreatedAt     string
}

// AddStandupRequest contains the data needed to record a standup update.
type AddStandupRequest struct {
	WorkItemID string
	UpdateText string
	Date       string // YYYY-MM-DD, defaults to today
}
