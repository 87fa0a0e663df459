// Package secondary defines the secondary ports (driven adapters) for the
// application. These are the interfaces through which the application drives
// external systems.
package secondary

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by repositories when an id does not resolve to a
// row. Adapters wrap it with context; services classify with errors.Is.
var ErrNotFound = errors.New("record not found")

// UserRepository defines the secondary port for user persistence.
type UserRepository interface {
	// Create persists a new user.
	Create(ctx context.Context, user *UserRecord) error

	// GetByID retrieves a user by its ID.
	GetByID(ctx context.Context, id string) (*UserRecord, error)

	// GetByDisplayName retrieves a user by display name, for the onboarding
	// upsert. Returns ErrNotFound when no user matches.
	GetByDisplayName(ctx context.Context, displayName string) (*UserRecord, error)

	// List retrieves all users, newest first.
	List(ctx context.Context) ([]*UserRecord, error)

	// UpdateDeviceToken sets (or clears) a user's push notification token.
	UpdateDeviceToken(ctx context.Context, id, token string) error

	// ListWithDeviceTokens retrieves users that have a registered token.
	ListWithDeviceTokens(ctx context.Context) ([]*UserRecord, error)

	// GetNextID returns the next available user ID.
	GetNextID(ctx context.Context) (string, error)
}

// UserRecord represents a user as stored in persistence.
type UserRecord struct {
	ID          string
	Username    string
	DisplayName string
	Role        string
	DeviceToken string
	CreatedAt   string
}

// WorkItemRepository defines the secondary port for work item persistence.
// The compound methods (Create, ApplyTransition, Resolve) execute their
// multi-statement writes in a single transaction so readers never observe a
// stage change without its history entry or reminder bookkeeping.
type WorkItemRepository interface {
	// Create persists a work item together with its creation history entry
	// and first reminder, atomically.
	Create(ctx context.Context, item *WorkItemRecord, history *HistoryRecord, reminder *ReminderRecord) error

	// GetByID retrieves a work item by its ID.
	GetByID(ctx context.Context, id string) (*WorkItemRecord, error)

	// ListByUser retrieves a user's work items ordered by stage priority
	// (manager_escalation first, resolved last), then stage_updated_at DESC.
	ListByUser(ctx context.Context, userID string) ([]*WorkItemRecord, error)

	// Update edits descriptive fields and stamps updated_at.
	Update(ctx context.Context, item *WorkItemRecord) error

	// Delete removes a work item; history, standups and reminders cascade.
	Delete(ctx context.Context, id string) error

	// ApplyTransition atomically moves a work item to a new stage, stamps
	// stage_updated_at and updated_at, inserts the history entry, and inserts
	// the next reminder when one is given.
	ApplyTransition(ctx context.Context, req ApplyTransitionRequest) error

	// Resolve atomically marks a work item resolved (stage, stage_updated_at,
	// resolved_at, updated_at), inserts the history entry, and deletes the
	// item's unsent reminders.
	Resolve(ctx context.Context, workItemID string, at time.Time, history *HistoryRecord) error

	// CountUnresolvedByUser returns how many of a user's items are not resolved.
	CountUnresolvedByUser(ctx context.Context, userID string) (int, error)

	// UserExists checks if a user exists (for creation validation).
	UserExists(ctx context.Context, userID string) (bool, error)

	// GetNextID returns the next available work item ID.
	GetNextID(ctx context.Context) (string, error)
}

// WorkItemRecord represents a work item as stored in persistence.
type WorkItemRecord struct {
	ID             string
	UserID         string
	Title          string
	Description    string
	DependencyPOC  string
	POCEmail       string
	CurrentStage   string
	Impact         string
	ManagerName    string
	ManagerEmail   string
	CreatedAt      string
	UpdatedAt      string
	StageUpdatedAt string
	ResolvedAt     string
}

// ApplyTransitionRequest carries one atomic stage transition.
type ApplyTransitionRequest struct {
	WorkItemID string
	ToStage    string
	At         time.Time
	History    *HistoryRecord
	Reminder   *ReminderRecord // nil when the new stage schedules nothing
}

// HistoryRepository defines the secondary port for escalation history reads.
// Writes happen only inside WorkItemRepository's compound methods.
type HistoryRepository interface {
	// ListByWorkItem retrieves a work item's history entries, newest first.
	ListByWorkItem(ctx context.Context, workItemID string) ([]*HistoryRecord, error)

	// GetNextID returns the next available history entry ID.
	GetNextID(ctx context.Context) (string, error)
}

// HistoryRecord represents a stage transition as stored in persistence.
type HistoryRecord struct {
	ID          string
	WorkItemID  string
	FromStage   string // empty for the creation entry
	ToStage     string
	ActionTaken string
	Notes       string
	Timestamp   string
}

// StandupRepository defines the secondary port for standup update persistence.
type StandupRepository interface {
	// Create persists a new standup update.
	Create(ctx context.Context, update *StandupRecord) error

	// GetByID retrieves a standup update by its ID.
	GetByID(ctx context.Context, id string) (*StandupRecord, error)

	// ListByWorkItem retrieves a work item's updates, newest date first.
	ListByWorkItem(ctx context.Context, workItemID string) ([]*StandupRecord, error)

	// ListByUser retrieves all updates across a user's work items, with the
	// work item title populated.
	ListByUser(ctx context.Context, userID string) ([]*StandupRecord, error)

	// ListByDate retrieves updates for a date, optionally filtered to a user.
	ListByDate(ctx context.Context, date, userID string) ([]*StandupRecord, error)

	// Delete removes a standup update.
	Delete(ctx context.Context, id string) error

	// WorkItemExists checks if a work item exists (for validation).
	WorkItemExists(ctx context.Context, workItemID string) (bool, error)

	// GetNextID returns the next available standup update ID.
	GetNextID(ctx context.Context) (string, error)
}

// StandupRecord represents a standup update as stored in persistence.
type StandupRecord struct {
	ID            string
	WorkItemID    string
	WorkItemTitle string // populated by the joined listings
	UpdateText    string
	Date          string
	CreatedAt     string
}

// ReminderRepository defines the secondary port for reminder persistence.
// Inserts and cancellation happen inside WorkItemRepository's compound
// methods; this port covers what the scheduler and dashboard read.
type ReminderRepository interface {
	// ListDue retrieves unsent reminders whose scheduled time is at or before
	// now and whose work item is not resolved, earliest first.
	ListDue(ctx context.Context, now time.Time) ([]*DueReminderRecord, error)

	// ListPending retrieves all unsent reminders for unresolved work items,
	// earliest first.
	ListPending(ctx context.Context) ([]*DueReminderRecord, error)

	// MarkSent flags a reminder sent and stamps sent_at.
	MarkSent(ctx context.Context, id string, at time.Time) error

	// GetNextID returns the next available reminder ID.
	GetNextID(ctx context.Context) (string, error)
}

// ReminderRecord represents a reminder row to insert.
type ReminderRecord struct {
	ID           string
	WorkItemID   string
	Kind         string
	ScheduledFor time.Time
}

// DueReminderRecord is a reminder joined with its work item's context, as the
// scheduler and the pending-reminders listing consume it.
type DueReminderRecord struct {
	ID            string
	WorkItemID    string
	Kind          string
	ScheduledFor  string
	Title         string
	DependencyPOC string
	UserID        string
	CurrentStage  string
}
