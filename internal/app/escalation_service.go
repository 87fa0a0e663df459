package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dheerajjha/escalator/internal/core/stage"
	"github.com/dheerajjha/escalator/internal/ports/primary"
	"github.com/dheerajjha/escalator/internal/ports/secondary"
)

// EscalationServiceImpl implements the EscalationService interface.
// It owns the escalation ladder: creating work items in the initial stage,
// advancing them on demand, and resolving them.
type EscalationServiceImpl struct {
	workItemRepo secondary.WorkItemRepository
	historyRepo  secondary.HistoryRepository
	reminderRepo secondary.ReminderRepository
	now          func() time.Time
}

// NewEscalationService creates a new EscalationService with injected dependencies.
func NewEscalationService(
	workItemRepo secondary.WorkItemRepository,
	historyRepo secondary.HistoryRepository,
	reminderRepo secondary.ReminderRepository,
) *EscalationServiceImpl {
	return NewEscalationServiceWithClock(workItemRepo, historyRepo, reminderRepo, time.Now)
}

// NewEscalationServiceWithClock creates an EscalationService with an explicit
// clock. Used by tests to pin reminder scheduling times.
func NewEscalationServiceWithClock(
	workItemRepo secondary.WorkItemRepository,
	historyRepo secondary.HistoryRepository,
	reminderRepo secondary.ReminderRepository,
	now func() time.Time,
) *EscalationServiceImpl {
	return &EscalationServiceImpl{
		workItemRepo: workItemRepo,
		historyRepo:  historyRepo,
		reminderRepo: reminderRepo,
		now:          now,
	}
}

// CreateWorkItem creates a work item in the initial stage, records the
// creation history entry, and schedules the first reminder. All three writes
// happen in one transaction.
func (s *EscalationServiceImpl) CreateWorkItem(ctx context.Context, req primary.CreateWorkItemRequest) (*primary.WorkItem, error) {
	if req.UserID == "" {
		return nil, fmt.Errorf("user ID is required: %w", primary.ErrValidation)
	}
	if req.Title == "" {
		return nil, fmt.Errorf("title is required: %w", primary.ErrValidation)
	}
	if req.DependencyPOC == "" {
		return nil, fmt.Errorf("dependency POC is required: %w", primary.ErrValidation)
	}

	exists, err := s.workItemRepo.UserExists(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to check user: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("user %s: %w", req.UserID, primary.ErrNotFound)
	}

	id, err := s.workItemRepo.GetNextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate work item ID: %w", err)
	}
	histID, err := s.historyRepo.GetNextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate history ID: %w", err)
	}
	remID, err := s.reminderRepo.GetNextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate reminder ID: %w", err)
	}

	tr := stage.Creation()

	item := &secondary.WorkItemRecord{
		ID:            id,
		UserID:        req.UserID,
		Title:         req.Title,
		Description:   req.Description,
		DependencyPOC: req.DependencyPOC,
		POCEmail:      req.POCEmail,
		CurrentStage:  string(tr.To),
		Impact:        req.Impact,
		ManagerName:   req.ManagerName,
		ManagerEmail:  req.ManagerEmail,
	}
	history := &secondary.HistoryRecord{
		ID:          histID,
		WorkItemID:  id,
		ToStage:     string(tr.To),
		ActionTaken: tr.Action,
		Notes:       req.Description,
	}
	reminder := &secondary.ReminderRecord{
		ID:           remID,
		WorkItemID:   id,
		Kind:         string(tr.Reminder.Kind),
		ScheduledFor: s.now().Add(tr.Reminder.Delay),
	}

	if err := s.workItemRepo.Create(ctx, item, history, reminder); err != nil {
		return nil, fmt.Errorf("failed to create work item: %w", err)
	}

	created, err := s.workItemRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch created work item: %w", err)
	}

	return recordToWorkItem(created), nil
}

// Escalate advances a work item to its next stage, records the transition,
// and schedules the follow-up reminder the new stage calls for.
func (s *EscalationServiceImpl) Escalate(ctx context.Context, workItemID, notes string) (*primary.WorkItem, error) {
	record, err := s.workItemRepo.GetByID(ctx, workItemID)
	if err != nil {
		if errors.Is(err, secondary.ErrNotFound) {
			return nil, fmt.Errorf("work item %s: %w", workItemID, primary.ErrNotFound)
		}
		return nil, err
	}

	current := stage.Stage(record.CurrentStage)
	tr, err := stage.Next(current)
	if err != nil {
		return nil, fmt.Errorf("work item %s in stage %s: %w", workItemID, current, primary.ErrInvalidState)
	}

	histID, err := s.historyRepo.GetNextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate history ID: %w", err)
	}

	var reminder *secondary.ReminderRecord
	if tr.Reminder != nil {
		remID, err := s.reminderRepo.GetNextID(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to generate reminder ID: %w", err)
		}
		reminder = &secondary.ReminderRecord{
			ID:           remID,
			WorkItemID:   workItemID,
			Kind:         string(tr.Reminder.Kind),
			ScheduledFor: s.now().Add(tr.Reminder.Delay),
		}
	}

	req := secondary.ApplyTransitionRequest{
		WorkItemID: workItemID,
		ToStage:    string(tr.To),
		At:         s.now(),
		History: &secondary.HistoryRecord{
			ID:          histID,
			WorkItemID:  workItemID,
			FromStage:   string(current),
			ToStage:     string(tr.To),
			ActionTaken: tr.Action,
			Notes:       notes,
		},
		Reminder: reminder,
	}
	if err := s.workItemRepo.ApplyTransition(ctx, req); err != nil {
		return nil, fmt.Errorf("failed to apply transition: %w", err)
	}

	updated, err := s.workItemRepo.GetByID(ctx, workItemID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch updated work item: %w", err)
	}

	return recordToWorkItem(updated), nil
}

// Resolve marks a work item resolved, records the terminal history entry, and
// cancels its unsent reminders. Resolving an already-resolved item is a no-op.
func (s *EscalationServiceImpl) Resolve(ctx context.Context, workItemID, notes string) (*primary.WorkItem, error) {
	record, err := s.workItemRepo.GetByID(ctx, workItemID)
	if err != nil {
		if errors.Is(err, secondary.ErrNotFound) {
			return nil, fmt.Errorf("work item %s: %w", workItemID, primary.ErrNotFound)
		}
		return nil, err
	}

	current := stage.Stage(record.CurrentStage)
	if current == stage.StageResolved {
		return recordToWorkItem(record), nil
	}

	histID, err := s.historyRepo.GetNextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate history ID: %w", err)
	}

	history := &secondary.HistoryRecord{
		ID:          histID,
		WorkItemID:  workItemID,
		FromStage:   string(current),
		ToStage:     string(stage.StageResolved),
		ActionTaken: "Marked as resolved",
		Notes:       notes,
	}
	if err := s.workItemRepo.Resolve(ctx, workItemID, s.now(), history); err != nil {
		return nil, fmt.Errorf("failed to resolve work item: %w", err)
	}

	resolved, err := s.workItemRepo.GetByID(ctx, workItemID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch resolved work item: %w", err)
	}

	return recordToWorkItem(resolved), nil
}

// GetHistory returns the escalation history for a work item, newest first.
func (s *EscalationServiceImpl) GetHistory(ctx context.Context, workItemID string) ([]*primary.HistoryEntry, error) {
	records, err := s.historyRepo.ListByWorkItem(ctx, workItemID)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}

	entries := make([]*primary.HistoryEntry, len(records))
	for i, r := range records {
		entries[i] = recordToHistoryEntry(r)
	}
	return entries, nil
}

// ListPendingReminders returns every unsent reminder joined with its work
// item, soonest first.
func (s *EscalationServiceImpl) ListPendingReminders(ctx context.Context) ([]*primary.PendingReminder, error) {
	records, err := s.reminderRepo.ListPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending reminders: %w", err)
	}

	reminders := make([]*primary.PendingReminder, len(records))
	for i, r := range records {
		reminders[i] = &primary.PendingReminder{
			ID:            r.ID,
			WorkItemID:    r.WorkItemID,
			Kind:          stage.ReminderKind(r.Kind),
			ScheduledFor:  r.ScheduledFor,
			Title:         r.Title,
			DependencyPOC: r.DependencyPOC,
			CurrentStage:  stage.Stage(r.CurrentStage),
		}
	}
	return reminders, nil
}

// Helper methods

func recordToWorkItem(r *secondary.WorkItemRecord) *primary.WorkItem {
	return &primary.WorkItem{
		ID:             r.ID,
		UserID:         r.UserID,
		Title:          r.Title,
		Description:    r.Description,
		DependencyPOC:  r.DependencyPOC,
		POCEmail:       r.POCEmail,
		CurrentStage:   stage.Stage(r.CurrentStage),
		Impact:         r.Impact,
		ManagerName:    r.ManagerName,
		ManagerEmail:   r.ManagerEmail,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
		StageUpdatedAt: r.StageUpdatedAt,
		ResolvedAt:     r.ResolvedAt,
	}
}

func recordToHistoryEntry(r *secondary.HistoryRecord) *primary.HistoryEntry {
	return &primary.HistoryEntry{
		ID:          r.ID,
		WorkItemID:  r.WorkItemID,
		FromStage:   stage.Stage(r.FromStage),
		ToStage:     stage.Stage(r.ToStage),
		ActionTaken: r.ActionTaken,
		Notes:       r.Notes,
		Timestamp:   r.Timestamp,
	}
}

// Ensure EscalationServiceImpl implements the interface
var _ primary.EscalationService = (*EscalationServiceImpl)(nil)
