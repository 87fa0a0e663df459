package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/dheerajjha/escalator/internal/ports/primary"
	"github.com/dheerajjha/escalator/internal/ports/secondary"
)

// WorkItemServiceImpl implements the WorkItemService interface.
type WorkItemServiceImpl struct {
	workItemRepo secondary.WorkItemRepository
	historyRepo  secondary.HistoryRepository
	standupRepo  secondary.StandupRepository
}

// NewWorkItemService creates a new WorkItemService with injected dependencies.
func NewWorkItemService(
	workItemRepo secondary.WorkItemRepository,
	historyRepo secondary.HistoryRepository,
	standupRepo secondary.StandupRepository,
) *WorkItemServiceImpl {
	return &WorkItemServiceImpl{
		workItemRepo: workItemRepo,
		historyRepo:  historyRepo,
		standupRepo:  standupRepo,
	}
}

// GetWorkItem retrieves a work item with its full escalation history and
// standup updates.
func (s *WorkItemServiceImpl) GetWorkItem(ctx context.Context, workItemID string) (*primary.WorkItemDetail, error) {
	record, err := s.workItemRepo.GetByID(ctx, workItemID)
	if err != nil {
		if errors.Is(err, secondary.ErrNotFound) {
			return nil, fmt.Errorf("work item %s: %w", workItemID, primary.ErrNotFound)
		}
		return nil, err
	}

	historyRecords, err := s.historyRepo.ListByWorkItem(ctx, workItemID)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	standupRecords, err := s.standupRepo.ListByWorkItem(ctx, workItemID)
	if err != nil {
		return nil, fmt.Errorf("failed to list standup updates: %w", err)
	}

	detail := &primary.WorkItemDetail{
		WorkItem: *recordToWorkItem(record),
		History:  make([]*primary.HistoryEntry, len(historyRecords)),
		Standups: make([]*primary.StandupUpdate, len(standupRecords)),
	}
	for i, h := range historyRecords {
		detail.History[i] = recordToHistoryEntry(h)
	}
	for i, su := range standupRecords {
		detail.Standups[i] = recordToStandupUpdate(su)
	}
	return detail, nil
}

// ListWorkItems lists a user's work items ordered by stage severity, most
// escalated first. An unknown user yields an empty list.
func (s *WorkItemServiceImpl) ListWorkItems(ctx context.Context, userID string) ([]*primary.WorkItem, error) {
	records, err := s.workItemRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list work items: %w", err)
	}

	items := make([]*primary.WorkItem, len(records))
	for i, r := range records {
		items[i] = recordToWorkItem(r)
	}
	return items, nil
}

// UpdateWorkItem edits the descriptive fields of a work item. Empty request
// fields are left unchanged. Stage and resolution are not touched here; those
// move only through Escalate and Resolve.
func (s *WorkItemServiceImpl) UpdateWorkItem(ctx context.Context, req primary.UpdateWorkItemRequest) (*primary.WorkItem, error) {
	if req.WorkItemID == "" {
		return nil, fmt.Errorf("work item ID is required: %w", primary.ErrValidation)
	}

	record, err := s.workItemRepo.GetByID(ctx, req.WorkItemID)
	if err != nil {
		if errors.Is(err, secondary.ErrNotFound) {
			return nil, fmt.Errorf("work item %s: %w", req.WorkItemID, primary.ErrNotFound)
		}
		return nil, err
	}

	if req.Title != "" {
		record.Title = req.Title
	}
	if req.Description != "" {
		record.Description = req.Description
	}
	if req.DependencyPOC != "" {
		record.DependencyPOC = req.DependencyPOC
	}
	if req.POCEmail != "" {
		record.POCEmail = req.POCEmail
	}
	if req.Impact != "" {
		record.Impact = req.Impact
	}
	if req.ManagerName != "" {
		record.ManagerName = req.ManagerName
	}
	if req.ManagerEmail != "" {
		record.ManagerEmail = req.ManagerEmail
	}

	if err := s.workItemRepo.Update(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to update work item: %w", err)
	}

	updated, err := s.workItemRepo.GetByID(ctx, req.WorkItemID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch updated work item: %w", err)
	}
	return recordToWorkItem(updated), nil
}

// DeleteWorkItem removes a work item. History, standup updates, and reminders
// go with it via cascade.
func (s *WorkItemServiceImpl) DeleteWorkItem(ctx context.Context, workItemID string) error {
	if err := s.workItemRepo.Delete(ctx, workItemID); err != nil {
		if errors.Is(err, secondary.ErrNotFound) {
			return fmt.Errorf("work item %s: %w", workItemID, primary.ErrNotFound)
		}
		return err
	}
	return nil
}

// Ensure WorkItemServiceImpl implements the interface
var _ primary.WorkItemService = (*WorkItemServiceImpl)(nil)
