package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dheerajjha/escalator/internal/ports/primary"
	"github.com/dheerajjha/escalator/internal/ports/secondary"
)

const standupDateLayout = "2006-01-02"

// StandupServiceImpl implements the StandupService interface.
type StandupServiceImpl struct {
	standupRepo secondary.StandupRepository
	now         func() time.Time
}

// NewStandupService creates a new StandupService with injected dependencies.
func NewStandupService(standupRepo secondary.StandupRepository) *StandupServiceImpl {
	return NewStandupServiceWithClock(standupRepo, time.Now)
}

// NewStandupServiceWithClock creates a StandupService with an explicit clock.
func NewStandupServiceWithClock(standupRepo secondary.StandupRepository, now func() time.Time) *StandupServiceImpl {
	return &StandupServiceImpl{standupRepo: standupRepo, now: now}
}

// AddUpdate records a standup note against a work item. The date defaults to
// today when omitted.
func (s *StandupServiceImpl) AddUpdate(ctx context.Context, req primary.AddStandupRequest) (*primary.StandupUpdate, error) {
	if req.WorkItemID == "" {
		return nil, fmt.Errorf("work item ID is required: %w", primary.ErrValidation)
	}
	if req.UpdateText == "" {
		return nil, fmt.Errorf("update text is required: %w", primary.ErrValidation)
	}

	date := req.Date
	if date == "" {
		date = s.now().Format(standupDateLayout)
	} else if _, err := time.Parse(standupDateLayout, date); err != nil {
		return nil, fmt.Errorf("invalid date %q, want YYYY-MM-DD: %w", date, primary.ErrValidation)
	}

	exists, err := s.standupRepo.WorkItemExists(ctx, req.WorkItemID)
	if err != nil {
		return nil, fmt.Errorf("failed to check work item: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("work item %s: %w", req.WorkItemID, primary.ErrNotFound)
	}

	id, err := s.standupRepo.GetNextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate standup ID: %w", err)
	}

	record := &secondary.StandupRecord{
		ID:         id,
		WorkItemID: req.WorkItemID,
		UpdateText: req.UpdateText,
		Date:       date,
	}
	if err := s.standupRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create standup update: %w", err)
	}

	created, err := s.standupRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch created standup update: %w", err)
	}
	return recordToStandupUpdate(created), nil
}

// ListByWorkItem returns the standup updates for a work item, newest first.
func (s *StandupServiceImpl) ListByWorkItem(ctx context.Context, workItemID string) ([]*primary.StandupUpdate, error) {
	records, err := s.standupRepo.ListByWorkItem(ctx, workItemID)
	if err != nil {
		return nil, fmt.Errorf("failed to list standup updates: %w", err)
	}
	return recordsToStandupUpdates(records), nil
}

// ListByUser returns a user's standup updates across all their work items.
func (s *StandupServiceImpl) ListByUser(ctx context.Context, userID string) ([]*primary.StandupUpdate, error) {
	records, err := s.standupRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list standup updates: %w", err)
	}
	return recordsToStandupUpdates(records), nil
}

// ListByDate returns the standup updates for a date, optionally filtered to
// one user. This backs the daily standup report.
func (s *StandupServiceImpl) ListByDate(ctx context.Context, date, userID string) ([]*primary.StandupUpdate, error) {
	if _, err := time.Parse(standupDateLayout, date); err != nil {
		return nil, fmt.Errorf("invalid date %q, want YYYY-MM-DD: %w", date, primary.ErrValidation)
	}

	records, err := s.standupRepo.ListByDate(ctx, date, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list standup updates: %w", err)
	}
	return recordsToStandupUpdates(records), nil
}

// DeleteUpdate removes a standup update.
func (s *StandupServiceImpl) DeleteUpdate(ctx context.Context, updateID string) error {
	if err := s.standupRepo.Delete(ctx, updateID); err != nil {
		if errors.Is(err, secondary.ErrNotFound) {
			return fmt.Errorf("standup update %s: %w", updateID, primary.ErrNotFound)
		}
		return err
	}
	return nil
}

// Helper methods

func recordToStandupUpdate(r *secondary.StandupRecord) *primary.StandupUpdate {
	return &primary.StandupUpdate{
		ID:            r.ID,
		WorkItemID:    r.WorkItemID,
		WorkItemTitle: r.WorkItemTitle,
		UpdateText:    r.UpdateText,
		Date:          r.Date,
		CreatedAt:     r.CreatedAt,
	}
}

func recordsToStandupUpdates(records []*secondary.StandupRecord) []*primary.StandupUpdate {
	updates := make([]*primary.StandupUpdate, len(records))
	for i, r := range records {
		updates[i] = recordToStandupUpdate(r)
	}
	return updates
}

// Ensure StandupServiceImpl implements the interface
var _ primary.StandupService = (*StandupServiceImpl)(nil)
