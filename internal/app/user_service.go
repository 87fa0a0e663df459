package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/dheerajjha/escalator/internal/ports/primary"
	"github.com/dheerajjha/escalator/internal/ports/secondary"
)

// UserServiceImpl implements the UserService interface.
type UserServiceImpl struct {
	userRepo secondary.UserRepository
}

// NewUserService creates a new UserService with injected dependencies.
func NewUserService(userRepo secondary.UserRepository) *UserServiceImpl {
	return &UserServiceImpl{userRepo: userRepo}
}

// Onboard creates a user for the display name, or returns the existing user
// when one with that display name already exists (no duplicate creation).
func (s *UserServiceImpl) Onboard(ctx context.Context, req primary.OnboardRequest) (*primary.User, error) {
	displayName := strings.TrimSpace(req.DisplayName)
	if displayName == "" {
		return nil, fmt.Errorf("display name is required: %w", primary.ErrValidation)
	}

	role := req.Role
	if role == "" {
		role = primary.RoleSenior
	}
	switch role {
	case primary.RoleJunior, primary.RoleSenior, primary.RolePrincipal:
	default:
		return nil, fmt.Errorf("invalid role %q: %w", role, primary.ErrValidation)
	}

	// Upsert by display name: a second onboarding with the same display name
	// returns the existing record untouched.
	existing, err := s.userRepo.GetByDisplayName(ctx, displayName)
	if err == nil {
		return s.recordToUser(existing), nil
	}
	if !errors.Is(err, secondary.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up display name: %w", err)
	}

	id, err := s.userRepo.GetNextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate user ID: %w", err)
	}

	record := &secondary.UserRecord{
		ID:          id,
		Username:    deriveUsername(displayName),
		DisplayName: displayName,
		Role:        role,
	}
	if err := s.userRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	created, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch created user: %w", err)
	}

	return s.recordToUser(created), nil
}

// GetUser retrieves a user by ID.
func (s *UserServiceImpl) GetUser(ctx context.Context, userID string) (*primary.User, error) {
	record, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, secondary.ErrNotFound) {
			return nil, fmt.Errorf("user %s: %w", userID, primary.ErrNotFound)
		}
		return nil, err
	}
	return s.recordToUser(record), nil
}

// ListUsers lists all users, newest first.
func (s *UserServiceImpl) ListUsers(ctx context.Context) ([]*primary.User, error) {
	records, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	users := make([]*primary.User, len(records))
	for i, r := range records {
		users[i] = s.recordToUser(r)
	}
	return users, nil
}

// SetDeviceToken registers (or clears) a user's push notification token.
func (s *UserServiceImpl) SetDeviceToken(ctx context.Context, userID, token string) error {
	if err := s.userRepo.UpdateDeviceToken(ctx, userID, token); err != nil {
		if errors.Is(err, secondary.ErrNotFound) {
			return fmt.Errorf("user %s: %w", userID, primary.ErrNotFound)
		}
		return err
	}
	return nil
}

// deriveUsername builds the immutable username from a display name: the
// lowercased alphanumeric base plus a random suffix for uniqueness.
func deriveUsername(displayName string) string {
	base := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			return r
		}
		return -1
	}, strings.ToLower(displayName))

	return base + "_" + uuid.NewString()[:8]
}

// Helper methods

func (s *UserServiceImpl) recordToUser(r *secondary.UserRecord) *primary.User {
	return &primary.User{
		ID:          r.ID,
		Username:    r.Username,
		DisplayName: r.DisplayName,
		Role:        r.Role,
		DeviceToken: r.DeviceToken,
		CreatedAt:   r.CreatedAt,
	}
}

// Ensure UserServiceImpl implements the interface
var _ primary.UserService = (*UserServiceImpl)(nil)
