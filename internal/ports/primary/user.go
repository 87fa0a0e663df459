// Package primary defines the primary ports (driving interfaces) for the
// application: the operations the CLI and scheduler invoke on services.
package primary

import "context"

// UserService defines the primary port for user operations.
type UserService interface {
	// Onboard creates a user for the given display name, or returns the
	// existing user when one with that display name already exists.
	Onboard(ctx context.Context, req OnboardRequest) (*User, error)

	// GetUser retrieves a user by ID.
	GetUser(ctx context.Context, userID string) (*User, error)

	// ListUsers lists all users, newest first.
	ListUsers(ctx context.Context) ([]*User, error)

	// SetDeviceToken registers (or clears) the push notification token.
	SetDeviceToken(ctx context.Context, userID, token string) error
}

// User represents a tracker owner at the port boundary.
type User struct {
	ID          string
	Username    string // derived, immutable
	DisplayName string
	Role        string // 'junior', 'senior', 'principal'
	DeviceToken string // may be empty
	CreatedAt   string
}

// OnboardRequest contains the data needed to onboard a user.
type OnboardRequest struct {
	DisplayName string
	Role        string // defaults to RoleSenior when empty
}

// Role constants
const (
	RoleJunior    = "junior"
	RoleSenior    = "senior"
	RolePrincipal = "principal"
)
