// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dheerajjha/escalator/internal/ports/secondary"
)

// UserRepository implements secondary.UserRepository with SQLite.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new SQLite user repository.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create persists a new user.
func (r *UserRepository) Create(ctx context.Context, user *secondary.UserRecord) error {
	var token sql.NullString
	if user.DeviceToken != "" {
		token = sql.NullString{String: user.DeviceToken, Valid: true}
	}

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO users (id, username, display_name, role, fcm_token) VALUES (?, ?, ?, ?, ?)",
		user.ID, user.Username, user.DisplayName, user.Role, token,
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by its ID.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*secondary.UserRecord, error) {
	return r.getOne(ctx, "SELECT id, username, display_name, role, fcm_token, created_at FROM users WHERE id = ?", id)
}

// GetByDisplayName retrieves a user by display name. The oldest match wins so
// repeated onboarding with the same display name is stable.
func (r *UserRepository) GetByDisplayName(ctx context.Context, displayName string) (*secondary.UserRecord, error) {
	return r.getOne(ctx,
		"SELECT id, username, display_name, role, fcm_token, created_at FROM users WHERE display_name = ? ORDER BY created_at ASC, id ASC LIMIT 1",
		displayName,
	)
}

func (r *UserRepository) getOne(ctx context.Context, query string, arg any) (*secondary.UserRecord, error) {
	var (
		token     sql.NullString
		createdAt time.Time
	)

	record := &secondary.UserRecord{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&record.ID, &record.Username, &record.DisplayName, &record.Role, &token, &createdAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user %v: %w", arg, secondary.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	record.DeviceToken = token.String
	record.CreatedAt = createdAt.Format(time.RFC3339)

	return record, nil
}

// List retrieves all users, newest first.
func (r *UserRepository) List(ctx context.Context) ([]*secondary.UserRecord, error) {
	return r.list(ctx, "SELECT id, username, display_name, role, fcm_token, created_at FROM users ORDER BY created_at DESC, id DESC")
}

// ListWithDeviceTokens retrieves users that have a registered push token.
func (r *UserRepository) ListWithDeviceTokens(ctx context.Context) ([]*secondary.UserRecord, error) {
	return r.list(ctx,
		"SELECT id, username, display_name, role, fcm_token, created_at FROM users WHERE fcm_token IS NOT NULL AND fcm_token != '' ORDER BY created_at ASC",
	)
}

func (r *UserRepository) list(ctx context.Context, query string) ([]*secondary.UserRecord, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*secondary.UserRecord
	for rows.Next() {
		var (
			token     sql.NullString
			createdAt time.Time
		)

		record := &secondary.UserRecord{}
		if err := rows.Scan(&record.ID, &record.Username, &record.DisplayName, &record.Role, &token, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		record.DeviceToken = token.String
		record.CreatedAt = createdAt.Format(time.RFC3339)

		users = append(users, record)
	}

	return users, rows.Err()
}

// UpdateDeviceToken sets (or clears) a user's push notification token.
func (r *UserRepository) UpdateDeviceToken(ctx context.Context, id, token string) error {
	var value sql.NullString
	if token != "" {
		value = sql.NullString{String: token, Valid: true}
	}

	result, err := r.db.ExecContext(ctx, "UPDATE users SET fcm_token = ? WHERE id = ?", value, id)
	if err != nil {
		return fmt.Errorf("failed to update device token: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("user %s: %w", id, secondary.ErrNotFound)
	}

	return nil
}

// GetNextID returns the next available user ID.
func (r *UserRepository) GetNextID(ctx context.Context) (string, error) {
	var maxID int
	prefixLen := len("USER-") + 1
	err := r.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT COALESCE(MAX(CAST(SUBSTR(id, %d) AS INTEGER)), 0) FROM users", prefixLen),
	).Scan(&maxID)
	if err != nil {
		return "", fmt.Errorf("failed to get next user ID: %w", err)
	}

	return fmt.Sprintf("USER-%03d", maxID+1), nil
}

// Ensure UserRepository implements the interface
var _ secondary.UserRepository = (*UserRepository)(nil)
