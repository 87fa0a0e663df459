package app

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dheerajjha/escalator/internal/ports/primary"
)

func TestOnboardCreatesUser(t *testing.T) {
	f := newTestFixture()
	svc := NewUserService(f.users)

	user, err := svc.Onboard(context.Background(), primary.OnboardRequest{
		DisplayName: "Alice Chen",
		Role:        primary.RolePrincipal,
	})
	if err != nil {
		t.Fatalf("Onboard failed: %v", err)
	}

	if user.ID != "USER-001" {
		t.Errorf("expected ID USER-001, got %s", user.ID)
	}
	if user.Role != primary.RolePrincipal {
		t.Errorf("expected role principal, got %s", user.Role)
	}
	if !strings.HasPrefix(user.Username, "alicechen_") {
		t.Errorf("expected username prefix alicechen_, got %s", user.Username)
	}
}

func TestOnboardDefaultsRole(t *testing.T) {
	f := newTestFixture()
	svc := NewUserService(f.users)

	user, err := svc.Onboard(context.Background(), primary.OnboardRequest{DisplayName: "Bob"})
	if err != nil {
		t.Fatalf("Onboard failed: %v", err)
	}
	if user.Role != primary.RoleSenior {
		t.Errorf("expected default role senior, got %s", user.Role)
	}
}

func TestOnboardExistingDisplayNameReturnsExisting(t *testing.T) {
	f := newTestFixture()
	svc := NewUserService(f.users)

	first, err := svc.Onboard(context.Background(), primary.OnboardRequest{DisplayName: "Alice"})
	if err != nil {
		t.Fatalf("first Onboard failed: %v", err)
	}
	second, err := svc.Onboard(context.Background(), primary.OnboardRequest{DisplayName: "Alice"})
	if err != nil {
		t.Fatalf("second Onboard failed: %v", err)
	}

	if second.ID != first.ID {
		t.Errorf("expected same user, got %s and %s", first.ID, second.ID)
	}
	if second.Username != first.Username {
		t.Errorf("username changed on re-onboard: %s != %s", second.Username, first.Username)
	}
	if len(f.users.users) != 1 {
		t.Errorf("expected 1 user, got %d", len(f.users.users))
	}
}

func TestOnboardValidation(t *testing.T) {
	f := newTestFixture()
	svc := NewUserService(f.users)

	if _, err := svc.Onboard(context.Background(), primary.OnboardRequest{DisplayName: "   "}); !errors.Is(err, primary.ErrValidation) {
		t.Errorf("expected ErrValidation for blank display name, got %v", err)
	}
	if _, err := svc.Onboard(context.Background(), primary.OnboardRequest{DisplayName: "Alice", Role: "intern"}); !errors.Is(err, primary.ErrValidation) {
		t.Errorf("expected ErrValidation for unknown role, got %v", err)
	}
}

func TestGetUserNotFound(t *testing.T) {
	f := newTestFixture()
	svc := NewUserService(f.users)

	_, err := svc.GetUser(context.Background(), "USER-999")
	if !errors.Is(err, primary.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSetDeviceToken(t *testing.T) {
	f := newTestFixture()
	svc := NewUserService(f.users)
	f.seedUser("USER-001", "alice")

	if err := svc.SetDeviceToken(context.Background(), "USER-001", "fcm-token-abc"); err != nil {
		t.Fatalf("SetDeviceToken failed: %v", err)
	}
	user, err := svc.GetUser(context.Background(), "USER-001")
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if user.DeviceToken != "fcm-token-abc" {
		t.Errorf("expected token fcm-token-abc, got %s", user.DeviceToken)
	}

	if err := svc.SetDeviceToken(context.Background(), "USER-999", "x"); !errors.Is(err, primary.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown user, got %v", err)
	}
}

func TestListUsers(t *testing.T) {
	f := newTestFixture()
	svc := NewUserService(f.users)
	f.seedUser("USER-001", "alice")
	f.seedUser("USER-002", "bob")

	users, err := svc.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("ListUsers failed: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
	// Newest first.
	if users[0].ID != "USER-002" {
		t.Errorf("expected USER-002 first, got %s", users[0].ID)
	}
}
