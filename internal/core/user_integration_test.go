package core_test

import (
	"context"
	"errors"
	"testing"

	"clinic-backend/internal/core"
)

func TestUser_CreateAndAuthenticate(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	users := core.NewUserService(pool)
	ctx := context.Background()

	created, err := users.Create(ctx, core.NewUserInput{
		Username:  "cashier1",
		Email:     "cashier1@test.local",
		Password:  "s3cret-pass",
		Role:      core.RoleCashier,
		FirstName: "Front",
		LastName:  "Desk",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.PasswordHash == "s3cret-pass" {
		t.Fatal("Password stored in plaintext")
	}

	user, err := users.Authenticate(ctx, "cashier1", "s3cret-pass")
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if user.ID != created.ID {
		t.Errorf("Expected user %d, got %d", created.ID, user.ID)
	}

	_, err = users.Authenticate(ctx, "cashier1", "wrong-pass")
	if !errors.Is(err, core.ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument for wrong password, got %v", err)
	}

	_, err = users.Authenticate(ctx, "nobody", "s3cret-pass")
	if !errors.Is(err, core.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown user, got %v", err)
	}
}

func TestUser_DuplicateUsernameConflicts(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	users := core.NewUserService(pool)
	ctx := context.Background()

	input := core.NewUserInput{
		Username:  "cashier1",
		Email:     "cashier1@test.local",
		Password:  "s3cret-pass",
		Role:      core.RoleCashier,
		FirstName: "Front",
		LastName:  "Desk",
	}
	if _, err := users.Create(ctx, input); err != nil {
		t.Fatalf("First create failed: %v", err)
	}

	input.Email = "other@test.local"
	_, err := users.Create(ctx, input)
	if !errors.Is(err, core.ErrConflict) {
		t.Fatalf("Expected ErrConflict for duplicate username, got %v", err)
	}
}

func TestUser_DeactivationBlocksLogin(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	users := core.NewUserService(pool)
	ctx := context.Background()

	created, err := users.Create(ctx, core.NewUserInput{
		Username:  "cashier1",
		Email:     "cashier1@test.local",
		Password:  "s3cret-pass",
		Role:      core.RoleCashier,
		FirstName: "Front",
		LastName:  "Desk",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	updated, err := users.SetActive(ctx, created.ID, false)
	if err != nil {
		t.Fatalf("SetActive failed: %v", err)
	}
	if updated.IsActive {
		t.Errorf("Expected user to be inactive")
	}

	// Inactive users are indistinguishable from unknown ones at login.
	_, err = users.Authenticate(ctx, "cashier1", "s3cret-pass")
	if !errors.Is(err, core.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for deactivated user, got %v", err)
	}

	if _, err := users.SetActive(ctx, created.ID, true); err != nil {
		t.Fatalf("Reactivation failed: %v", err)
	}
	if _, err := users.Authenticate(ctx, "cashier1", "s3cret-pass"); err != nil {
		t.Errorf("Expected login to succeed after reactivation, got %v", err)
	}
}
