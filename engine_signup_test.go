package authcore

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestSignup_CreatesIdentity(t *testing.T) {
	store := newMockCredentialStore()
	engine, _, done := newTestEngine(t, testConfig(), store)
	defer done()

	user, err := engine.Signup(context.Background(), SignupRequest{
		Email:    "bob@example.com",
		Password: "hunter2hunter2",
		FullName: "Bob Example",
		Role:     "user",
	})
	if err != nil {
		t.Fatalf("Signup failed: %v", err)
	}
	if user.ID == "" {
		t.Fatal("expected an assigned user ID")
	}
	if user.Email != "bob@example.com" || user.Role != "user" {
		t.Fatalf("unexpected user projection: %+v", user)
	}
}

func TestSignup_DuplicateEmailConflict(t *testing.T) {
	store := newMockCredentialStore()
	engine, _, done := newTestEngine(t, testConfig(), store)
	defer done()

	ctx := context.Background()
	seedUser(t, engine, "bob@example.com", "hunter2hunter2")

	_, err := engine.Signup(ctx, SignupRequest{
		Email:    "bob@example.com",
		Password: "different-password",
		FullName: "Imposter",
		Role:     "user",
	})
	if !errors.Is(err, ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
}

func TestSignup_SoftDeletedEmailStaysTaken(t *testing.T) {
	store := newMockCredentialStore()
	engine, _, done := newTestEngine(t, testConfig(), store)
	defer done()

	ctx := context.Background()
	user := seedUser(t, engine, "bob@example.com", "hunter2hunter2")
	store.softDelete(user.ID)

	_, err := engine.Signup(ctx, SignupRequest{
		Email:    "bob@example.com",
		Password: "hunter2hunter2",
		Role:     "user",
	})
	if !errors.Is(err, ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists for soft-deleted email, got %v", err)
	}
}

func TestSignup_ResponseNeverLeaksPasswordHash(t *testing.T) {
	store := newMockCredentialStore()
	engine, _, done := newTestEngine(t, testConfig(), store)
	defer done()

	user := seedUser(t, engine, "bob@example.com", "hunter2hunter2")

	data, err := json.Marshal(user)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	payload := strings.ToLower(string(data))
	if strings.Contains(payload, "hash") || strings.Contains(payload, "$2a$") {
		t.Fatalf("signup response leaks hash material: %s", data)
	}
}
