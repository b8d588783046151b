package authcore

import (
	"context"
	"errors"
	"testing"
)

func TestValidateAccess_ReturnsPrincipal(t *testing.T) {
	store := newMockCredentialStore()
	engine, _, done := newTestEngine(t, testConfig(), store)
	defer done()

	ctx := context.Background()
	user := seedUser(t, engine, "alice@example.com", "correct-horse")

	login, err := engine.Login(ctx, "alice@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	principal, err := engine.ValidateAccess(ctx, login.Tokens.AccessToken)
	if err != nil {
		t.Fatalf("ValidateAccess failed: %v", err)
	}
	if principal.UserID != user.ID {
		t.Fatalf("principal user %q, want %q", principal.UserID, user.ID)
	}
	if principal.Email != "alice@example.com" || principal.Role != "user" {
		t.Fatalf("unexpected principal: %+v", principal)
	}
}

func TestValidateAccess_RejectsBadTokens(t *testing.T) {
	store := newMockCredentialStore()
	engine, _, done := newTestEngine(t, testConfig(), store)
	defer done()

	ctx := context.Background()
	seedUser(t, engine, "alice@example.com", "correct-horse")

	login, err := engine.Login(ctx, "alice@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	cases := map[string]string{
		"empty":         "",
		"garbage":       "nope",
		"refresh token": login.Tokens.RefreshToken, // wrong key, wrong kind
	}
	for name, tok := range cases {
		if _, err := engine.ValidateAccess(ctx, tok); !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("%s: expected ErrUnauthorized, got %v", name, err)
		}
	}
}
