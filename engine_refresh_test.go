package authcore

import (
	"context"
	"errors"
	"testing"

	"github.com/hirestack/authcore/session"
)

func TestRefresh_RotatesTokens(t *testing.T) {
	store := newMockCredentialStore()
	engine, _, done := newTestEngine(t, testConfig(), store)
	defer done()

	ctx := context.Background()
	seedUser(t, engine, "alice@example.com", "correct-horse")

	login, err := engine.Login(ctx, "alice@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	pair, err := engine.Refresh(ctx, login.Tokens.RefreshToken)
	if err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("expected a full pair from refresh")
	}
	if pair.RefreshToken == login.Tokens.RefreshToken {
		t.Fatal("refresh token was not rotated")
	}
}

func TestRefresh_ConsumedTokenRejected(t *testing.T) {
	store := newMockCredentialStore()
	engine, _, done := newTestEngine(t, testConfig(), store)
	defer done()

	ctx := context.Background()
	seedUser(t, engine, "alice@example.com", "correct-horse")

	login, err := engine.Login(ctx, "alice@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	if _, err := engine.Refresh(ctx, login.Tokens.RefreshToken); err != nil {
		t.Fatalf("first refresh failed: %v", err)
	}

	// The pre-rotation token no longer matches the stored session.
	if _, err := engine.Refresh(ctx, login.Tokens.RefreshToken); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for consumed token, got %v", err)
	}
}

func TestRefresh_UniformUnauthorized(t *testing.T) {
	store := newMockCredentialStore()
	engine, _, done := newTestEngine(t, testConfig(), store)
	defer done()

	ctx := context.Background()

	cases := map[string]string{
		"empty":     "",
		"garbage":   "not-a-jwt",
		"truncated": "eyJhbGciOiJIUzI1NiJ9.e30",
	}
	for name, tok := range cases {
		if _, err := engine.Refresh(ctx, tok); !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("%s: expected ErrUnauthorized, got %v", name, err)
		}
	}
}

func TestRefresh_AfterLogoutRejected(t *testing.T) {
	store := newMockCredentialStore()
	engine, _, done := newTestEngine(t, testConfig(), store)
	defer done()

	ctx := context.Background()
	seedUser(t, engine, "alice@example.com", "correct-horse")

	login, err := engine.Login(ctx, "alice@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if err := engine.LogoutByRefreshToken(ctx, login.Tokens.RefreshToken); err != nil {
		t.Fatalf("logout failed: %v", err)
	}

	if _, err := engine.Refresh(ctx, login.Tokens.RefreshToken); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized after logout, got %v", err)
	}
}

func TestRefresh_RevokedTokenIDRejectedEvenWithLiveSession(t *testing.T) {
	store := newMockCredentialStore()
	engine, mr, done := newTestEngine(t, testConfig(), store)
	defer done()

	ctx := context.Background()
	user := seedUser(t, engine, "alice@example.com", "correct-horse")

	login, err := engine.Login(ctx, "alice@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	if err := engine.LogoutByRefreshToken(ctx, login.Tokens.RefreshToken); err != nil {
		t.Fatalf("logout failed: %v", err)
	}

	// Resurrect the session value so the stored-token comparison passes;
	// the blacklist entry alone must still block the refresh.
	mr.Set(session.RefreshTokenKey(user.ID), login.Tokens.RefreshToken)

	if _, err := engine.Refresh(ctx, login.Tokens.RefreshToken); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for revoked token ID, got %v", err)
	}
}

// findByIDFailingStore simulates a credential-backend outage that begins
// after login.
type findByIDFailingStore struct {
	*mockCredentialStore
	err error
}

func (s *findByIDFailingStore) FindByID(context.Context, string) (*Identity, error) {
	return nil, s.err
}

func TestRefresh_CredentialStoreOutagePropagates(t *testing.T) {
	backendErr := errors.New("credential backend unreachable")
	store := &findByIDFailingStore{mockCredentialStore: newMockCredentialStore(), err: backendErr}
	engine, _, done := newTestEngine(t, testConfig(), store)
	defer done()

	ctx := context.Background()
	seedUser(t, engine, "alice@example.com", "correct-horse")

	login, err := engine.Login(ctx, "alice@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	// An unavailable backend is an infrastructure failure, not a denial.
	_, err = engine.Refresh(ctx, login.Tokens.RefreshToken)
	if errors.Is(err, ErrUnauthorized) {
		t.Fatalf("infrastructure failure surfaced as ErrUnauthorized: %v", err)
	}
	if !errors.Is(err, backendErr) {
		t.Fatalf("expected the backend error to propagate, got %v", err)
	}
}

func TestRefresh_DeletedUserRejected(t *testing.T) {
	store := newMockCredentialStore()
	engine, _, done := newTestEngine(t, testConfig(), store)
	defer done()

	ctx := context.Background()
	user := seedUser(t, engine, "alice@example.com", "correct-horse")

	login, err := engine.Login(ctx, "alice@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	store.softDelete(user.ID)

	if _, err := engine.Refresh(ctx, login.Tokens.RefreshToken); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for deleted user, got %v", err)
	}
}
