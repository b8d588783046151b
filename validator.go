package authcore

import (
	"context"
	"crypto/subtle"

	"github.com/hirestack/authcore/session"
	"github.com/hirestack/authcore/token"
)

// refreshValidator runs the server-side checks on an already signature-valid
// refresh token. Check order is fixed: stored session match first, then the
// revocation blacklist, then the identity itself. The validator mutates no
// state; rotation and revocation side effects belong to the callers.
type refreshValidator struct {
	sessions    *session.Store
	credentials CredentialStore
}

func newRefreshValidator(sessions *session.Store, credentials CredentialStore) *refreshValidator {
	return &refreshValidator{sessions: sessions, credentials: credentials}
}

// validate returns the identity behind the token when every check passes.
// Security failures come back as the internal sentinels (ErrTokenMismatch,
// ErrTokenRevoked, ErrIdentityNotFound); infrastructure failures pass
// through wrapped so callers can keep the two apart.
func (v *refreshValidator) validate(ctx context.Context, presented string, claims *token.RefreshClaims) (*Identity, error) {
	stored, err := v.sessions.RefreshToken(ctx, claims.Subject)
	if err != nil {
		return nil, err
	}
	// An absent session and a rotated-away session fail identically. The
	// constant-time compare keeps the stored token unguessable through
	// timing even though the JWT signature already gates the fast path.
	if stored == "" || subtle.ConstantTimeCompare([]byte(stored), []byte(presented)) != 1 {
		return nil, ErrTokenMismatch
	}

	revoked, err := v.sessions.IsBlacklisted(ctx, claims.TokenID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrTokenRevoked
	}

	identity, err := v.credentials.FindByID(ctx, claims.Subject)
	if err != nil {
		return nil, err
	}
	if identity == nil || identity.Deleted() {
		return nil, ErrIdentityNotFound
	}

	return identity, nil
}
