package authcore

import (
	"context"
	"errors"
)

// Refresh rotates a session: it validates the presented refresh token end to
// end, mints a fresh pair, and overwrites the stored session so the old
// refresh token can never be replayed. Every validation failure, whatever the
// internal cause, surfaces as the single [ErrUnauthorized] so callers leak
// nothing about which check tripped. Infrastructure failures are the one
// exception and propagate as-is.
func (e *Engine) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	if e == nil || e.issuer == nil || e.validator == nil || e.sessionStore == nil {
		return nil, ErrEngineNotReady
	}

	if refreshToken == "" {
		return nil, e.failRefresh(ctx, "", "", "missing_token")
	}

	claims, err := e.issuer.ParseRefresh(refreshToken)
	if err != nil {
		return nil, e.failRefresh(ctx, "", "", "invalid_token")
	}

	identity, err := e.validator.validate(ctx, refreshToken, claims)
	if err != nil {
		// Only the security sentinels collapse to ErrUnauthorized. Anything
		// else is an infrastructure failure (session store, credential
		// backend) and must surface as such, never as a denial.
		reason, security := refreshFailureReason(err)
		if !security {
			return nil, err
		}
		return nil, e.failRefresh(ctx, claims.Subject, claims.Email, reason)
	}

	pair, err := e.issuer.IssueTokens(identity.ID, identity.Email, identity.Role)
	if err != nil {
		return nil, err
	}

	// Rotation: the new refresh token replaces the old one under the same
	// key. The consumed token dies by mismatch against the stored value, so
	// no blacklist entry is needed here; only an explicit logout revokes.
	if err := e.sessionStore.SaveRefreshToken(ctx, identity.ID, pair.RefreshToken, e.issuer.RefreshTTL()); err != nil {
		return nil, err
	}

	e.metricInc(MetricRefreshSuccess)
	e.emitAudit(ctx, EventTokenRefresh, identity.ID, identity.Email, TokenDetails{TokenID: pair.TokenID})

	return &TokenPair{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil
}

func (e *Engine) failRefresh(ctx context.Context, userID, email, reason string) error {
	e.metricInc(MetricRefreshFailure)
	e.emitAudit(ctx, EventTokenRefreshFailed, userID, email, FailureDetails{Reason: reason})
	return ErrUnauthorized
}

// refreshFailureReason maps internal validation sentinels onto the audit
// vocabulary without exposing them to callers. The second return reports
// whether err is one of the security sentinels at all; any other error is an
// infrastructure failure the caller must propagate unchanged.
func refreshFailureReason(err error) (string, bool) {
	switch {
	case errors.Is(err, ErrTokenMismatch):
		return "session_mismatch", true
	case errors.Is(err, ErrTokenRevoked):
		return "token_revoked", true
	case errors.Is(err, ErrIdentityNotFound):
		return "unknown_identity", true
	default:
		return "", false
	}
}
