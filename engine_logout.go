package authcore

import "context"

// Logout invalidates a user's active session and revokes the refresh token
// identified by tokenID. The session delete is idempotent: logging out a
// user with no stored session is a success, not an error. The blacklist
// entry lives exactly as long as a refresh token could, so a replay of the
// revoked token keeps failing until the token would have expired anyway.
func (e *Engine) Logout(ctx context.Context, userID, tokenID string) error {
	if e == nil || e.sessionStore == nil || e.issuer == nil {
		return ErrEngineNotReady
	}

	deleted, err := e.sessionStore.DeleteRefreshToken(ctx, userID)
	if err != nil {
		return err
	}
	if deleted {
		e.metricInc(MetricSessionInvalidated)
	}

	if tokenID != "" {
		if err := e.sessionStore.BlacklistToken(ctx, tokenID, e.issuer.RefreshTTL()); err != nil {
			return err
		}
		e.metricInc(MetricTokenRevoked)
	}

	e.metricInc(MetricLogout)
	e.emitAudit(ctx, EventLogout, userID, "", TokenDetails{TokenID: tokenID})
	return nil
}

// LogoutByRefreshToken is the convenience form for callers holding only the
// refresh token itself. The signature must still verify; a forged or expired
// token cannot be used to tear down someone else's session.
func (e *Engine) LogoutByRefreshToken(ctx context.Context, refreshToken string) error {
	if e == nil || e.issuer == nil {
		return ErrEngineNotReady
	}
	if refreshToken == "" {
		return ErrUnauthorized
	}

	claims, err := e.issuer.ParseRefresh(refreshToken)
	if err != nil {
		return ErrUnauthorized
	}
	return e.Logout(ctx, claims.Subject, claims.TokenID)
}
