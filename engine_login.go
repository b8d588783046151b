package authcore

import (
	"context"
	"time"
)

// Login verifies credentials and, on success, issues a token pair and
// persists the refresh session. The lockout gate runs strictly before any
// credential work, so a locked account leaks nothing about whether the
// attempt would have succeeded. Unknown email, soft-deleted identity, and
// wrong password all collapse into one uniform [ErrInvalidCredentials].
//
// Concurrent logins for the same user race harmlessly on the session key:
// last writer wins, which is the intended single-active-session semantic.
func (e *Engine) Login(ctx context.Context, email, plainPassword string) (*LoginResult, error) {
	if e == nil || e.credentials == nil || e.passwordHash == nil ||
		e.sessionStore == nil || e.lockout == nil || e.issuer == nil {
		return nil, ErrEngineNotReady
	}
	if e.metrics.LatencyEnabled() {
		start := time.Now()
		defer func() { e.metrics.Observe(MetricLoginLatency, time.Since(start)) }()
	}

	locked, remaining, err := e.lockout.Check(ctx, email)
	if err != nil {
		return nil, err
	}
	if locked {
		lockedErr := &LockedError{Remaining: remaining}
		e.metricInc(MetricLoginBlocked)
		e.emitAudit(ctx, EventLoginBlocked, "", email, LockoutDetails{
			RemainingMinutes: lockedErr.RemainingMinutes(),
		})
		return nil, lockedErr
	}

	identity, err := e.credentials.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if identity == nil || identity.Deleted() {
		return nil, e.failLogin(ctx, email, "", "user_not_found")
	}

	ok, err := e.passwordHash.Verify(plainPassword, identity.PasswordHash)
	if err != nil || !ok {
		return nil, e.failLogin(ctx, email, identity.ID, "password_mismatch")
	}

	// Ordering matters from here: clear the lockout window first, then mint,
	// then persist. Issuing before clearing would leave a window where a
	// fresh token coexists with a live lockout counter.
	if err := e.lockout.Reset(ctx, email); err != nil {
		return nil, err
	}

	pair, err := e.issuer.IssueTokens(identity.ID, identity.Email, identity.Role)
	if err != nil {
		return nil, err
	}

	if err := e.sessionStore.SaveRefreshToken(ctx, identity.ID, pair.RefreshToken, e.issuer.RefreshTTL()); err != nil {
		return nil, err
	}

	e.metricInc(MetricSessionCreated)
	e.metricInc(MetricLoginSuccess)
	e.emitAudit(ctx, EventLoginSuccess, identity.ID, identity.Email, nil)

	return &LoginResult{
		Tokens: TokenPair{
			AccessToken:  pair.AccessToken,
			RefreshToken: pair.RefreshToken,
		},
		User: identity.userInfo(),
	}, nil
}

// failLogin records one failed attempt and returns the uniform credentials
// error. When this exact increment reaches the lockout threshold, a distinct
// ACCOUNT_LOCKED event is emitted on top of the per-attempt LOGIN_FAILED.
func (e *Engine) failLogin(ctx context.Context, email, userID, reason string) error {
	count, lockedNow, err := e.lockout.RecordFailure(ctx, email)
	if err != nil {
		return err
	}

	e.metricInc(MetricLoginFailure)
	e.emitAudit(ctx, EventLoginFailed, userID, email, FailureDetails{Reason: reason})

	if lockedNow {
		e.metricInc(MetricAccountLocked)
		e.emitAudit(ctx, EventAccountLocked, userID, email, LockoutDetails{Attempts: int(count)})
	}

	return ErrInvalidCredentials
}
