package authcore

import "context"

// ChangePassword verifies the current password, stores a hash of the new
// one, and tears down the user's active session so outstanding refresh
// tokens stop working immediately. Access tokens already in the wild stay
// valid until their short expiry; only the refresh path is cut.
func (e *Engine) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	if e == nil || e.credentials == nil || e.passwordHash == nil || e.sessionStore == nil {
		return ErrEngineNotReady
	}

	identity, err := e.credentials.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if identity == nil || identity.Deleted() {
		return ErrIdentityNotFound
	}

	ok, err := e.passwordHash.Verify(oldPassword, identity.PasswordHash)
	if err != nil || !ok {
		e.metricInc(MetricPasswordChangeFailure)
		e.emitAudit(ctx, EventPasswordChange, identity.ID, identity.Email, FailureDetails{Reason: "password_mismatch"})
		return ErrPasswordMismatch
	}

	hash, err := e.passwordHash.Hash(newPassword)
	if err != nil {
		return err
	}
	if err := e.credentials.UpdatePasswordHash(ctx, identity.ID, hash); err != nil {
		return err
	}

	if deleted, err := e.sessionStore.DeleteRefreshToken(ctx, identity.ID); err != nil {
		return err
	} else if deleted {
		e.metricInc(MetricSessionInvalidated)
	}

	e.metricInc(MetricPasswordChangeSuccess)
	e.emitAudit(ctx, EventPasswordChange, identity.ID, identity.Email, nil)
	return nil
}
