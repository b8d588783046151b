package authcore

import "context"

// Signup registers a new identity. The email must not already be registered,
// including by a soft-deleted identity; registration is never a way to
// resurrect or shadow one. Returns the public identity fields only, never
// the password hash.
func (e *Engine) Signup(ctx context.Context, req SignupRequest) (*UserInfo, error) {
	if e == nil || e.credentials == nil || e.passwordHash == nil {
		return nil, ErrEngineNotReady
	}

	existing, err := e.credentials.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		e.metricInc(MetricSignupDuplicate)
		e.emitAudit(ctx, EventSignup, "", req.Email, FailureDetails{Reason: "email_exists"})
		return nil, ErrEmailExists
	}

	hash, err := e.passwordHash.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	identity, err := e.credentials.Create(ctx, CreateIdentityInput{
		Email:        req.Email,
		PasswordHash: hash,
		FullName:     req.FullName,
		Role:         req.Role,
	})
	if err != nil {
		return nil, err
	}

	e.metricInc(MetricSignupSuccess)
	e.emitAudit(ctx, EventSignup, identity.ID, identity.Email, SignupDetails{Role: identity.Role})

	info := identity.userInfo()
	return &info, nil
}
