package authcore

import "context"

// AccessPrincipal is the identity a verified access token asserts. It is
// derived entirely from the token claims; no store lookups are involved.
type AccessPrincipal struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// ValidateAccess verifies an access token's signature and expiry and
// returns the principal it carries. This is the hot path for resource
// servers, so it deliberately touches neither Redis nor the credential
// store; revocation takes effect at the next refresh, not here.
func (e *Engine) ValidateAccess(ctx context.Context, accessToken string) (*AccessPrincipal, error) {
	if e == nil || e.issuer == nil {
		return nil, ErrEngineNotReady
	}
	if accessToken == "" {
		return nil, e.failValidate(ctx, "missing_token")
	}

	claims, err := e.issuer.ParseAccess(accessToken)
	if err != nil {
		return nil, e.failValidate(ctx, "invalid_token")
	}

	return &AccessPrincipal{
		UserID: claims.Subject,
		Email:  claims.Email,
		Role:   claims.Role,
	}, nil
}

func (e *Engine) failValidate(ctx context.Context, reason string) error {
	e.metricInc(MetricAccessValidationFailure)
	e.emitAudit(ctx, EventUnauthorizedAccess, "", "", FailureDetails{Reason: reason})
	return ErrUnauthorized
}
