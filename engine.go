package authcore

import (
	"context"
	"time"

	"github.com/hirestack/authcore/internal/limiters"
	"github.com/hirestack/authcore/password"
	"github.com/hirestack/authcore/session"
	"github.com/hirestack/authcore/token"
)

// Engine orchestrates the public operations (Signup, Login, Refresh, Logout
// and their companions) over the injected credential store, the Redis session
// store, the token issuer, and the lockout policy. Configure it once through
// the [Builder]; it is immutable afterward and safe for concurrent use.
type Engine struct {
	config       Config
	sessionStore *session.Store
	lockout      *limiters.LockoutLimiter
	issuer       *token.Issuer
	passwordHash *password.Hasher
	credentials  CredentialStore
	audit        *auditDispatcher
	metrics      *Metrics
	validator    *refreshValidator
}

// Close flushes and stops the audit dispatcher. The engine must not be used
// after Close.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// AuditDropped returns how many audit events were dropped under dispatcher
// backpressure.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// MetricsSnapshot returns a point-in-time copy of the engine counters.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

// LoginAttempts returns the current failed-login count for an email, 0 when
// no window is open. Exposed for operational tooling and tests.
func (e *Engine) LoginAttempts(ctx context.Context, email string) (int, error) {
	if e == nil || e.lockout == nil {
		return 0, ErrEngineNotReady
	}
	return e.lockout.Attempts(ctx, email)
}

// UnlockAccount clears the lockout counter for an email ahead of its window
// expiry. Intended for support tooling; it does not touch credentials or
// sessions.
func (e *Engine) UnlockAccount(ctx context.Context, email string) error {
	if e == nil || e.lockout == nil {
		return ErrEngineNotReady
	}
	if err := e.lockout.Reset(ctx, email); err != nil {
		return err
	}
	e.metricInc(MetricAccountUnlocked)
	e.emitAudit(ctx, EventAccountUnlocked, "", email, nil)
	return nil
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

// emitAudit stamps, masks, and dispatches one audit event. Failures of the
// audit path are invisible here: the dispatcher absorbs them so the primary
// operation can never be aborted by its own audit trail.
func (e *Engine) emitAudit(ctx context.Context, eventType SecurityEventType, userID, email string, details AuditDetails) {
	if e == nil || e.audit == nil {
		return
	}

	event := AuditEvent{
		Timestamp: time.Now().UTC(),
		EventType: eventType,
		UserID:    userID,
		IP:        clientIPFromContext(ctx),
		UserAgent: userAgentFromContext(ctx),
		Details:   details,
	}
	if email != "" {
		event.Email = MaskEmail(email)
	}

	e.audit.Emit(ctx, event)
}
