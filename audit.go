package authcore

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"time"
)

// SecurityEventType identifies one kind of security audit event.
type SecurityEventType string

const (
	EventLoginSuccess       SecurityEventType = "LOGIN_SUCCESS"
	EventLoginFailed        SecurityEventType = "LOGIN_FAILED"
	EventLoginBlocked       SecurityEventType = "LOGIN_BLOCKED"
	EventLogout             SecurityEventType = "LOGOUT"
	EventTokenRefresh       SecurityEventType = "TOKEN_REFRESH"
	EventTokenRefreshFailed SecurityEventType = "TOKEN_REFRESH_FAILED"
	EventSignup             SecurityEventType = "SIGNUP"
	EventPasswordChange     SecurityEventType = "PASSWORD_CHANGE"
	// EventRoleChange is reserved for the account-administration surface;
	// nothing in this package emits it.
	EventRoleChange         SecurityEventType = "ROLE_CHANGE"
	EventAccountLocked      SecurityEventType = "ACCOUNT_LOCKED"
	EventAccountUnlocked    SecurityEventType = "ACCOUNT_UNLOCKED"
	EventUnauthorizedAccess SecurityEventType = "UNAUTHORIZED_ACCESS"
)

// Warning reports whether events of this type route to the warning sink.
// Everything else is informational.
func (t SecurityEventType) Warning() bool {
	switch t {
	case EventLoginFailed, EventLoginBlocked, EventAccountLocked,
		EventUnauthorizedAccess, EventTokenRefreshFailed:
		return true
	default:
		return false
	}
}

// AuditDetails is the closed set of per-event payload shapes. Keeping the
// union closed keeps every sink statically checkable; there is no open bag
// of fields.
type AuditDetails interface {
	isAuditDetails()
}

// FailureDetails names the internal reason of a failed login, refresh, or
// access validation. The reason never reaches the API caller; it exists for
// the audit trail only.
type FailureDetails struct {
	Reason string `json:"reason"`
}

// LockoutDetails accompanies LOGIN_BLOCKED and ACCOUNT_LOCKED events.
type LockoutDetails struct {
	Attempts         int `json:"attempts,omitempty"`
	RemainingMinutes int `json:"remainingMinutes,omitempty"`
}

// TokenDetails carries the refresh-token ID involved in an event.
type TokenDetails struct {
	TokenID string `json:"tokenId"`
}

// SignupDetails accompanies SIGNUP events.
type SignupDetails struct {
	Role string `json:"role"`
}

func (FailureDetails) isAuditDetails() {}
func (LockoutDetails) isAuditDetails() {}
func (TokenDetails) isAuditDetails()   {}
func (SignupDetails) isAuditDetails()  {}

// AuditEvent is one security event. Write-once and outbound only; nothing in
// this package ever reads an event back. Email is masked before the event is
// constructed, so every sink sees only the masked form.
type AuditEvent struct {
	Timestamp time.Time         `json:"timestamp"`
	EventType SecurityEventType `json:"eventType"`
	UserID    string            `json:"userId,omitempty"`
	Email     string            `json:"email,omitempty"`
	IP        string            `json:"ip,omitempty"`
	UserAgent string            `json:"userAgent,omitempty"`
	Details   AuditDetails      `json:"details,omitempty"`
}

// Format renders the event as a single structured log line:
//
//	[LOGIN_FAILED] userId=42 email=j***e@example.com ip=10.0.0.1 details={"reason":"wrong_password"}
func (e AuditEvent) Format() string {
	parts := make([]string, 0, 5)
	parts = append(parts, "["+string(e.EventType)+"]")
	if e.UserID != "" {
		parts = append(parts, "userId="+e.UserID)
	}
	if e.Email != "" {
		parts = append(parts, "email="+e.Email)
	}
	if e.IP != "" {
		parts = append(parts, "ip="+e.IP)
	}
	if e.Details != nil {
		if data, err := json.Marshal(e.Details); err == nil {
			parts = append(parts, "details="+string(data))
		}
	}
	return strings.Join(parts, " ")
}

// MaskEmail irreversibly masks an email for logging. The local part keeps
// its first and last character when longer than two characters, otherwise it
// is masked entirely; input without an "@" collapses to a constant
// placeholder. Pure and total; there is no unmask.
func MaskEmail(email string) string {
	local, domain, ok := strings.Cut(email, "@")
	if !ok || domain == "" {
		// No "@" and a bare trailing "@" both collapse to the placeholder.
		return "***"
	}

	var masked string
	if len(local) <= 2 {
		masked = strings.Repeat("*", len(local))
	} else {
		masked = local[:1] + "***" + local[len(local)-1:]
	}
	return masked + "@" + domain
}

// AuditSink receives emitted audit events. Sinks must not block for long:
// the dispatcher owns backpressure, not the sink.
type AuditSink interface {
	Emit(ctx context.Context, event AuditEvent)
}

// NoOpSink drops audit events.
type NoOpSink struct{}

func (NoOpSink) Emit(context.Context, AuditEvent) {}

// LoggerSink routes formatted events by severity: warning-class event types
// to the warn logger, everything else to the info logger.
type LoggerSink struct {
	info *log.Logger
	warn *log.Logger
}

// NewLoggerSink creates a severity-routing sink. Nil loggers default to
// stderr with "AUDIT" / "AUDIT WARN" prefixes.
func NewLoggerSink(info, warn *log.Logger) *LoggerSink {
	if info == nil {
		info = log.New(os.Stderr, "AUDIT ", log.LstdFlags|log.LUTC)
	}
	if warn == nil {
		warn = log.New(os.Stderr, "AUDIT WARN ", log.LstdFlags|log.LUTC)
	}
	return &LoggerSink{info: info, warn: warn}
}

func (s *LoggerSink) Emit(_ context.Context, event AuditEvent) {
	if event.EventType.Warning() {
		s.warn.Print(event.Format())
		return
	}
	s.info.Print(event.Format())
}

// ChannelSink writes audit events into a buffered channel, mainly for tests
// and in-process consumers.
type ChannelSink struct {
	events chan AuditEvent
}

func NewChannelSink(buffer int) *ChannelSink {
	if buffer <= 0 {
		buffer = 1
	}
	return &ChannelSink{events: make(chan AuditEvent, buffer)}
}

func (s *ChannelSink) Emit(ctx context.Context, event AuditEvent) {
	select {
	case s.events <- event:
	case <-ctx.Done():
	}
}

func (s *ChannelSink) Events() <-chan AuditEvent {
	return s.events
}

// JSONWriterSink writes one JSON object per line to an io.Writer.
type JSONWriterSink struct {
	writer io.Writer
	mu     sync.Mutex
}

func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return &JSONWriterSink{writer: w}
}

func (s *JSONWriterSink) Emit(_ context.Context, event AuditEvent) {
	if s == nil || s.writer == nil {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, _ = s.writer.Write(data)
	_, _ = s.writer.Write([]byte("\n"))
}
