package authcore

import (
	"errors"
	"time"
)

// Config carries every tunable of the engine. Populate it once at startup;
// the Builder validates it and the engine treats it as immutable afterward.
type Config struct {
	JWT      JWTConfig
	Lockout  LockoutConfig
	Password PasswordConfig
	Audit    AuditConfig
	Metrics  MetricsConfig
}

// JWTConfig holds the signing secrets and lifetimes for both token kinds.
// The two secrets must be distinct pieces of material: access tokens are
// verified by resource servers that must never be able to mint refresh
// tokens.
type JWTConfig struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Issuer        string
	Leeway        time.Duration
}

// LockoutConfig controls the brute-force lockout window.
type LockoutConfig struct {
	MaxAttempts int
	Window      time.Duration
}

// PasswordConfig controls the bcrypt work factor.
type PasswordConfig struct {
	Cost int
}

// AuditConfig controls the asynchronous audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	// DropIfFull makes the dispatcher drop events under backpressure instead
	// of blocking the request path. Dropped events are counted.
	DropIfFull bool
}

// MetricsConfig controls the in-process counters.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

// DefaultConfig returns the production defaults: 15 minute access tokens,
// 7 day refresh tokens, lockout after 5 failures inside a 15 minute window.
// Signing secrets have no default and must be supplied.
func DefaultConfig() Config {
	return Config{
		JWT: JWTConfig{
			AccessTTL:  15 * time.Minute,
			RefreshTTL: 7 * 24 * time.Hour,
		},
		Lockout: LockoutConfig{
			MaxAttempts: 5,
			Window:      15 * time.Minute,
		},
		Password: PasswordConfig{},
		Audit: AuditConfig{
			Enabled:    true,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// Validate checks the configuration for fatal errors. A missing signing
// secret is a configuration error raised here, before any request is
// served; it is never a per-request condition.
func (c Config) Validate() error {
	if len(c.JWT.AccessSecret) == 0 {
		return errors.New("JWT access secret is not configured")
	}
	if len(c.JWT.RefreshSecret) == 0 {
		return errors.New("JWT refresh secret is not configured")
	}
	if string(c.JWT.AccessSecret) == string(c.JWT.RefreshSecret) {
		return errors.New("JWT access and refresh secrets must be distinct")
	}
	if c.JWT.AccessTTL <= 0 || c.JWT.RefreshTTL <= 0 {
		return errors.New("JWT token lifetimes must be positive")
	}
	if c.JWT.RefreshTTL <= c.JWT.AccessTTL {
		return errors.New("JWT refresh lifetime must exceed access lifetime")
	}
	if c.Lockout.MaxAttempts <= 0 {
		return errors.New("lockout max attempts must be positive")
	}
	if c.Lockout.Window <= 0 {
		return errors.New("lockout window must be positive")
	}
	return nil
}
