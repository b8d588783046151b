package authcore

import (
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/hirestack/authcore/internal/limiters"
	"github.com/hirestack/authcore/password"
	"github.com/hirestack/authcore/session"
	"github.com/hirestack/authcore/token"
)

// Builder assembles an [Engine]. Configure it with the With* methods and
// call Build exactly once; a Builder is single-use.
type Builder struct {
	config      Config
	redis       redis.UniversalClient
	credentials CredentialStore
	auditSink   AuditSink

	built bool
}

// New returns a Builder preloaded with [DefaultConfig]. Signing secrets, a
// Redis client and a credential store must still be supplied before Build.
func New() *Builder {
	return &Builder{config: DefaultConfig()}
}

// WithConfig replaces the whole configuration. Call it before the narrower
// With* toggles or it will overwrite them.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithRedis sets the Redis client backing sessions, the token blacklist and
// the lockout counters.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithCredentialStore sets the identity backend.
func (b *Builder) WithCredentialStore(store CredentialStore) *Builder {
	b.credentials = store
	return b
}

// WithAuditSink sets the destination for security audit events. Without one,
// enabled auditing falls back to the stderr [LoggerSink].
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithMetricsEnabled toggles the in-process counters.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms toggles the login latency histogram.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build validates the configuration and wires the engine. Configuration
// problems, a missing signing secret above all, fail here at startup rather
// than on the first request.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	if b.redis == nil {
		return nil, errors.New("redis client required")
	}
	if b.credentials == nil {
		return nil, errors.New("credential store required")
	}
	if err := b.config.Validate(); err != nil {
		return nil, err
	}

	issuer, err := token.NewIssuer(token.Config{
		AccessSecret:  b.config.JWT.AccessSecret,
		RefreshSecret: b.config.JWT.RefreshSecret,
		AccessTTL:     b.config.JWT.AccessTTL,
		RefreshTTL:    b.config.JWT.RefreshTTL,
		Issuer:        b.config.JWT.Issuer,
		Leeway:        b.config.JWT.Leeway,
	})
	if err != nil {
		return nil, err
	}

	hasher, err := password.NewHasher(password.Config{Cost: b.config.Password.Cost})
	if err != nil {
		return nil, err
	}

	sink := b.auditSink
	if b.config.Audit.Enabled && sink == nil {
		sink = NewLoggerSink(nil, nil)
	}

	store := session.NewStore(b.redis)

	engine := &Engine{
		config:       b.config,
		sessionStore: store,
		lockout: limiters.NewLockoutLimiter(b.redis, limiters.LockoutConfig{
			Threshold: b.config.Lockout.MaxAttempts,
			Window:    b.config.Lockout.Window,
		}),
		issuer:       issuer,
		passwordHash: hasher,
		credentials:  b.credentials,
		audit:        newAuditDispatcher(b.config.Audit, sink),
		metrics:      NewMetrics(b.config.Metrics),
		validator:    newRefreshValidator(store, b.credentials),
	}

	b.built = true
	return engine, nil
}
