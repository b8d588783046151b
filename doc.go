// Package authcore is the identity and session security core of the
// hirestack platform: credential verification, dual-token (access/refresh)
// issuance, refresh-token rotation and revocation, brute-force lockout, and
// security audit logging.
//
// The package is a library, not a service. HTTP routing, persistence of user
// records, and observability endpoints live with the caller; authcore
// consumes a [CredentialStore] you implement and a Redis client for its
// transient state, and exposes four operations through [Engine]: Signup,
// Login, Refresh, and Logout.
//
// Construct an engine with the [Builder]:
//
//	engine, err := authcore.New().
//		WithRedis(redisClient).
//		WithCredentialStore(store).
//		WithConfig(cfg).
//		Build()
//
// All shared mutable state (session values, blacklist entries, lockout
// counters) lives in Redis and is manipulated only through per-key atomic
// operations, so the engine itself holds no locks and every method is safe
// for concurrent use.
package authcore
