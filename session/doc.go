// Package session provides the Redis-backed key-value store that holds the
// transient security state of the engine: refresh-token sessions, the
// revocation blacklist, and login-attempt counters. Every operation is atomic
// at single-key granularity; the engine never needs multi-key transactions.
package session
