// Package limiters contains the Redis-backed counters that gate abusive
// request patterns before any credential work happens.
package limiters
