package authcore

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrEmailExists is returned by Signup when the email is already registered.
	ErrEmailExists = errors.New("email already exists")
	// ErrInvalidCredentials covers unknown email, soft-deleted identity, and
	// wrong password with one uniform message, so a caller cannot enumerate
	// accounts by distinguishing the sub-cases.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAccountLocked is the match target for lockout failures; the concrete
	// value returned is a [*LockedError] carrying the remaining time.
	ErrAccountLocked = errors.New("account locked")
	// ErrUnauthorized is the single error surfaced for every refresh or
	// access-token validation failure. The internal distinction (missing,
	// mismatched, revoked) is kept only for audit detail, never leaked.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrEngineNotReady is returned when an Engine method is called on an
	// engine missing a required dependency.
	ErrEngineNotReady = errors.New("engine not initialized")
	// ErrIdentityNotFound is returned by operations addressed to a user id
	// that does not resolve to a live identity.
	ErrIdentityNotFound = errors.New("identity not found")
	// ErrPasswordMismatch is returned by ChangePassword when the old password
	// does not verify.
	ErrPasswordMismatch = errors.New("current password does not match")

	// Internal refresh-validation reasons. Collapsed to ErrUnauthorized at
	// the engine boundary; exported so audit consumers and tests can name them.

	// ErrMissingToken indicates no refresh token was presented.
	ErrMissingToken = errors.New("refresh token not found")
	// ErrTokenMismatch indicates the presented refresh token does not match
	// the stored session value. Any superseded token fails here.
	ErrTokenMismatch = errors.New("invalid refresh token")
	// ErrTokenRevoked indicates the refresh token's ID is blacklisted.
	ErrTokenRevoked = errors.New("token has been revoked")
)

// LockedError reports an account lockout together with the remaining lockout
// duration. errors.Is(err, ErrAccountLocked) matches it.
type LockedError struct {
	Remaining time.Duration
}

func (e *LockedError) Error() string {
	return fmt.Sprintf("account locked, try again in %d minutes", e.RemainingMinutes())
}

func (e *LockedError) Is(target error) bool {
	return target == ErrAccountLocked
}

// RemainingMinutes returns the remaining lockout time in whole minutes,
// rounded up so the caller never under-promises.
func (e *LockedError) RemainingMinutes() int {
	minutes := int((e.Remaining + time.Minute - 1) / time.Minute)
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}
