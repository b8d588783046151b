package authcore

import (
	"context"
	"time"
)

// Identity is a user record as owned by the credential store. Read-only from
// this package's perspective except at signup. PasswordHash never crosses
// the public API boundary; see [UserInfo].
type Identity struct {
	ID           string
	Email        string
	FullName     string
	Role         string
	PasswordHash string
	CreatedAt    time.Time
	DeletedAt    *time.Time
}

// Deleted reports whether the identity has been soft-deleted elsewhere.
// Soft-deleted identities behave exactly like absent ones.
func (i *Identity) Deleted() bool {
	return i != nil && i.DeletedAt != nil
}

// UserInfo is the public projection of an [Identity], safe to return to
// callers: no password hash, no deletion marker.
type UserInfo struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"fullName"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

func (i *Identity) userInfo() UserInfo {
	return UserInfo{
		ID:        i.ID,
		Email:     i.Email,
		FullName:  i.FullName,
		Role:      i.Role,
		CreatedAt: i.CreatedAt,
	}
}

// TokenPair is the result of one token issuance.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// SignupRequest carries the fields needed to register an identity.
type SignupRequest struct {
	Email    string
	Password string
	FullName string
	Role     string
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	Tokens TokenPair
	User   UserInfo
}

// CreateIdentityInput is passed to [CredentialStore.Create]. The password
// arrives already hashed; the store never sees plaintext.
type CreateIdentityInput struct {
	Email        string
	PasswordHash string
	FullName     string
	Role         string
}

// CredentialStore is the interface callers implement to connect authcore to
// their user database. Lookups return (nil, nil) for an absent identity;
// errors are reserved for infrastructure failures, which the engine
// propagates unchanged so "not allowed" stays distinct from "unavailable".
type CredentialStore interface {
	FindByEmail(ctx context.Context, email string) (*Identity, error)
	FindByID(ctx context.Context, id string) (*Identity, error)
	Create(ctx context.Context, input CreateIdentityInput) (*Identity, error)
	UpdatePasswordHash(ctx context.Context, id, passwordHash string) error
}
