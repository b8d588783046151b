package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Configuration errors are fatal: they surface once at construction, before
// any request is served, never per-request.
var (
	ErrNoAccessSecret  = errors.New("access token secret not configured")
	ErrNoRefreshSecret = errors.New("refresh token secret not configured")
	ErrInvalidTTL      = errors.New("invalid token TTL configuration")
)

// Config holds the signing material and lifetimes for both token kinds.
type Config struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Issuer        string
	Leeway        time.Duration
}

// AccessClaims is the decoded payload of an access token. Verified purely by
// signature; never stored server-side.
type AccessClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// RefreshClaims is the decoded payload of a refresh token. TokenID is a
// fresh random identifier per issuance and is the unit of revocation: the
// token string changes on every rotation, the ID stays usable as a
// blacklist key even after the string is gone.
type RefreshClaims struct {
	Email   string `json:"email"`
	Role    string `json:"role"`
	TokenID string `json:"tokenId"`
	jwt.RegisteredClaims
}

// Pair is one issuance: the two signed strings plus the refresh TokenID.
type Pair struct {
	AccessToken  string
	RefreshToken string
	TokenID      string
}

// Issuer mints access/refresh pairs and verifies presented tokens. Immutable
// after construction; safe for concurrent use.
type Issuer struct {
	config Config
}

// NewIssuer validates cfg and returns an [Issuer]. Absence of either secret
// is a configuration error, not a runtime condition.
func NewIssuer(cfg Config) (*Issuer, error) {
	if len(cfg.AccessSecret) == 0 {
		return nil, ErrNoAccessSecret
	}
	if len(cfg.RefreshSecret) == 0 {
		return nil, ErrNoRefreshSecret
	}
	if cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0 {
		return nil, ErrInvalidTTL
	}
	if cfg.Leeway < 0 || cfg.Leeway > 2*time.Minute {
		return nil, errors.New("invalid leeway configuration")
	}
	return &Issuer{config: cfg}, nil
}

// RefreshTTL returns the configured refresh lifetime. Session and blacklist
// TTLs are derived from it so revocation outlives the token it revokes.
func (i *Issuer) RefreshTTL() time.Duration {
	return i.config.RefreshTTL
}

// IssueTokens mints a new pair for the given identity. The two signatures
// have no ordering dependency and are computed concurrently.
func (i *Issuer) IssueTokens(userID, email, role string) (Pair, error) {
	now := time.Now()
	pair := Pair{TokenID: uuid.NewString()}

	access := AccessClaims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    i.config.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.config.AccessTTL)),
		},
	}
	refresh := RefreshClaims{
		Email:   email,
		Role:    role,
		TokenID: pair.TokenID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    i.config.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.config.RefreshTTL)),
		},
	}

	var g errgroup.Group
	g.Go(func() error {
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, access).SignedString(i.config.AccessSecret)
		if err != nil {
			return err
		}
		pair.AccessToken = signed
		return nil
	})
	g.Go(func() error {
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, refresh).SignedString(i.config.RefreshSecret)
		if err != nil {
			return err
		}
		pair.RefreshToken = signed
		return nil
	})
	if err := g.Wait(); err != nil {
		return Pair{}, err
	}

	return pair, nil
}

// ParseAccess verifies an access token against the access secret and returns
// its claims.
func (i *Issuer) ParseAccess(tokenStr string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if err := i.parse(tokenStr, claims, i.config.AccessSecret); err != nil {
		return nil, err
	}
	return claims, nil
}

// ParseRefresh verifies a refresh token against the refresh secret and
// returns its claims. Signature validity alone does not make the token
// usable; the caller still checks the session store and blacklist.
func (i *Issuer) ParseRefresh(tokenStr string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	if err := i.parse(tokenStr, claims, i.config.RefreshSecret); err != nil {
		return nil, err
	}
	return claims, nil
}

func (i *Issuer) parse(tokenStr string, claims jwt.Claims, secret []byte) error {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	}
	if i.config.Leeway > 0 {
		options = append(options, jwt.WithLeeway(i.config.Leeway))
	}
	if i.config.Issuer != "" {
		options = append(options, jwt.WithIssuer(i.config.Issuer))
	}

	parsed, err := jwt.NewParser(options...).ParseWithClaims(tokenStr, claims, func(*jwt.Token) (interface{}, error) {
		return secret, nil
	})
	if err != nil {
		return err
	}
	if !parsed.Valid {
		return jwt.ErrTokenInvalidClaims
	}
	return nil
}
