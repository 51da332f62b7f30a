package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	defaultIssuer   = "taskdesk"
	defaultTokenTTL = 24 * time.Hour
)

// Claims are the verified identity claims carried by an access token.
// Authorization decisions downstream of token verification rely solely on
// these values, never on live user state, so a demoted or deactivated user
// keeps the embedded privileges until the token expires. Accepted staleness
// window, bounded by the TTL.
type Claims struct {
	Email          string `json:"email"`
	Role           Role   `json:"role"`
	OrganizationID string `json:"org"`
	jwt.RegisteredClaims
}

// UserID returns the subject claim.
func (c *Claims) UserID() string { return c.Subject }

// Tokens issues and verifies signed, self-contained access tokens. It holds
// only the signing secret and a clock; verification never touches the store.
type Tokens struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// TokenOption configures Tokens.
type TokenOption func(*Tokens)

// WithTTL overrides the default 24h token lifetime.
func WithTTL(ttl time.Duration) TokenOption {
	return func(t *Tokens) {
		if ttl > 0 {
			t.ttl = ttl
		}
	}
}

// WithIssuer overrides the issuer claim.
func WithIssuer(issuer string) TokenOption {
	return func(t *Tokens) {
		if issuer = strings.TrimSpace(issuer); issuer != "" {
			t.issuer = issuer
		}
	}
}

// WithClock overrides the time source (useful for tests).
func WithClock(fn func() time.Time) TokenOption {
	return func(t *Tokens) {
		if fn != nil {
			t.now = fn
		}
	}
}

// NewTokens constructs a token service around the process-wide signing secret.
func NewTokens(secret string, opts ...TokenOption) (*Tokens, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("auth: signing secret is required")
	}
	t := &Tokens{
		secret: []byte(secret),
		issuer: defaultIssuer,
		ttl:    defaultTokenTTL,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// Issue signs an HS256 token for the user and returns it with its expiry.
func (t *Tokens) Issue(user *User) (string, time.Time, error) {
	if user == nil || strings.TrimSpace(user.ID) == "" {
		return "", time.Time{}, errors.New("auth: user id is required")
	}
	if _, err := ParseRole(string(user.Role)); err != nil {
		return "", time.Time{}, err
	}

	now := t.now().UTC()
	expiresAt := now.Add(t.ttl)
	claims := Claims{
		Email:          user.Email,
		Role:           user.Role,
		OrganizationID: user.OrganizationID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.issuer,
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Verify checks the signature and registered claims and returns the decoded
// identity. Malformed tokens, bad signatures, expired tokens and unknown role
// values all fail with ErrInvalidToken.
func (t *Tokens) Verify(token string) (*Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrInvalidToken
	}

	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(tok *jwt.Token) (any, error) {
		if tok.Method != jwt.SigningMethodHS256 {
			return nil, ErrInvalidToken
		}
		return t.secret, nil
	},
		jwt.WithTimeFunc(t.now),
		jwt.WithIssuer(t.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return nil, ErrInvalidToken
	}
	role, err := ParseRole(string(claims.Role))
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims.Role = role
	return claims, nil
}
