// Package auth issues and verifies the bearer tokens used by the API.
// Tokens are HS256 JWTs whose subject is the user's UUID and which carry the
// user's role as a custom claim.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/trentd187/volleyball-club/internal/models"
)

// Claims defines the data inside a token payload.
type Claims struct {
	jwt.RegisteredClaims                 // Subject = user id, plus expiry and issue time
	Role                 models.UserRole `json:"role"`
}

// ErrInvalidToken is returned for any token that fails parsing, signature, or expiry checks.
var ErrInvalidToken = errors.New("invalid token")

// Tokens signs and verifies tokens with a shared secret.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	clock  clockwork.Clock
}

// NewTokens builds a token service. clock drives issue and expiry times so tests
// can move time forward.
func NewTokens(secret string, ttl time.Duration, clock clockwork.Clock) *Tokens {
	return &Tokens{secret: []byte(secret), ttl: ttl, clock: clock}
}

// Issue creates a signed token for user.
func (t *Tokens) Issue(user models.User) (string, time.Time, error) {
	now := t.clock.Now()
	expires := now.Add(t.ttl)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
		Role: user.Role,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expires, nil
}

// Verify checks the signature and expiry of raw and returns the user id it names.
func (t *Tokens) Verify(raw string) (uuid.UUID, *Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(t.clock.Now),
		jwt.WithExpirationRequired(),
	)
	claims := &Claims{}
	_, err := parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return t.secret, nil
	})
	if err != nil {
		return uuid.Nil, nil, ErrInvalidToken
	}
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, nil, ErrInvalidToken
	}
	return id, claims, nil
}
