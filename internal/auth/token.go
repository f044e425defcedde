// Package auth issues and verifies the bearer tokens that identify family
// members. Identity travels as a signed HS256 JWT; the verified claims are
// turned into a shared.Actor for the rest of the application.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/familia-ledger/internal/domain/shared"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrEmptySecret  = errors.New("jwt secret cannot be empty")
)

// Claims is the JWT payload carried by every authenticated request
type Claims struct {
	Username string `json:"username"`
	FullName string `json:"full_name,omitempty"`
	Email    string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies actor tokens with a shared HS256 secret
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenManager(secret string, ttl time.Duration) (*TokenManager, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl}, nil
}

// Issue signs a token for the given actor
func (m *TokenManager) Issue(actor shared.Actor) (string, error) {
	now := time.Now()
	claims := &Claims{
		Username: actor.Username,
		FullName: actor.FullName,
		Email:    actor.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actor.ID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Verify parses and validates a token string and rebuilds the actor it
// identifies. The display name prefers the full name and falls back to the
// username.
func (m *TokenManager) Verify(tokenStr string) (shared.Actor, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	})
	if err != nil {
		return shared.Actor{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return shared.Actor{}, ErrInvalidToken
	}

	actorID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return shared.Actor{}, ErrInvalidToken
	}

	displayName := claims.FullName
	if displayName == "" {
		displayName = claims.Username
	}

	return shared.Actor{
		ID:          actorID,
		Email:       claims.Email,
		Username:    claims.Username,
		FullName:    claims.FullName,
		DisplayName: displayName,
	}, nil
}
