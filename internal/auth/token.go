package auth

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// ErrNoToken is returned when no usable token is stored.
var ErrNoToken = errors.New("no auth token")

// User is the account the backend issued the token for.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}

// Token is the persisted login result: {"token": ..., "user": {...}}.
type Token struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Valid reports whether t carries a non-blank bearer token.
func (t *Token) Valid() bool {
	return t != nil && strings.TrimSpace(t.Token) != ""
}

// Expired reports whether the token's JWT exp claim is at or before now.
// The signature is not checked; the backend does that. Tokens that are not
// JWTs, or carry no exp claim, never expire on the client side.
func Expired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !exp.After(now)
}
