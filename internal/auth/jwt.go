package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"gastos/internal/core"
)

var ErrInvalidToken = errors.New("invalid session token")

// SessionClaims carries the signed-in user alongside the registered claims.
type SessionClaims struct {
	jwt.RegisteredClaims
	Name     string `json:"name"`
	Username string `json:"username"`
}

// GenerateSessionToken issues an HS256 token for the user, valid for ttl.
func GenerateSessionToken(user core.SessionUser, secret []byte, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		Name:     user.Name,
		Username: user.Username,
	})

	return token.SignedString(secret)
}

// VerifySessionToken parses and validates a token and returns the embedded
// user. Expired, tampered or otherwise invalid tokens yield ErrInvalidToken.
func VerifySessionToken(tokenString string, secret []byte) (core.SessionUser, error) {
	claims := &SessionClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return secret, nil
	})
	if err != nil {
		return core.SessionUser{}, ErrInvalidToken
	}
	if !token.Valid || claims.Name == "" || claims.Username == "" {
		return core.SessionUser{}, ErrInvalidToken
	}

	return core.SessionUser{Name: claims.Name, Username: claims.Username}, nil
}
