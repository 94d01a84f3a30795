package gapsession

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenError is returned when a session token cannot be issued or verified.
type TokenError struct {
	Message string
	Cause   error
}

func (e *TokenError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("gapsession: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("gapsession: %s", e.Message)
}

func (e *TokenError) Unwrap() error {
	return e.Cause
}

type sessionClaims struct {
	Session *Session `json:"ses"`
	jwt.RegisteredClaims
}

// EncodeToken signs the session into a compact token the client carries
// between requests.
func EncodeToken(s *Session, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		Session: s,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        s.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", &TokenError{Message: "failed to sign session token", Cause: err}
	}
	return signed, nil
}

// DecodeToken verifies the token signature and expiry and returns the
// session it carries.
func DecodeToken(tokenString string, secret []byte) (*Session, error) {
	var claims sessionClaims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return secret, nil
	})
	if err != nil {
		return nil, &TokenError{Message: "failed to verify session token", Cause: err}
	}
	if claims.Session == nil {
		return nil, &TokenError{Message: "token carries no session"}
	}
	return claims.Session, nil
}
