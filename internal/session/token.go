package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signToken(s Session, secret []byte) (string, error) {
	claims := jwt.RegisteredClaims{
		ID:        s.ID,
		Subject:   s.UserID,
		IssuedAt:  jwt.NewNumericDate(s.CreatedAt),
		ExpiresAt: jwt.NewNumericDate(s.ExpiresAt),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// sessionIDFromToken verifies the cookie token and returns the session id it
// carries in jti.
func sessionIDFromToken(tokenStr string, secret []byte) (string, error) {
	var claims jwt.RegisteredClaims
	tkn, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected sign method")
		}
		return secret, nil
	}, jwt.WithLeeway(5*time.Second))
	if err != nil {
		return "", err
	}
	if !tkn.Valid || claims.ID == "" {
		return "", errors.New("invalid session token")
	}
	return claims.ID, nil
}
