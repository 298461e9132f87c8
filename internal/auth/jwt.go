// Package auth issues and validates the JWT tokens that guard the
// event stream endpoint.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims carried by a client token.
type Claims struct {
	ClientID string `json:"client_id"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Auth signs and validates HS256 client tokens.
type Auth struct {
	secret []byte
	ttl    time.Duration
}

// New creates an Auth with the given signing secret. Tokens are valid
// for 24 hours.
func New(secret string) *Auth {
	return &Auth{
		secret: []byte(secret),
		ttl:    24 * time.Hour,
	}
}

// GenerateClientToken issues a token for a frontend client.
func (a *Auth) GenerateClientToken(clientID string) (string, error) {
	claims := &Claims{
		ClientID: clientID,
		Role:     "client",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(a.ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}

// ValidateToken parses and verifies a token, returning its claims.
func (a *Auth) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return a.secret, nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, jwt.ErrTokenInvalidClaims
}
